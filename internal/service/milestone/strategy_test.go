package milestone

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agencydesk/internal/model"
)

func TestEvenSplit(t *testing.T) {
	milestones := []model.Milestone{{}, {}, {}, {}}

	assert.Equal(t, 250.0, EvenSplit(1000, milestones, 0))
	assert.Equal(t, 250.0, EvenSplit(1000, milestones, 3))
	assert.Equal(t, 0.0, EvenSplit(1000, nil, 0))
}

func TestMilestonePrice(t *testing.T) {
	price := 400.0
	milestones := []model.Milestone{
		{Position: 0, Price: &price},
		{Position: 1},
	}

	assert.Equal(t, 400.0, MilestonePrice(1000, milestones, 0))
	// no per-milestone price falls back to even split
	assert.Equal(t, 500.0, MilestonePrice(1000, milestones, 1))
	assert.Equal(t, 500.0, MilestonePrice(1000, milestones, 5))
}

func TestStrategyByName(t *testing.T) {
	price := 42.0
	milestones := []model.Milestone{{Price: &price}, {}}

	assert.Equal(t, 42.0, StrategyByName("milestone_price")(100, milestones, 0))
	assert.Equal(t, 50.0, StrategyByName("even_split")(100, milestones, 0))
	assert.Equal(t, 50.0, StrategyByName("")(100, milestones, 0))
}
