package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed []bool
		want      int
	}{
		{"no milestones", nil, 0},
		{"none completed", []bool{false, false, false, false}, 0},
		{"one of four", []bool{true, false, false, false}, 25},
		{"one of three rounds", []bool{true, false, false}, 33},
		{"two of three rounds", []bool{true, true, false}, 67},
		{"all completed", []bool{true, true, true, true}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var milestones []Milestone
			for _, c := range tt.completed {
				milestones = append(milestones, Milestone{Completed: c})
			}
			assert.Equal(t, tt.want, ComputeProgress(milestones))
		})
	}
}

func TestDefaultMilestones(t *testing.T) {
	milestones := DefaultMilestones()

	assert.Len(t, milestones, 4)
	assert.Equal(t, "Discovery", milestones[0].Label)
	assert.Equal(t, "Launch", milestones[3].Label)
	for i, m := range milestones {
		assert.Equal(t, i, m.Position)
		assert.False(t, m.Completed)
	}
}
