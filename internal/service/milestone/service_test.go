package milestone

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agencydesk/internal/model"
)

type fakeProjectStore struct {
	project *model.Project
	err     error
}

func (f *fakeProjectStore) FindWithMilestones(_ context.Context, _ int) (*model.Project, error) {
	return f.project, f.err
}

type fakeMilestoneStore struct {
	quoteID   int
	err       error
	gotQuote  *model.Quote
	gotPos    int
	gotProjID int
}

func (f *fakeMilestoneStore) Complete(_ context.Context, projectID, position int, _ time.Time, quote *model.Quote) (int, error) {
	f.gotProjID = projectID
	f.gotPos = position
	f.gotQuote = quote
	return f.quoteID, f.err
}

func testProject() *model.Project {
	return &model.Project{
		ID:         7,
		ClientID:   3,
		TotalPrice: 1000,
		Milestones: []model.Milestone{
			{Position: 0, Label: "Discovery"},
			{Position: 1, Label: "Design"},
			{Position: 2, Label: "Development", Completed: true},
			{Position: 3, Label: "Launch"},
		},
	}
}

func TestCompleteCreatesQuote(t *testing.T) {
	projects := &fakeProjectStore{project: testProject()}
	milestones := &fakeMilestoneStore{quoteID: 42}
	svc := NewService(projects, milestones, EvenSplit, zap.NewNop())

	quoteID, err := svc.Complete(context.Background(), 7, 1)

	require.NoError(t, err)
	assert.Equal(t, 42, quoteID)
	assert.Equal(t, 7, milestones.gotProjID)
	assert.Equal(t, 1, milestones.gotPos)
	require.NotNil(t, milestones.gotQuote)
	assert.Equal(t, "Payment for Milestone: Design", milestones.gotQuote.Subject)
	assert.Equal(t, 250.0, milestones.gotQuote.Amount)
	assert.Equal(t, model.QuoteStatusPending, milestones.gotQuote.Status)
	assert.Equal(t, 7, milestones.gotQuote.ProjectID)
	assert.Equal(t, 3, milestones.gotQuote.ClientID)
}

func TestCompleteUnknownPosition(t *testing.T) {
	svc := NewService(&fakeProjectStore{project: testProject()}, &fakeMilestoneStore{}, EvenSplit, zap.NewNop())

	_, err := svc.Complete(context.Background(), 7, 9)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.Complete(context.Background(), 7, -1)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCompleteAlreadyCompleted(t *testing.T) {
	svc := NewService(&fakeProjectStore{project: testProject()}, &fakeMilestoneStore{}, EvenSplit, zap.NewNop())

	_, err := svc.Complete(context.Background(), 7, 2)
	assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
}

func TestCompleteUnknownProject(t *testing.T) {
	svc := NewService(&fakeProjectStore{err: model.ErrNotFound}, &fakeMilestoneStore{}, EvenSplit, zap.NewNop())

	_, err := svc.Complete(context.Background(), 99, 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCompleteStoreError(t *testing.T) {
	storeErr := errors.New("tx failed")
	svc := NewService(&fakeProjectStore{project: testProject()}, &fakeMilestoneStore{err: storeErr}, EvenSplit, zap.NewNop())

	_, err := svc.Complete(context.Background(), 7, 0)
	assert.ErrorIs(t, err, storeErr)
}
