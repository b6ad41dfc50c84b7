package inquiry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agencydesk/internal/model"
)

type fakeStore struct {
	projectID     int
	err           error
	gotClient     *model.Client
	gotProject    *model.Project
	gotMilestones []model.Milestone
}

func (f *fakeStore) CreateInquiry(_ context.Context, client *model.Client, project *model.Project, milestones []model.Milestone) (int, error) {
	f.gotClient = client
	f.gotProject = project
	f.gotMilestones = milestones
	return f.projectID, f.err
}

func validRequest() *Request {
	return &Request{
		Name:        "Jo Client",
		Email:       "Jo@Client.IO",
		ServiceType: "web_design",
		Message:     "We need a new site.",
		TotalPrice:  4000,
	}
}

func TestCreate(t *testing.T) {
	store := &fakeStore{projectID: 12}
	svc := NewService(store, zap.NewNop())

	id, err := svc.Create(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 12, id)
	assert.Equal(t, "jo@client.io", store.gotClient.Email)
	assert.Equal(t, "inquiry", store.gotClient.Source)
	assert.Equal(t, model.PaymentModelMilestone, store.gotProject.PaymentModel)
	assert.Equal(t, 4000.0, store.gotProject.TotalPrice)
	assert.Len(t, store.gotMilestones, 4, "new inquiries get the default milestone template")
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&fakeStore{}, zap.NewNop())

	for name, mutate := range map[string]func(*Request){
		"missing name":         func(r *Request) { r.Name = " " },
		"missing service type": func(r *Request) { r.ServiceType = "" },
		"missing message":      func(r *Request) { r.Message = "" },
		"bad email":            func(r *Request) { r.Email = "nope" },
	} {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(req)
			_, err := svc.Create(context.Background(), req)
			assert.Error(t, err)
		})
	}
}
