package thread

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agencydesk/internal/mailer"
	"agencydesk/internal/model"
)

type fakeProjects struct{ project *model.Project }

func (f *fakeProjects) FindByID(_ context.Context, _ int) (*model.Project, error) {
	if f.project == nil {
		return nil, model.ErrNotFound
	}
	return f.project, nil
}

type fakeClients struct{ client *model.Client }

func (f *fakeClients) FindByID(_ context.Context, _ int) (*model.Client, error) {
	return f.client, nil
}

type fakeMessages struct {
	appended *model.Message
}

func (f *fakeMessages) AppendOutbound(_ context.Context, msg *model.Message) (int, error) {
	f.appended = msg
	return 21, nil
}

type fakeMailer struct {
	providerID string
	err        error
	sentTo     string
}

func (f *fakeMailer) Send(_ context.Context, to, _, _ string, _ ...mailer.Attachment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sentTo = to
	return f.providerID, nil
}

func TestSendOutbound(t *testing.T) {
	projects := &fakeProjects{project: &model.Project{ID: 7, ClientID: 3}}
	clients := &fakeClients{client: &model.Client{ID: 3, Email: "jo@client.io"}}
	messages := &fakeMessages{}
	m := &fakeMailer{providerID: "prov-9"}
	svc := NewService(projects, clients, messages, m, "studio@agency.dev", zap.NewNop())

	id, err := svc.SendOutbound(context.Background(), 7, "Update", "Work is on track.")

	require.NoError(t, err)
	assert.Equal(t, 21, id)
	assert.Equal(t, "jo@client.io", m.sentTo)
	require.NotNil(t, messages.appended)
	assert.Equal(t, "prov-9", messages.appended.ProviderID)
	assert.Equal(t, "studio@agency.dev", messages.appended.Sender)
	assert.Equal(t, 7, messages.appended.ProjectID)
}

func TestSendOutboundMissingRecipient(t *testing.T) {
	projects := &fakeProjects{project: &model.Project{ID: 7, ClientID: 3}}
	clients := &fakeClients{client: &model.Client{ID: 3}}
	svc := NewService(projects, clients, &fakeMessages{}, &fakeMailer{}, "studio@agency.dev", zap.NewNop())

	_, err := svc.SendOutbound(context.Background(), 7, "Update", "body")
	assert.ErrorIs(t, err, model.ErrMissingRecipient)
}

func TestSendOutboundMailFailureNotRecorded(t *testing.T) {
	projects := &fakeProjects{project: &model.Project{ID: 7, ClientID: 3}}
	clients := &fakeClients{client: &model.Client{ID: 3, Email: "jo@client.io"}}
	messages := &fakeMessages{}
	svc := NewService(projects, clients, messages, &fakeMailer{err: errors.New("smtp down")}, "studio@agency.dev", zap.NewNop())

	_, err := svc.SendOutbound(context.Background(), 7, "Update", "body")

	assert.Error(t, err)
	assert.Nil(t, messages.appended, "unconfirmed sends must not be recorded")
}

func TestSendOutboundUnknownProject(t *testing.T) {
	svc := NewService(&fakeProjects{}, &fakeClients{}, &fakeMessages{}, &fakeMailer{}, "studio@agency.dev", zap.NewNop())

	_, err := svc.SendOutbound(context.Background(), 99, "Update", "body")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
