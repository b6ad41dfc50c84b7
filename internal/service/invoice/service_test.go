package invoice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agencydesk/internal/mailer"
	"agencydesk/internal/model"
)

type fakeQuoteStore struct {
	quote *model.Quote
	err   error

	markedID      int
	invoiceNumber string
	sentMsg       *model.Message
	markErr       error
}

func (f *fakeQuoteStore) FindByID(_ context.Context, _ int) (*model.Quote, error) {
	return f.quote, f.err
}

func (f *fakeQuoteStore) MarkSent(_ context.Context, quoteID int, invoiceNumber string, _ time.Time, msg *model.Message) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedID = quoteID
	f.invoiceNumber = invoiceNumber
	f.sentMsg = msg
	return nil
}

type fakeProjectStore struct{ project *model.Project }

func (f *fakeProjectStore) FindByID(_ context.Context, _ int) (*model.Project, error) {
	return f.project, nil
}

type fakeClientStore struct{ client *model.Client }

func (f *fakeClientStore) FindByID(_ context.Context, _ int) (*model.Client, error) {
	return f.client, nil
}

type fakeMailer struct {
	providerID  string
	err         error
	sentTo      string
	sentSubject string
	attachments []mailer.Attachment
}

func (f *fakeMailer) Send(_ context.Context, to, subject, _ string, attachments ...mailer.Attachment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sentTo = to
	f.sentSubject = subject
	f.attachments = attachments
	return f.providerID, nil
}

type stubRenderer struct{ err error }

func (s stubRenderer) Render(_ Data) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.4"), nil
}

func pendingQuote() *model.Quote {
	return &model.Quote{
		ID:        4,
		Subject:   "Payment for Milestone: Design",
		Amount:    250,
		Status:    model.QuoteStatusPending,
		ProjectID: 7,
		ClientID:  3,
	}
}

func newTestService(quotes *fakeQuoteStore, m *fakeMailer) *Service {
	projects := &fakeProjectStore{project: &model.Project{ID: 7, Title: "Site redesign"}}
	clients := &fakeClientStore{client: &model.Client{ID: 3, Name: "Jo", Email: "jo@client.io"}}
	return NewService(quotes, projects, clients, stubRenderer{}, m, "studio@agency.dev", zap.NewNop())
}

func TestSendSuccess(t *testing.T) {
	quotes := &fakeQuoteStore{quote: pendingQuote()}
	m := &fakeMailer{providerID: "prov-123"}
	svc := newTestService(quotes, m)

	err := svc.Send(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, "jo@client.io", m.sentTo)
	assert.Equal(t, "Payment for Milestone: Design", m.sentSubject)
	require.Len(t, m.attachments, 1)
	assert.Equal(t, "application/pdf", m.attachments[0].ContentType)

	assert.Equal(t, 4, quotes.markedID)
	assert.True(t, strings.HasPrefix(quotes.invoiceNumber, "INV-"))
	assert.Equal(t, strings.ToUpper(quotes.invoiceNumber), quotes.invoiceNumber)
	require.NotNil(t, quotes.sentMsg)
	assert.Equal(t, "prov-123", quotes.sentMsg.ProviderID)
	assert.Equal(t, "studio@agency.dev", quotes.sentMsg.Sender)
	assert.Equal(t, 7, quotes.sentMsg.ProjectID)
}

func TestSendFailureLeavesQuotePending(t *testing.T) {
	quotes := &fakeQuoteStore{quote: pendingQuote()}
	m := &fakeMailer{err: errors.New("smtp refused")}
	svc := newTestService(quotes, m)

	err := svc.Send(context.Background(), 4)

	assert.Error(t, err)
	assert.Zero(t, quotes.markedID, "a failed send must not transition the quote")
}

func TestSendNonPendingQuote(t *testing.T) {
	q := pendingQuote()
	q.Status = model.QuoteStatusSent
	svc := newTestService(&fakeQuoteStore{quote: q}, &fakeMailer{})

	err := svc.Send(context.Background(), 4)
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestSendMissingRecipient(t *testing.T) {
	quotes := &fakeQuoteStore{quote: pendingQuote()}
	projects := &fakeProjectStore{project: &model.Project{ID: 7}}
	clients := &fakeClientStore{client: &model.Client{ID: 3, Name: "Jo"}}
	svc := NewService(quotes, projects, clients, stubRenderer{}, &fakeMailer{}, "studio@agency.dev", zap.NewNop())

	err := svc.Send(context.Background(), 4)
	assert.ErrorIs(t, err, model.ErrMissingRecipient)
}

func TestSendRenderFailure(t *testing.T) {
	quotes := &fakeQuoteStore{quote: pendingQuote()}
	projects := &fakeProjectStore{project: &model.Project{ID: 7}}
	clients := &fakeClientStore{client: &model.Client{ID: 3, Email: "jo@client.io"}}
	svc := NewService(quotes, projects, clients, stubRenderer{err: errors.New("render blew up")}, &fakeMailer{}, "studio@agency.dev", zap.NewNop())

	err := svc.Send(context.Background(), 4)
	assert.Error(t, err)
	assert.Zero(t, quotes.markedID)
}

func TestPDFRendererProducesOutput(t *testing.T) {
	out, err := PDFRenderer{}.Render(Data{
		InvoiceNumber: "INV-ABCD1234",
		Quote:         pendingQuote(),
		Project:       &model.Project{Title: "Site redesign"},
		Client:        &model.Client{Name: "Jo", Email: "jo@client.io"},
		IssuedAt:      time.Now(),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
