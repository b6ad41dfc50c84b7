package webhook

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencydesk/internal/model"
)

func TestSelect(t *testing.T) {
	for _, provider := range []string{"resend", "mailjet", "sendgrid"} {
		a, err := Select(provider)
		require.NoError(t, err)
		assert.Equal(t, provider, a.Provider())
	}

	_, err := Select("pigeon")
	assert.Error(t, err)
}

func TestResendParse(t *testing.T) {
	body := `{
		"type": "email.received",
		"data": {
			"email_id": "evt-42",
			"from": "Jo <jo@client.io>",
			"subject": "Re: design",
			"text": "looks good",
			"html": "<p>looks good</p>",
			"attachments": [
				{"filename": "brief.pdf", "content_type": "application/pdf", "url": "https://resend.dev/att/1"}
			]
		}
	}`
	r := httptest.NewRequest("POST", "/webhooks/inbound/resend", strings.NewReader(body))

	email, err := resendAdapter{}.Parse(r)

	require.NoError(t, err)
	assert.Equal(t, "evt-42", email.ProviderEventID)
	assert.Equal(t, "Jo <jo@client.io>", email.From)
	assert.Equal(t, "Re: design", email.Subject)
	assert.Equal(t, "looks good", email.Text)
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "https://resend.dev/att/1", email.Attachments[0].URL)
	assert.Empty(t, email.Attachments[0].Content)
}

func TestResendParseRejectsOtherEventTypes(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"type":"email.sent","data":{}}`))

	_, err := resendAdapter{}.Parse(r)
	assert.Error(t, err)
}

func TestMailjetParse(t *testing.T) {
	body := `{
		"MessageID": 987654,
		"From": "Jo <jo@client.io>",
		"Subject": "New logo",
		"Text-part": "attached",
		"Html-part": "<p>attached</p>",
		"Parts": [
			{"Filename": "logo.png", "ContentType": "image/png", "Content": "aGVsbG8="},
			{"Filename": "", "ContentType": "text/plain", "Content": "Ym9keQ=="}
		]
	}`
	r := httptest.NewRequest("POST", "/webhooks/inbound/mailjet", strings.NewReader(body))

	email, err := mailjetAdapter{}.Parse(r)

	require.NoError(t, err)
	assert.Equal(t, "987654", email.ProviderEventID)
	assert.Equal(t, "attached", email.Text)
	require.Len(t, email.Attachments, 1, "unnamed body parts are not attachments")
	assert.Equal(t, "logo.png", email.Attachments[0].Filename)
	assert.Equal(t, "aGVsbG8=", email.Attachments[0].Content)
}

func TestSendgridParse(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("envelope_id", "sg-77")
	_ = w.WriteField("from", "Jo <jo@client.io>")
	_ = w.WriteField("subject", "Files")
	_ = w.WriteField("text", "see attached")
	_ = w.WriteField("attachment-info", `{"attachment1":{"filename":"notes.txt","type":"text/plain"}}`)
	fw, err := w.CreateFormFile("attachment1", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("hello notes"))
	require.NoError(t, w.Close())

	r := httptest.NewRequest("POST", "/webhooks/inbound/sendgrid", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())

	email, err := sendgridAdapter{}.Parse(r)

	require.NoError(t, err)
	assert.Equal(t, "sg-77", email.ProviderEventID)
	assert.Equal(t, "see attached", email.Text)
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "notes.txt", email.Attachments[0].Filename)

	decoded, err := base64.StdEncoding.DecodeString(email.Attachments[0].Content)
	require.NoError(t, err)
	assert.Equal(t, "hello notes", string(decoded))
}

func TestParseDelivery(t *testing.T) {
	r := httptest.NewRequest("POST", "/webhooks/delivery",
		strings.NewReader(`{"type":"email.bounced","data":{"email_id":"prov-5"}}`))

	event, err := ParseDelivery(r)

	require.NoError(t, err)
	assert.Equal(t, "prov-5", event.ProviderID)
	assert.Equal(t, model.DeliveryBounced, event.Status)
}

func TestParseDeliveryUnknownType(t *testing.T) {
	r := httptest.NewRequest("POST", "/webhooks/delivery",
		strings.NewReader(`{"type":"email.scheduled","data":{"email_id":"prov-5"}}`))

	_, err := ParseDelivery(r)
	assert.Error(t, err)
}

func TestParseDeliveryMissingID(t *testing.T) {
	r := httptest.NewRequest("POST", "/webhooks/delivery",
		strings.NewReader(`{"type":"email.sent","data":{}}`))

	_, err := ParseDelivery(r)
	assert.Error(t, err)
}
