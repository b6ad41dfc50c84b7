package webhook

import (
	"encoding/json"
	"fmt"
	"net/http"

	"agencydesk/internal/service/inbound"
)

// resendAdapter parses Resend "email.received" webhook payloads. Attachments
// arrive as provider-hosted URLs.
type resendAdapter struct{}

type resendPayload struct {
	Type string `json:"type"`
	Data struct {
		EmailID     string `json:"email_id"`
		From        string `json:"from"`
		Subject     string `json:"subject"`
		Text        string `json:"text"`
		HTML        string `json:"html"`
		Attachments []struct {
			Filename    string `json:"filename"`
			ContentType string `json:"content_type"`
			URL         string `json:"url"`
		} `json:"attachments"`
	} `json:"data"`
}

func (resendAdapter) Provider() string { return "resend" }

func (resendAdapter) Parse(r *http.Request) (*inbound.Email, error) {
	var p resendPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode resend payload: %w", err)
	}
	if p.Type != "email.received" {
		return nil, fmt.Errorf("unexpected resend event type %q", p.Type)
	}

	email := &inbound.Email{
		ProviderEventID: p.Data.EmailID,
		From:            p.Data.From,
		Subject:         p.Data.Subject,
		Text:            p.Data.Text,
		HTML:            p.Data.HTML,
	}
	for _, a := range p.Data.Attachments {
		email.Attachments = append(email.Attachments, inbound.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			URL:         a.URL,
		})
	}
	return email, nil
}
