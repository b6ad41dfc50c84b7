package webhook

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"agencydesk/internal/service/inbound"
)

// mailjetAdapter parses Mailjet Parse API payloads. Attachment bytes arrive
// inline as base64.
type mailjetAdapter struct{}

type mailjetPayload struct {
	MessageID int64  `json:"MessageID"`
	From      string `json:"From"`
	Subject   string `json:"Subject"`
	TextPart  string `json:"Text-part"`
	HTMLPart  string `json:"Html-part"`
	Parts     []struct {
		Filename    string `json:"Filename"`
		ContentType string `json:"ContentType"`
		Content     string `json:"Content"`
	} `json:"Parts"`
}

func (mailjetAdapter) Provider() string { return "mailjet" }

func (mailjetAdapter) Parse(r *http.Request) (*inbound.Email, error) {
	var p mailjetPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode mailjet payload: %w", err)
	}

	email := &inbound.Email{
		ProviderEventID: strconv.FormatInt(p.MessageID, 10),
		From:            p.From,
		Subject:         p.Subject,
		Text:            p.TextPart,
		HTML:            p.HTMLPart,
	}
	for _, part := range p.Parts {
		if part.Filename == "" {
			continue
		}
		email.Attachments = append(email.Attachments, inbound.Attachment{
			Filename:    part.Filename,
			ContentType: part.ContentType,
			Content:     part.Content,
		})
	}
	return email, nil
}
