package webhook

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"agencydesk/internal/service/inbound"
)

// sendgridAdapter parses SendGrid Inbound Parse posts, which arrive as
// multipart form data with attachment files and an attachment-info JSON map.
type sendgridAdapter struct{}

const sendgridMaxMemory = 16 << 20 // 16 MiB before spooling to disk

func (sendgridAdapter) Provider() string { return "sendgrid" }

func (sendgridAdapter) Parse(r *http.Request) (*inbound.Email, error) {
	if err := r.ParseMultipartForm(sendgridMaxMemory); err != nil {
		return nil, fmt.Errorf("failed to parse sendgrid form: %w", err)
	}

	email := &inbound.Email{
		ProviderEventID: r.FormValue("envelope_id"),
		From:            r.FormValue("from"),
		Subject:         r.FormValue("subject"),
		Text:            r.FormValue("text"),
		HTML:            r.FormValue("html"),
	}

	// attachment-info maps form field names ("attachment1", ...) to metadata.
	var info map[string]struct {
		Filename    string `json:"filename"`
		ContentType string `json:"type"`
	}
	if raw := r.FormValue("attachment-info"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &info); err != nil {
			return nil, fmt.Errorf("failed to decode attachment-info: %w", err)
		}
	}

	if r.MultipartForm != nil {
		for field, meta := range info {
			headers, ok := r.MultipartForm.File[field]
			if !ok || len(headers) == 0 {
				continue
			}
			f, err := headers[0].Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open attachment %s: %w", field, err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read attachment %s: %w", field, err)
			}
			email.Attachments = append(email.Attachments, inbound.Attachment{
				Filename:    meta.Filename,
				ContentType: meta.ContentType,
				Content:     base64.StdEncoding.EncodeToString(data),
			})
		}
	}

	return email, nil
}
