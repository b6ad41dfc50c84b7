package inbound

import (
	"fmt"
	"net/mail"
	"strings"
)

// Email is the provider-neutral shape of an inbound message. Webhook
// adapters normalize each provider's wire format into this.
type Email struct {
	ProviderEventID string
	From            string // raw header value, may carry a display name
	Subject         string
	Text            string
	HTML            string
	Attachments     []Attachment
}

// Attachment carries either a provider-hosted URL to fetch or inline
// base64 content, never both.
type Attachment struct {
	Filename    string
	ContentType string
	URL         string
	Content     string // base64
}

// NormalizeAddress reduces a From header to a bare lowercase address:
// "John Doe <john@Example.COM>" -> ("john@example.com", "John Doe").
func NormalizeAddress(raw string) (addr, name string, err error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("invalid sender address %q: %w", raw, err)
	}
	return strings.ToLower(strings.TrimSpace(parsed.Address)), strings.TrimSpace(parsed.Name), nil
}
