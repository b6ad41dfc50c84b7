package webhook

import (
	"fmt"
	"net/http"

	"agencydesk/internal/service/inbound"
)

// Adapter normalizes one provider's inbound-email wire format.
type Adapter interface {
	Provider() string
	Parse(r *http.Request) (*inbound.Email, error)
}

var adapters = map[string]Adapter{
	"resend":   resendAdapter{},
	"mailjet":  mailjetAdapter{},
	"sendgrid": sendgridAdapter{},
}

// Select returns the adapter for a provider path segment.
func Select(provider string) (Adapter, error) {
	a, ok := adapters[provider]
	if !ok {
		return nil, fmt.Errorf("unknown inbound provider %q", provider)
	}
	return a, nil
}
