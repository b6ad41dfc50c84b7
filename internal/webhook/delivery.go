package webhook

import (
	"encoding/json"
	"fmt"
	"net/http"

	"agencydesk/internal/model"
)

// DeliveryEvent is a normalized delivery-status update for an outbound message.
type DeliveryEvent struct {
	ProviderID string
	Status     string
}

type deliveryPayload struct {
	Type string `json:"type"`
	Data struct {
		EmailID string `json:"email_id"`
	} `json:"data"`
}

var deliveryStatuses = map[string]string{
	"email.sent":      model.DeliverySent,
	"email.delivered": model.DeliveryDelivered,
	"email.bounced":   model.DeliveryBounced,
	"email.opened":    model.DeliveryOpened,
}

// ParseDelivery decodes a delivery-status webhook event. Unknown event types
// return an error so the handler can acknowledge and ignore them.
func ParseDelivery(r *http.Request) (*DeliveryEvent, error) {
	var p deliveryPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode delivery payload: %w", err)
	}

	status, ok := deliveryStatuses[p.Type]
	if !ok {
		return nil, fmt.Errorf("unhandled delivery event type %q", p.Type)
	}
	if p.Data.EmailID == "" {
		return nil, fmt.Errorf("delivery event missing email_id")
	}

	return &DeliveryEvent{ProviderID: p.Data.EmailID, Status: status}, nil
}
