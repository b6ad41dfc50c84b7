package model

import "time"

const (
	MessageInbound  = "inbound"
	MessageOutbound = "outbound"
)

// Delivery statuses reported by the outbound mail provider.
const (
	DeliveryQueued    = "queued"
	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliveryBounced   = "bounced"
	DeliveryOpened    = "opened"
)

type Message struct {
	ID             int       `json:"id"`
	ProjectID      int       `json:"project_id"`
	Sender         string    `json:"sender"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	Type           string    `json:"type"`
	ProviderID     string    `json:"provider_id,omitempty"`
	DeliveryStatus string    `json:"delivery_status,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment stores only the uploaded object URL and metadata; raw bytes are
// never persisted in the database.
type Attachment struct {
	ID          int       `json:"id"`
	MessageID   int       `json:"message_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}
