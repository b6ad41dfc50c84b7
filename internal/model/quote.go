package model

import "time"

// Quote lifecycle is strictly forward-only: pending -> sent -> paid.
const (
	QuoteStatusPending = "pending"
	QuoteStatusSent    = "sent"
	QuoteStatusPaid    = "paid"
)

type Quote struct {
	ID            int        `json:"id"`
	Subject       string     `json:"subject"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	ProjectID     int        `json:"project_id"`
	ClientID      int        `json:"client_id"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
