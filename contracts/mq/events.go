package mq

import "time"

// Routing keys published through the outbox.
const (
	RoutingInquiryCreated = "inquiry.created"
	RoutingEmailReceived  = "email.received"
	RoutingQuoteCreated   = "quote.created"
	RoutingQuoteSent      = "quote.sent"
)

type InquiryCreatedPayload struct {
	ProjectID   int       `json:"project_id"`
	ClientID    int       `json:"client_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ServiceType string    `json:"service_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type EmailReceivedPayload struct {
	ProjectID  int       `json:"project_id"`
	MessageID  int       `json:"message_id"`
	Sender     string    `json:"sender"`
	Subject    string    `json:"subject"`
	NewProject bool      `json:"new_project"`
	ReceivedAt time.Time `json:"received_at"`
}

type QuoteCreatedPayload struct {
	QuoteID   int       `json:"quote_id"`
	ProjectID int       `json:"project_id"`
	ClientID  int       `json:"client_id"`
	Subject   string    `json:"subject"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type QuoteSentPayload struct {
	QuoteID       int       `json:"quote_id"`
	ProjectID     int       `json:"project_id"`
	InvoiceNumber string    `json:"invoice_number"`
	SentAt        time.Time `json:"sent_at"`
}
