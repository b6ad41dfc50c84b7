package model

import (
	"math"
	"time"
)

// Project statuses. Inbound email reconciliation additionally uses
// StatusInbox to surface projects with unread client mail.
const (
	StatusNewInquiry   = "new_inquiry"
	StatusContacted    = "contacted"
	StatusProposalSent = "proposal_sent"
	StatusDepositPaid  = "deposit_paid"
	StatusInProgress   = "in_progress"
	StatusInReview     = "in_review"
	StatusCompleted    = "completed"
	StatusOnHold       = "on_hold"
	StatusCancelled    = "cancelled"
	StatusInbox        = "inbox"
)

const (
	PaymentModelMilestone = "milestone"
	PaymentModelAdvance   = "advance"
)

type Project struct {
	ID                int       `json:"id"`
	ClientID          int       `json:"client_id"`
	ServiceType       string    `json:"service_type"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Status            string    `json:"status"`
	Progress          int       `json:"progress"`
	PaymentModel      string    `json:"payment_model"`
	TotalPrice        float64   `json:"total_price"`
	AdvancePercentage *float64  `json:"advance_percentage,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	Unread            bool      `json:"unread"`
	LastMessage       string    `json:"last_message,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Milestones []Milestone `json:"milestones,omitempty"`
}

// Milestone belongs to exactly one project. Position within the project is
// the milestone's identity and is stable across edits.
type Milestone struct {
	ID          int        `json:"id"`
	ProjectID   int        `json:"project_id"`
	Position    int        `json:"position"`
	Label       string     `json:"label"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Price       *float64   `json:"price,omitempty"`
}

// ComputeProgress returns the completion percentage for a milestone set,
// rounded to the nearest integer. Zero milestones means zero progress.
func ComputeProgress(milestones []Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	completed := 0
	for _, m := range milestones {
		if m.Completed {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(milestones))))
}

// DefaultMilestones is the milestone template applied to new inquiries.
func DefaultMilestones() []Milestone {
	labels := []string{"Discovery", "Design", "Development", "Launch"}
	milestones := make([]Milestone, 0, len(labels))
	for i, label := range labels {
		milestones = append(milestones, Milestone{
			Position: i,
			Label:    label,
		})
	}
	return milestones
}
