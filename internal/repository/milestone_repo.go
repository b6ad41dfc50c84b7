package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mqc "agencydesk/contracts/mq"
	"agencydesk/internal/model"
	"agencydesk/pkg/outbox"
)

type MilestoneRepository struct {
	db         *pgxpool.Pool
	outboxRepo *outbox.Repository
}

func NewMilestoneRepository(db *pgxpool.Pool) *MilestoneRepository {
	return &MilestoneRepository{
		db:         db,
		outboxRepo: outbox.NewRepository(db),
	}
}

// recomputeProgress rewrites the project's progress from milestone state.
// Runs inside the caller's transaction; this is the only statement anywhere
// that writes projects.progress after creation.
func recomputeProgress(ctx context.Context, tx pgx.Tx, projectID int) error {
	_, err := tx.Exec(ctx, `
        UPDATE projects
        SET progress = COALESCE((
                SELECT ROUND(100.0 * COUNT(*) FILTER (WHERE completed) / COUNT(*))
                FROM milestones
                WHERE project_id = $1
                HAVING COUNT(*) > 0
            ), 0),
            updated_at = NOW()
        WHERE id = $1
    `, projectID)
	return err
}

// Complete marks the milestone at the given position done, recomputes the
// project's progress, moves the project to in_progress, creates the quote
// and queues the quote.created event in a single transaction. Returns the
// new quote's ID.
//
// The WHERE completed = false guard makes repeat completions report
// ErrAlreadyCompleted instead of minting a second quote.
func (r *MilestoneRepository) Complete(ctx context.Context, projectID, position int, completedAt time.Time, quote *model.Quote) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var milestoneID int
	err = tx.QueryRow(ctx, `
        UPDATE milestones
        SET completed = true, completed_at = $1
        WHERE project_id = $2 AND position = $3 AND completed = false
        RETURNING id
    `, completedAt, projectID, position).Scan(&milestoneID)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `
            SELECT EXISTS (SELECT 1 FROM milestones WHERE project_id = $1 AND position = $2)
        `, projectID, position).Scan(&exists); err != nil {
			return 0, err
		}
		if exists {
			return 0, model.ErrAlreadyCompleted
		}
		return 0, model.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to complete milestone: %w", err)
	}

	if err := recomputeProgress(ctx, tx, projectID); err != nil {
		return 0, fmt.Errorf("failed to recompute progress: %w", err)
	}

	_, err = tx.Exec(ctx, `
        UPDATE projects SET status = $1 WHERE id = $2
    `, model.StatusInProgress, projectID)
	if err != nil {
		return 0, err
	}

	var quoteID int
	err = tx.QueryRow(ctx, `
        INSERT INTO quotes (subject, amount, status, project_id, client_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id
    `, quote.Subject, quote.Amount, model.QuoteStatusPending, quote.ProjectID, quote.ClientID).Scan(&quoteID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert quote: %w", err)
	}

	qid := int64(quoteID)
	payload := mqc.QuoteCreatedPayload{
		QuoteID:   quoteID,
		ProjectID: quote.ProjectID,
		ClientID:  quote.ClientID,
		Subject:   quote.Subject,
		Amount:    quote.Amount,
		CreatedAt: time.Now(),
	}
	if err := outbox.InsertEventInTx(ctx, tx, r.outboxRepo, "quote", &qid, mqc.RoutingQuoteCreated, payload); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return quoteID, nil
}

// UpdateLabelPrice applies a manual admin edit to a milestone.
func (r *MilestoneRepository) UpdateLabelPrice(ctx context.Context, projectID, position int, label string, price *float64) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE milestones SET label = $1, price = $2
        WHERE project_id = $3 AND position = $4
    `, label, price, projectID, position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Reopen clears a milestone's completed flag (manual admin correction) and
// recomputes progress in the same transaction.
func (r *MilestoneRepository) Reopen(ctx context.Context, projectID, position int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE milestones SET completed = false, completed_at = NULL
        WHERE project_id = $1 AND position = $2
    `, projectID, position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if err := recomputeProgress(ctx, tx, projectID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
