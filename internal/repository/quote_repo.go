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

type QuoteRepository struct {
	db         *pgxpool.Pool
	outboxRepo *outbox.Repository
}

func NewQuoteRepository(db *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{
		db:         db,
		outboxRepo: outbox.NewRepository(db),
	}
}

const quoteColumns = `
	id, subject, amount, status, project_id, client_id,
	COALESCE(invoice_number, ''), sent_at, created_at, updated_at
`

func scanQuote(row pgx.Row) (*model.Quote, error) {
	var q model.Quote
	err := row.Scan(
		&q.ID,
		&q.Subject,
		&q.Amount,
		&q.Status,
		&q.ProjectID,
		&q.ClientID,
		&q.InvoiceNumber,
		&q.SentAt,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuoteRepository) FindByID(ctx context.Context, id int) (*model.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	return scanQuote(r.db.QueryRow(ctx, query, id))
}

func (r *QuoteRepository) List(ctx context.Context, status string, limit, offset int) ([]model.Quote, int, error) {
	where := ""
	countArgs := []any{}
	args := []any{}
	if status != "" {
		where = " WHERE status = $1"
		countArgs = append(countArgs, status)
		args = append(args, status, limit, offset)
	} else {
		args = append(args, limit, offset)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quotes`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitClause := " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	if status != "" {
		limitClause = " ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	}

	rows, err := r.db.Query(ctx, `SELECT `+quoteColumns+` FROM quotes`+where+limitClause, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	quotes := []model.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, *q)
	}

	return quotes, total, rows.Err()
}

// Insert creates a manual quote (admin action, not milestone-driven).
func (r *QuoteRepository) Insert(ctx context.Context, q *model.Quote) (int, error) {
	query := `
        INSERT INTO quotes (subject, amount, status, project_id, client_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		q.Subject,
		q.Amount,
		model.QuoteStatusPending,
		q.ProjectID,
		q.ClientID,
	).Scan(&id)
	return id, err
}

// MarkSent transitions pending -> sent, records the invoice number, appends
// the outbound message for delivery tracking and queues the quote.sent
// event, atomically. Only called after the email dispatch has been
// confirmed; the status guard keeps the transition forward-only.
func (r *QuoteRepository) MarkSent(ctx context.Context, quoteID int, invoiceNumber string, sentAt time.Time, msg *model.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var projectID int
	err = tx.QueryRow(ctx, `
        UPDATE quotes
        SET status = $1, invoice_number = $2, sent_at = $3, updated_at = NOW()
        WHERE id = $4 AND status = $5
        RETURNING project_id
    `, model.QuoteStatusSent, invoiceNumber, sentAt, quoteID, model.QuoteStatusPending).Scan(&projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrInvalidStatus
	}
	if err != nil {
		return fmt.Errorf("failed to mark quote sent: %w", err)
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO messages (project_id, sender, subject, body, type, provider_id, delivery_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
    `, projectID, msg.Sender, msg.Subject, msg.Body, model.MessageOutbound, msg.ProviderID, model.DeliveryQueued)
	if err != nil {
		return fmt.Errorf("failed to insert outbound message: %w", err)
	}

	qid := int64(quoteID)
	payload := mqc.QuoteSentPayload{
		QuoteID:       quoteID,
		ProjectID:     projectID,
		InvoiceNumber: invoiceNumber,
		SentAt:        sentAt,
	}
	if err := outbox.InsertEventInTx(ctx, tx, r.outboxRepo, "quote", &qid, mqc.RoutingQuoteSent, payload); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MarkPaid transitions sent -> paid. Any other starting status is rejected.
func (r *QuoteRepository) MarkPaid(ctx context.Context, quoteID int) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE quotes SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
    `, model.QuoteStatusPaid, quoteID, model.QuoteStatusSent)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotes WHERE id = $1)`, quoteID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return model.ErrInvalidStatus
		}
		return model.ErrNotFound
	}
	return nil
}
