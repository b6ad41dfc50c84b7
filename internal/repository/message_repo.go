package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"agencydesk/internal/model"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// FindByProjectID returns the project's thread with attachments, oldest first.
func (r *MessageRepository) FindByProjectID(ctx context.Context, projectID int) ([]model.Message, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, project_id, sender, subject, body, type,
               COALESCE(provider_id, ''), COALESCE(delivery_status, ''), created_at
        FROM messages
        WHERE project_id = $1
        ORDER BY created_at ASC
    `, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	index := map[int]int{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(
			&m.ID,
			&m.ProjectID,
			&m.Sender,
			&m.Subject,
			&m.Body,
			&m.Type,
			&m.ProviderID,
			&m.DeliveryStatus,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		index[m.ID] = len(messages)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return messages, nil
	}

	attRows, err := r.db.Query(ctx, `
        SELECT a.id, a.message_id, a.filename, a.content_type, a.size_bytes, a.url, a.created_at
        FROM attachments a
        JOIN messages m ON m.id = a.message_id
        WHERE m.project_id = $1
        ORDER BY a.id ASC
    `, projectID)
	if err != nil {
		return nil, err
	}
	defer attRows.Close()

	for attRows.Next() {
		var a model.Attachment
		if err := attRows.Scan(
			&a.ID,
			&a.MessageID,
			&a.Filename,
			&a.ContentType,
			&a.SizeBytes,
			&a.URL,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if i, ok := index[a.MessageID]; ok {
			messages[i].Attachments = append(messages[i].Attachments, a)
		}
	}

	return messages, attRows.Err()
}

// AppendOutbound records an admin-sent message and clears the unread flag.
func (r *MessageRepository) AppendOutbound(ctx context.Context, msg *model.Message) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
        INSERT INTO messages (project_id, sender, subject, body, type, provider_id, delivery_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id
    `,
		msg.ProjectID,
		msg.Sender,
		msg.Subject,
		msg.Body,
		model.MessageOutbound,
		msg.ProviderID,
		model.DeliveryQueued,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}

	_, err = tx.Exec(ctx, `
        UPDATE projects SET unread = false, updated_at = NOW() WHERE id = $1
    `, msg.ProjectID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return id, nil
}

// AddAttachment persists one uploaded attachment's URL and metadata.
func (r *MessageRepository) AddAttachment(ctx context.Context, a *model.Attachment) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
        INSERT INTO attachments (message_id, filename, content_type, size_bytes, url, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id
    `, a.MessageID, a.Filename, a.ContentType, a.SizeBytes, a.URL).Scan(&id)
	return id, err
}

// UpdateDeliveryStatus updates every message carrying the provider-assigned
// id. The search is global across all threads; delivery events are not
// scoped to a project.
func (r *MessageRepository) UpdateDeliveryStatus(ctx context.Context, providerID, status string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE messages SET delivery_status = $1 WHERE provider_id = $2
    `, status, providerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
