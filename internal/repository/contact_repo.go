package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"agencydesk/internal/model"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Insert(ctx context.Context, q *model.ContactQuery) (int, error) {
	query := `
        INSERT INTO contact_queries (name, email, subject, message, handled, created_at)
        VALUES ($1, $2, $3, $4, false, NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query, q.Name, q.Email, q.Subject, q.Message).Scan(&id)
	return id, err
}

func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]model.ContactQuery, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contact_queries`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
        SELECT id, name, email, subject, message, handled, created_at
        FROM contact_queries
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	queries := []model.ContactQuery{}
	for rows.Next() {
		var q model.ContactQuery
		if err := rows.Scan(
			&q.ID,
			&q.Name,
			&q.Email,
			&q.Subject,
			&q.Message,
			&q.Handled,
			&q.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		queries = append(queries, q)
	}

	return queries, total, rows.Err()
}

func (r *ContactRepository) MarkHandled(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `UPDATE contact_queries SET handled = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_queries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
