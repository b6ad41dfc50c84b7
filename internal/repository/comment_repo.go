package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"agencydesk/internal/model"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// FindByPostID returns a post's comments; approvedOnly hides moderation queue
// entries from public readers.
func (r *CommentRepository) FindByPostID(ctx context.Context, postID int, approvedOnly bool) ([]model.Comment, error) {
	query := `
        SELECT id, post_id, author, email, body, approved, created_at
        FROM comments
        WHERE post_id = $1
    `
	if approvedOnly {
		query += ` AND approved = true`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.Author,
			&c.Email,
			&c.Body,
			&c.Approved,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (r *CommentRepository) Insert(ctx context.Context, c *model.Comment) (int, error) {
	query := `
        INSERT INTO comments (post_id, author, email, body, approved, created_at)
        VALUES ($1, $2, $3, $4, false, NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query, c.PostID, c.Author, c.Email, c.Body).Scan(&id)
	return id, err
}

func (r *CommentRepository) Approve(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET approved = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
