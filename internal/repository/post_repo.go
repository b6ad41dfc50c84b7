package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agencydesk/internal/model"
)

type PostRepository struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `
	id, slug, title, excerpt, body, category, tags, published,
	published_at, created_at, updated_at
`

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Excerpt,
		&p.Body,
		&p.Category,
		&p.Tags,
		&p.Published,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	return scanPost(r.db.QueryRow(ctx, query, slug))
}

type PostFilter struct {
	Category      string
	Search        string
	PublishedOnly bool
	Limit         int
	Offset        int
}

func (r *PostRepository) List(ctx context.Context, f PostFilter) ([]model.Post, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	n := 1

	if f.PublishedOnly {
		where += " AND published = true"
	}
	if f.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, f.Category)
		n++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR excerpt ILIKE $%d)", n, n)
		args = append(args, "%"+f.Search+"%")
		n++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + postColumns + ` FROM posts` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n, n+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *p)
	}

	return posts, total, rows.Err()
}

func (r *PostRepository) Insert(ctx context.Context, p *model.Post) (int, error) {
	query := `
        INSERT INTO posts (slug, title, excerpt, body, category, tags, published, published_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		p.Slug,
		p.Title,
		p.Excerpt,
		p.Body,
		p.Category,
		p.Tags,
		p.Published,
		p.PublishedAt,
	).Scan(&id)
	return id, err
}

func (r *PostRepository) Update(ctx context.Context, p *model.Post) error {
	query := `
        UPDATE posts
        SET title = $1, excerpt = $2, body = $3, category = $4, tags = $5,
            published = $6, published_at = $7, updated_at = NOW()
        WHERE slug = $8
    `
	tag, err := r.db.Exec(ctx, query,
		p.Title,
		p.Excerpt,
		p.Body,
		p.Category,
		p.Tags,
		p.Published,
		p.PublishedAt,
		p.Slug,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, slug string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
