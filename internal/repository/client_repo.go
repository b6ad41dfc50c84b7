package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agencydesk/internal/model"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) FindByID(ctx context.Context, id int) (*model.Client, error) {
	query := `
        SELECT id, name, email, phone, company, source, created_at, updated_at
        FROM clients
        WHERE id = $1
    `
	var c model.Client
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Source,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	query := `
        SELECT id, name, email, phone, company, source, created_at, updated_at
        FROM clients
        WHERE email = $1
    `
	var c model.Client
	err := r.db.QueryRow(ctx, query, email).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Source,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Insert(ctx context.Context, c *model.Client) (int, error) {
	query := `
        INSERT INTO clients (name, email, phone, company, source, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query, c.Name, c.Email, c.Phone, c.Company, c.Source).Scan(&id)
	return id, err
}

func (r *ClientRepository) Update(ctx context.Context, c *model.Client) error {
	query := `
        UPDATE clients
        SET name = $1, phone = $2, company = $3, updated_at = NOW()
        WHERE id = $4
    `
	tag, err := r.db.Exec(ctx, query, c.Name, c.Phone, c.Company, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]model.Client, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT id, name, email, phone, company, source, created_at, updated_at
        FROM clients
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	clients := []model.Client{}
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Email,
			&c.Phone,
			&c.Company,
			&c.Source,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		clients = append(clients, c)
	}

	return clients, total, rows.Err()
}
