package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"agencydesk/internal/model"
)

type SkillRepository struct {
	db *pgxpool.Pool
}

func NewSkillRepository(db *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) List(ctx context.Context, category string) ([]model.Skill, error) {
	query := `
        SELECT id, name, category, level, created_at, updated_at
        FROM skills
    `
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := []model.Skill{}
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Category,
			&s.Level,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}

	return skills, rows.Err()
}

func (r *SkillRepository) Insert(ctx context.Context, s *model.Skill) (int, error) {
	query := `
        INSERT INTO skills (name, category, level, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query, s.Name, s.Category, s.Level).Scan(&id)
	return id, err
}

func (r *SkillRepository) Update(ctx context.Context, s *model.Skill) error {
	query := `
        UPDATE skills SET name = $1, category = $2, level = $3, updated_at = NOW()
        WHERE id = $4
    `
	tag, err := r.db.Exec(ctx, query, s.Name, s.Category, s.Level, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SkillRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
