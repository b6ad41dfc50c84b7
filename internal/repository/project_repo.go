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

type ProjectRepository struct {
	db         *pgxpool.Pool
	outboxRepo *outbox.Repository
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		db:         db,
		outboxRepo: outbox.NewRepository(db),
	}
}

const projectColumns = `
	id, client_id, service_type, title, description, status, progress,
	payment_model, total_price, advance_percentage, notes, unread,
	last_message, created_at, updated_at
`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.ClientID,
		&p.ServiceType,
		&p.Title,
		&p.Description,
		&p.Status,
		&p.Progress,
		&p.PaymentModel,
		&p.TotalPrice,
		&p.AdvancePercentage,
		&p.Notes,
		&p.Unread,
		&p.LastMessage,
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

func (r *ProjectRepository) FindByID(ctx context.Context, id int) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

// FindWithMilestones returns the project with its milestones in position order.
func (r *ProjectRepository) FindWithMilestones(ctx context.Context, id int) (*model.Project, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
        SELECT id, project_id, position, label, completed, completed_at, price
        FROM milestones
        WHERE project_id = $1
        ORDER BY position ASC
    `, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(
			&m.ID,
			&m.ProjectID,
			&m.Position,
			&m.Label,
			&m.Completed,
			&m.CompletedAt,
			&m.Price,
		); err != nil {
			return nil, err
		}
		p.Milestones = append(p.Milestones, m)
	}

	return p, rows.Err()
}

type ProjectFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

func (r *ProjectRepository) List(ctx context.Context, f ProjectFilter) ([]model.Project, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	n := 1

	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, f.Status)
		n++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", n, n)
		args = append(args, "%"+f.Search+"%")
		n++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where +
		fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", n, n+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, *p)
	}

	return projects, total, rows.Err()
}

// Update writes admin-editable fields. Progress is intentionally absent:
// it is only ever recomputed from milestone state.
func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET service_type = $1, title = $2, description = $3, status = $4,
            payment_model = $5, total_price = $6, advance_percentage = $7,
            notes = $8, updated_at = NOW()
        WHERE id = $9
    `
	tag, err := r.db.Exec(ctx, query,
		p.ServiceType,
		p.Title,
		p.Description,
		p.Status,
		p.PaymentModel,
		p.TotalPrice,
		p.AdvancePercentage,
		p.Notes,
		p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Create inserts an admin-created project for an existing client together
// with its milestone set.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project, milestones []model.Milestone) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var projectID int
	err = tx.QueryRow(ctx, `
        INSERT INTO projects (client_id, service_type, title, description, status,
                              progress, payment_model, total_price, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id
    `,
		project.ClientID,
		project.ServiceType,
		project.Title,
		project.Description,
		project.Status,
		project.Progress,
		project.PaymentModel,
		project.TotalPrice,
	).Scan(&projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}

	for _, m := range milestones {
		_, err = tx.Exec(ctx, `
            INSERT INTO milestones (project_id, position, label, completed, price)
            VALUES ($1, $2, $3, false, $4)
        `, projectID, m.Position, m.Label, m.Price)
		if err != nil {
			return 0, fmt.Errorf("failed to insert milestone: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return projectID, nil
}

// CreateInquiry creates (or reuses) the client, creates the project with its
// milestone template and queues the inquiry.created event, all in one
// transaction. The client upsert takes a row lock, so two concurrent
// inquiries from the same unseen address cannot create duplicate clients.
func (r *ProjectRepository) CreateInquiry(ctx context.Context, client *model.Client, project *model.Project, milestones []model.Milestone) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var clientID int
	err = tx.QueryRow(ctx, `
        INSERT INTO clients (name, email, phone, company, source, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
        RETURNING id
    `, client.Name, client.Email, client.Phone, client.Company, client.Source).Scan(&clientID)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert client: %w", err)
	}

	var projectID int
	err = tx.QueryRow(ctx, `
        INSERT INTO projects (client_id, service_type, title, description, status,
                              progress, payment_model, total_price, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id
    `,
		clientID,
		project.ServiceType,
		project.Title,
		project.Description,
		model.StatusNewInquiry,
		project.Progress,
		project.PaymentModel,
		project.TotalPrice,
	).Scan(&projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}

	for _, m := range milestones {
		_, err = tx.Exec(ctx, `
            INSERT INTO milestones (project_id, position, label, completed, price)
            VALUES ($1, $2, $3, false, $4)
        `, projectID, m.Position, m.Label, m.Price)
		if err != nil {
			return 0, fmt.Errorf("failed to insert milestone: %w", err)
		}
	}

	pid := int64(projectID)
	payload := mqc.InquiryCreatedPayload{
		ProjectID:   projectID,
		ClientID:    clientID,
		ClientName:  client.Name,
		ClientEmail: client.Email,
		ServiceType: project.ServiceType,
		CreatedAt:   time.Now(),
	}
	if err := outbox.InsertEventInTx(ctx, tx, r.outboxRepo, "project", &pid, mqc.RoutingInquiryCreated, payload); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return projectID, nil
}

// InboundReconcile is the data needed to attach an inbound email to a project.
type InboundReconcile struct {
	Sender      string // normalized address
	SenderName  string
	Subject     string
	Body        string
	LastMessage string
	ReceivedAt  time.Time
}

type ReconcileResult struct {
	ProjectID  int
	ClientID   int
	MessageID  int
	NewProject bool
}

// ReconcileInbound matches an inbound email to the sender's most recently
// updated project, creating client and project rows when the sender is
// unknown. The client upsert locks the client row, which serializes
// concurrent deliveries for the same sender and removes the find-or-create
// race. The message append, project flags and email.received event commit
// atomically.
func (r *ProjectRepository) ReconcileInbound(ctx context.Context, in InboundReconcile) (*ReconcileResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	name := in.SenderName
	if name == "" {
		name = in.Sender
	}

	var clientID int
	err = tx.QueryRow(ctx, `
        INSERT INTO clients (name, email, source, created_at, updated_at)
        VALUES ($1, $2, 'inbound_email', NOW(), NOW())
        ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
        RETURNING id
    `, name, in.Sender).Scan(&clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert client: %w", err)
	}

	res := &ReconcileResult{ClientID: clientID}

	var projectID int
	err = tx.QueryRow(ctx, `
        SELECT id FROM projects
        WHERE client_id = $1
        ORDER BY updated_at DESC
        LIMIT 1
    `, clientID).Scan(&projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
            INSERT INTO projects (client_id, service_type, title, description, status,
                                  progress, payment_model, total_price, created_at, updated_at)
            VALUES ($1, 'inbound', $2, $3, $4, 0, $5, 0, NOW(), NOW())
            RETURNING id
        `, clientID, in.Subject, in.Body, model.StatusInbox, model.PaymentModelMilestone).Scan(&projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to create project from email: %w", err)
		}
		res.NewProject = true
	} else if err != nil {
		return nil, err
	}
	res.ProjectID = projectID

	err = tx.QueryRow(ctx, `
        INSERT INTO messages (project_id, sender, subject, body, type, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, projectID, in.Sender, in.Subject, in.Body, model.MessageInbound, in.ReceivedAt).Scan(&res.MessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	_, err = tx.Exec(ctx, `
        UPDATE projects
        SET status = $1, unread = true, last_message = $2, updated_at = NOW()
        WHERE id = $3
    `, model.StatusInbox, in.LastMessage, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to flag project: %w", err)
	}

	pid := int64(projectID)
	payload := mqc.EmailReceivedPayload{
		ProjectID:  projectID,
		MessageID:  res.MessageID,
		Sender:     in.Sender,
		Subject:    in.Subject,
		NewProject: res.NewProject,
		ReceivedAt: in.ReceivedAt,
	}
	if err := outbox.InsertEventInTx(ctx, tx, r.outboxRepo, "project", &pid, mqc.RoutingEmailReceived, payload); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return res, nil
}

// ClearUnread marks a project's thread as read.
func (r *ProjectRepository) ClearUnread(ctx context.Context, projectID int) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE projects SET unread = false, updated_at = NOW() WHERE id = $1
    `, projectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
