package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// TaskTemplateRepository encapsulates task template persistence.
type TaskTemplateRepository interface {
	Create(ctx context.Context, template *domain.TaskTemplate) error
	GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error)
	GetByCampaignAndName(ctx context.Context, campaignID, name string) (*domain.TaskTemplate, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.TaskTemplate, error)
}

type taskTemplateRepository struct {
	pool *pgxpool.Pool
}

// NewTaskTemplateRepository instantiates repository.
func NewTaskTemplateRepository(pool *pgxpool.Pool) TaskTemplateRepository {
	return &taskTemplateRepository{pool: pool}
}

const taskTemplateColumns = `id, campaign_id, name, description, estimated_hours, is_billable, is_default, is_active, created_at, updated_at`

func (r *taskTemplateRepository) Create(ctx context.Context, template *domain.TaskTemplate) error {
	const query = `
        INSERT INTO task_templates (campaign_id, name, description, estimated_hours, is_billable, is_default, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		template.CampaignID,
		template.Name,
		template.Description,
		template.EstimatedHours,
		template.IsBillable,
		template.IsDefault,
		template.IsActive,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
}

func (r *taskTemplateRepository) GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	query := `SELECT ` + taskTemplateColumns + ` FROM task_templates WHERE id=$1`
	return scanTaskTemplate(r.pool.QueryRow(ctx, query, id))
}

func (r *taskTemplateRepository) GetByCampaignAndName(ctx context.Context, campaignID, name string) (*domain.TaskTemplate, error) {
	query := `SELECT ` + taskTemplateColumns + ` FROM task_templates WHERE campaign_id=$1 AND name=$2`
	return scanTaskTemplate(r.pool.QueryRow(ctx, query, campaignID, name))
}

func (r *taskTemplateRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.TaskTemplate, error) {
	query := `SELECT ` + taskTemplateColumns + ` FROM task_templates WHERE campaign_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TaskTemplate
	for rows.Next() {
		template, err := scanTaskTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *template)
	}
	return result, rows.Err()
}

func scanTaskTemplate(row pgx.Row) (*domain.TaskTemplate, error) {
	var template domain.TaskTemplate
	if err := row.Scan(
		&template.ID,
		&template.CampaignID,
		&template.Name,
		&template.Description,
		&template.EstimatedHours,
		&template.IsBillable,
		&template.IsDefault,
		&template.IsActive,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &template, nil
}
