package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// CampaignRepository encapsulates campaign persistence.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	Update(ctx context.Context, campaign *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	GetByName(ctx context.Context, name string) (*domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
	Delete(ctx context.Context, id string) error
}

type campaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository instantiates repository.
func NewCampaignRepository(pool *pgxpool.Pool) CampaignRepository {
	return &campaignRepository{pool: pool}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	const query = `
        INSERT INTO campaigns (name, billing_rate_per_hour, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		campaign.Name,
		campaign.BillingRatePerHour,
		campaign.IsActive,
	).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
}

func (r *campaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	const query = `
        UPDATE campaigns SET name=$1, billing_rate_per_hour=$2, is_active=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		campaign.Name,
		campaign.BillingRatePerHour,
		campaign.IsActive,
		campaign.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	const query = `SELECT id, name, billing_rate_per_hour, is_active, created_at, updated_at FROM campaigns WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *campaignRepository) GetByName(ctx context.Context, name string) (*domain.Campaign, error) {
	const query = `SELECT id, name, billing_rate_per_hour, is_active, created_at, updated_at FROM campaigns WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *campaignRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Campaign, error) {
	var campaign domain.Campaign
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.BillingRatePerHour,
		&campaign.IsActive,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	const query = `SELECT id, name, billing_rate_per_hour, is_active, created_at, updated_at FROM campaigns ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Campaign
	for rows.Next() {
		var campaign domain.Campaign
		if err := rows.Scan(
			&campaign.ID,
			&campaign.Name,
			&campaign.BillingRatePerHour,
			&campaign.IsActive,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, campaign)
	}
	return result, rows.Err()
}

func (r *campaignRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
