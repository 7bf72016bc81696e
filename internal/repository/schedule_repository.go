package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// ScheduleRepository encapsulates schedule persistence.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.Schedule) error
	Update(ctx context.Context, schedule *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	GetByCampaignAndName(ctx context.Context, campaignID, name string) (*domain.Schedule, error)
	ListByCampaign(ctx context.Context, campaignID *string) ([]domain.Schedule, error)
	Delete(ctx context.Context, id string) error
}

type scheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository instantiates repository.
func NewScheduleRepository(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepository{pool: pool}
}

const scheduleColumns = `id, campaign_id, name, work_start_time, work_end_time, lunch_duration_minutes, short_break_duration_minutes, created_at, updated_at`

func (r *scheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	const query = `
        INSERT INTO schedules (campaign_id, name, work_start_time, work_end_time, lunch_duration_minutes, short_break_duration_minutes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		schedule.CampaignID,
		schedule.Name,
		schedule.WorkStartTime,
		schedule.WorkEndTime,
		schedule.LunchDurationMinutes,
		schedule.ShortBreakDurationMinutes,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *domain.Schedule) error {
	const query = `
        UPDATE schedules SET name=$1, work_start_time=$2, work_end_time=$3,
            lunch_duration_minutes=$4, short_break_duration_minutes=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		schedule.Name,
		schedule.WorkStartTime,
		schedule.WorkEndTime,
		schedule.LunchDurationMinutes,
		schedule.ShortBreakDurationMinutes,
		schedule.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanSchedule(row)
}

func (r *scheduleRepository) GetByCampaignAndName(ctx context.Context, campaignID, name string) (*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE campaign_id=$1 AND name=$2`
	row := r.pool.QueryRow(ctx, query, campaignID, name)
	return scanSchedule(row)
}

func scanSchedule(row pgx.Row) (*domain.Schedule, error) {
	var schedule domain.Schedule
	if err := row.Scan(
		&schedule.ID,
		&schedule.CampaignID,
		&schedule.Name,
		&schedule.WorkStartTime,
		&schedule.WorkEndTime,
		&schedule.LunchDurationMinutes,
		&schedule.ShortBreakDurationMinutes,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) ListByCampaign(ctx context.Context, campaignID *string) ([]domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules`
	args := []any{}
	if campaignID != nil {
		query += ` WHERE campaign_id=$1`
		args = append(args, *campaignID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Schedule
	for rows.Next() {
		var schedule domain.Schedule
		if err := rows.Scan(
			&schedule.ID,
			&schedule.CampaignID,
			&schedule.Name,
			&schedule.WorkStartTime,
			&schedule.WorkEndTime,
			&schedule.LunchDurationMinutes,
			&schedule.ShortBreakDurationMinutes,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, schedule)
	}
	return result, rows.Err()
}

func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM schedules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
