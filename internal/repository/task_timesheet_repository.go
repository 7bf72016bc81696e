package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// TaskTimesheetRepository encapsulates weekly task timesheet persistence.
type TaskTimesheetRepository interface {
	Create(ctx context.Context, ts *domain.TaskTimesheet) error
	GetByID(ctx context.Context, id string) (*domain.TaskTimesheet, error)
	ListForWeek(ctx context.Context, userID, weekStart string) ([]domain.TaskTimesheet, error)
	// UpsertEntry writes the duration for one task and day, replacing any
	// previous value for the same day.
	UpsertEntry(ctx context.Context, entry *domain.TaskTimeEntry) error
	ListEntries(ctx context.Context, taskTimesheetID string) ([]domain.TaskTimeEntry, error)
	ListEntriesForWeek(ctx context.Context, userID, weekStart string) ([]domain.TaskTimeEntry, error)
	// SubmitWeek moves every draft timesheet in the user's week to
	// submitted and reports how many rows changed.
	SubmitWeek(ctx context.Context, userID, weekStart string, submittedAt time.Time) (int, error)
	// UpdateStatus performs the conditional transition write, mirroring the
	// daily entry workflow: ErrStaleStatus on a lost race, pgx.ErrNoRows on
	// a missing row.
	UpdateStatus(ctx context.Context, id string, from, to domain.TimesheetStatus, change StatusChange) (*domain.TaskTimesheet, error)
}

type taskTimesheetRepository struct {
	pool *pgxpool.Pool
}

// NewTaskTimesheetRepository instantiates repository.
func NewTaskTimesheetRepository(pool *pgxpool.Pool) TaskTimesheetRepository {
	return &taskTimesheetRepository{pool: pool}
}

const taskTimesheetColumns = `id, user_id, campaign_id, task_template_id, task_name, task_description,
               week_start_date, week_end_date, status, notes, submitted_at, approver_id,
               approver_comments, decision_at, created_at, updated_at`

func (r *taskTimesheetRepository) Create(ctx context.Context, ts *domain.TaskTimesheet) error {
	const query = `
        INSERT INTO task_timesheets (user_id, campaign_id, task_template_id, task_name, task_description,
            week_start_date, week_end_date, status, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ts.UserID,
		ts.CampaignID,
		ts.TaskTemplateID,
		ts.TaskName,
		ts.TaskDescription,
		ts.WeekStartDate,
		ts.WeekEndDate,
		ts.Status,
		ts.Notes,
	).Scan(&ts.ID, &ts.CreatedAt, &ts.UpdatedAt)
}

func (r *taskTimesheetRepository) GetByID(ctx context.Context, id string) (*domain.TaskTimesheet, error) {
	query := `SELECT ` + taskTimesheetColumns + ` FROM task_timesheets WHERE id=$1`
	return scanTaskTimesheet(r.pool.QueryRow(ctx, query, id))
}

func (r *taskTimesheetRepository) ListForWeek(ctx context.Context, userID, weekStart string) ([]domain.TaskTimesheet, error) {
	query := `SELECT ` + taskTimesheetColumns + ` FROM task_timesheets
        WHERE user_id=$1 AND week_start_date=$2 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, userID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TaskTimesheet
	for rows.Next() {
		ts, err := scanTaskTimesheet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ts)
	}
	return result, rows.Err()
}

func (r *taskTimesheetRepository) UpsertEntry(ctx context.Context, entry *domain.TaskTimeEntry) error {
	const query = `
        INSERT INTO task_time_entries (task_timesheet_id, entry_date, duration_hours, duration_minutes, is_completed, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (task_timesheet_id, entry_date) DO UPDATE SET
            duration_hours=EXCLUDED.duration_hours,
            duration_minutes=EXCLUDED.duration_minutes,
            is_completed=EXCLUDED.is_completed,
            notes=EXCLUDED.notes,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		entry.TaskTimesheetID,
		entry.EntryDate,
		entry.DurationHours,
		entry.DurationMinutes,
		entry.IsCompleted,
		entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

const taskEntryColumns = `id, task_timesheet_id, entry_date, duration_hours, duration_minutes, is_completed, notes, created_at, updated_at`

func (r *taskTimesheetRepository) ListEntries(ctx context.Context, taskTimesheetID string) ([]domain.TaskTimeEntry, error) {
	query := `SELECT ` + taskEntryColumns + ` FROM task_time_entries WHERE task_timesheet_id=$1 ORDER BY entry_date`
	return r.queryEntries(ctx, query, taskTimesheetID)
}

func (r *taskTimesheetRepository) ListEntriesForWeek(ctx context.Context, userID, weekStart string) ([]domain.TaskTimeEntry, error) {
	const query = `
        SELECT e.id, e.task_timesheet_id, e.entry_date, e.duration_hours, e.duration_minutes,
               e.is_completed, e.notes, e.created_at, e.updated_at
        FROM task_time_entries e
        JOIN task_timesheets t ON t.id = e.task_timesheet_id
        WHERE t.user_id=$1 AND t.week_start_date=$2
        ORDER BY e.entry_date`
	return r.queryEntries(ctx, query, userID, weekStart)
}

func (r *taskTimesheetRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.TaskTimeEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TaskTimeEntry
	for rows.Next() {
		var entry domain.TaskTimeEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TaskTimesheetID,
			&entry.EntryDate,
			&entry.DurationHours,
			&entry.DurationMinutes,
			&entry.IsCompleted,
			&entry.Notes,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *taskTimesheetRepository) SubmitWeek(ctx context.Context, userID, weekStart string, submittedAt time.Time) (int, error) {
	const query = `
        UPDATE task_timesheets SET status=$3, submitted_at=$4, updated_at=NOW()
        WHERE user_id=$1 AND week_start_date=$2 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query, userID, weekStart,
		domain.TimesheetStatusSubmitted, submittedAt, domain.TimesheetStatusDraft)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *taskTimesheetRepository) UpdateStatus(ctx context.Context, id string, from, to domain.TimesheetStatus, change StatusChange) (*domain.TaskTimesheet, error) {
	query := `
        UPDATE task_timesheets SET status=$3,
            submitted_at=COALESCE($4, submitted_at),
            approver_id=COALESCE($5, approver_id),
            approver_comments=COALESCE($6, approver_comments),
            decision_at=COALESCE($7, decision_at),
            updated_at=NOW()
        WHERE id=$1 AND status=$2
        RETURNING ` + taskTimesheetColumns
	row := r.pool.QueryRow(ctx, query, id, from, to,
		change.SubmittedAt, change.ApproverID, change.Comments, change.DecisionAt)
	ts, err := scanTaskTimesheet(row)
	if err == nil {
		return ts, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if checkErr := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM task_timesheets WHERE id=$1)`, id,
	).Scan(&exists); checkErr != nil {
		return nil, checkErr
	}
	if exists {
		return nil, ErrStaleStatus
	}
	return nil, pgx.ErrNoRows
}

func scanTaskTimesheet(row pgx.Row) (*domain.TaskTimesheet, error) {
	var ts domain.TaskTimesheet
	if err := row.Scan(
		&ts.ID,
		&ts.UserID,
		&ts.CampaignID,
		&ts.TaskTemplateID,
		&ts.TaskName,
		&ts.TaskDescription,
		&ts.WeekStartDate,
		&ts.WeekEndDate,
		&ts.Status,
		&ts.Notes,
		&ts.SubmittedAt,
		&ts.ApproverID,
		&ts.ApproverComments,
		&ts.DecisionAt,
		&ts.CreatedAt,
		&ts.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ts, nil
}
