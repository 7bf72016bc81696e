package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// ErrStaleStatus is returned by UpdateStatus when the entry exists but its
// current status no longer matches the expected pre-state. The caller lost a
// race against a concurrent transition.
var ErrStaleStatus = errors.New("timesheet status precondition failed")

// TimesheetFilter captures listing parameters.
type TimesheetFilter struct {
	UserID     *string
	CampaignID *string
	Status     *domain.TimesheetStatus
	StartDate  *string // YYYY-MM-DD inclusive
	EndDate    *string // YYYY-MM-DD inclusive
	Limit      int
	Offset     int
}

// StatusChange carries the fields written alongside a workflow transition.
type StatusChange struct {
	SubmittedAt *time.Time
	ApproverID  *string
	Comments    *string
	DecisionAt  *time.Time
}

// TimesheetRepository encapsulates timesheet entry persistence.
type TimesheetRepository interface {
	Create(ctx context.Context, entry *domain.TimesheetEntry) error
	Update(ctx context.Context, entry *domain.TimesheetEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimesheetEntry, error)
	ExistsForUserAndDate(ctx context.Context, userID, date string) (bool, error)
	ListWithFilter(ctx context.Context, filter TimesheetFilter) ([]domain.TimesheetEntry, error)
	// UpdateStatus performs the conditional transition write: the status
	// changes only when the current status equals from. A stale precondition
	// on an existing row yields ErrStaleStatus, a missing row pgx.ErrNoRows.
	UpdateStatus(ctx context.Context, id string, from, to domain.TimesheetStatus, change StatusChange) (*domain.TimesheetEntry, error)
	Delete(ctx context.Context, id string) error
}

type timesheetRepository struct {
	pool *pgxpool.Pool
}

// NewTimesheetRepository instantiates repository.
func NewTimesheetRepository(pool *pgxpool.Pool) TimesheetRepository {
	return &timesheetRepository{pool: pool}
}

const timesheetColumns = `id, user_id, campaign_id, date, time_in, time_out, lunch_start, lunch_end,
               break1_start, break1_end, break2_start, break2_end, vacation_type, status,
               total_paid_hours, total_unpaid_breaks, submitted_at, approver_id, approver_comments,
               decision_at, created_at, updated_at`

func (r *timesheetRepository) Create(ctx context.Context, entry *domain.TimesheetEntry) error {
	const query = `
        INSERT INTO timesheet_entries (user_id, campaign_id, date, time_in, time_out, lunch_start, lunch_end,
            break1_start, break1_end, break2_start, break2_end, vacation_type, status,
            total_paid_hours, total_unpaid_breaks)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.CampaignID,
		entry.Date,
		entry.TimeIn,
		entry.TimeOut,
		entry.LunchStart,
		entry.LunchEnd,
		entry.Break1Start,
		entry.Break1End,
		entry.Break2Start,
		entry.Break2End,
		entry.VacationType,
		entry.Status,
		entry.TotalPaidHours,
		entry.TotalUnpaidBreaks,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *timesheetRepository) Update(ctx context.Context, entry *domain.TimesheetEntry) error {
	const query = `
        UPDATE timesheet_entries SET time_in=$1, time_out=$2, lunch_start=$3, lunch_end=$4,
            break1_start=$5, break1_end=$6, break2_start=$7, break2_end=$8, vacation_type=$9,
            total_paid_hours=$10, total_unpaid_breaks=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		entry.TimeIn,
		entry.TimeOut,
		entry.LunchStart,
		entry.LunchEnd,
		entry.Break1Start,
		entry.Break1End,
		entry.Break2Start,
		entry.Break2End,
		entry.VacationType,
		entry.TotalPaidHours,
		entry.TotalUnpaidBreaks,
		entry.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *timesheetRepository) GetByID(ctx context.Context, id string) (*domain.TimesheetEntry, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheet_entries WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTimesheet(row)
}

func (r *timesheetRepository) ExistsForUserAndDate(ctx context.Context, userID, date string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM timesheet_entries WHERE user_id=$1 AND date=$2)`,
		userID, date,
	).Scan(&exists)
	return exists, err
}

func (r *timesheetRepository) ListWithFilter(ctx context.Context, filter TimesheetFilter) ([]domain.TimesheetEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.CampaignID != nil {
		args = append(args, *filter.CampaignID)
		clauses = append(clauses, fmt.Sprintf("campaign_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM timesheet_entries WHERE %s ORDER BY date DESC LIMIT %d OFFSET %d`,
		timesheetColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimesheetEntry
	for rows.Next() {
		entry, err := scanTimesheet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func (r *timesheetRepository) UpdateStatus(ctx context.Context, id string, from, to domain.TimesheetStatus, change StatusChange) (*domain.TimesheetEntry, error) {
	query := `
        UPDATE timesheet_entries SET status=$3,
            submitted_at=COALESCE($4, submitted_at),
            approver_id=COALESCE($5, approver_id),
            approver_comments=COALESCE($6, approver_comments),
            decision_at=COALESCE($7, decision_at),
            updated_at=NOW()
        WHERE id=$1 AND status=$2
        RETURNING ` + timesheetColumns
	row := r.pool.QueryRow(ctx, query, id, from, to,
		change.SubmittedAt, change.ApproverID, change.Comments, change.DecisionAt)
	entry, err := scanTimesheet(row)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Zero rows: either the entry is gone or another writer changed the
	// status first.
	var exists bool
	if checkErr := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM timesheet_entries WHERE id=$1)`, id,
	).Scan(&exists); checkErr != nil {
		return nil, checkErr
	}
	if exists {
		return nil, ErrStaleStatus
	}
	return nil, pgx.ErrNoRows
}

func (r *timesheetRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM timesheet_entries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTimesheet(row pgx.Row) (*domain.TimesheetEntry, error) {
	var entry domain.TimesheetEntry
	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.CampaignID,
		&entry.Date,
		&entry.TimeIn,
		&entry.TimeOut,
		&entry.LunchStart,
		&entry.LunchEnd,
		&entry.Break1Start,
		&entry.Break1End,
		&entry.Break2Start,
		&entry.Break2End,
		&entry.VacationType,
		&entry.Status,
		&entry.TotalPaidHours,
		&entry.TotalUnpaidBreaks,
		&entry.SubmittedAt,
		&entry.ApproverID,
		&entry.ApproverComments,
		&entry.DecisionAt,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}
