package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

// AuditRepository appends activity records. The log is append-only: no
// update or delete operations exist.
type AuditRepository interface {
	Append(ctx context.Context, record *domain.AuditRecord) error
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository instantiates repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, record *domain.AuditRecord) error {
	const query = `
        INSERT INTO audit_logs (user_id, action, object_type, object_id, ip_address, user_agent, metadata)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		record.UserID,
		record.Action,
		record.ObjectType,
		record.ObjectID,
		record.IPAddress,
		record.UserAgent,
		record.Metadata,
	).Scan(&record.ID, &record.CreatedAt)
}
