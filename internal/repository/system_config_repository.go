package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SystemConfigRepository reads the key/value configuration table backing
// workweek settings.
type SystemConfigRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
}

type systemConfigRepository struct {
	pool *pgxpool.Pool
}

// NewSystemConfigRepository instantiates repository.
func NewSystemConfigRepository(pool *pgxpool.Pool) SystemConfigRepository {
	return &systemConfigRepository{pool: pool}
}

func (r *systemConfigRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT config_key, config_value FROM system_config`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}
	return config, rows.Err()
}
