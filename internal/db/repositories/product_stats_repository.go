package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"quadramall/apienvelope/internal/constants"
	"quadramall/apienvelope/internal/models/entities"
)

// ProductStatsRepo runs read-side aggregate queries with sqlx.
type ProductStatsRepo struct {
	db *sqlx.DB
}

func NewProductStatsRepo(db *sqlx.DB) *ProductStatsRepo {
	return &ProductStatsRepo{db}
}

func (r *ProductStatsRepo) Get(ctx context.Context) (*entities.ProductStats, error) {
	var stats entities.ProductStats

	if err := r.db.GetContext(ctx, &stats, constants.GetProductStats); err != nil {
		return nil, fmt.Errorf("failed to fetch product stats: %w", err)
	}

	return &stats, nil
}

// Ping checks the underlying connection.
func (r *ProductStatsRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
