package postgres

import (
	"context"
	"fmt"
	"time"

	"rentstack-backend/internal/repository"
)

type orderNumberRepository struct {
	db DBTX
}

func NewOrderNumberRepository(db DBTX) repository.OrderNumberRepository {
	return &orderNumberRepository{db: db}
}

// Next allocates the next order number for the given day. The sequence row is
// bumped atomically so concurrent callers never receive the same number.
func (r *orderNumberRepository) Next(ctx context.Context, prefix string, day time.Time) (string, error) {
	query := `INSERT INTO order_sequences (day, last_seq) VALUES ($1, 1)
	          ON CONFLICT (day) DO UPDATE SET last_seq = order_sequences.last_seq + 1
	          RETURNING last_seq`
	var seq int32
	if err := r.db.QueryRowContext(ctx, query, day.Format("2006-01-02")).Scan(&seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%04d", prefix, day.Format("20060102"), seq), nil
}
