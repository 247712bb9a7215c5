package postgres

import (
	"context"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
)

type stockMovementRepository struct {
	db DBTX
}

func NewStockMovementRepository(db DBTX) repository.StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, m *domain.StockMovement) error {
	query := `INSERT INTO stock_movements (product_id, type, source_pool, dest_pool, requested_qty, effective_qty, order_id, note, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		m.ProductID, m.Type, m.SourcePool, m.DestPool, m.RequestedQty, m.EffectiveQty, m.OrderID, m.Note, time.Now(),
	).Scan(&m.ID)
}

func (r *stockMovementRepository) ListByProduct(ctx context.Context, productID int32, page, pageSize int32) ([]domain.StockMovement, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, product_id, type, source_pool, dest_pool, requested_qty, effective_qty, order_id, note, created_on
	          FROM stock_movements WHERE product_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, productID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.SourcePool, &m.DestPool, &m.RequestedQty, &m.EffectiveQty, &m.OrderID, &m.Note, &m.CreatedOn); err != nil {
			return nil, 0, err
		}
		movements = append(movements, m)
	}
	return movements, count, rows.Err()
}
