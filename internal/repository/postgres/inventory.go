package postgres

import (
	"context"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
)

type inventoryRepository struct {
	db DBTX
}

func NewInventoryRepository(db DBTX) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

const poolColumns = `product_id, available, reserved, rented, maintenance, damaged, lost,
	alert_threshold, reorder_point, auto_reorder_enabled, version, updated_on`

func (r *inventoryRepository) Create(ctx context.Context, p *domain.InventoryPool) error {
	query := `INSERT INTO inventory_pools (product_id, available, reserved, rented, maintenance, damaged, lost,
	          alert_threshold, reorder_point, auto_reorder_enabled, version, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11)`
	_, err := r.db.ExecContext(ctx, query,
		p.ProductID, p.Available, p.Reserved, p.Rented, p.Maintenance, p.Damaged, p.Lost,
		p.AlertThreshold, p.ReorderPoint, p.AutoReorderEnabled, time.Now(),
	)
	return err
}

func (r *inventoryRepository) GetByProductID(ctx context.Context, productID int32) (*domain.InventoryPool, error) {
	return r.get(ctx, productID, false)
}

// GetForUpdate locks the pool row until the enclosing transaction ends.
// Every check-then-mutate sequence for a product must go through this lock
// so concurrent reservations cannot jointly overcommit stock.
func (r *inventoryRepository) GetForUpdate(ctx context.Context, productID int32) (*domain.InventoryPool, error) {
	return r.get(ctx, productID, true)
}

func (r *inventoryRepository) get(ctx context.Context, productID int32, forUpdate bool) (*domain.InventoryPool, error) {
	query := `SELECT ` + poolColumns + ` FROM inventory_pools WHERE product_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	p := &domain.InventoryPool{}
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&p.ProductID, &p.Available, &p.Reserved, &p.Rented, &p.Maintenance, &p.Damaged, &p.Lost,
		&p.AlertThreshold, &p.ReorderPoint, &p.AutoReorderEnabled, &p.Version, &p.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *inventoryRepository) SaveCounters(ctx context.Context, p *domain.InventoryPool) (bool, error) {
	query := `UPDATE inventory_pools
	          SET available=$1, reserved=$2, rented=$3, maintenance=$4, damaged=$5, lost=$6,
	              version=version+1, updated_on=$7
	          WHERE product_id=$8 AND version=$9`
	res, err := r.db.ExecContext(ctx, query,
		p.Available, p.Reserved, p.Rented, p.Maintenance, p.Damaged, p.Lost,
		time.Now(), p.ProductID, p.Version,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}
	p.Version++
	return true, nil
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]domain.InventoryPool, error) {
	query := `SELECT ` + poolColumns + ` FROM inventory_pools
	          WHERE available <= alert_threshold
	             OR (auto_reorder_enabled AND reorder_point IS NOT NULL
	                 AND available <= reorder_point)`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []domain.InventoryPool
	for rows.Next() {
		var p domain.InventoryPool
		if err := rows.Scan(
			&p.ProductID, &p.Available, &p.Reserved, &p.Rented, &p.Maintenance, &p.Damaged, &p.Lost,
			&p.AlertThreshold, &p.ReorderPoint, &p.AutoReorderEnabled, &p.Version, &p.UpdatedOn,
		); err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}
