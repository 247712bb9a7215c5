package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
)

type orderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) repository.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, customer_id, product_id, quantity, start_date, end_date,
	actual_return_date, status, rental_fee, deposit_fee, insurance_fee, tax_amount, overdue_fee,
	extension_fee, early_return_discount, damage_fee, cleaning_fee, total_amount, stock_reserved,
	cancel_reason, return_condition, created_on, updated_on`

func (r *orderRepository) Create(ctx context.Context, o *domain.RentalOrder) error {
	query := `INSERT INTO rental_orders (order_number, customer_id, product_id, quantity, start_date, end_date,
	          actual_return_date, status, rental_fee, deposit_fee, insurance_fee, tax_amount, overdue_fee,
	          extension_fee, early_return_discount, damage_fee, cleaning_fee, total_amount, stock_reserved,
	          cancel_reason, return_condition, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	          RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		o.OrderNumber, o.CustomerID, o.ProductID, o.Quantity, o.StartDate, o.EndDate,
		o.ActualReturnDate, o.Status, o.RentalFee, o.DepositFee, o.InsuranceFee, o.TaxAmount, o.OverdueFee,
		o.ExtensionFee, o.EarlyReturnDiscount, o.DamageFee, o.CleaningFee, o.TotalAmount, o.StockReserved,
		o.CancelReason, o.ReturnCondition, now, now,
	).Scan(&o.ID)
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.RentalOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM rental_orders WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, number string) (*domain.RentalOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM rental_orders WHERE order_number = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, number))
}

// UpdateWithStatusGuard is the compare-and-swap write for lifecycle
// transitions: the row is only touched while its stored status is still in
// the allowed set, so two concurrent transitions cannot both succeed.
func (r *orderRepository) UpdateWithStatusGuard(ctx context.Context, o *domain.RentalOrder, allowed []domain.OrderStatus) (bool, error) {
	query := `UPDATE rental_orders
	          SET status=$1, end_date=$2, actual_return_date=$3, rental_fee=$4, deposit_fee=$5,
	              insurance_fee=$6, tax_amount=$7, overdue_fee=$8, extension_fee=$9,
	              early_return_discount=$10, damage_fee=$11, cleaning_fee=$12, total_amount=$13,
	              stock_reserved=$14, cancel_reason=$15, return_condition=$16, updated_on=$17
	          WHERE id=$18 AND status = ANY($19)`
	res, err := r.db.ExecContext(ctx, query,
		o.Status, o.EndDate, o.ActualReturnDate, o.RentalFee, o.DepositFee,
		o.InsuranceFee, o.TaxAmount, o.OverdueFee, o.ExtensionFee,
		o.EarlyReturnDiscount, o.DamageFee, o.CleaningFee, o.TotalAmount,
		o.StockReserved, o.CancelReason, o.ReturnCondition, time.Now(),
		o.ID, pq.Array(statusStrings(allowed)),
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *orderRepository) SumOverlappingQuantity(ctx context.Context, productID int32, start, end time.Time, statuses []domain.OrderStatus, excludeOrderID int32) (int32, error) {
	// Inclusive overlap: existing.start <= requested.end AND existing.end >= requested.start
	query := `SELECT COALESCE(SUM(quantity), 0) FROM rental_orders
	          WHERE product_id = $1 AND status = ANY($2)
	            AND start_date <= $3 AND end_date >= $4
	            AND id <> $5`
	var total int32
	err := r.db.QueryRowContext(ctx, query, productID, pq.Array(statusStrings(statuses)), end, start, excludeOrderID).Scan(&total)
	return total, err
}

func (r *orderRepository) CountByCustomerAndStatuses(ctx context.Context, customerID int32, statuses []domain.OrderStatus) (int32, error) {
	query := `SELECT count(*) FROM rental_orders WHERE customer_id = $1 AND status = ANY($2)`
	var count int32
	err := r.db.QueryRowContext(ctx, query, customerID, pq.Array(statusStrings(statuses))).Scan(&count)
	return count, err
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + orderColumns + ` FROM rental_orders WHERE customer_id = $1`
	args := []interface{}{customerID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *orderRepository) ListUnsecured(ctx context.Context, horizon time.Time) ([]domain.RentalOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM rental_orders
	          WHERE stock_reserved = FALSE AND status = ANY($1) AND start_date <= $2
	          ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(statusStrings(domain.CommittedStatuses)), horizon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *orderRepository) ListCommittedOverlapping(ctx context.Context, productID int32, start, end time.Time) ([]domain.RentalOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM rental_orders
	          WHERE product_id = $1 AND status = ANY($2)
	            AND start_date <= $3 AND end_date >= $4
	          ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, productID, pq.Array(statusStrings(domain.CommittedStatuses)), end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *orderRepository) scanOne(row *sql.Row) (*domain.RentalOrder, error) {
	o := &domain.RentalOrder{}
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.ProductID, &o.Quantity, &o.StartDate, &o.EndDate,
		&o.ActualReturnDate, &o.Status, &o.RentalFee, &o.DepositFee, &o.InsuranceFee, &o.TaxAmount, &o.OverdueFee,
		&o.ExtensionFee, &o.EarlyReturnDiscount, &o.DamageFee, &o.CleaningFee, &o.TotalAmount, &o.StockReserved,
		&o.CancelReason, &o.ReturnCondition, &o.CreatedOn, &o.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) scanAll(rows *sql.Rows) ([]domain.RentalOrder, error) {
	var orders []domain.RentalOrder
	for rows.Next() {
		var o domain.RentalOrder
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.ProductID, &o.Quantity, &o.StartDate, &o.EndDate,
			&o.ActualReturnDate, &o.Status, &o.RentalFee, &o.DepositFee, &o.InsuranceFee, &o.TaxAmount, &o.OverdueFee,
			&o.ExtensionFee, &o.EarlyReturnDiscount, &o.DamageFee, &o.CleaningFee, &o.TotalAmount, &o.StockReserved,
			&o.CancelReason, &o.ReturnCondition, &o.CreatedOn, &o.UpdatedOn,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
