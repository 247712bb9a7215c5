package postgres

import (
	"context"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
)

type productRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, enabled, daily_rate, weekly_rate, monthly_rate,
	min_rental_days, max_rental_days, deposit_required, insurance_fee, discount_rate,
	extension_rate, early_return_rate, replacement_fee, replacement_value,
	preparation_days, stock_capacity, created_on, updated_on`

func (r *productRepository) Create(ctx context.Context, p *domain.RentalProduct) error {
	query := `INSERT INTO rental_products (name, description, enabled, daily_rate, weekly_rate, monthly_rate,
	          min_rental_days, max_rental_days, deposit_required, insurance_fee, discount_rate,
	          extension_rate, early_return_rate, replacement_fee, replacement_value,
	          preparation_days, stock_capacity, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Enabled, p.DailyRate, p.WeeklyRate, p.MonthlyRate,
		p.MinRentalDays, p.MaxRentalDays, p.DepositRequired, p.InsuranceFee, p.DiscountRate,
		p.ExtensionRate, p.EarlyReturnRate, p.ReplacementFee, p.ReplacementValue,
		p.PreparationDays, p.StockCapacity, now, now,
	).Scan(&p.ID)
}

func (r *productRepository) GetByID(ctx context.Context, id int32) (*domain.RentalProduct, error) {
	p := &domain.RentalProduct{}
	query := `SELECT ` + productColumns + ` FROM rental_products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Enabled, &p.DailyRate, &p.WeeklyRate, &p.MonthlyRate,
		&p.MinRentalDays, &p.MaxRentalDays, &p.DepositRequired, &p.InsuranceFee, &p.DiscountRate,
		&p.ExtensionRate, &p.EarlyReturnRate, &p.ReplacementFee, &p.ReplacementValue,
		&p.PreparationDays, &p.StockCapacity, &p.CreatedOn, &p.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.RentalProduct) error {
	query := `UPDATE rental_products SET name=$1, description=$2, enabled=$3, daily_rate=$4, weekly_rate=$5,
	          monthly_rate=$6, min_rental_days=$7, max_rental_days=$8, deposit_required=$9, insurance_fee=$10,
	          discount_rate=$11, extension_rate=$12, early_return_rate=$13, replacement_fee=$14,
	          replacement_value=$15, preparation_days=$16, stock_capacity=$17, updated_on=$18 WHERE id=$19`
	_, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Enabled, p.DailyRate, p.WeeklyRate, p.MonthlyRate,
		p.MinRentalDays, p.MaxRentalDays, p.DepositRequired, p.InsuranceFee, p.DiscountRate,
		p.ExtensionRate, p.EarlyReturnRate, p.ReplacementFee, p.ReplacementValue,
		p.PreparationDays, p.StockCapacity, time.Now(), p.ID,
	)
	return err
}

func (r *productRepository) List(ctx context.Context, enabledOnly bool, page, pageSize int32) ([]domain.RentalProduct, int32, error) {
	offset := (page - 1) * pageSize
	where := ""
	if enabledOnly {
		where = " WHERE enabled = TRUE"
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM rental_products"+where).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM rental_products` + where + ` ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.RentalProduct
	for rows.Next() {
		var p domain.RentalProduct
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Enabled, &p.DailyRate, &p.WeeklyRate, &p.MonthlyRate,
			&p.MinRentalDays, &p.MaxRentalDays, &p.DepositRequired, &p.InsuranceFee, &p.DiscountRate,
			&p.ExtensionRate, &p.EarlyReturnRate, &p.ReplacementFee, &p.ReplacementValue,
			&p.PreparationDays, &p.StockCapacity, &p.CreatedOn, &p.UpdatedOn,
		); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, count, rows.Err()
}
