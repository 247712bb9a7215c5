package postgres

import (
	"context"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, email, phone, password_hash, role, verified, blocked, blocked_reason, created_on, updated_on`

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (name, email, phone, password_hash, role, verified, blocked, blocked_reason, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		c.Name, c.Email, c.Phone, c.PasswordHash, c.Role, c.Verified, c.Blocked, c.BlockedReason, now, now,
	).Scan(&c.ID)
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.PasswordHash, &c.Role, &c.Verified, &c.Blocked, &c.BlockedReason, &c.CreatedOn, &c.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.PasswordHash, &c.Role, &c.Verified, &c.Blocked, &c.BlockedReason, &c.CreatedOn, &c.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, email=$2, phone=$3, password_hash=$4, verified=$5, updated_on=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, c.Name, c.Email, c.Phone, c.PasswordHash, c.Verified, time.Now(), c.ID)
	return err
}

func (r *customerRepository) SetBlocked(ctx context.Context, id int32, blocked bool, reason string) error {
	query := `UPDATE customers SET blocked=$1, blocked_reason=$2, updated_on=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, blocked, reason, time.Now(), id)
	return err
}
