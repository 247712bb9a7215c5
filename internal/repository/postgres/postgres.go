package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"rentstack-backend/internal/repository"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same repository code serves both direct and transactional use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db    *sql.DB
	repos repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		repos: buildRepos(db),
	}
}

func buildRepos(db DBTX) repository.Repositories {
	return repository.Repositories{
		Products:      NewProductRepository(db),
		Inventory:     NewInventoryRepository(db),
		Orders:        NewOrderRepository(db),
		Customers:     NewCustomerRepository(db),
		Movements:     NewStockMovementRepository(db),
		Notifications: NewNotificationRepository(db),
		OrderNumbers:  NewOrderNumberRepository(db),
	}
}

func (s *Store) Repos() repository.Repositories {
	return s.repos
}

// RunInTx runs fn inside one database transaction. Any error (or panic)
// rolls the whole transaction back, so callers get all-or-nothing
// semantics across every repository in the bundle.
func (s *Store) RunInTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(buildRepos(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
