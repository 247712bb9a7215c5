package repos

import (
	"context"
	"testing"
	"time"

	"rentstack-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOrderNumberRepository_Next(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderNumberRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

	t.Run("First order of the day", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO order_sequences").
			WithArgs("2026-08-29").
			WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(1))

		number, err := repo.Next(ctx, "RO", day)
		assert.NoError(t, err)
		assert.Equal(t, "RO202608290001", number)
	})

	t.Run("Sequence continues within the day", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO order_sequences").
			WithArgs("2026-08-29").
			WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(42))

		number, err := repo.Next(ctx, "RO", day)
		assert.NoError(t, err)
		assert.Equal(t, "RO202608290042", number)
	})

	t.Run("Next day restarts the sequence", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO order_sequences").
			WithArgs("2026-08-30").
			WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(1))

		number, err := repo.Next(ctx, "RO", day.AddDate(0, 0, 1))
		assert.NoError(t, err)
		assert.Equal(t, "RO202608300001", number)
	})
}
