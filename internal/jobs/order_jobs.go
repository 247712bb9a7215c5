package jobs

import (
	"context"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/logger"
)

// MarkOverdueOrders flips active orders past their end date to OVERDUE.
// Each order goes through the order service's guarded transition, so a
// concurrent return or manual update simply wins and the job skips the row.
func (jr *JobRunner) MarkOverdueOrders() {
	jr.runWithRecovery("MarkOverdueOrders", func() {
		ctx := context.Background()

		query := `
			SELECT id
			FROM rental_orders
			WHERE status = 'ACTIVE'
			  AND end_date < $1
			ORDER BY end_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to list overdue candidates", "error", err)
			return
		}
		defer rows.Close()

		var due []int32
		for rows.Next() {
			var id int32
			if err := rows.Scan(&id); err != nil {
				logger.Error("Failed to scan overdue candidate", "error", err)
				continue
			}
			due = append(due, id)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue candidates", "error", err)
			return
		}

		marked := 0
		for _, id := range due {
			order, err := jr.services.Order.MarkOverdue(ctx, id)
			if err != nil {
				logger.Warn("Skipping overdue transition", "order_id", id, "error", err)
				continue
			}
			jr.sendOverdueNotice(ctx, order)
			marked++
		}

		logger.Info("Marked orders as overdue", "count", marked, "candidates", len(due))
	})
}

func (jr *JobRunner) sendOverdueNotice(ctx context.Context, order *domain.RentalOrder) {
	customer, err := jr.store.Repos().Customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		logger.Warn("Skipping overdue notice, customer lookup failed", "customer_id", order.CustomerID, "error", err)
		return
	}
	if err := jr.services.Email.SendOverdueNotice(ctx, customer.Email, customer.Name, order.OrderNumber, order.OverdueFee); err != nil {
		logger.Error("Failed to send overdue notice", "order_number", order.OrderNumber, "error", err)
	}
}

// SendReturnReminders emails customers whose active rentals are due back
// within the configured reminder window
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()

		query := `
			SELECT o.order_number, o.end_date, c.name, c.email
			FROM rental_orders o
			JOIN customers c ON c.id = o.customer_id
			WHERE o.status = 'ACTIVE'
			  AND o.end_date BETWEEN $1 AND $2
		`

		today := time.Now().Format("2006-01-02")
		until := time.Now().AddDate(0, 0, jr.config.Rental.ReturnReminderDays).Format("2006-01-02")

		rows, err := jr.db.QueryContext(ctx, query, today, until)
		if err != nil {
			logger.Error("Failed to list orders due for reminders", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var orderNumber, name, email string
			var endDate time.Time
			if err := rows.Scan(&orderNumber, &endDate, &name, &email); err != nil {
				logger.Error("Failed to scan reminder row", "error", err)
				continue
			}
			if err := jr.services.Email.SendReturnReminder(ctx, email, name, orderNumber, endDate); err != nil {
				logger.Error("Failed to send return reminder", "order_number", orderNumber, "error", err)
				continue
			}
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating reminder rows", "error", err)
			return
		}

		logger.Info("Sent return reminders", "count", count)
	})
}
