package service

import (
	"context"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
)

// windowAvailability computes how many units of a product are free across
// [start, end]: the circulating stock minus the quantity of committed orders
// whose window overlaps the requested one, both bounds inclusive.
// excludeOrderID removes one order from the overlap sum, for extensions of
// an existing order.
func windowAvailability(ctx context.Context, r repository.Repositories, productID int32, start, end time.Time, excludeOrderID int32) (int32, error) {
	pool, err := r.Inventory.GetByProductID(ctx, productID)
	if err != nil {
		return 0, err
	}
	committed, err := r.Orders.SumOverlappingQuantity(ctx, productID, start, end, domain.CommittedStatuses, excludeOrderID)
	if err != nil {
		return 0, err
	}
	free := pool.Circulating() - committed
	if free < 0 {
		return 0, nil
	}
	return free, nil
}

// ensureWindowAvailability rejects the request with a period-conflict error
// when fewer than quantity units are free across the window.
func ensureWindowAvailability(ctx context.Context, r repository.Repositories, productID, quantity int32, start, end time.Time, excludeOrderID int32) error {
	free, err := windowAvailability(ctx, r, productID, start, end, excludeOrderID)
	if err != nil {
		return err
	}
	if free < quantity {
		return domain.NewPeriodConflictError(productID, quantity, free, start, end)
	}
	return nil
}
