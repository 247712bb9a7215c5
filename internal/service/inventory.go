package service

import (
	"context"
	"fmt"
	"time"

	"rentstack-backend/internal/cache"
	"rentstack-backend/internal/config"
	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/logger"
	"rentstack-backend/internal/repository"
)

type inventoryService struct {
	store    repository.Store
	cache    *cache.AvailabilityCache
	notifier *Notifier

	horizonDays int32
	now         func() time.Time
}

func NewInventoryService(store repository.Store, availCache *cache.AvailabilityCache, notifier *Notifier, rentalCfg config.RentalConfig) InventoryService {
	return &inventoryService{
		store:       store,
		cache:       availCache,
		notifier:    notifier,
		horizonDays: int32(rentalCfg.ReservationHorizonDay),
		now:         time.Now,
	}
}

// GetPool reads the pool snapshot through the availability cache.
func (s *inventoryService) GetPool(ctx context.Context, productID int32) (*domain.InventoryPool, error) {
	if pool := s.cache.GetPool(ctx, productID); pool != nil {
		return pool, nil
	}
	pool, err := s.store.Repos().Inventory.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	s.cache.SetPool(ctx, pool)
	return pool, nil
}

// CheckAvailability reports whether quantity units are free across the
// window, and how many are.
func (s *inventoryService) CheckAvailability(ctx context.Context, productID, quantity int32, start, end time.Time) (bool, int32, error) {
	if !start.Before(end) {
		return false, 0, domain.NewValidationError(domain.ErrKindBadPeriod, "end_date", "end date must be after start date")
	}
	free, err := windowAvailability(ctx, s.store.Repos(), productID, start, end, 0)
	if err != nil {
		return false, 0, err
	}
	return free >= quantity, free, nil
}

func (s *inventoryService) AddStock(ctx context.Context, productID, quantity int32, note string) (*domain.InventoryPool, error) {
	return s.mutatePool(ctx, productID, func(r repository.Repositories, pool *domain.InventoryPool) error {
		if err := pool.AddStock(quantity); err != nil {
			return err
		}
		return s.recordAdjustment(ctx, r, productID, domain.MovementAddStock, "", domain.PoolAvailable, quantity, quantity, note)
	})
}

func (s *inventoryService) MoveToMaintenance(ctx context.Context, productID, quantity int32, source domain.PoolName, note string) (*domain.InventoryPool, error) {
	return s.mutatePool(ctx, productID, func(r repository.Repositories, pool *domain.InventoryPool) error {
		moved, err := pool.MoveToMaintenance(quantity, source)
		if err != nil {
			return err
		}
		return s.recordAdjustment(ctx, r, productID, domain.MovementMaintenance, source, domain.PoolMaintenance, quantity, moved, note)
	})
}

func (s *inventoryService) MarkAsDamaged(ctx context.Context, productID, quantity int32, source domain.PoolName, note string) (*domain.InventoryPool, error) {
	return s.mutatePool(ctx, productID, func(r repository.Repositories, pool *domain.InventoryPool) error {
		moved, err := pool.MarkAsDamaged(quantity, source)
		if err != nil {
			return err
		}
		return s.recordAdjustment(ctx, r, productID, domain.MovementDamage, source, domain.PoolDamaged, quantity, moved, note)
	})
}

func (s *inventoryService) MarkAsLost(ctx context.Context, productID, quantity int32, source domain.PoolName, note string) (*domain.InventoryPool, error) {
	return s.mutatePool(ctx, productID, func(r repository.Repositories, pool *domain.InventoryPool) error {
		moved, err := pool.MarkAsLost(quantity, source)
		if err != nil {
			return err
		}
		return s.recordAdjustment(ctx, r, productID, domain.MovementLoss, source, domain.PoolLost, quantity, moved, note)
	})
}

func (s *inventoryService) ListLowStock(ctx context.Context) ([]domain.InventoryPool, error) {
	return s.store.Repos().Inventory.ListLowStock(ctx)
}

func (s *inventoryService) ListMovements(ctx context.Context, productID, page, pageSize int32) ([]domain.StockMovement, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.store.Repos().Movements.ListByProduct(ctx, productID, page, pageSize)
}

// SecureUpcomingReservations pulls ledger stock for committed orders whose
// start date has reached the reservation horizon. Each order is secured in
// its own transaction so one failure does not block the rest.
func (s *inventoryService) SecureUpcomingReservations(ctx context.Context) (int, error) {
	horizon := truncateToDay(s.now()).AddDate(0, 0, int(s.horizonDays))
	orders, err := s.store.Repos().Orders.ListUnsecured(ctx, horizon)
	if err != nil {
		return 0, err
	}

	secured := 0
	for i := range orders {
		order := orders[i]
		err := s.store.RunInTx(ctx, func(r repository.Repositories) error {
			pool, err := r.Inventory.GetForUpdate(ctx, order.ProductID)
			if err != nil {
				return err
			}
			if err := pool.Reserve(order.Quantity); err != nil {
				return err
			}
			if err := saveCounters(ctx, r, pool); err != nil {
				return err
			}
			if err := recordMovement(ctx, r, &order, domain.MovementReserve, domain.PoolAvailable, domain.PoolReserved, order.Quantity, order.Quantity, "secured ahead of start date"); err != nil {
				return err
			}
			order.StockReserved = true
			ok, err := r.Orders.UpdateWithStatusGuard(ctx, &order, domain.CommittedStatuses)
			if err != nil {
				return err
			}
			if !ok {
				return domain.NewStateError(order.Status, domain.CommittedStatuses, "secure reservation")
			}
			return nil
		})
		if err != nil {
			logger.Warn("failed to secure reservation", "order_id", order.ID, "product_id", order.ProductID, "error", err)
			if e, ok := domain.AsError(err); ok && e.Kind == domain.ErrKindInsufficientStock {
				s.notifier.AdminAlert(ctx, "Reservation could not be secured",
					fmt.Sprintf("Order %s needs %d unit(s) of product %d but the ledger has too few free", order.OrderNumber, order.Quantity, order.ProductID))
			}
			continue
		}
		s.cache.Invalidate(ctx, order.ProductID)
		secured++
	}
	return secured, nil
}

// AuditOvercommit cross-checks each product's committed order quantities
// against its circulating stock over a rolling window. Overcommits indicate
// a ledger/order divergence and page an admin.
func (s *inventoryService) AuditOvercommit(ctx context.Context) ([]*domain.Error, error) {
	repos := s.store.Repos()
	today := truncateToDay(s.now())
	end := today.AddDate(0, 0, 90)

	products, _, err := repos.Products.List(ctx, false, 1, 1000)
	if err != nil {
		return nil, err
	}

	var findings []*domain.Error
	for i := range products {
		productID := products[i].ID
		pool, err := repos.Inventory.GetByProductID(ctx, productID)
		if err != nil {
			logger.Warn("audit skipped product, pool lookup failed", "product_id", productID, "error", err)
			continue
		}
		orders, err := repos.Orders.ListCommittedOverlapping(ctx, productID, today, end)
		if err != nil {
			return nil, err
		}
		if finding := worstOvercommit(pool, orders, today, end); finding != nil {
			findings = append(findings, finding)
			s.notifier.AdminAlert(ctx, "Inventory overcommit detected", finding.Message)
		}
	}
	return findings, nil
}

// worstOvercommit sweeps the window day by day and returns the deepest
// overcommit found, nil when commitments never exceed circulation.
func worstOvercommit(pool *domain.InventoryPool, orders []domain.RentalOrder, start, end time.Time) *domain.Error {
	circulating := pool.Circulating()
	var worst *domain.Error
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		var committed int32
		for i := range orders {
			if orders[i].Overlaps(day, day) {
				committed += orders[i].Quantity
			}
		}
		if committed > circulating && (worst == nil || committed > worst.Requested) {
			worst = domain.NewOvercommitError(pool.ProductID, committed, circulating)
			worst.WindowStart = day
			worst.WindowEnd = day
		}
	}
	return worst
}

func (s *inventoryService) mutatePool(ctx context.Context, productID int32, mutate func(r repository.Repositories, pool *domain.InventoryPool) error) (*domain.InventoryPool, error) {
	var pool *domain.InventoryPool
	err := s.store.RunInTx(ctx, func(r repository.Repositories) error {
		p, err := r.Inventory.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := mutate(r, p); err != nil {
			return err
		}
		if err := saveCounters(ctx, r, p); err != nil {
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, productID)
	if pool.IsLowStock() {
		s.notifier.AdminAlert(ctx, "Low stock",
			fmt.Sprintf("Product %d has %d free unit(s), at or below its alert threshold of %d", productID, pool.ActualAvailable(), pool.AlertThreshold))
	}
	return pool, nil
}

func (s *inventoryService) recordAdjustment(ctx context.Context, r repository.Repositories, productID int32, typ domain.MovementType, from, to domain.PoolName, requested, effective int32, note string) error {
	return r.Movements.Create(ctx, &domain.StockMovement{
		ProductID:    productID,
		Type:         typ,
		SourcePool:   from,
		DestPool:     to,
		RequestedQty: requested,
		EffectiveQty: effective,
		Note:         note,
	})
}
