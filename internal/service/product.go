package service

import (
	"context"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
)

type productService struct {
	store repository.Store
}

func NewProductService(store repository.Store) ProductService {
	return &productService{store: store}
}

// CreateProduct writes the product and its empty inventory pool atomically,
// seeding the available pool with the initial stock when given.
func (s *productService) CreateProduct(ctx context.Context, product *domain.RentalProduct, initialStock int32) (*domain.RentalProduct, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if initialStock < 0 {
		return nil, domain.NewValidationError(domain.ErrKindBadQuantity, "initial_stock", "initial stock must not be negative")
	}

	err := s.store.RunInTx(ctx, func(r repository.Repositories) error {
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		pool := &domain.InventoryPool{
			ProductID: product.ID,
			Available: initialStock,
		}
		if err := r.Inventory.Create(ctx, pool); err != nil {
			return err
		}
		if initialStock > 0 {
			return r.Movements.Create(ctx, &domain.StockMovement{
				ProductID:    product.ID,
				Type:         domain.MovementAddStock,
				DestPool:     domain.PoolAvailable,
				RequestedQty: initialStock,
				EffectiveQty: initialStock,
				Note:         "initial stock",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id int32) (*domain.RentalProduct, error) {
	return s.store.Repos().Products.GetByID(ctx, id)
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.RentalProduct) error {
	if err := product.Validate(); err != nil {
		return err
	}
	return s.store.Repos().Products.Update(ctx, product)
}

func (s *productService) ListProducts(ctx context.Context, enabledOnly bool, page, pageSize int32) ([]domain.RentalProduct, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.store.Repos().Products.List(ctx, enabledOnly, page, pageSize)
}
