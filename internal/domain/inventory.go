package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolName names one of the six inventory counters.
type PoolName string

const (
	PoolAvailable   PoolName = "AVAILABLE"
	PoolReserved    PoolName = "RESERVED"
	PoolRented      PoolName = "RENTED"
	PoolMaintenance PoolName = "MAINTENANCE"
	PoolDamaged     PoolName = "DAMAGED"
	PoolLost        PoolName = "LOST"
)

// InventoryPool holds the per-product unit counters. Every mutation is a
// relabeling between pools; the total only grows through AddStock. Counters
// never go negative: moves clamp to the source pool's current value.
type InventoryPool struct {
	ProductID          int32     `json:"product_id"`
	Available          int32     `json:"available"`
	Reserved           int32     `json:"reserved"`
	Rented             int32     `json:"rented"`
	Maintenance        int32     `json:"maintenance"`
	Damaged            int32     `json:"damaged"`
	Lost               int32     `json:"lost"`
	AlertThreshold     int32     `json:"alert_threshold"`
	ReorderPoint       *int32    `json:"reorder_point,omitempty"`
	AutoReorderEnabled bool      `json:"auto_reorder_enabled"`
	Version            int64     `json:"version"`
	UpdatedOn          time.Time `json:"updated_on"`
}

// ActualAvailable is the only quantity offerable to new reservations.
// The counters are disjoint: units moved into reserved or rented have
// already left available, so the free quantity is the available pool
// itself.
func (p *InventoryPool) ActualAvailable() int32 {
	if p.Available < 0 {
		return 0
	}
	return p.Available
}

// Circulating is the number of units in rental circulation: free, held for
// upcoming orders, or currently out. Units parked in maintenance or written
// off as damaged/lost are excluded.
func (p *InventoryPool) Circulating() int32 {
	return p.Available + p.Reserved + p.Rented
}

// TotalStock is the sum of all six counters.
func (p *InventoryPool) TotalStock() int32 {
	return p.Available + p.Reserved + p.Rented + p.Maintenance + p.Damaged + p.Lost
}

// UtilizationRate is the percentage of available stock that is committed,
// rounded to two decimals. Zero when nothing is available.
func (p *InventoryPool) UtilizationRate() decimal.Decimal {
	if p.Available == 0 {
		return decimal.Zero
	}
	committed := decimal.NewFromInt(int64(p.Reserved + p.Rented))
	avail := decimal.NewFromInt(int64(p.Available))
	return committed.Mul(decimal.NewFromInt(100)).Div(avail).Round(2)
}

// IsLowStock reports whether free stock has fallen to the alert threshold.
func (p *InventoryPool) IsLowStock() bool {
	return p.ActualAvailable() <= p.AlertThreshold
}

// NeedsReorder reports whether auto-reorder is on and free stock has fallen
// to the reorder point.
func (p *InventoryPool) NeedsReorder() bool {
	return p.AutoReorderEnabled && p.ReorderPoint != nil && p.ActualAvailable() <= *p.ReorderPoint
}

// Reserve moves qty units into the reserved pool. It fails without partial
// effect when the offerable quantity is insufficient.
func (p *InventoryPool) Reserve(qty int32) error {
	if qty < 1 {
		return NewValidationError(ErrKindBadQuantity, "quantity", "quantity must be at least 1")
	}
	if avail := p.ActualAvailable(); avail < qty {
		return NewInsufficientStockError(p.ProductID, qty, avail)
	}
	p.Available -= qty
	p.Reserved += qty
	return nil
}

// CancelReservation releases up to qty reserved units back to free capacity.
// Over-cancellation clamps to the reserved count instead of erroring.
// Returns the quantity actually released.
func (p *InventoryPool) CancelReservation(qty int32) int32 {
	n := clampMove(qty, p.Reserved)
	p.Reserved -= n
	p.Available += n
	return n
}

// ActivateRental moves up to qty units from reserved to rented and returns
// the quantity actually moved.
func (p *InventoryPool) ActivateRental(qty int32) int32 {
	n := clampMove(qty, p.Reserved)
	p.Reserved -= n
	p.Rented += n
	return n
}

// ReturnFromRental moves up to qty units from rented back to free capacity
// and returns the quantity actually moved.
func (p *InventoryPool) ReturnFromRental(qty int32) int32 {
	n := clampMove(qty, p.Rented)
	p.Rented -= n
	p.Available += n
	return n
}

// MoveToMaintenance relabels up to qty units from the named source pool as
// under maintenance.
func (p *InventoryPool) MoveToMaintenance(qty int32, source PoolName) (int32, error) {
	return p.relabel(qty, source, &p.Maintenance)
}

// MarkAsDamaged relabels up to qty units from the named source pool as
// damaged. The total is unchanged: a write-off is a relabeling, not a
// removal.
func (p *InventoryPool) MarkAsDamaged(qty int32, source PoolName) (int32, error) {
	return p.relabel(qty, source, &p.Damaged)
}

// MarkAsLost relabels up to qty units from the named source pool as lost.
func (p *InventoryPool) MarkAsLost(qty int32, source PoolName) (int32, error) {
	return p.relabel(qty, source, &p.Lost)
}

// AddStock adds newly acquired units to the available pool. This is the only
// operation that grows the total.
func (p *InventoryPool) AddStock(qty int32) error {
	if qty < 1 {
		return NewValidationError(ErrKindBadQuantity, "quantity", "quantity must be at least 1")
	}
	p.Available += qty
	return nil
}

func (p *InventoryPool) relabel(qty int32, source PoolName, dest *int32) (int32, error) {
	src, err := p.sourceCounter(source)
	if err != nil {
		return 0, err
	}
	n := clampMove(qty, *src)
	*src -= n
	*dest += n
	return n, nil
}

// sourceCounter resolves the pools units may be pulled from. Damaged and
// lost are terminal pools and are not valid sources.
func (p *InventoryPool) sourceCounter(source PoolName) (*int32, error) {
	switch source {
	case PoolAvailable:
		return &p.Available, nil
	case PoolReserved:
		return &p.Reserved, nil
	case PoolRented:
		return &p.Rented, nil
	case PoolMaintenance:
		return &p.Maintenance, nil
	default:
		return nil, NewValidationError(ErrKindMissingField, "source", "source pool must be one of available, reserved, rented, maintenance")
	}
}

func clampMove(qty, limit int32) int32 {
	if qty < 0 {
		return 0
	}
	if qty > limit {
		return limit
	}
	return qty
}
