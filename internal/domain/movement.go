package domain

import "time"

// MovementType labels a stock movement in the audit trail.
type MovementType string

const (
	MovementReserve           MovementType = "RESERVE"
	MovementCancelReservation MovementType = "CANCEL_RESERVATION"
	MovementActivate          MovementType = "ACTIVATE"
	MovementReturn            MovementType = "RETURN"
	MovementMaintenance       MovementType = "MAINTENANCE"
	MovementDamage            MovementType = "DAMAGE"
	MovementLoss              MovementType = "LOSS"
	MovementAddStock          MovementType = "ADD_STOCK"
)

// StockMovement is an append-only audit record of one pool transition. It is
// written in the same transaction as the counter mutation. Requested and
// effective quantities can differ when a move was clamped to the source
// pool.
type StockMovement struct {
	ID           int64        `json:"id"`
	ProductID    int32        `json:"product_id"`
	Type         MovementType `json:"type"`
	SourcePool   PoolName     `json:"source_pool,omitempty"`
	DestPool     PoolName     `json:"dest_pool,omitempty"`
	RequestedQty int32        `json:"requested_qty"`
	EffectiveQty int32        `json:"effective_qty"`
	OrderID      *int32       `json:"order_id,omitempty"`
	Note         string       `json:"note,omitempty"`
	CreatedOn    time.Time    `json:"created_on"`
}
