package domain

import "time"

// Lifecycle event names carried on notifications.
const (
	EventOrderCreated   = "order_created"
	EventOrderApproved  = "approved"
	EventOrderStarted   = "started"
	EventOrderReturned  = "returned"
	EventOrderOverdue   = "overdue"
	EventOrderDamaged   = "damaged"
	EventOrderCancelled = "cancelled"
	EventOrderExtended  = "extended"
)

type Notification struct {
	ID         int32             `json:"id"`
	EventID    string            `json:"event_id"` // unique per emission, for collaborator dedup
	CustomerID int32             `json:"customer_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	IsRead     bool              `json:"is_read"`
	CreatedOn  time.Time         `json:"created_on"`
}
