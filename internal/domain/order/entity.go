// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status represents the pickup order status
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// validTransitions maps each status to the statuses it may move to.
// Cancellation is allowed from any non-terminal status.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid reports whether the status is one of the known values
func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether moving to next is allowed
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order represents a pickup order
type Order struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	OrderNumber    string          `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID         string          `gorm:"not null;index;size:36" json:"user_id"`
	Status         Status          `gorm:"not null;default:'pending';size:20" json:"status"`
	SubtotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"tax_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	PickupDate     string          `gorm:"not null;index;size:10" json:"pickup_date"` // YYYY-MM-DD
	PickupTimeSlot string          `gorm:"not null;size:20" json:"pickup_time_slot"`  // morning, afternoon, evening
	Notes          string          `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents one line of an order, copied from the cart snapshot
type OrderItem struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID    string          `gorm:"not null;index;size:36" json:"order_id"`
	ProductID  string          `gorm:"not null;index;size:36" json:"product_id"`
	Name       string          `gorm:"not null;size:255" json:"name"`
	Unit       string          `gorm:"size:50" json:"unit"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// BeforeCreate assigns an id when none was provided
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// BeforeCreate assigns an id when none was provided
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// CanBeCancelled reports whether the customer may still cancel
func (o *Order) CanBeCancelled() bool {
	return o.Status.CanTransitionTo(StatusCancelled)
}
