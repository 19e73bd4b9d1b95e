// internal/domain/order/service.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// TaxRate is applied to the cart subtotal at checkout.
var TaxRate = decimal.RequireFromString("0.08")

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// PlaceOrderRequest represents checkout input
type PlaceOrderRequest struct {
	PickupDate     string `json:"pickup_date" binding:"required"`
	PickupTimeSlot string `json:"pickup_time_slot" binding:"required"`
	Notes          string `json:"notes"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// AdminListRequest represents back-office order filters
type AdminListRequest struct {
	Status Status `form:"status"`
	Date   string `form:"date"`
}

// CreateFromCart turns the current cart snapshot into a pending order.
// Totals are recomputed from the line items; an 8% tax is added on top of
// the subtotal. The cart itself is not touched here - callers clear it
// after the order is stored.
func (s *Service) CreateFromCart(userID string, snapshot cart.State, req *PlaceOrderRequest) (*Order, error) {
	if len(snapshot.Items) == 0 {
		return nil, fmt.Errorf("cannot place an order with an empty cart")
	}
	if _, err := time.Parse("2006-01-02", req.PickupDate); err != nil {
		return nil, fmt.Errorf("invalid pickup date: %w", err)
	}

	subtotal := decimal.Zero
	items := make([]OrderItem, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, OrderItem{
			ProductID:  line.ID,
			Name:       line.Name,
			Unit:       line.Unit,
			Quantity:   line.Quantity,
			UnitPrice:  line.Price,
			TotalPrice: lineTotal,
		})
	}

	tax := subtotal.Mul(TaxRate).Round(2)

	ord := Order{
		OrderNumber:    generateOrderNumber(),
		UserID:         userID,
		Status:         StatusPending,
		SubtotalAmount: subtotal,
		TaxAmount:      tax,
		TotalAmount:    subtotal.Add(tax),
		PickupDate:     req.PickupDate,
		PickupTimeSlot: req.PickupTimeSlot,
		Notes:          req.Notes,
		Items:          items,
	}

	if err := s.db.Create(&ord).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return &ord, nil
}

// ListByUser returns the user's orders, newest first
func (s *Service) ListByUser(userID string) ([]Order, error) {
	var orders []Order
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID returns a single order owned by the given user
func (s *Service) GetByID(id, userID string) (*Order, error) {
	var ord Order
	err := s.db.Preload("Items").Where("id = ? AND user_id = ?", id, userID).First(&ord).Error
	if err != nil {
		return nil, fmt.Errorf("order not found")
	}
	return &ord, nil
}

// AdminList returns all orders with optional status and pickup date filters
func (s *Service) AdminList(req *AdminListRequest) ([]Order, error) {
	query := s.db.Preload("Items").Order("created_at DESC")

	if req.Status != "" {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("unknown order status: %s", req.Status)
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.Date != "" {
		query = query.Where("pickup_date = ?", req.Date)
	}

	var orders []Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to the requested status. Transitions outside
// pending -> preparing -> ready -> completed (with cancellation from any
// non-terminal state) are rejected.
func (s *Service) UpdateStatus(id string, next Status) (*Order, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("unknown order status: %s", next)
	}

	var ord Order
	if err := s.db.Preload("Items").Where("id = ?", id).First(&ord).Error; err != nil {
		return nil, fmt.Errorf("order not found")
	}

	if !ord.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("cannot move order from %s to %s", ord.Status, next)
	}

	ord.Status = next
	if err := s.db.Save(&ord).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return &ord, nil
}

// Cancel cancels a customer's own order if it has not reached a terminal state
func (s *Service) Cancel(id, userID string) (*Order, error) {
	ord, err := s.GetByID(id, userID)
	if err != nil {
		return nil, err
	}

	if !ord.CanBeCancelled() {
		return nil, fmt.Errorf("order in status %s can no longer be cancelled", ord.Status)
	}

	ord.Status = StatusCancelled
	if err := s.db.Save(ord).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	return ord, nil
}

// generateOrderNumber builds a human-readable unique order number
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
