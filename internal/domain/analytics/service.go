// internal/domain/analytics/service.go
package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/product"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Service aggregates the back-office dashboard numbers
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// DashboardStats mirrors the admin landing page
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	TotalOrders    int64           `json:"total_orders"`
	TotalCustomers int64           `json:"total_customers"`
	TodayPickups   int64           `json:"today_pickups"`
	TodayRevenue   decimal.Decimal `json:"today_revenue"`
}

// Dashboard returns catalog, order and customer counts plus today's
// pickup load and the revenue of today's non-cancelled orders.
func (s *Service) Dashboard(now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{TodayRevenue: decimal.Zero}
	today := now.UTC().Format("2006-01-02")

	if err := s.db.Model(&product.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Model(&order.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&user.User{}).Where("is_admin = ?", false).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	err := s.db.Model(&order.Order{}).
		Where("pickup_date = ?", today).
		Where("status <> ?", order.StatusCancelled).
		Count(&stats.TodayPickups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count today's pickups: %w", err)
	}

	var todays []order.Order
	err = s.db.
		Where("pickup_date = ?", today).
		Where("status <> ?", order.StatusCancelled).
		Find(&todays).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load today's orders: %w", err)
	}
	for _, ord := range todays {
		stats.TodayRevenue = stats.TodayRevenue.Add(ord.TotalAmount)
	}

	return stats, nil
}
