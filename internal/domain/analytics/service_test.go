package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/product"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &product.Product{}, &order.Order{}, &order.OrderItem{}))

	return NewService(db, &config.Config{})
}

func seedOrder(t *testing.T, svc *Service, number, pickupDate string, status order.Status, total string) {
	t.Helper()
	ord := order.Order{
		OrderNumber:    number,
		UserID:         "customer-1",
		Status:         status,
		TotalAmount:    decimal.RequireFromString(total),
		PickupDate:     pickupDate,
		PickupTimeSlot: "morning",
	}
	require.NoError(t, svc.db.Create(&ord).Error)
}

func TestDashboardCountsAndTodayRevenue(t *testing.T) {
	svc := newTestService(t)
	now := time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)
	today := "2026-09-10"

	require.NoError(t, svc.db.Create(&product.Product{
		Name: "Tomatoes", Price: decimal.RequireFromString("2.50"), Unit: "kg", IsActive: true,
	}).Error)
	require.NoError(t, svc.db.Create(&user.User{Email: "shopper@example.com", Password: "x", IsActive: true}).Error)
	require.NoError(t, svc.db.Create(&user.User{Email: "admin@example.com", Password: "x", IsActive: true, IsAdmin: true}).Error)

	seedOrder(t, svc, "ORD-1", today, order.StatusPending, "10.80")
	seedOrder(t, svc, "ORD-2", today, order.StatusReady, "5.40")
	seedOrder(t, svc, "ORD-3", today, order.StatusCancelled, "99.99")
	seedOrder(t, svc, "ORD-4", "2026-09-11", order.StatusPending, "7.00")

	stats, err := svc.Dashboard(now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.TotalCustomers) // admins excluded
	assert.Equal(t, int64(2), stats.TodayPickups)   // cancelled excluded
	assert.True(t, decimal.RequireFromString("16.20").Equal(stats.TodayRevenue))
}

func TestDashboardEmptyStore(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.Dashboard(time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalProducts)
	assert.Equal(t, int64(0), stats.TodayPickups)
	assert.True(t, stats.TodayRevenue.IsZero())
}
