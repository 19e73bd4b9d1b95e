// internal/domain/pickup/service_test.go
package pickup

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.OrderItem{}))

	return NewService(db, nil)
}

func seedOrder(t *testing.T, svc *Service, date, slot string, status order.Status) {
	t.Helper()

	err := svc.db.Create(&order.Order{
		OrderNumber:    "ORD-" + date + "-" + slot + "-" + string(status),
		UserID:         "user-1",
		Status:         status,
		SubtotalAmount: decimal.NewFromInt(10),
		TaxAmount:      decimal.RequireFromString("0.80"),
		TotalAmount:    decimal.RequireFromString("10.80"),
		PickupDate:     date,
		PickupTimeSlot: slot,
	}).Error
	require.NoError(t, err)
}

func TestMonthSlotsSkipsPastDays(t *testing.T) {
	svc := newTestService(t)
	now := time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)

	slots, err := svc.MonthSlots(2026, time.September, now)

	require.NoError(t, err)
	// September has 30 days; days 15-30 remain, three windows each.
	assert.Len(t, slots, 16*3)
	assert.Equal(t, "2026-09-15", slots[0].Date)
	assert.Equal(t, "morning", slots[0].TimeSlot)
}

func TestMonthSlotsCountsBookings(t *testing.T) {
	svc := newTestService(t)
	now := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	seedOrder(t, svc, "2026-09-03", "morning", order.StatusPending)
	seedOrder(t, svc, "2026-09-03", "morning", order.StatusPreparing)
	seedOrder(t, svc, "2026-09-03", "morning", order.StatusCancelled)
	seedOrder(t, svc, "2026-09-03", "evening", order.StatusReady)

	slots, err := svc.MonthSlots(2026, time.September, now)
	require.NoError(t, err)

	bySlot := make(map[string]Slot, len(slots))
	for _, slot := range slots {
		bySlot[slot.Date+"/"+slot.TimeSlot] = slot
	}

	assert.Equal(t, 2, bySlot["2026-09-03/morning"].OrdersCount, "cancelled orders free their slot")
	assert.Equal(t, 1, bySlot["2026-09-03/evening"].OrdersCount)
	assert.Equal(t, 0, bySlot["2026-09-03/afternoon"].OrdersCount)
	assert.Equal(t, 10, bySlot["2026-09-03/morning"].MaxCapacity)
}
