// internal/domain/pickup/service.go
package pickup

import (
	"fmt"
	"time"

	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"gorm.io/gorm"
)

// TimeSlots are the pickup windows offered each day.
var TimeSlots = []string{"morning", "afternoon", "evening"}

// Slot represents availability of one pickup window on one day
type Slot struct {
	Date        string `json:"date"` // YYYY-MM-DD
	TimeSlot    string `json:"time_slot"`
	OrdersCount int    `json:"orders_count"`
	MaxCapacity int    `json:"max_capacity"`
}

// Service exposes the pickup calendar
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new pickup service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// MonthSlots returns every remaining pickup slot of the given month with
// its current booking count. Past days are skipped; cancelled orders do
// not occupy capacity.
func (s *Service) MonthSlots(year int, month time.Month, now time.Time) ([]Slot, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	today := now.UTC().Format("2006-01-02")

	counts, err := s.slotCounts(first.Format("2006-01-02"), last.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	capacity := s.slotCapacity()
	slots := make([]Slot, 0, last.Day()*len(TimeSlots))
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		if date < today {
			continue
		}
		for _, window := range TimeSlots {
			slots = append(slots, Slot{
				Date:        date,
				TimeSlot:    window,
				OrdersCount: counts[date+"/"+window],
				MaxCapacity: capacity,
			})
		}
	}

	return slots, nil
}

// slotCounts groups non-cancelled orders by pickup date and window
func (s *Service) slotCounts(from, to string) (map[string]int, error) {
	type row struct {
		PickupDate     string
		PickupTimeSlot string
		Count          int
	}

	var rows []row
	err := s.db.Model(&order.Order{}).
		Select("pickup_date, pickup_time_slot, COUNT(*) AS count").
		Where("pickup_date BETWEEN ? AND ?", from, to).
		Where("status <> ?", order.StatusCancelled).
		Group("pickup_date, pickup_time_slot").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pickup slots: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.PickupDate+"/"+r.PickupTimeSlot] = r.Count
	}
	return counts, nil
}

func (s *Service) slotCapacity() int {
	if s.config != nil && s.config.Pickup.SlotCapacity > 0 {
		return s.config.Pickup.SlotCapacity
	}
	return 10
}
