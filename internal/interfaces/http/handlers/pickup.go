// internal/interfaces/http/handlers/pickup.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/pickup"
	"gorm.io/gorm"
)

// PickupHandler handles pickup slot endpoints
type PickupHandler struct {
	pickupService *pickup.Service
	config        *config.Config
}

// NewPickupHandler creates a new pickup handler
func NewPickupHandler(db *gorm.DB, cfg *config.Config) *PickupHandler {
	return &PickupHandler{
		pickupService: pickup.NewService(db, cfg),
		config:        cfg,
	}
}

// GetSlots returns pickup slot availability for a month. Defaults to the
// current month when year/month query parameters are omitted.
func (h *PickupHandler) GetSlots(c *gin.Context) {
	now := time.Now()

	year := now.Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = parsed
	}

	month := now.Month()
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		month = time.Month(parsed)
	}

	slots, err := h.pickupService.MonthSlots(year, month, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": slots,
	})
}
