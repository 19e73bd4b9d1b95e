// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/analytics"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"gorm.io/gorm"
)

// AdminHandler handles back-office dashboard endpoints
type AdminHandler struct {
	analyticsService *analytics.Service
	userService      *user.Service
	config           *config.Config
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		analyticsService: analytics.NewService(db, cfg),
		userService:      user.NewService(db, cfg),
		config:           cfg,
	}
}

// GetDashboard returns store-wide counters for the admin dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stats,
	})
}

// GetCustomers returns all customer accounts
func (h *AdminHandler) GetCustomers(c *gin.Context) {
	customers, err := h.userService.ListCustomers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": customers,
	})
}
