// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/product"
	"gorm.io/gorm"
)

const cartSessionCookie = "cart_session"

// CartHandler handles shopping cart endpoints. The cart is keyed by a
// per-browser session id, not the authenticated user, so guests can shop
// before signing in.
type CartHandler struct {
	productService *product.Service
	repository     cart.Repository
	logger         *logrus.Logger
	config         *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, repo cart.Repository, cfg *config.Config) *CartHandler {
	return &CartHandler{
		productService: product.NewService(db, cfg),
		repository:     repo,
		logger:         logrus.New(),
		config:         cfg,
	}
}

// GetCart returns the current cart state
func (h *CartHandler) GetCart(c *gin.Context) {
	store := h.store(c)
	c.JSON(http.StatusOK, gin.H{
		"data": store.State(),
	})
}

// AddItem adds one unit of a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	prod, err := h.productService.GetProduct(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	if !prod.IsInStock() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Product is out of stock",
		})
		return
	}

	store := h.store(c)
	state := store.Dispatch(c.Request.Context(), cart.AddItem{
		Candidate: prod.ToCartCandidate(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    state,
	})
}

// UpdateQuantity sets the quantity of a cart line item
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.store(c)
	state := store.Dispatch(c.Request.Context(), cart.UpdateQuantity{
		ID:       c.Param("id"),
		Quantity: req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"data":    state,
	})
}

// RemoveItem deletes a line item from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	store := h.store(c)
	state := store.Dispatch(c.Request.Context(), cart.RemoveItem{
		ID: c.Param("id"),
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    state,
	})
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store := h.store(c)
	state := store.Dispatch(c.Request.Context(), cart.ClearCart{})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
		"data":    state,
	})
}

// store rehydrates the cart store for the request's session slot
func (h *CartHandler) store(c *gin.Context) *cart.Store {
	return cart.NewStore(c.Request.Context(), h.sessionID(c), h.repository, h.logger)
}

// sessionID resolves the cart session id from the cookie or the
// X-Cart-Session header, minting a new one when neither is present.
func (h *CartHandler) sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(cartSessionCookie); err == nil && sid != "" {
		return sid
	}
	if sid := c.GetHeader("X-Cart-Session"); sid != "" {
		return sid
	}

	sid := uuid.New().String()
	maxAge := int(h.config.Cart.TTL.Seconds())
	c.SetCookie(cartSessionCookie, sid, maxAge, "/", "", h.config.IsProduction(), true)
	return sid
}
