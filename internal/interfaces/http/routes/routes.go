// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/interfaces/http/handlers"
	"github.com/your-org/grocery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every API route group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	cartRepository := cart.NewRedisRepository(redisClient, cfg)

	SetupAuthRoutes(rg, db, cfg)
	SetupCatalogRoutes(rg, db, cfg)
	SetupCartRoutes(rg, db, cartRepository, cfg)
	SetupOrderRoutes(rg, db, cartRepository, cfg)
	SetupPickupRoutes(rg, db, cfg)
	SetupAdminRoutes(rg, db, cartRepository, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}
}

// SetupCatalogRoutes sets up the public storefront catalog routes
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	rg.GET("/categories", productHandler.GetCategories)
}

// SetupCartRoutes sets up cart routes. Carts are keyed by a browser
// session id, so guests can build a cart before signing in.
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, repo cart.Repository, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, repo, cfg)

	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.UpdateQuantity)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}
}

// SetupOrderRoutes sets up checkout and order routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, repo cart.Repository, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, repo, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg)) // All order routes require authentication
	{
		orders.POST("", orderHandler.Checkout)
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/receipt", orderHandler.DownloadReceipt)
	}
}

// SetupPickupRoutes sets up pickup slot routes
func SetupPickupRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	pickupHandler := handlers.NewPickupHandler(db, cfg)

	rg.GET("/pickup/slots", pickupHandler.GetSlots)
}

// SetupAdminRoutes sets up the back-office routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, repo cart.Repository, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, repo, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg)) // Require authentication
	admin.Use(middleware.AdminMiddleware())   // Require admin privileges
	{
		// Product management
		products := admin.Group("/products")
		{
			products.GET("", productHandler.AdminGetProducts)
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.PUT("/:id/stock", productHandler.UpdateStock)
		}

		// Category management
		admin.POST("/categories", productHandler.CreateCategory)

		// Order management
		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.AdminGetOrders)
			orders.PUT("/:id/status", orderHandler.AdminUpdateStatus)
		}

		// Customers and dashboard
		admin.GET("/customers", adminHandler.GetCustomers)
		admin.GET("/dashboard", adminHandler.GetDashboard)
	}
}
