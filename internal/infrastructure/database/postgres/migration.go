// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/product"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: users and categories first, orders last
	models := []interface{}{
		&user.User{},
		&product.Category{},
		&product.Product{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_pickup_slot ON orders(pickup_date, pickup_time_slot)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds an admin account and a starter catalog in development
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return err
	}
	if err := m.seedCatalog(); err != nil {
		return err
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var count int64
	m.db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin12345!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:     "admin@example.com",
		Password:  string(hashed),
		FirstName: "Store",
		LastName:  "Admin",
		IsActive:  true,
		IsAdmin:   true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("Seeded admin user admin@example.com")
	return nil
}

func (m *Migration) seedCatalog() error {
	var count int64
	m.db.Model(&product.Category{}).Count(&count)
	if count > 0 {
		return nil
	}

	categories := []product.Category{
		{Name: "Vegetables", Description: "Fresh seasonal vegetables"},
		{Name: "Fruits", Description: "Fresh seasonal fruits"},
		{Name: "Dairy", Description: "Milk, cheese and eggs"},
		{Name: "Bakery", Description: "Breads and baked goods"},
		{Name: "Pantry", Description: "Staples, grains and spices"},
	}
	if err := m.db.Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	products := []product.Product{
		{Name: "Tomatoes", Price: decimal.RequireFromString("2.50"), StockQuantity: 40, Unit: "kg", CategoryID: &categories[0].ID, IsActive: true},
		{Name: "Spinach", Price: decimal.RequireFromString("1.80"), StockQuantity: 25, Unit: "bunch", CategoryID: &categories[0].ID, IsActive: true},
		{Name: "Apples", Price: decimal.RequireFromString("3.20"), StockQuantity: 30, Unit: "kg", CategoryID: &categories[1].ID, IsActive: true},
		{Name: "Bananas", Price: decimal.RequireFromString("1.10"), StockQuantity: 50, Unit: "dozen", CategoryID: &categories[1].ID, IsActive: true},
		{Name: "Whole Milk", Price: decimal.RequireFromString("0.99"), StockQuantity: 60, Unit: "l", CategoryID: &categories[2].ID, IsActive: true},
		{Name: "Eggs", Price: decimal.RequireFromString("2.40"), StockQuantity: 45, Unit: "dozen", CategoryID: &categories[2].ID, IsActive: true},
		{Name: "Sourdough Loaf", Price: decimal.RequireFromString("4.50"), StockQuantity: 15, Unit: "piece", CategoryID: &categories[3].ID, IsActive: true},
		{Name: "Basmati Rice", Price: decimal.RequireFromString("5.75"), StockQuantity: 35, Unit: "kg", CategoryID: &categories[4].ID, IsActive: true},
	}
	if err := m.db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Printf("Seeded %d categories and %d products", len(categories), len(products))
	return nil
}
