// internal/domain/product/service.go
package product

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/grocery-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents catalog listing filters
type ListRequest struct {
	CategoryID string `form:"category"`
	Search     string `form:"search"`
}

// CreateProductRequest represents admin product creation
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity" binding:"min=0"`
	Unit          string          `json:"unit" binding:"required"`
	CategoryID    *string         `json:"category_id"`
	IsActive      *bool           `json:"is_active"`
}

// UpdateProductRequest represents admin product updates; nil fields are left unchanged
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	ImageURL      *string          `json:"image_url"`
	StockQuantity *int             `json:"stock_quantity"`
	Unit          *string          `json:"unit"`
	CategoryID    *string          `json:"category_id"`
	IsActive      *bool            `json:"is_active"`
}

// CreateCategoryRequest represents admin category creation
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// ListProducts returns active products, optionally filtered by category and
// a case-insensitive name search, ordered by name.
func (s *Service) ListProducts(req *ListRequest) ([]Product, error) {
	query := s.db.Preload("Category").Where("is_active = ?", true)

	if req.CategoryID != "" {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(req.Search)+"%")
	}

	var products []Product
	if err := query.Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// GetProduct returns a single active product by id
func (s *Service) GetProduct(id string) (*Product, error) {
	var prod Product
	err := s.db.Preload("Category").Where("id = ? AND is_active = ?", id, true).First(&prod).Error
	if err != nil {
		return nil, fmt.Errorf("product not found")
	}
	return &prod, nil
}

// ListCategories returns all categories ordered by name
func (s *Service) ListCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// AdminListProducts returns every product including inactive ones
func (s *Service) AdminListProducts() ([]Product, error) {
	var products []Product
	if err := s.db.Preload("Category").Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateProduct creates a new catalog item
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative")
	}

	prod := Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
		CategoryID:    req.CategoryID,
		IsActive:      true,
	}
	if req.IsActive != nil {
		prod.IsActive = *req.IsActive
	}

	if err := s.db.Create(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &prod, nil
}

// UpdateProduct applies a partial update to a product
func (s *Service) UpdateProduct(id string, req *UpdateProductRequest) (*Product, error) {
	var prod Product
	if err := s.db.Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative")
		}
		prod.Price = *req.Price
	}
	if req.ImageURL != nil {
		prod.ImageURL = *req.ImageURL
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, fmt.Errorf("stock quantity cannot be negative")
		}
		prod.StockQuantity = *req.StockQuantity
	}
	if req.Unit != nil {
		prod.Unit = *req.Unit
	}
	if req.CategoryID != nil {
		prod.CategoryID = req.CategoryID
	}
	if req.IsActive != nil {
		prod.IsActive = *req.IsActive
	}

	if err := s.db.Save(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &prod, nil
}

// DeleteProduct soft-deletes a product
func (s *Service) DeleteProduct(id string) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}

// UpdateStock sets the absolute stock quantity for a product
func (s *Service) UpdateStock(id string, quantity int) (*Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("stock quantity cannot be negative")
	}

	var prod Product
	if err := s.db.Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	prod.StockQuantity = quantity
	if err := s.db.Save(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	return &prod, nil
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(req *CreateCategoryRequest) (*Category, error) {
	category := Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}
