// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// Product represents a grocery catalog item
type Product struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Name          string          `gorm:"not null;size:255" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	ImageURL      string          `gorm:"size:500" json:"image_url"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	Unit          string          `gorm:"size:50" json:"unit"` // kg, bunch, dozen, etc.
	CategoryID    *string         `gorm:"index;size:36" json:"category_id"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
}

// Category groups products for browsing
type Category struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }

// BeforeCreate assigns an id when none was provided
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// BeforeCreate assigns an id when none was provided
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// IsInStock reports whether the product can be added to a cart
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// ToCartCandidate snapshots the catalog row for the cart. Price and stock
// are copied as of now; the cart never re-reads them.
func (p *Product) ToCartCandidate() cart.Candidate {
	return cart.Candidate{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		ImageURL:      p.ImageURL,
		Unit:          p.Unit,
		StockQuantity: p.StockQuantity,
	}
}
