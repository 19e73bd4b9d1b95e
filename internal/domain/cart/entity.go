// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
)

// LineItem represents one product entry in the cart. Display metadata and
// price are copied from the catalog at add-time and never re-fetched;
// StockQuantity is a ceiling captured at the same moment.
type LineItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Unit          string          `json:"unit"`
	Quantity      int             `json:"quantity"`
	StockQuantity int             `json:"stock_quantity"`
}

// Candidate is a line item without a quantity, as supplied by callers on
// AddItem. All fields come from the catalog listing.
type Candidate struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Unit          string          `json:"unit"`
	StockQuantity int             `json:"stock_quantity"`
}

// State is the full cart snapshot. Total and ItemCount are derived from
// Items and recomputed after every mutation; they are never set directly.
type State struct {
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Intent is the closed set of cart mutations. Every intent is handled by
// the reducer as a total function; there are no partial failures.
type Intent interface {
	isIntent()
}

// AddItem adds one unit of the candidate product. An existing line item is
// incremented, clamped to its stored stock ceiling; a new product is
// appended with quantity 1.
type AddItem struct {
	Candidate Candidate
}

// RemoveItem deletes the line item with the given product id, if present.
type RemoveItem struct {
	ID string
}

// UpdateQuantity sets the quantity of a line item. Zero or negative
// quantities remove the item; quantities above the stock ceiling are
// clamped to it.
type UpdateQuantity struct {
	ID       string
	Quantity int
}

// ClearCart resets the cart to empty.
type ClearCart struct{}

// LoadCart replaces the item list wholesale. Used for startup rehydration.
type LoadCart struct {
	Items []LineItem
}

func (AddItem) isIntent()        {}
func (RemoveItem) isIntent()     {}
func (UpdateQuantity) isIntent() {}
func (ClearCart) isIntent()      {}
func (LoadCart) isIntent()       {}
