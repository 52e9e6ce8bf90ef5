package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart represents a user's shopping cart. One cart exists per user; totals
// are always derived from the lines and the catalog, never set directly.
type Cart struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"user_id"`
	Lines         []CartLine      `json:"lines"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CartLine is one book entry within a cart. At most one line exists per book.
type CartLine struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

// NewCart creates an empty, unpersisted cart for the given user.
// The storage layer assigns the ID on first upsert.
func NewCart(userID int64) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:     userID,
		Lines:      []CartLine{},
		TotalPrice: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// FindLine returns the index of the line for the given book, or -1.
func (c *Cart) FindLine(bookID int64) int {
	for i := range c.Lines {
		if c.Lines[i].BookID == bookID {
			return i
		}
	}
	return -1
}

// RemoveLine deletes the line at the given index, preserving line order.
func (c *Cart) RemoveLine(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// SumQuantities returns the total number of books across all lines.
func (c *Cart) SumQuantities() int {
	var total int
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// CartItemDetail is the catalog-enriched view of one cart line.
type CartItemDetail struct {
	BookID      int64           `json:"book_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Author      string          `json:"author"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartDetails is the assembled cart view returned by ListCart. Totals cover
// only the assembled items; lines whose book no longer resolves in the
// catalog are absent here even though storage still records them.
type CartDetails struct {
	Items         []CartItemDetail `json:"items"`
	TotalQuantity int              `json:"total_quantity"`
	TotalPrice    decimal.Decimal  `json:"total_price"`
}
