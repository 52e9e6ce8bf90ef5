package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wishlist represents a user's wish-list: a set of books with no quantities
// or totals. Unlike a cart, a wishlist document survives becoming empty.
type Wishlist struct {
	ID        string         `json:"id"`
	UserID    int64          `json:"user_id"`
	Lines     []WishlistLine `json:"lines"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// WishlistLine is one book entry within a wishlist.
type WishlistLine struct {
	BookID int64 `json:"book_id"`
}

// NewWishlist creates an empty, unpersisted wishlist for the given user.
func NewWishlist(userID int64) *Wishlist {
	now := time.Now().UTC()
	return &Wishlist{
		UserID:    userID,
		Lines:     []WishlistLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindLine returns the index of the line for the given book, or -1.
func (w *Wishlist) FindLine(bookID int64) int {
	for i := range w.Lines {
		if w.Lines[i].BookID == bookID {
			return i
		}
	}
	return -1
}

// RemoveLine deletes the line at the given index, preserving insertion order.
func (w *Wishlist) RemoveLine(i int) {
	w.Lines = append(w.Lines[:i], w.Lines[i+1:]...)
}

// IsEmpty reports whether the wishlist has no lines.
func (w *Wishlist) IsEmpty() bool {
	return len(w.Lines) == 0
}

// WishlistItemDetail is the catalog-enriched view of one wishlist line.
type WishlistItemDetail struct {
	BookID      int64           `json:"book_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Author      string          `json:"author"`
	Price       decimal.Decimal `json:"price"`
}
