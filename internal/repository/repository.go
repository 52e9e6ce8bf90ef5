package repository

import (
	"context"

	"github.com/bookverse/bookcart/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
// At most one cart document exists per user; that invariant belongs to the
// store (unique index on user_id), not to callers.
type CartRepository interface {
	// FindByUser retrieves the cart for a user. Returns an error wrapping
	// pkg/errors.ErrNotFound when the user has no cart.
	FindByUser(ctx context.Context, userID int64) (*domain.Cart, error)

	// Upsert writes the cart, replacing any existing document for the same
	// user in a single atomic operation. Assigns an ID when the cart has
	// none yet.
	Upsert(ctx context.Context, cart *domain.Cart) error

	// DeleteByID removes the cart document with the given ID. Returns an
	// error wrapping pkg/errors.ErrNotFound when no such document exists;
	// callers treat that as an internal-consistency fault.
	DeleteByID(ctx context.Context, id string) error
}

// WishlistRepository defines the interface for wishlist persistence
// operations. Same contract shape as CartRepository.
type WishlistRepository interface {
	FindByUser(ctx context.Context, userID int64) (*domain.Wishlist, error)
	Upsert(ctx context.Context, wishlist *domain.Wishlist) error
	DeleteByID(ctx context.Context, id string) error
}
