package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	apperrors "github.com/bookverse/bookcart/pkg/errors"

	"github.com/bookverse/bookcart/internal/catalog"
	"github.com/bookverse/bookcart/internal/domain"
	"github.com/bookverse/bookcart/internal/event"
	"github.com/bookverse/bookcart/internal/repository"
)

// CartService implements the business logic for cart operations. A user's
// cart moves between two states: absent and populated. The Remove path
// deletes the document when the last line goes; the Update path deliberately
// does not (it can leave a persisted zero-line cart).
type CartService struct {
	repo     repository.CartRepository
	catalog  catalog.Resolver
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, resolver catalog.Resolver, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  resolver,
		producer: producer,
		logger:   logger,
	}
}

// AddToCart adds a book to the user's cart, merging quantities when a line
// for the book already exists. The requested (or merged) quantity must not
// exceed the catalog's current stock; a rejected add leaves the stored cart
// untouched.
func (s *CartService) AddToCart(ctx context.Context, userID, bookID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}

	book, ok := s.catalog.Resolve(ctx, bookID)
	if !ok {
		return nil, bookNotFound(bookID)
	}

	if quantity > book.StockQuantity {
		return nil, apperrors.InvalidInput(fmt.Sprintf("requested quantity (%d) exceeds available stock (%d)", quantity, book.StockQuantity))
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := cart.FindLine(bookID); i >= 0 {
		merged := cart.Lines[i].Quantity + quantity
		if merged > book.StockQuantity {
			return nil, apperrors.InvalidInput(fmt.Sprintf("total quantity (%d) exceeds available stock (%d)", merged, book.StockQuantity))
		}
		cart.Lines[i].Quantity = merged
	} else {
		cart.Lines = append(cart.Lines, domain.CartLine{BookID: bookID, Quantity: quantity})
	}

	s.reprice(ctx, cart, book)

	if err := s.repo.Upsert(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "book added to cart",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", bookID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// UpdateCartLine sets the quantity of an existing cart line. Quantity 0
// removes the line; the cart document is still upserted, possibly with zero
// lines remaining.
func (s *CartService) UpdateCartLine(ctx context.Context, userID, bookID int64, quantity int) (*domain.Cart, error) {
	book, ok := s.catalog.Resolve(ctx, bookID)
	if !ok {
		return nil, bookNotFound(bookID)
	}

	if quantity < 0 || quantity > book.StockQuantity {
		return nil, apperrors.InvalidInput("invalid quantity")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFoundMsg("cart not found")
		}
		return nil, fmt.Errorf("get cart for update: %w", err)
	}

	i := cart.FindLine(bookID)
	if i < 0 {
		return nil, lineNotFound(bookID)
	}

	if quantity == 0 {
		cart.RemoveLine(i)
	} else {
		cart.Lines[i].Quantity = quantity
	}

	s.reprice(ctx, cart, book)

	if err := s.repo.Upsert(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart line updated",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", bookID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveFromCart removes a book's line from the cart. When the last line
// goes, the cart document is deleted and (nil, nil) is returned.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, bookID int64) (*domain.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFoundMsg("no items found in the cart")
		}
		return nil, fmt.Errorf("get cart for remove: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.NotFoundMsg("no items found in the cart")
	}

	i := cart.FindLine(bookID)
	if i < 0 {
		return nil, lineNotFound(bookID)
	}

	cart.RemoveLine(i)
	s.reprice(ctx, cart, nil)

	if cart.IsEmpty() {
		if err := s.repo.DeleteByID(ctx, cart.ID); err != nil {
			// The cart we just loaded is gone from storage: the in-memory
			// view and the store disagree, which is not a caller problem.
			s.logger.ErrorContext(ctx, "cart delete failed",
				slog.Int64("user_id", userID),
				slog.String("cart_id", cart.ID),
				slog.String("error", err.Error()),
			)
			return nil, apperrors.Internal(fmt.Errorf("delete cart %s: %w", cart.ID, err))
		}

		s.publishCartDeleted(ctx, cart)

		s.logger.InfoContext(ctx, "cart emptied and deleted",
			slog.Int64("user_id", userID),
			slog.String("cart_id", cart.ID),
		)

		return nil, nil
	}

	if err := s.repo.Upsert(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "book removed from cart",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", bookID),
	)

	return cart, nil
}

// ListCart assembles the catalog-enriched cart view. An absent or empty cart
// yields an empty result, not an error. Lines whose book no longer resolves
// are dropped from the view (storage is left untouched), so the reported
// totals cover only the assembled items.
func (s *CartService) ListCart(ctx context.Context, userID int64) (*domain.CartDetails, error) {
	details := &domain.CartDetails{
		Items:      []domain.CartItemDetail{},
		TotalPrice: decimal.Zero,
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return details, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	for _, line := range cart.Lines {
		book, ok := s.catalog.Resolve(ctx, line.BookID)
		if !ok {
			continue
		}

		lineTotal := book.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		details.Items = append(details.Items, domain.CartItemDetail{
			BookID:      book.BookID,
			Title:       book.Title,
			Description: book.Description,
			Image:       book.Image,
			Author:      book.Author,
			Price:       book.Price,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
		})
		details.TotalQuantity += line.Quantity
		details.TotalPrice = details.TotalPrice.Add(lineTotal)
	}

	return details, nil
}

// getOrCreateCart retrieves the cart for a user, creating an unpersisted
// empty one if none exists.
func (s *CartService) getOrCreateCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// reprice recomputes the derived totals from the current lines. Every line
// is priced against the catalog; known carries the already-fetched entry for
// the mutated book so it is not resolved twice. Lines whose book no longer
// resolves keep their quantity but contribute nothing to the price.
func (s *CartService) reprice(ctx context.Context, cart *domain.Cart, known *domain.Book) {
	total := decimal.Zero
	for _, line := range cart.Lines {
		var book *domain.Book
		if known != nil && known.BookID == line.BookID {
			book = known
		} else if resolved, ok := s.catalog.Resolve(ctx, line.BookID); ok {
			book = resolved
		}
		if book != nil {
			total = total.Add(book.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}

	cart.TotalQuantity = cart.SumQuantities()
	cart.TotalPrice = total
}

// Event publication is best-effort: a broker outage must not fail the
// request that already committed to storage.

func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.Int64("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) publishCartDeleted(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartDeleted(ctx, cart.UserID, cart.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.deleted event",
			slog.Int64("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}

func bookNotFound(bookID int64) error {
	return apperrors.NotFoundMsg(fmt.Sprintf("book with id %d does not exist", bookID))
}

func lineNotFound(bookID int64) error {
	return apperrors.NotFoundMsg(fmt.Sprintf("book with id %d not found in the cart", bookID))
}
