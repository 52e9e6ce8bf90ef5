package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/bookverse/bookcart/pkg/errors"

	"github.com/bookverse/bookcart/internal/catalog"
	"github.com/bookverse/bookcart/internal/domain"
	"github.com/bookverse/bookcart/internal/event"
	"github.com/bookverse/bookcart/internal/repository"
)

// WishlistService implements the business logic for wish-list operations.
// Unlike the cart, a wishlist document is never deleted: removing the last
// item leaves an empty document behind.
type WishlistService struct {
	repo     repository.WishlistRepository
	catalog  catalog.Resolver
	producer *event.Producer
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, resolver catalog.Resolver, producer *event.Producer, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		catalog:  resolver,
		producer: producer,
		logger:   logger,
	}
}

// AddToWishlist adds a book to the user's wishlist. Duplicate adds are
// rejected and leave the stored wishlist unchanged.
func (s *WishlistService) AddToWishlist(ctx context.Context, userID, bookID int64) (*domain.Wishlist, error) {
	if _, ok := s.catalog.Resolve(ctx, bookID); !ok {
		return nil, bookNotFound(bookID)
	}

	list, err := s.getOrCreateWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	if list.FindLine(bookID) >= 0 {
		return nil, apperrors.Conflict("book is already in the wishlist")
	}

	list.Lines = append(list.Lines, domain.WishlistLine{BookID: bookID})

	if err := s.repo.Upsert(ctx, list); err != nil {
		return nil, fmt.Errorf("save wishlist: %w", err)
	}

	s.publishWishlistUpdated(ctx, list)

	s.logger.InfoContext(ctx, "book added to wishlist",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", bookID),
	)

	return list, nil
}

// RemoveFromWishlist removes a book from the user's wishlist. The document
// stays in storage even when the last item goes.
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, userID, bookID int64) (*domain.Wishlist, error) {
	list, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFoundMsg("wishlist is empty or does not exist")
		}
		return nil, fmt.Errorf("get wishlist for remove: %w", err)
	}
	if list.IsEmpty() {
		return nil, apperrors.NotFoundMsg("wishlist is empty or does not exist")
	}

	i := list.FindLine(bookID)
	if i < 0 {
		return nil, apperrors.NotFoundMsg(fmt.Sprintf("book with id %d not found in the wishlist", bookID))
	}

	list.RemoveLine(i)

	if err := s.repo.Upsert(ctx, list); err != nil {
		return nil, fmt.Errorf("save wishlist: %w", err)
	}

	s.publishWishlistUpdated(ctx, list)

	s.logger.InfoContext(ctx, "book removed from wishlist",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", bookID),
	)

	return list, nil
}

// ListWishlist assembles the catalog-enriched wishlist view. An absent or
// empty wishlist yields an empty result. Items whose book no longer resolves
// are dropped from the view; storage is left untouched.
func (s *WishlistService) ListWishlist(ctx context.Context, userID int64) ([]domain.WishlistItemDetail, error) {
	items := []domain.WishlistItemDetail{}

	list, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return items, nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	for _, line := range list.Lines {
		book, ok := s.catalog.Resolve(ctx, line.BookID)
		if !ok {
			continue
		}
		items = append(items, domain.WishlistItemDetail{
			BookID:      book.BookID,
			Title:       book.Title,
			Description: book.Description,
			Image:       book.Image,
			Author:      book.Author,
			Price:       book.Price,
		})
	}

	return items, nil
}

func (s *WishlistService) getOrCreateWishlist(ctx context.Context, userID int64) (*domain.Wishlist, error) {
	list, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewWishlist(userID), nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	return list, nil
}

func (s *WishlistService) publishWishlistUpdated(ctx context.Context, list *domain.Wishlist) {
	if err := s.producer.PublishWishlistUpdated(ctx, list); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.Int64("user_id", list.UserID),
			slog.String("error", err.Error()),
		)
	}
}
