package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	pkgkafka "github.com/bookverse/bookcart/pkg/kafka"

	"github.com/bookverse/bookcart/internal/domain"
)

// Kafka topic constants for cart and wishlist domain events.
const (
	TopicCartUpdated     = "bookstore.cart.updated"
	TopicCartDeleted     = "bookstore.cart.deleted"
	TopicWishlistUpdated = "bookstore.wishlist.updated"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
)

// Source identifier for events originating from this service.
const SourceCartService = "bookcart-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	CartID        string          `json:"cart_id"`
	UserID        int64           `json:"user_id"`
	Lines         []CartLineData  `json:"lines"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// CartLineData is the line payload within cart events.
type CartLineData struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

// CartDeletedData is the payload for a cart.deleted event.
type CartDeletedData struct {
	CartID string `json:"cart_id"`
	UserID int64  `json:"user_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	WishlistID string  `json:"wishlist_id"`
	UserID     int64   `json:"user_id"`
	BookIDs    []int64 `json:"book_ids"`
}

// Producer publishes cart and wishlist domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	lines := make([]CartLineData, len(cart.Lines))
	for i, line := range cart.Lines {
		lines[i] = CartLineData{
			BookID:   line.BookID,
			Quantity: line.Quantity,
		}
	}

	data := CartUpdatedData{
		CartID:        cart.ID,
		UserID:        cart.UserID,
		Lines:         lines,
		TotalQuantity: cart.TotalQuantity,
		TotalPrice:    cart.TotalPrice,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, aggregateID(cart.UserID), AggregateTypeCart, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.Int64("user_id", cart.UserID),
		slog.Int("total_quantity", cart.TotalQuantity),
	)

	return nil
}

// PublishCartDeleted publishes a cart.deleted event.
func (p *Producer) PublishCartDeleted(ctx context.Context, userID int64, cartID string) error {
	data := CartDeletedData{
		CartID: cartID,
		UserID: userID,
	}

	event, err := pkgkafka.NewEvent(TopicCartDeleted, aggregateID(userID), AggregateTypeCart, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create cart.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartDeleted, event); err != nil {
		return fmt.Errorf("publish cart.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.deleted event",
		slog.Int64("user_id", userID),
	)

	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, list *domain.Wishlist) error {
	bookIDs := make([]int64, len(list.Lines))
	for i, line := range list.Lines {
		bookIDs[i] = line.BookID
	}

	data := WishlistUpdatedData{
		WishlistID: list.ID,
		UserID:     list.UserID,
		BookIDs:    bookIDs,
	}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, aggregateID(list.UserID), AggregateTypeWishlist, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.Int64("user_id", list.UserID),
		slog.Int("item_count", len(bookIDs)),
	)

	return nil
}

func aggregateID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
