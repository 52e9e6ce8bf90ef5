package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/bookverse/bookcart/pkg/errors"

	"github.com/bookverse/bookcart/internal/domain"
)

const cartCollection = "carts"

// cartDocument is the BSON shape of a cart. Kept separate from domain.Cart
// so monetary values can be stored as Decimal128.
type cartDocument struct {
	ID            primitive.ObjectID   `bson:"_id"`
	UserID        int64                `bson:"user_id"`
	Lines         []cartLineDocument   `bson:"lines"`
	TotalQuantity int                  `bson:"total_quantity"`
	TotalPrice    primitive.Decimal128 `bson:"total_price"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

type cartLineDocument struct {
	BookID   int64 `bson:"book_id"`
	Quantity int   `bson:"quantity"`
}

// CartRepository implements repository.CartRepository using MongoDB.
type CartRepository struct {
	collection *mongo.Collection
}

// NewCartRepository creates a new MongoDB-backed cart repository.
func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{collection: db.Collection(cartCollection)}
}

// EnsureIndexes creates the unique user_id index that guarantees at most one
// cart document per user.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create cart indexes: %w", err)
	}
	return nil
}

// FindByUser retrieves the cart for a user.
func (r *CartRepository) FindByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	var doc cartDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("cart", strconv.FormatInt(userID, 10))
		}
		return nil, fmt.Errorf("find cart by user: %w", err)
	}

	return doc.toDomain()
}

// Upsert writes the cart, replacing any existing document for the same user.
// The filter is on user_id, so a concurrent insert for the same user cannot
// produce a second document.
func (r *CartRepository) Upsert(ctx context.Context, cart *domain.Cart) error {
	if cart.ID == "" {
		cart.ID = primitive.NewObjectID().Hex()
	}
	cart.UpdatedAt = time.Now().UTC()

	doc, err := cartDocumentFrom(cart)
	if err != nil {
		return err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": doc.UserID}, doc, opts); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	return nil
}

// DeleteByID removes the cart document with the given ID.
func (r *CartRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parse cart id %q: %w", id, err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return apperrors.NotFound("cart", id)
	}

	return nil
}

func cartDocumentFrom(cart *domain.Cart) (*cartDocument, error) {
	oid, err := primitive.ObjectIDFromHex(cart.ID)
	if err != nil {
		return nil, fmt.Errorf("parse cart id %q: %w", cart.ID, err)
	}

	totalPrice, err := toDecimal128(cart.TotalPrice)
	if err != nil {
		return nil, err
	}

	lines := make([]cartLineDocument, len(cart.Lines))
	for i, line := range cart.Lines {
		lines[i] = cartLineDocument{BookID: line.BookID, Quantity: line.Quantity}
	}

	return &cartDocument{
		ID:            oid,
		UserID:        cart.UserID,
		Lines:         lines,
		TotalQuantity: cart.TotalQuantity,
		TotalPrice:    totalPrice,
		CreatedAt:     cart.CreatedAt,
		UpdatedAt:     cart.UpdatedAt,
	}, nil
}

func (d *cartDocument) toDomain() (*domain.Cart, error) {
	totalPrice, err := fromDecimal128(d.TotalPrice)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, len(d.Lines))
	for i, line := range d.Lines {
		lines[i] = domain.CartLine{BookID: line.BookID, Quantity: line.Quantity}
	}

	return &domain.Cart{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		Lines:         lines,
		TotalQuantity: d.TotalQuantity,
		TotalPrice:    totalPrice,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}
