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

const wishlistCollection = "wishlists"

type wishlistDocument struct {
	ID        primitive.ObjectID     `bson:"_id"`
	UserID    int64                  `bson:"user_id"`
	Lines     []wishlistLineDocument `bson:"lines"`
	CreatedAt time.Time              `bson:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at"`
}

type wishlistLineDocument struct {
	BookID int64 `bson:"book_id"`
}

// WishlistRepository implements repository.WishlistRepository using MongoDB.
type WishlistRepository struct {
	collection *mongo.Collection
}

// NewWishlistRepository creates a new MongoDB-backed wishlist repository.
func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{collection: db.Collection(wishlistCollection)}
}

// EnsureIndexes creates the unique user_id index.
func (r *WishlistRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create wishlist indexes: %w", err)
	}
	return nil
}

// FindByUser retrieves the wishlist for a user.
func (r *WishlistRepository) FindByUser(ctx context.Context, userID int64) (*domain.Wishlist, error) {
	var doc wishlistDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("wishlist", strconv.FormatInt(userID, 10))
		}
		return nil, fmt.Errorf("find wishlist by user: %w", err)
	}

	return doc.toDomain(), nil
}

// Upsert writes the wishlist, replacing any existing document for the same user.
func (r *WishlistRepository) Upsert(ctx context.Context, wishlist *domain.Wishlist) error {
	if wishlist.ID == "" {
		wishlist.ID = primitive.NewObjectID().Hex()
	}
	wishlist.UpdatedAt = time.Now().UTC()

	doc, err := wishlistDocumentFrom(wishlist)
	if err != nil {
		return err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": doc.UserID}, doc, opts); err != nil {
		return fmt.Errorf("upsert wishlist: %w", err)
	}

	return nil
}

// DeleteByID removes the wishlist document with the given ID.
func (r *WishlistRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parse wishlist id %q: %w", id, err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}

	if result.DeletedCount == 0 {
		return apperrors.NotFound("wishlist", id)
	}

	return nil
}

func wishlistDocumentFrom(wishlist *domain.Wishlist) (*wishlistDocument, error) {
	oid, err := primitive.ObjectIDFromHex(wishlist.ID)
	if err != nil {
		return nil, fmt.Errorf("parse wishlist id %q: %w", wishlist.ID, err)
	}

	lines := make([]wishlistLineDocument, len(wishlist.Lines))
	for i, line := range wishlist.Lines {
		lines[i] = wishlistLineDocument{BookID: line.BookID}
	}

	return &wishlistDocument{
		ID:        oid,
		UserID:    wishlist.UserID,
		Lines:     lines,
		CreatedAt: wishlist.CreatedAt,
		UpdatedAt: wishlist.UpdatedAt,
	}, nil
}

func (d *wishlistDocument) toDomain() *domain.Wishlist {
	lines := make([]domain.WishlistLine, len(d.Lines))
	for i, line := range d.Lines {
		lines[i] = domain.WishlistLine{BookID: line.BookID}
	}

	return &domain.Wishlist{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Lines:     lines,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
