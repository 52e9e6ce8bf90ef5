package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookverse/bookcart/internal/domain"
)

const cacheKeyPrefix = "catalog:book:"

// CachedResolver is a Redis read-through cache in front of a Resolver.
// Only positive resolutions are cached: a book reported absent may simply
// mean the catalog was unreachable, and caching that would pin the outage.
// Redis failures fall through to the inner resolver.
type CachedResolver struct {
	inner   Resolver
	client  *redis.Client
	baseTTL time.Duration
	logger  *slog.Logger
}

// NewCachedResolver wraps a resolver with a Redis cache.
func NewCachedResolver(inner Resolver, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{
		inner:   inner,
		client:  client,
		baseTTL: ttl,
		logger:  logger,
	}
}

// Resolve serves from cache when possible, falling back to the inner resolver.
func (r *CachedResolver) Resolve(ctx context.Context, bookID int64) (*domain.Book, bool) {
	key := cacheKey(bookID)

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var book domain.Book
		if err := json.Unmarshal(data, &book); err == nil {
			return &book, true
		}
		// Corrupt entry; drop it and fall through.
		r.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.logger.WarnContext(ctx, "catalog cache read failed",
			slog.Int64("book_id", bookID),
			slog.String("error", err.Error()),
		)
	}

	book, ok := r.inner.Resolve(ctx, bookID)
	if !ok {
		return nil, false
	}

	if data, err := json.Marshal(book); err == nil {
		// Jitter the TTL so a warm cache doesn't expire all at once.
		ttl := r.baseTTL + time.Duration(rand.Intn(60))*time.Second
		if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
			r.logger.WarnContext(ctx, "catalog cache write failed",
				slog.Int64("book_id", bookID),
				slog.String("error", err.Error()),
			)
		}
	}

	return book, true
}

var _ Resolver = (*CachedResolver)(nil)

func cacheKey(bookID int64) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix, bookID)
}
