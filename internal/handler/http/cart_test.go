package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bookverse/bookcart/pkg/errors"
	"github.com/bookverse/bookcart/pkg/health"
	pkgkafka "github.com/bookverse/bookcart/pkg/kafka"
	"github.com/bookverse/bookcart/pkg/middleware"

	"github.com/bookverse/bookcart/internal/auth"
	"github.com/bookverse/bookcart/internal/domain"
	"github.com/bookverse/bookcart/internal/event"
	"github.com/bookverse/bookcart/internal/service"
)

// --- Mocks ---

type mockCartRepo struct {
	mock.Mock
}

func (m *mockCartRepo) FindByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepo) Upsert(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepo) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockWishlistRepo struct {
	mock.Mock
}

func (m *mockWishlistRepo) FindByUser(ctx context.Context, userID int64) (*domain.Wishlist, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepo) Upsert(ctx context.Context, wishlist *domain.Wishlist) error {
	args := m.Called(ctx, wishlist)
	return args.Error(0)
}

func (m *mockWishlistRepo) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type staticResolver struct {
	books map[int64]*domain.Book
}

func (r *staticResolver) Resolve(_ context.Context, bookID int64) (*domain.Book, bool) {
	book, ok := r.books[bookID]
	return book, ok
}

// --- Fixture ---

type fixture struct {
	router       http.Handler
	cartRepo     *mockCartRepo
	wishlistRepo *mockWishlistRepo
	jwt          *auth.JWTManager
}

func newFixture(t *testing.T, books ...*domain.Book) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	resolver := &staticResolver{books: make(map[int64]*domain.Book)}
	for _, b := range books {
		resolver.books[b.BookID] = b
	}

	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)

	cartRepo := new(mockCartRepo)
	wishlistRepo := new(mockWishlistRepo)

	cartService := service.NewCartService(cartRepo, resolver, producer, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, resolver, producer, logger)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	router := NewRouter(
		cartService,
		wishlistService,
		jwtManager,
		health.NewHandler(),
		middleware.DefaultCORSConfig(),
		logger,
	)

	return &fixture{
		router:       router,
		cartRepo:     cartRepo,
		wishlistRepo: wishlistRepo,
		jwt:          jwtManager,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *fixture) request(t *testing.T, method, path string, body any, userID int64) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := f.jwt.Generate(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env),
		"body: %s", rec.Body.String())
	return rec, env
}

func catalogBook(id int64, price string, stock int) *domain.Book {
	return &domain.Book{
		BookID:        id,
		Title:         "Handler Test Book",
		Author:        "Author",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
}

// --- Auth ---

func TestCart_RequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	rec, env := f.request(t, http.MethodGet, "/api/v1/cart", nil, 0)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "missing authorization header", env.Message)
}

func TestCart_RejectsMalformedAuthHeader(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCart_RejectsForgedToken(t *testing.T) {
	f := newFixture(t)

	other := auth.NewJWTManager("wrong-secret", time.Hour)
	token, err := other.Generate(1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- POST /api/v1/cart ---

func TestAddToCart_Succeeds(t *testing.T) {
	f := newFixture(t, catalogBook(10, "29.99", 5))

	f.cartRepo.On("FindByUser", mock.Anything, int64(1)).Return(nil, apperrors.NotFound("cart", "1"))
	f.cartRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	rec, env := f.request(t, http.MethodPost, "/api/v1/cart", AddToCartRequest{BookID: 10, Quantity: 2}, 1)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "book added to cart successfully", env.Message)

	var cart domain.Cart
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, int64(1), cart.UserID)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.TotalQuantity)

	f.cartRepo.AssertExpectations(t)
}

func TestAddToCart_InvalidBody(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	token, err := f.jwt.Generate(1)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddToCart_ValidationFailure(t *testing.T) {
	f := newFixture(t)

	rec, env := f.request(t, http.MethodPost, "/api/v1/cart", AddToCartRequest{BookID: 10, Quantity: 0}, 1)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "validation failed")
}

func TestAddToCart_UnknownBook(t *testing.T) {
	f := newFixture(t)

	rec, env := f.request(t, http.MethodPost, "/api/v1/cart", AddToCartRequest{BookID: 99, Quantity: 1}, 1)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "does not exist")
}

func TestAddToCart_ExceedsStock(t *testing.T) {
	f := newFixture(t, catalogBook(10, "29.99", 2))

	rec, env := f.request(t, http.MethodPost, "/api/v1/cart", AddToCartRequest{BookID: 10, Quantity: 3}, 1)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "exceeds available stock")
}

// --- PATCH /api/v1/cart ---

func TestUpdateCart_Succeeds(t *testing.T) {
	f := newFixture(t, catalogBook(10, "10.00", 10))

	existing := domain.NewCart(1)
	existing.ID = "66f0c4a1b2c3d4e5f6a7b8c9"
	existing.Lines = []domain.CartLine{{BookID: 10, Quantity: 2}}

	f.cartRepo.On("FindByUser", mock.Anything, int64(1)).Return(existing, nil)
	f.cartRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	rec, env := f.request(t, http.MethodPatch, "/api/v1/cart", UpdateCartRequest{BookID: 10, Quantity: 4}, 1)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "cart updated successfully", env.Message)
}

func TestUpdateCart_CartNotFound(t *testing.T) {
	f := newFixture(t, catalogBook(10, "10.00", 10))

	f.cartRepo.On("FindByUser", mock.Anything, int64(1)).Return(nil, apperrors.NotFound("cart", "1"))

	rec, env := f.request(t, http.MethodPatch, "/api/v1/cart", UpdateCartRequest{BookID: 10, Quantity: 1}, 1)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "cart not found", env.Message)
}

// --- GET /api/v1/cart ---

func TestListCart_EmptyForNewUser(t *testing.T) {
	f := newFixture(t)

	f.cartRepo.On("FindByUser", mock.Anything, int64(1)).Return(nil, apperrors.NotFound("cart", "1"))

	rec, env := f.request(t, http.MethodGet, "/api/v1/cart", nil, 1)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var details domain.CartDetails
	require.NoError(t, json.Unmarshal(env.Data, &details))
	assert.Empty(t, details.Items)
	assert.Zero(t, details.TotalQuantity)
}

func TestListCart_ReturnsAssembledView(t *testing.T) {
	f := newFixture(t, catalogBook(10, "10.00", 10))

	existing := domain.NewCart(1)
	existing.ID = "66f0c4a1b2c3d4e5f6a7b8c9"
	existing.Lines = []domain.CartLine{{BookID: 10, Quantity: 3}}

	f.cartRepo.On("FindByUser", mock.Anything, int64(1)).Return(existing, nil)

	rec, env := f.request(t, http.MethodGet, "/api/v1/cart", nil, 1)

	assert.Equal(t, http.StatusOK, rec.Code)

	var details domain.CartDetails
	require.NoError(t, json.Unmarshal(env.Data, &details))
	require.Len(t, details.Items, 1)
	assert.Equal(t, "Handler Test Book", details.Items[0].Title)
	assert.Equal(t, 3, details.TotalQuantity)
	assert.True(t, details.TotalPrice.Equal(decimal.RequireFromString("30.00")))
}

// --- DELETE /api/v1/cart/{bookID} ---

func TestRemoveFromCart_LastLine(t *testing.T) {
	f := newFixture(t)

	existing := domain.NewCart(1)
	existing.ID = "66f0c4a1b2c3d4e5f6a7b8c9"
	existing.Lines = []domain.CartLine{{BookID: 10, Quantity: 1}}

	f.cartRepo.On("FindByUser", mock.Anything, int64(1)).Return(existing, nil)
	f.cartRepo.On("DeleteByID", mock.Anything, existing.ID).Return(nil)

	rec, env := f.request(t, http.MethodDelete, "/api/v1/cart/10", nil, 1)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "book removed from cart successfully", env.Message)

	f.cartRepo.AssertExpectations(t)
}

func TestRemoveFromCart_InvalidBookID(t *testing.T) {
	f := newFixture(t)

	rec, env := f.request(t, http.MethodDelete, "/api/v1/cart/abc", nil, 1)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid book id", env.Message)
}

func TestRemoveFromCart_EmptyCart(t *testing.T) {
	f := newFixture(t)

	f.cartRepo.On("FindByUser", mock.Anything, int64(1)).Return(nil, apperrors.NotFound("cart", "1"))

	rec, env := f.request(t, http.MethodDelete, "/api/v1/cart/10", nil, 1)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, env.Message, "no items found in the cart")
}

func TestRemoveFromCart_StorageFault(t *testing.T) {
	f := newFixture(t)

	existing := domain.NewCart(1)
	existing.ID = "66f0c4a1b2c3d4e5f6a7b8c9"
	existing.Lines = []domain.CartLine{{BookID: 10, Quantity: 1}}

	f.cartRepo.On("FindByUser", mock.Anything, int64(1)).Return(existing, nil)
	f.cartRepo.On("DeleteByID", mock.Anything, existing.ID).Return(apperrors.NotFound("cart", existing.ID))

	rec, env := f.request(t, http.MethodDelete, "/api/v1/cart/10", nil, 1)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)
}
