package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookverse/bookcart/internal/service"
	"github.com/bookverse/bookcart/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddToCartRequest is the JSON request body for adding a book to the cart.
type AddToCartRequest struct {
	BookID   int64 `json:"book_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartRequest is the JSON request body for setting a cart line's quantity.
// Quantity 0 removes the line.
type UpdateCartRequest struct {
	BookID   int64 `json:"book_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"gte=0"`
}

// --- Handlers ---

// AddToCart handles POST /api/v1/cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "authentication required"})
		return
	}

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body: " + err.Error()})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cart, err := h.service.AddToCart(r.Context(), userID, req.BookID, req.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, "book added to cart successfully", cart)
}

// UpdateCart handles PATCH /api/v1/cart
func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "authentication required"})
		return
	}

	var req UpdateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body: " + err.Error()})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateCartLine(r.Context(), userID, req.BookID, req.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, "cart updated successfully", cart)
}

// ListCart handles GET /api/v1/cart
func (h *CartHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "authentication required"})
		return
	}

	details, err := h.service.ListCart(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, "cart retrieved successfully", details)
}

// RemoveFromCart handles DELETE /api/v1/cart/{bookID}
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "authentication required"})
		return
	}

	bookID, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil || bookID <= 0 {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid book id"})
		return
	}

	cart, err := h.service.RemoveFromCart(r.Context(), userID, bookID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, "book removed from cart successfully", cart)
}
