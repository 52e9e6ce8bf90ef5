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

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// AddToWishlistRequest is the JSON request body for adding a book to the wishlist.
type AddToWishlistRequest struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

// AddToWishlist handles POST /api/v1/wishlist
func (h *WishlistHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "authentication required"})
		return
	}

	var req AddToWishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body: " + err.Error()})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	list, err := h.service.AddToWishlist(r.Context(), userID, req.BookID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, "book added to wishlist successfully", list)
}

// ListWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "authentication required"})
		return
	}

	items, err := h.service.ListWishlist(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, "wishlist retrieved successfully", items)
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/{bookID}
func (h *WishlistHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
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

	list, err := h.service.RemoveFromWishlist(r.Context(), userID, bookID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, "book removed from wishlist successfully", list)
}
