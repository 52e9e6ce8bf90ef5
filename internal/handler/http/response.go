package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	apperrors "github.com/bookverse/bookcart/pkg/errors"
	"github.com/bookverse/bookcart/pkg/validator"
)

// apiResponse is the uniform envelope every endpoint responds with,
// success and failure alike.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, apiResponse{
			Success: false,
			Message: appErr.Message,
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		message = "an internal error occurred"
	}

	writeJSON(w, status, apiResponse{
		Success: false,
		Message: message,
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		fields := valErr.Fields()
		parts := make([]string, 0, len(fields))
		for field, msg := range fields {
			parts = append(parts, field+" "+msg)
		}
		sort.Strings(parts)
		writeJSON(w, http.StatusBadRequest, apiResponse{
			Success: false,
			Message: "validation failed: " + strings.Join(parts, "; "),
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, apiResponse{
		Success: false,
		Message: "validation failed",
	})
}
