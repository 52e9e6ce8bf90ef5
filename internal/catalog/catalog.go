package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bookverse/bookcart/pkg/httpclient"

	"github.com/bookverse/bookcart/internal/domain"
)

// Resolver resolves book IDs against the external catalog. Absence and every
// failure mode (transport error, non-2xx status, malformed payload, open
// circuit breaker) collapse to ok=false; callers cannot and must not
// distinguish "does not exist" from "catalog unreachable".
type Resolver interface {
	Resolve(ctx context.Context, bookID int64) (*domain.Book, bool)
}

// bookResponse is the catalog service's response envelope.
type bookResponse struct {
	Success bool         `json:"success"`
	Data    *domain.Book `json:"data"`
}

// Client is the HTTP catalog client. Requests are made exactly once (no
// retries) and flow through a circuit breaker so a down catalog stops
// costing a full timeout per lookup.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	inner := httpclient.New(httpclient.NoRetryConfig(timeout))
	cb := httpclient.NewCircuitBreakerClient(inner, httpclient.DefaultCircuitBreakerConfig("catalog"), logger)
	return &Client{
		http:    cb,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Resolve fetches catalog data for a book.
func (c *Client) Resolve(ctx context.Context, bookID int64) (*domain.Book, bool) {
	url := fmt.Sprintf("%s/api/v1/books/%d", c.baseURL, bookID)

	resp, err := c.http.Get(ctx, url)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog lookup failed",
			slog.Int64("book_id", bookID),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.DebugContext(ctx, "catalog returned non-success status",
			slog.Int64("book_id", bookID),
			slog.Int("status", resp.StatusCode),
		)
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.logger.WarnContext(ctx, "catalog response read failed",
			slog.Int64("book_id", bookID),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	var parsed bookResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.WarnContext(ctx, "catalog response parse failed",
			slog.Int64("book_id", bookID),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	if !parsed.Success || parsed.Data == nil {
		return nil, false
	}

	return parsed.Data, true
}

var _ Resolver = (*Client)(nil)

// Ping checks catalog reachability for health reporting. Unlike Resolve it
// surfaces the error, since readiness wants the distinction Resolve hides.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health/live", http.NoBody)
	if err != nil {
		return fmt.Errorf("create catalog ping request: %w", err)
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("catalog ping: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("catalog ping: status %d", resp.StatusCode)
	}
	return nil
}
