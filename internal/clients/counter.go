// Package clients holds the outbound HTTP clients the services use to talk
// to each other. Every call carries a per-request timeout and maps remote
// status codes onto the shared error types so callers can branch without
// knowing they crossed a service boundary.
package clients

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"newwek/internal/models"
)

// Counter adjusts a post's denormalized comment counter over HTTP. The
// counter endpoint lives on the blog service, which is the only writer of
// the column.
type Counter interface {
	Increment(ctx context.Context, blogPostID uint) error
	Decrement(ctx context.Context, blogPostID uint) error
}

// CounterClient is the HTTP implementation of Counter.
type CounterClient struct {
	baseURL string
	client  *http.Client
}

// NewCounterClient creates a CounterClient against the blog service at
// baseURL.
func NewCounterClient(baseURL string, timeout time.Duration) *CounterClient {
	return &CounterClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Increment bumps the post's comment counter by one.
func (c *CounterClient) Increment(ctx context.Context, blogPostID uint) error {
	return c.adjust(ctx, http.MethodGet, blogPostID)
}

// Decrement lowers the post's comment counter by one.
func (c *CounterClient) Decrement(ctx context.Context, blogPostID uint) error {
	return c.adjust(ctx, http.MethodDelete, blogPostID)
}

func (c *CounterClient) adjust(ctx context.Context, method string, blogPostID uint) error {
	url := fmt.Sprintf("%s/api/posts/update-comments-count/%d", c.baseURL, blogPostID)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return models.NewRemoteCallError("building counter request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.NewRemoteCallError("calling counter endpoint", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return models.NewNotFoundError("post", blogPostID)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.WarnContext(ctx, "counter endpoint returned unexpected status",
			"status", resp.StatusCode, "blog_post_id", blogPostID, "body", string(body))
		return models.NewRemoteCallError(
			fmt.Sprintf("counter endpoint returned %d", resp.StatusCode), nil)
	}
}
