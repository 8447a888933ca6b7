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

// Comments removes comment rows owned by the comment service. It is used by
// the blog service to cascade a post deletion.
type Comments interface {
	DeleteAllForPost(ctx context.Context, blogPostID uint) error
}

// CommentsClient is the HTTP implementation of Comments.
type CommentsClient struct {
	baseURL string
	client  *http.Client
}

// NewCommentsClient creates a CommentsClient against the comment service at
// baseURL.
func NewCommentsClient(baseURL string, timeout time.Duration) *CommentsClient {
	return &CommentsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// DeleteAllForPost removes every comment attached to the post. A 404 means
// the post had no comments, which the cascade treats as success.
func (c *CommentsClient) DeleteAllForPost(ctx context.Context, blogPostID uint) error {
	url := fmt.Sprintf("%s/api/comments/post/%d", c.baseURL, blogPostID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return models.NewRemoteCallError("building comment cascade request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.NewRemoteCallError("calling comment cascade endpoint", err)
	}
	defer resp.Body.Close()

	if (resp.StatusCode >= 200 && resp.StatusCode < 300) || resp.StatusCode == http.StatusNotFound {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	slog.WarnContext(ctx, "comment cascade returned unexpected status",
		"status", resp.StatusCode, "blog_post_id", blogPostID, "body", string(body))
	return models.NewRemoteCallError(
		fmt.Sprintf("comment cascade returned %d", resp.StatusCode), nil)
}
