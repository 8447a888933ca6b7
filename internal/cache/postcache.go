package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"newwek/internal/middleware"
	"newwek/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	postKeyPrefix = "post:%d"
	postListKey   = "postList"
)

// PostKey returns the cache key for a single post.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// PostCache is a cache-aside layer in front of the post store. It covers the
// two read patterns the store serves: single post by id and the full list
// sorted by comment count. The store stays the source of truth; every lookup
// fails open to a miss when Redis is unavailable.
type PostCache struct {
	rdb     *redis.Client
	postTTL time.Duration
	listTTL time.Duration
}

// NewPostCache creates a PostCache. rdb may be nil, in which case every
// lookup is a miss and every write is a no-op.
func NewPostCache(rdb *redis.Client, postTTL, listTTL time.Duration) *PostCache {
	return &PostCache{rdb: rdb, postTTL: postTTL, listTTL: listTTL}
}

// GetPost returns the cached post and whether it was a hit.
func (c *PostCache) GetPost(ctx context.Context, id uint) (*models.Post, bool) {
	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, PostKey(id)).Bytes()
	if err != nil {
		c.miss("post")
		return nil, false
	}

	var post models.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		slog.Warn("post cache: dropping undecodable entry", "key", PostKey(id), "error", err)
		c.rdb.Del(ctx, PostKey(id))
		c.miss("post")
		return nil, false
	}

	c.hit("post")
	return &post, true
}

// SetPost stores a post under its id with the configured TTL.
func (c *PostCache) SetPost(ctx context.Context, post *models.Post) {
	if c.rdb == nil || post == nil {
		return
	}
	raw, err := json.Marshal(post)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, PostKey(post.ID), raw, c.postTTL)
}

// GetPostList returns the cached sorted list and whether it was a hit.
func (c *PostCache) GetPostList(ctx context.Context) ([]models.Post, bool) {
	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, postListKey).Bytes()
	if err != nil {
		c.miss("post_list")
		return nil, false
	}

	var posts []models.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		slog.Warn("post cache: dropping undecodable list entry", "error", err)
		c.rdb.Del(ctx, postListKey)
		c.miss("post_list")
		return nil, false
	}

	c.hit("post_list")
	return posts, true
}

// SetPostList stores the sorted list with the configured TTL.
func (c *PostCache) SetPostList(ctx context.Context, posts []models.Post) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, postListKey, raw, c.listTTL)
}

// InvalidatePost evicts the single-post entry.
func (c *PostCache) InvalidatePost(ctx context.Context, id uint) {
	if c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, PostKey(id))
}

// InvalidateList evicts the whole list entry. The list cache has no partial
// granularity: a write to any post invalidates it entirely.
func (c *PostCache) InvalidateList(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, postListKey)
}

// InvalidateOnWrite evicts everything a post write can stale: the post's own
// entry and the whole list.
func (c *PostCache) InvalidateOnWrite(ctx context.Context, id uint) {
	c.InvalidatePost(ctx, id)
	c.InvalidateList(ctx)
}

func (c *PostCache) hit(cache string) {
	middleware.PostCacheRequests.WithLabelValues(cache, "hit").Inc()
}

func (c *PostCache) miss(cache string) {
	middleware.PostCacheRequests.WithLabelValues(cache, "miss").Inc()
}
