// internal/recommendations/cache.go
// Redis caching for recommendation responses and weighted ratings. Keys
// embed the similarity epoch, so a new epoch naturally invalidates every
// cached result without explicit flushes.

package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/sfuqua6/foodie/internal/config"
)

// Cache wraps the optional Redis client. All methods are best-effort;
// a cache failure never fails the request.
type Cache struct {
	client *redis.Client
	cfg    *config.Config
}

// NewCache returns nil when no Redis client is configured, which callers
// treat as "no cache".
func NewCache(client *redis.Client, cfg *config.Config) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, cfg: cfg}
}

func weightedRatingKey(restaurantID, viewerID int64, epoch string) string {
	return fmt.Sprintf("foodie:wr:%s:%d:%d", epoch, restaurantID, viewerID)
}

func recommendationKey(userID int64, reqCtx *Context, epoch string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "foodie:rec:%s:%d:%s:%d", epoch, userID, reqCtx.Type, *reqCtx.Limit)
	for _, c := range reqCtx.Cuisines {
		b.WriteString(":" + c)
	}
	for _, p := range reqCtx.PriceLevels {
		fmt.Fprintf(&b, ":p%d", p)
	}
	if reqCtx.Latitude != nil && reqCtx.Longitude != nil {
		fmt.Fprintf(&b, ":%.3f:%.3f", *reqCtx.Latitude, *reqCtx.Longitude)
	}
	return b.String()
}

// GetWeightedRating returns a cached aggregate for the epoch, if any.
func (c *Cache) GetWeightedRating(ctx context.Context, restaurantID, viewerID int64, epoch string) (*WeightedRating, bool) {
	data, err := c.client.Get(ctx, weightedRatingKey(restaurantID, viewerID, epoch)).Bytes()
	if err != nil {
		return nil, false
	}
	var wr WeightedRating
	if err := json.Unmarshal(data, &wr); err != nil {
		return nil, false
	}
	return &wr, true
}

// SetWeightedRating stores an aggregate with a short TTL.
func (c *Cache) SetWeightedRating(ctx context.Context, restaurantID, viewerID int64, epoch string, wr *WeightedRating) {
	data, err := json.Marshal(wr)
	if err != nil {
		return
	}
	c.client.Set(ctx, weightedRatingKey(restaurantID, viewerID, epoch), data, c.cfg.WeightedRatingCacheTTL)
}

// GetResponse returns a cached recommendation response for the epoch.
func (c *Cache) GetResponse(ctx context.Context, userID int64, reqCtx *Context, epoch string) (*Response, bool) {
	data, err := c.client.Get(ctx, recommendationKey(userID, reqCtx, epoch)).Bytes()
	if err != nil {
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// SetResponse caches a recommendation response.
func (c *Cache) SetResponse(ctx context.Context, userID int64, reqCtx *Context, epoch string, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	c.client.Set(ctx, recommendationKey(userID, reqCtx, epoch), data, c.cfg.RecommendationCacheTTL)
}
