// internal/recommendations/aggregator.go
// Socially weighted rating aggregation. Each raw rating is weighted by
// viewer-rater similarity, the rater's experience, and recency. Raw
// ratings stay authoritative; aggregates are derived and cacheable.

package recommendations

import (
	"context"
	"math"
	"time"

	"github.com/sfuqua6/foodie/internal/config"
	"github.com/sfuqua6/foodie/internal/ratings"
	"github.com/sfuqua6/foodie/internal/restaurants"
	"github.com/sfuqua6/foodie/internal/similarity"
)

const neutralRating = 3.0

// Aggregator computes per-viewer weighted ratings.
type Aggregator struct {
	ratingStore     ratings.Store
	restaurantStore restaurants.Store
	snapshots       *similarity.SnapshotStore
	cfg             *config.Config
	cache           *Cache
}

// NewAggregator creates a weighted rating aggregator. cache may be nil.
func NewAggregator(ratingStore ratings.Store, restaurantStore restaurants.Store, snapshots *similarity.SnapshotStore, cfg *config.Config, cache *Cache) *Aggregator {
	return &Aggregator{
		ratingStore:     ratingStore,
		restaurantStore: restaurantStore,
		snapshots:       snapshots,
		cfg:             cfg,
		cache:           cache,
	}
}

// WeightedRatingFor aggregates all ratings on a restaurant from the
// viewer's perspective. It never fails for lack of data: zero ratings
// produce the restaurant's unweighted average (or a neutral value) at
// confidence 0.
func (a *Aggregator) WeightedRatingFor(ctx context.Context, restaurantID, viewerID int64) (*WeightedRating, error) {
	snap := a.snapshots.Current()

	if a.cache != nil {
		if wr, ok := a.cache.GetWeightedRating(ctx, restaurantID, viewerID, snap.Epoch); ok {
			return wr, nil
		}
	}

	restaurantRatings, err := a.ratingStore.GetRatingsForRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	if len(restaurantRatings) == 0 {
		wr, err := a.fallbackRating(ctx, restaurantID)
		if err != nil {
			return nil, err
		}
		return wr, nil
	}

	counts, err := a.ratingStore.GetRatingCounts(ctx)
	if err != nil {
		return nil, err
	}

	wr := a.aggregate(restaurantRatings, viewerID, snap, counts, time.Now())

	if a.cache != nil {
		a.cache.SetWeightedRating(ctx, restaurantID, viewerID, snap.Epoch, wr)
	}
	return wr, nil
}

// aggregate computes the weighted mean over the latest rating per rater.
func (a *Aggregator) aggregate(restaurantRatings []ratings.Rating, viewerID int64, snap *similarity.Snapshot, counts map[int64]int, now time.Time) *WeightedRating {
	latest := latestPerRater(restaurantRatings)

	var sumW, sumWSq, weightedSum float64
	for _, r := range latest {
		w := a.ratingWeight(r, viewerID, snap, counts[r.RaterID], now)
		sumW += w
		sumWSq += w * w
		weightedSum += w * r.Value
	}

	if sumW == 0 {
		return &WeightedRating{Value: neutralRating, Confidence: 0, SampleSize: 0}
	}

	ess := (sumW * sumW) / sumWSq
	return &WeightedRating{
		Value:      weightedSum / sumW,
		Confidence: math.Min(ess/a.cfg.ConfidenceSampleSize, 1.0),
		SampleSize: ess,
	}
}

// ratingWeight is similarity × experience × recency. An unknown
// viewer-rater pair gets a fixed neutral similarity; dropping it instead
// would bias the aggregate toward users with computed similarity.
func (a *Aggregator) ratingWeight(r ratings.Rating, viewerID int64, snap *similarity.Snapshot, raterCount int, now time.Time) float64 {
	sim := a.cfg.DefaultSimilarity
	if r.RaterID == viewerID {
		sim = 1.0
	} else if s, ok := snap.Similarity(viewerID, r.RaterID); ok {
		sim = s
	}

	experience := math.Min(float64(raterCount)/a.cfg.ExperienceDivisor, a.cfg.ExperienceCap)

	ageDays := now.Sub(r.CreatedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	recency := math.Exp(-ageDays / a.cfg.RecencyDecayDays)

	return sim * experience * recency
}

func (a *Aggregator) fallbackRating(ctx context.Context, restaurantID int64) (*WeightedRating, error) {
	wr := &WeightedRating{Value: neutralRating, Confidence: 0, SampleSize: 0}

	r, err := a.restaurantStore.GetRestaurant(ctx, restaurantID)
	if err == restaurants.ErrNotFound {
		return wr, nil
	}
	if err != nil {
		return nil, err
	}
	if r.AvgRating > 0 {
		wr.Value = r.AvgRating
	}
	return wr, nil
}

// latestPerRater keeps only each rater's most recent rating.
func latestPerRater(all []ratings.Rating) []ratings.Rating {
	seen := make(map[int64]int, len(all))
	var out []ratings.Rating
	for _, r := range all {
		if idx, ok := seen[r.RaterID]; ok {
			if r.CreatedAt.After(out[idx].CreatedAt) {
				out[idx] = r
			}
			continue
		}
		seen[r.RaterID] = len(out)
		out = append(out, r)
	}
	return out
}
