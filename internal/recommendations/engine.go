// internal/recommendations/engine.go
// Hybrid recommendation scoring. Fuses collaborative, content,
// social-proof and trending signals into one ranked, explained list,
// degrading through content-only and popularity modes as user data
// thins out.

package recommendations

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sfuqua6/foodie/internal/common/utils"
	"github.com/sfuqua6/foodie/internal/config"
	"github.com/sfuqua6/foodie/internal/ratings"
	"github.com/sfuqua6/foodie/internal/restaurants"
	"github.com/sfuqua6/foodie/internal/similarity"
	"github.com/sfuqua6/foodie/internal/survey"
	"github.com/sfuqua6/foodie/internal/taxonomy"
)

const likedRatingThreshold = 4.0

// Engine produces ranked recommendation lists.
type Engine struct {
	surveyStore     survey.Store
	ratingStore     ratings.Store
	restaurantStore restaurants.Store
	snapshots       *similarity.SnapshotStore
	aggregator      *Aggregator
	cfg             *config.Config
	cache           *Cache
}

// NewEngine creates a recommendation engine. cache may be nil.
func NewEngine(surveyStore survey.Store, ratingStore ratings.Store, restaurantStore restaurants.Store, snapshots *similarity.SnapshotStore, aggregator *Aggregator, cfg *config.Config, cache *Cache) *Engine {
	return &Engine{
		surveyStore:     surveyStore,
		ratingStore:     ratingStore,
		restaurantStore: restaurantStore,
		snapshots:       snapshots,
		aggregator:      aggregator,
		cfg:             cfg,
		cache:           cache,
	}
}

// Recommend returns the ranked list for one user and request context.
// Sparse data degrades the mode; only malformed input is an error.
func (e *Engine) Recommend(ctx context.Context, userID int64, reqCtx *Context) (*Response, error) {
	if err := e.normalizeContext(reqCtx); err != nil {
		return nil, err
	}

	snap := e.snapshots.Current()
	if e.cache != nil {
		if resp, ok := e.cache.GetResponse(ctx, userID, reqCtx, snap.Epoch); ok {
			cacheHits.Inc()
			return resp, nil
		}
	}

	candidates, err := e.restaurantStore.ListActive(ctx, &restaurants.Filters{
		Cuisines:    reqCtx.Cuisines,
		PriceLevels: reqCtx.PriceLevels,
	})
	if err != nil {
		return nil, err
	}

	resp, err := e.recommend(ctx, userID, reqCtx, snap, candidates)
	if err != nil {
		return nil, err
	}

	requestsTotal.WithLabelValues(resp.Type, resp.Mode).Inc()
	if e.cache != nil {
		e.cache.SetResponse(ctx, userID, reqCtx, snap.Epoch, resp)
	}
	return resp, nil
}

// Preview is the short post-survey list: a plain for-you request.
func (e *Engine) Preview(ctx context.Context, userID int64, limit int) (*Response, error) {
	return e.Recommend(ctx, userID, &Context{Limit: &limit, Type: TypeForYou})
}

// Popularity is the cold-start list, also used by the HTTP layer as the
// degraded answer when scoring fails.
func (e *Engine) Popularity(ctx context.Context, reqCtx *Context) (*Response, error) {
	if err := e.normalizeContext(reqCtx); err != nil {
		return nil, err
	}
	candidates, err := e.restaurantStore.ListActive(ctx, &restaurants.Filters{
		Cuisines:    reqCtx.Cuisines,
		PriceLevels: reqCtx.PriceLevels,
	})
	if err != nil {
		return nil, err
	}
	results := e.popularityResults(candidates)
	return &Response{
		Type:    reqCtx.Type,
		Mode:    ModePopularity,
		Epoch:   e.snapshots.Current().Epoch,
		Results: e.finalize(results, candidates, reqCtx, false),
	}, nil
}

func (e *Engine) normalizeContext(reqCtx *Context) error {
	if reqCtx.Type == "" {
		reqCtx.Type = TypeForYou
	}
	switch reqCtx.Type {
	case TypeForYou, TypeTrending, TypeSimilar:
	default:
		return utils.NewValidationError("type",
			fmt.Sprintf("must be one of %s, %s, %s", TypeForYou, TypeTrending, TypeSimilar))
	}
	switch {
	case reqCtx.Limit == nil:
		limit := e.cfg.DefaultLimit
		reqCtx.Limit = &limit
	case *reqCtx.Limit <= 0:
		return utils.NewValidationError("limit", "must be positive")
	}
	if *reqCtx.Limit > e.cfg.MaxLimit {
		limit := e.cfg.MaxLimit
		reqCtx.Limit = &limit
	}
	if (reqCtx.Latitude == nil) != (reqCtx.Longitude == nil) {
		return utils.NewValidationError("location", "latitude and longitude must be provided together")
	}
	return nil
}

func (e *Engine) recommend(ctx context.Context, userID int64, reqCtx *Context, snap *similarity.Snapshot, candidates []restaurants.Restaurant) (*Response, error) {
	if len(candidates) == 0 {
		return &Response{Type: reqCtx.Type, Mode: ModePopularity, Epoch: snap.Epoch, Results: []Result{}}, nil
	}

	profile, err := e.surveyStore.Get(ctx, userID)
	if err != nil && err != survey.ErrProfileNotFound {
		return nil, err
	}
	var userVec taxonomy.Vector
	if profile != nil {
		userVec = survey.ToVector(profile)
	}
	hasProfile := profile != nil && !userVec.IsZero()

	userRatings, err := e.ratingStore.GetRatingsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ratedByUser := latestPerRestaurant(userRatings)

	velocity, err := e.trendingVelocity(ctx)
	if err != nil {
		return nil, err
	}

	switch reqCtx.Type {
	case TypeTrending:
		results := e.trendingResults(candidates, velocity)
		return &Response{Type: reqCtx.Type, Mode: ModeTrending, Epoch: snap.Epoch,
			Results: e.finalize(results, candidates, reqCtx, false)}, nil
	case TypeSimilar:
		results, ok := e.similarResults(candidates, ratedByUser)
		if ok {
			return &Response{Type: reqCtx.Type, Mode: ModeContent, Epoch: snap.Epoch,
				Results: e.finalize(results, candidates, reqCtx, false)}, nil
		}
		// No liked restaurants to seed from; fall through to for-you.
	}

	var (
		results []Result
		mode    string
	)
	switch {
	case hasProfile && len(ratedByUser) > 0:
		mode = ModeFull
		results, err = e.fullResults(ctx, userID, snap, candidates, userVec, ratedByUser, velocity)
		if err != nil {
			return nil, err
		}
	case hasProfile:
		mode = ModeContent
		results = e.contentResults(candidates, userVec, profile.Strength, velocity)
	default:
		mode = ModePopularity
		results = e.popularityResults(candidates)
	}

	return &Response{Type: reqCtx.Type, Mode: mode, Epoch: snap.Epoch,
		Results: e.finalize(results, candidates, reqCtx, mode != ModePopularity)}, nil
}

// fullResults scores with all four signals. Signals that are unavailable
// for a given restaurant are omitted and the remaining weights are
// renormalized in proportion, never zero-filled: a missing collaborative
// signal must not read as "similar users hated this".
func (e *Engine) fullResults(ctx context.Context, userID int64, snap *similarity.Snapshot, candidates []restaurants.Restaurant, userVec taxonomy.Vector, ratedByUser map[int64]float64, velocity map[int64]float64) ([]Result, error) {
	since := time.Now().AddDate(0, 0, -e.cfg.RatingHistoryWindowDays)
	allRatings, err := e.ratingStore.GetRatingsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	byRestaurant := make(map[int64][]ratings.Rating)
	for _, r := range allRatings {
		byRestaurant[r.RestaurantID] = append(byRestaurant[r.RestaurantID], r)
	}

	counts, err := e.ratingStore.GetRatingCounts(ctx)
	if err != nil {
		return nil, err
	}

	neighborSim := make(map[int64]float64)
	for _, n := range snap.Neighbors(userID, e.cfg.NeighborLimit) {
		neighborSim[n.UserID] = n.Similarity
	}

	now := time.Now()
	results := make([]Result, 0, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		if _, rated := ratedByUser[r.ID]; rated {
			continue
		}

		components := make(map[string]float64, 4)
		present := make(map[string]bool, 4)

		if collab, ok := collaborativeScore(byRestaurant[r.ID], neighborSim); ok {
			components[SignalCollaborative] = collab
			present[SignalCollaborative] = true
		}

		components[SignalContent] = contentScore(userVec, r)
		present[SignalContent] = true

		wr := e.aggregator.aggregate(byRestaurant[r.ID], userID, snap, counts, now)
		if len(byRestaurant[r.ID]) > 0 && wr.Confidence > 0 {
			components[SignalSocialProof] = normalizeRating(wr.Value) * wr.Confidence
			present[SignalSocialProof] = true
		}

		components[SignalTrending] = velocity[r.ID]
		present[SignalTrending] = true

		score, dominant := e.fuse(components, present)
		results = append(results, Result{
			RestaurantID:    r.ID,
			Name:            r.Name,
			CuisineType:     r.CuisineType,
			Score:           score,
			ComponentScores: components,
			Reason:          reasonFor(dominant),
			Confidence:      wr.Confidence,
			ratingCount:     r.RatingCount,
		})
	}
	return results, nil
}

func (e *Engine) contentResults(candidates []restaurants.Restaurant, userVec taxonomy.Vector, strength float64, velocity map[int64]float64) []Result {
	results := make([]Result, 0, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		components := map[string]float64{
			SignalContent:  contentScore(userVec, r),
			SignalTrending: velocity[r.ID],
		}
		present := map[string]bool{SignalContent: true, SignalTrending: true}
		score, dominant := e.fuse(components, present)
		results = append(results, Result{
			RestaurantID:    r.ID,
			Name:            r.Name,
			CuisineType:     r.CuisineType,
			Score:           score,
			ComponentScores: components,
			Reason:          reasonFor(dominant),
			Confidence:      strength,
			ratingCount:     r.RatingCount,
		})
	}
	return results
}

func (e *Engine) popularityResults(candidates []restaurants.Restaurant) []Result {
	results := make([]Result, 0, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		score := 0.7*(r.AvgRating/5.0) + 0.3*math.Min(float64(r.RatingCount)/100.0, 1.0)
		results = append(results, Result{
			RestaurantID:    r.ID,
			Name:            r.Name,
			CuisineType:     r.CuisineType,
			Score:           score,
			ComponentScores: map[string]float64{SignalPopularity: score},
			Reason:          reasonFor(SignalPopularity),
			Confidence:      0,
			ratingCount:     r.RatingCount,
		})
	}
	return results
}

func (e *Engine) trendingResults(candidates []restaurants.Restaurant, velocity map[int64]float64) []Result {
	results := make([]Result, 0, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		results = append(results, Result{
			RestaurantID:    r.ID,
			Name:            r.Name,
			CuisineType:     r.CuisineType,
			Score:           velocity[r.ID],
			ComponentScores: map[string]float64{SignalTrending: velocity[r.ID]},
			Reason:          reasonFor(SignalTrending),
			Confidence:      0,
			ratingCount:     r.RatingCount,
		})
	}
	return results
}

// similarResults ranks candidates by closeness to the centroid of the
// user's highest-rated restaurants. Returns false when there is nothing
// to seed from.
func (e *Engine) similarResults(candidates []restaurants.Restaurant, ratedByUser map[int64]float64) ([]Result, bool) {
	byID := make(map[int64]*restaurants.Restaurant, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	seed := taxonomy.NewVector()
	liked := 0
	for restaurantID, value := range ratedByUser {
		if value < likedRatingThreshold {
			continue
		}
		r, ok := byID[restaurantID]
		if !ok {
			continue
		}
		fv := restaurants.FeatureVector(r)
		for i := range fv {
			seed[i] += fv[i]
		}
		liked++
	}
	if liked == 0 {
		return nil, false
	}
	seed = seed.Normalize()

	results := make([]Result, 0, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		if _, rated := ratedByUser[r.ID]; rated {
			continue
		}
		score := clamp01(seed.Dot(restaurants.FeatureVector(r)))
		results = append(results, Result{
			RestaurantID:    r.ID,
			Name:            r.Name,
			CuisineType:     r.CuisineType,
			Score:           score,
			ComponentScores: map[string]float64{SignalContent: score},
			Reason:          "Similar to places you loved",
			Confidence:      0,
			ratingCount:     r.RatingCount,
		})
	}
	return results, true
}

// fuse renormalizes the configured weights over the present signals,
// preserving their relative ratios, and returns the fused score with the
// dominant signal name.
func (e *Engine) fuse(components map[string]float64, present map[string]bool) (float64, string) {
	weights := map[string]float64{
		SignalCollaborative: e.cfg.CollaborativeWeight,
		SignalContent:       e.cfg.ContentWeight,
		SignalSocialProof:   e.cfg.SocialProofWeight,
		SignalTrending:      e.cfg.TrendingWeight,
	}

	var totalWeight float64
	for name := range present {
		totalWeight += weights[name]
	}
	if totalWeight == 0 {
		return 0, SignalPopularity
	}

	var score float64
	dominant := ""
	var dominantContribution float64
	for name := range present {
		contribution := (weights[name] / totalWeight) * components[name]
		score += contribution
		if dominant == "" || contribution > dominantContribution ||
			(contribution == dominantContribution && name < dominant) {
			dominant = name
			dominantContribution = contribution
		}
	}
	return score, dominant
}

// finalize applies the location boost, rounds, orders deterministically,
// optionally runs the diversity pass, and truncates to the limit.
func (e *Engine) finalize(results []Result, candidates []restaurants.Restaurant, reqCtx *Context, diversify bool) []Result {
	applyLocationBoost(results, candidates, reqCtx.Latitude, reqCtx.Longitude)

	for i := range results {
		results[i].Score = roundScore(results[i].Score)
		for name, v := range results[i].ComponentScores {
			results[i].ComponentScores[name] = roundScore(v)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].ratingCount != results[j].ratingCount {
			return results[i].ratingCount > results[j].ratingCount
		}
		return results[i].RestaurantID < results[j].RestaurantID
	})

	if diversify {
		results = diversifyByCuisine(results, e.cfg.DiversityWindow)
	}

	if len(results) > *reqCtx.Limit {
		results = results[:*reqCtx.Limit]
	}
	if results == nil {
		results = []Result{}
	}
	return results
}

// diversifyByCuisine breaks up long same-cuisine runs by pulling the next
// different-cuisine entry forward. The top result is never moved and no
// entry is added or dropped.
func diversifyByCuisine(results []Result, window int) []Result {
	if window <= 1 {
		return results
	}
	for i := window - 1; i < len(results); i++ {
		run := 1
		for k := i - 1; k >= 0 && results[k].CuisineType == results[i].CuisineType; k-- {
			run++
		}
		if run < window {
			continue
		}
		j := i + 1
		for ; j < len(results); j++ {
			if results[j].CuisineType != results[i].CuisineType {
				break
			}
		}
		if j >= len(results) {
			break
		}
		moved := results[j]
		copy(results[i+1:j+1], results[i:j])
		results[i] = moved
	}
	return results
}

// collaborativeScore is the similarity-weighted mean of neighbor ratings,
// normalized to [0,1]. Unavailable when no neighbor rated the restaurant.
func collaborativeScore(restaurantRatings []ratings.Rating, neighborSim map[int64]float64) (float64, bool) {
	var sumW, weighted float64
	for _, r := range latestPerRater(restaurantRatings) {
		sim, ok := neighborSim[r.RaterID]
		if !ok || sim <= 0 {
			continue
		}
		sumW += sim
		weighted += sim * r.Value
	}
	if sumW == 0 {
		return 0, false
	}
	return normalizeRating(weighted / sumW), true
}

func contentScore(userVec taxonomy.Vector, r *restaurants.Restaurant) float64 {
	return clamp01(userVec.Dot(restaurants.FeatureVector(r)))
}

// trendingVelocity maps each restaurant to its share of recent rating
// activity, scaled so the busiest restaurant scores 1.0.
func (e *Engine) trendingVelocity(ctx context.Context) (map[int64]float64, error) {
	since := time.Now().AddDate(0, 0, -e.cfg.TrendingWindowDays)
	events, err := e.restaurantStore.GetRecentActivity(ctx, since)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(events))
	maxCount := 0
	for _, ev := range events {
		counts[ev.RestaurantID]++
		if counts[ev.RestaurantID] > maxCount {
			maxCount = counts[ev.RestaurantID]
		}
	}

	velocity := make(map[int64]float64, len(counts))
	if maxCount == 0 {
		return velocity, nil
	}
	for id, c := range counts {
		velocity[id] = float64(c) / float64(maxCount)
	}
	return velocity, nil
}

// normalizeRating maps the 1..5 rating scale onto [0,1].
func normalizeRating(v float64) float64 {
	return clamp01((v - 1) / 4)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// roundScore fixes the precision used for ordering so tie-breaking is
// exact rather than float-noise dependent.
func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func reasonFor(signal string) string {
	switch signal {
	case SignalCollaborative:
		return "Highly rated by people with similar taste"
	case SignalContent:
		return "Matches your taste profile"
	case SignalSocialProof:
		return "Well rated by the community"
	case SignalTrending:
		return "Trending right now"
	default:
		return "Popular on the platform"
	}
}

// latestPerRestaurant keeps one value per restaurant from a single user's
// rating history, preferring the most recent.
func latestPerRestaurant(userRatings []ratings.Rating) map[int64]float64 {
	latest := make(map[int64]time.Time, len(userRatings))
	out := make(map[int64]float64, len(userRatings))
	for _, r := range userRatings {
		if prev, ok := latest[r.RestaurantID]; ok && prev.After(r.CreatedAt) {
			continue
		}
		latest[r.RestaurantID] = r.CreatedAt
		out[r.RestaurantID] = r.Value
	}
	return out
}
