// internal/similarity/engine.go
// Batch computation of pairwise user similarity. Runs out-of-band; online
// requests only ever read published snapshots.

package similarity

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sfuqua6/foodie/internal/config"
	"github.com/sfuqua6/foodie/internal/ratings"
	"github.com/sfuqua6/foodie/internal/survey"
	"github.com/sfuqua6/foodie/internal/taxonomy"
)

// Engine computes similarity snapshots from raw ratings and preference
// profiles.
type Engine struct {
	ratingStore ratings.Store
	surveyStore survey.Store
	cfg         *config.Config
}

// NewEngine creates a similarity engine.
func NewEngine(ratingStore ratings.Store, surveyStore survey.Store, cfg *config.Config) *Engine {
	return &Engine{
		ratingStore: ratingStore,
		surveyStore: surveyStore,
		cfg:         cfg,
	}
}

// Compute builds a fresh snapshot. With fewer than the minimum viable
// user count it returns an empty snapshot rather than an error; sparse
// data is a normal state, not a failure.
func (e *Engine) Compute(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	epoch := uuid.New().String()

	since := time.Now().AddDate(0, 0, -e.cfg.RatingHistoryWindowDays)
	allRatings, err := e.ratingStore.GetRatingsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	ratingsByUser := ratings.ByUser(allRatings)

	activeRaters, err := e.ratingStore.GetActiveRaters(ctx, since)
	if err != nil {
		return nil, err
	}

	profiles, err := e.surveyStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	vectors := survey.VectorsByUser(profiles)

	users := e.userUniverse(activeRaters, vectors)
	if len(users) < e.cfg.MinUsersForSimilarity {
		recomputeDuration.Observe(time.Since(start).Seconds())
		return NewSnapshot(epoch, time.Now().UTC(), nil, nil, 0), nil
	}

	var pairs []Pair
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			p, ok := e.pairSimilarity(users[i], users[j], ratingsByUser, vectors)
			if !ok || p.Overall < e.cfg.SimilarityThreshold {
				continue
			}
			pairs = append(pairs, p)
			pairScores.Observe(p.Overall)
		}
	}

	clusters, numClusters, err := e.clusterUsers(ctx, vectors, len(users))
	if err != nil {
		return nil, err
	}

	recomputeDuration.Observe(time.Since(start).Seconds())
	pairsStored.Set(float64(len(pairs)))
	clustersActive.Set(float64(numClusters))

	return NewSnapshot(epoch, time.Now().UTC(), pairs, clusters, numClusters), nil
}

// userUniverse is the sorted union of raters active inside the history
// window and users with a preference vector. Sorted order keeps pair
// iteration, and with a fixed seed the whole recompute, deterministic.
func (e *Engine) userUniverse(activeRaters []int64, vectors map[int64]taxonomy.Vector) []int64 {
	seen := make(map[int64]bool, len(activeRaters)+len(vectors))
	var users []int64
	for _, id := range activeRaters {
		if !seen[id] {
			seen[id] = true
			users = append(users, id)
		}
	}
	for id := range vectors {
		if !seen[id] {
			seen[id] = true
			users = append(users, id)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}

// pairSimilarity combines rating-based and preference-based similarity.
// With both available the blend is RatingSimilarityWeight to its
// complement; with only preference similarity that single signal is
// reweighted to 1.0 rather than diluted against an absent one.
func (e *Engine) pairSimilarity(a, b int64, ratingsByUser map[int64]map[int64]float64, vectors map[int64]taxonomy.Vector) (Pair, bool) {
	p := Pair{UserA: a, UserB: b}

	ratingSim, hasRating := ratingCosine(ratingsByUser[a], ratingsByUser[b], e.cfg.MinRatingOverlap)
	p.RatingSim = ratingSim
	p.HasRatingSim = hasRating

	va, okA := vectors[a]
	vb, okB := vectors[b]
	hasPref := okA && okB
	if hasPref {
		p.PrefSim = taxonomy.Cosine(va, vb)
	}

	switch {
	case hasRating && hasPref:
		w := e.cfg.RatingSimilarityWeight
		p.Overall = w*ratingSim + (1-w)*p.PrefSim
	case hasRating:
		p.Overall = ratingSim
	case hasPref:
		p.Overall = p.PrefSim
	default:
		return Pair{}, false
	}
	return p, true
}

// ratingCosine is the cosine similarity over the restaurants both users
// rated. Below minOverlap common restaurants the signal is too noisy to
// use at all.
func ratingCosine(a, b map[int64]float64, minOverlap int) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	common := 0
	for restaurantID, ra := range a {
		rb, ok := b[restaurantID]
		if !ok {
			continue
		}
		common++
		dot += ra * rb
		normA += ra * ra
		normB += rb * rb
	}
	if common < minOverlap || normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

// clusterUsers partitions preference vectors with seeded k-means. Cluster
// count scales with the square root of the active-user population,
// clamped to the configured bounds; only profiled users are assignable.
func (e *Engine) clusterUsers(ctx context.Context, vectors map[int64]taxonomy.Vector, activeUsers int) (map[int64]int, int, error) {
	if len(vectors) < e.cfg.MinUsersForSimilarity {
		return map[int64]int{}, 0, nil
	}

	k := int(math.Round(math.Sqrt(float64(activeUsers) / 2)))
	if k < e.cfg.MinClusters {
		k = e.cfg.MinClusters
	}
	if k > e.cfg.MaxClusters {
		k = e.cfg.MaxClusters
	}
	if k > len(vectors) {
		k = len(vectors)
	}

	return kmeans(ctx, vectors, k, e.cfg.SimilaritySeed)
}
