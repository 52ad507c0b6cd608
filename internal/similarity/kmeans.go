// internal/similarity/kmeans.go
// Seeded k-means over preference vectors. Determinism given a fixed seed
// is a contract: cluster assignments must be reproducible across runs on
// the same input.

package similarity

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/sfuqua6/foodie/internal/taxonomy"
)

const maxKmeansIterations = 100

// kmeans partitions the given vectors into k clusters and returns the
// assignment per user along with the number of non-empty clusters.
func kmeans(ctx context.Context, vectors map[int64]taxonomy.Vector, k int, seed int64) (map[int64]int, int, error) {
	userIDs := make([]int64, 0, len(vectors))
	for id := range vectors {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	if k <= 0 || len(userIDs) == 0 {
		return map[int64]int{}, 0, nil
	}
	if k > len(userIDs) {
		k = len(userIDs)
	}

	rng := rand.New(rand.NewSource(seed))

	// Initial centroids are distinct sampled users.
	perm := rng.Perm(len(userIDs))
	centroids := make([]taxonomy.Vector, k)
	for c := 0; c < k; c++ {
		src := vectors[userIDs[perm[c]]]
		centroids[c] = append(taxonomy.Vector(nil), src...)
	}

	assignments := make(map[int64]int, len(userIDs))

	for iter := 0; iter < maxKmeansIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		changed := false
		for _, id := range userIDs {
			best := nearestCentroid(vectors[id], centroids)
			if prev, ok := assignments[id]; !ok || prev != best {
				assignments[id] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids as cluster means. An emptied cluster keeps
		// its previous centroid so k stays stable within a run.
		sums := make([]taxonomy.Vector, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = taxonomy.NewVector()
		}
		for _, id := range userIDs {
			c := assignments[id]
			counts[c]++
			v := vectors[id]
			for i := range v {
				sums[c][i] += v[i]
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for i := range sums[c] {
				sums[c][i] /= float64(counts[c])
			}
			centroids[c] = sums[c]
		}
	}

	nonEmpty := make(map[int]bool, k)
	for _, c := range assignments {
		nonEmpty[c] = true
	}
	return assignments, len(nonEmpty), nil
}

// nearestCentroid picks the centroid with minimum squared Euclidean
// distance; the lowest index wins ties, keeping results deterministic.
func nearestCentroid(v taxonomy.Vector, centroids []taxonomy.Vector) int {
	best := 0
	bestDist := math.MaxFloat64
	for c, centroid := range centroids {
		var dist float64
		for i := range v {
			d := v[i] - centroid[i]
			dist += d * d
		}
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}
