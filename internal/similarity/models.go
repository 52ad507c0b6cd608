// internal/similarity/models.go

package similarity

import (
	"fmt"
	"sort"
	"time"

	"github.com/sfuqua6/foodie/internal/common/utils"
)

// Pair is one stored similarity edge. Pairs are kept upper-triangle only
// (UserA < UserB); Lookup handles both argument orders.
type Pair struct {
	UserA        int64   `json:"user_a" db:"user_a"`
	UserB        int64   `json:"user_b" db:"user_b"`
	RatingSim    float64 `json:"rating_sim" db:"rating_sim"`
	HasRatingSim bool    `json:"has_rating_sim" db:"has_rating_sim"`
	PrefSim      float64 `json:"pref_sim" db:"pref_sim"`
	Overall      float64 `json:"overall" db:"overall"`
}

// Snapshot is one immutable similarity epoch: every read against it is
// mutually consistent. Snapshots are replaced wholesale, never mutated.
type Snapshot struct {
	Epoch       string
	ComputedAt  time.Time
	NumClusters int

	pairs    map[pairKey]Pair
	byUser   map[int64][]Pair
	clusters map[int64]int
}

type pairKey struct {
	a, b int64
}

func orderedKey(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// NewSnapshot builds an indexed snapshot from raw pairs and cluster
// assignments.
func NewSnapshot(epoch string, computedAt time.Time, pairs []Pair, clusters map[int64]int, numClusters int) *Snapshot {
	s := &Snapshot{
		Epoch:       epoch,
		ComputedAt:  computedAt,
		NumClusters: numClusters,
		pairs:       make(map[pairKey]Pair, len(pairs)),
		byUser:      make(map[int64][]Pair, len(clusters)),
		clusters:    clusters,
	}
	if s.clusters == nil {
		s.clusters = map[int64]int{}
	}
	for _, p := range pairs {
		s.pairs[orderedKey(p.UserA, p.UserB)] = p
		s.byUser[p.UserA] = append(s.byUser[p.UserA], p)
		s.byUser[p.UserB] = append(s.byUser[p.UserB], p)
	}
	return s
}

// validatePairs checks the invariants every stored pair must satisfy:
// upper-triangle ordering and a non-negative overall score. The engine
// produces pairs this way by construction; rows read back from storage
// are checked before they reach a snapshot.
func validatePairs(pairs []Pair) error {
	for _, p := range pairs {
		if p.UserA >= p.UserB {
			return &utils.InconsistencyError{
				Message: fmt.Sprintf("similarity pair (%d, %d) is not upper-triangle", p.UserA, p.UserB),
			}
		}
		if p.Overall < 0 {
			return &utils.InconsistencyError{
				Message: fmt.Sprintf("similarity pair (%d, %d) has negative weight %g", p.UserA, p.UserB, p.Overall),
			}
		}
	}
	return nil
}

// Similarity returns the overall similarity of two users, or false when
// the pair is not in this epoch.
func (s *Snapshot) Similarity(a, b int64) (float64, bool) {
	p, ok := s.pairs[orderedKey(a, b)]
	if !ok {
		return 0, false
	}
	return p.Overall, true
}

// Cluster returns the user's cluster assignment for this epoch.
func (s *Snapshot) Cluster(userID int64) (int, bool) {
	c, ok := s.clusters[userID]
	return c, ok
}

// SameCluster reports whether both users are assigned and share a cluster.
func (s *Snapshot) SameCluster(a, b int64) bool {
	ca, ok := s.clusters[a]
	if !ok {
		return false
	}
	cb, ok := s.clusters[b]
	return ok && ca == cb
}

// Pairs returns all stored pairs, for persistence.
func (s *Snapshot) Pairs() []Pair {
	out := make([]Pair, 0, len(s.pairs))
	for _, p := range s.pairs {
		out = append(out, p)
	}
	return out
}

// Clusters returns the full assignment map, for persistence.
func (s *Snapshot) Clusters() map[int64]int {
	return s.clusters
}

// PairCount is the number of edges that survived the persistence threshold.
func (s *Snapshot) PairCount() int {
	return len(s.pairs)
}

// SimilarUser is one neighbor entry for the similar-users endpoint.
type SimilarUser struct {
	UserID      int64   `json:"user_id"`
	Similarity  float64 `json:"similarity"`
	SameCluster bool    `json:"same_cluster"`
}

// Neighbors returns the user's top-n most similar users by overall score,
// ties broken on ascending user id for deterministic output.
func (s *Snapshot) Neighbors(userID int64, n int) []SimilarUser {
	edges := s.byUser[userID]
	out := make([]SimilarUser, 0, len(edges))
	for _, p := range edges {
		other := p.UserA
		if other == userID {
			other = p.UserB
		}
		out = append(out, SimilarUser{
			UserID:      other,
			Similarity:  p.Overall,
			SameCluster: s.SameCluster(userID, other),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
