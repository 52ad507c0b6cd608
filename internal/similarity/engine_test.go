package similarity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfuqua6/foodie/internal/config"
	"github.com/sfuqua6/foodie/internal/ratings"
	"github.com/sfuqua6/foodie/internal/survey"
)

type fakeRatingStore struct {
	ratings []ratings.Rating
}

func (f *fakeRatingStore) GetRatingsForUser(_ context.Context, userID int64) ([]ratings.Rating, error) {
	var out []ratings.Rating
	for _, r := range f.ratings {
		if r.RaterID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingStore) GetRatingsForRestaurant(_ context.Context, restaurantID int64) ([]ratings.Rating, error) {
	var out []ratings.Rating
	for _, r := range f.ratings {
		if r.RestaurantID == restaurantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingStore) GetRatingsSince(_ context.Context, since time.Time) ([]ratings.Rating, error) {
	var out []ratings.Rating
	for _, r := range f.ratings {
		if r.CreatedAt.After(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingStore) GetRatingCounts(_ context.Context) (map[int64]int, error) {
	counts := make(map[int64]int)
	for _, r := range f.ratings {
		counts[r.RaterID]++
	}
	return counts, nil
}

func (f *fakeRatingStore) GetActiveRaters(_ context.Context, since time.Time) ([]int64, error) {
	seen := make(map[int64]bool)
	var out []int64
	for _, r := range f.ratings {
		if r.CreatedAt.After(since) && !seen[r.RaterID] {
			seen[r.RaterID] = true
			out = append(out, r.RaterID)
		}
	}
	return out, nil
}

type fakeSurveyStore struct {
	profiles []survey.PreferenceProfile
}

func (f *fakeSurveyStore) Upsert(context.Context, *survey.PreferenceProfile) error { return nil }
func (f *fakeSurveyStore) Get(context.Context, int64) (*survey.PreferenceProfile, error) {
	return nil, survey.ErrProfileNotFound
}
func (f *fakeSurveyStore) Delete(context.Context, int64) error { return nil }
func (f *fakeSurveyStore) GetAll(context.Context) ([]survey.PreferenceProfile, error) {
	return f.profiles, nil
}

func testConfig() *config.Config {
	return &config.Config{
		SimilaritySeed:          42,
		MinRatingOverlap:        2,
		SimilarityThreshold:     0.15,
		RatingSimilarityWeight:  0.7,
		MinUsersForSimilarity:   2,
		MinClusters:             2,
		MaxClusters:             20,
		RatingHistoryWindowDays: 365,
		NeighborLimit:           20,
	}
}

func rating(user, restaurant int64, value float64) ratings.Rating {
	return ratings.Rating{
		RaterID:      user,
		RestaurantID: restaurant,
		Value:        value,
		CreatedAt:    time.Now().Add(-time.Hour),
	}
}

func profileFor(userID int64, options map[string][]string) survey.PreferenceProfile {
	rounds := make([]survey.Round, 0, len(options))
	for category, opts := range options {
		sels := make([]survey.Selection, len(opts))
		for i, opt := range opts {
			sels[i] = survey.Selection{OptionID: opt, SelectionOrder: i + 1}
		}
		rounds = append(rounds, survey.Round{Category: category, Selections: sels})
	}
	p, err := survey.Build(userID, &survey.SurveySubmission{Rounds: rounds})
	if err != nil {
		panic(err)
	}
	return *p
}

func TestComputeIdenticalRatingVectors(t *testing.T) {
	store := &fakeRatingStore{}
	for restaurant := int64(1); restaurant <= 5; restaurant++ {
		store.ratings = append(store.ratings,
			rating(1, restaurant, float64(restaurant%5)+1),
			rating(2, restaurant, float64(restaurant%5)+1),
		)
	}

	engine := NewEngine(store, &fakeSurveyStore{}, testConfig())
	snap, err := engine.Compute(context.Background())
	require.NoError(t, err)

	sim, ok := snap.Similarity(1, 2)
	require.True(t, ok)
	assert.InDelta(t, 1.0, sim, 1e-9)

	// symmetric lookup
	reversed, ok := snap.Similarity(2, 1)
	require.True(t, ok)
	assert.Equal(t, sim, reversed)
}

func TestComputeCombinedScoreAtLeastRatingContribution(t *testing.T) {
	store := &fakeRatingStore{}
	for restaurant := int64(1); restaurant <= 5; restaurant++ {
		store.ratings = append(store.ratings,
			rating(1, restaurant, 4),
			rating(2, restaurant, 4),
		)
	}
	surveyStore := &fakeSurveyStore{profiles: []survey.PreferenceProfile{
		profileFor(1, map[string][]string{"cuisine": {"italian", "thai"}}),
		profileFor(2, map[string][]string{"cuisine": {"italian", "thai"}}),
	}}

	cfg := testConfig()
	engine := NewEngine(store, surveyStore, cfg)
	snap, err := engine.Compute(context.Background())
	require.NoError(t, err)

	combined, ok := snap.Similarity(1, 2)
	require.True(t, ok)
	assert.GreaterOrEqual(t, combined, cfg.RatingSimilarityWeight*1.0-1e-9)
}

func TestComputePreferenceOnlyPairsReweighted(t *testing.T) {
	// No rating overlap at all; preference similarity must carry full
	// weight rather than being scaled by 0.3.
	surveyStore := &fakeSurveyStore{profiles: []survey.PreferenceProfile{
		profileFor(1, map[string][]string{"cuisine": {"italian", "mexican"}}),
		profileFor(2, map[string][]string{"cuisine": {"italian", "mexican"}}),
	}}

	engine := NewEngine(&fakeRatingStore{}, surveyStore, testConfig())
	snap, err := engine.Compute(context.Background())
	require.NoError(t, err)

	sim, ok := snap.Similarity(1, 2)
	require.True(t, ok)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestComputeBelowOverlapHasNoRatingSignal(t *testing.T) {
	// Only one common restaurant: below MinRatingOverlap, and no
	// preference profiles either, so no pair survives.
	store := &fakeRatingStore{ratings: []ratings.Rating{
		rating(1, 10, 5),
		rating(2, 10, 5),
		rating(1, 11, 4),
		rating(2, 12, 4),
	}}

	engine := NewEngine(store, &fakeSurveyStore{}, testConfig())
	snap, err := engine.Compute(context.Background())
	require.NoError(t, err)

	_, ok := snap.Similarity(1, 2)
	assert.False(t, ok)
}

func TestComputeThresholdFiltersWeakPairs(t *testing.T) {
	// Orthogonal preference vectors give similarity 0, under threshold.
	surveyStore := &fakeSurveyStore{profiles: []survey.PreferenceProfile{
		profileFor(1, map[string][]string{"cuisine": {"italian"}}),
		profileFor(2, map[string][]string{"cuisine": {"korean"}}),
	}}

	engine := NewEngine(&fakeRatingStore{}, surveyStore, testConfig())
	snap, err := engine.Compute(context.Background())
	require.NoError(t, err)

	_, ok := snap.Similarity(1, 2)
	assert.False(t, ok)
	assert.Equal(t, 0, snap.PairCount())
}

func TestComputeEmptyInputDegrades(t *testing.T) {
	engine := NewEngine(&fakeRatingStore{}, &fakeSurveyStore{}, testConfig())
	snap, err := engine.Compute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, snap.PairCount())
	assert.Empty(t, snap.Clusters())
	assert.NotEmpty(t, snap.Epoch)
}

type staleActiveRaters struct {
	*fakeRatingStore
}

func (s staleActiveRaters) GetActiveRaters(context.Context, time.Time) ([]int64, error) {
	return nil, nil
}

func TestComputeUniverseComesFromActiveRaters(t *testing.T) {
	store := &fakeRatingStore{}
	for restaurant := int64(1); restaurant <= 5; restaurant++ {
		store.ratings = append(store.ratings,
			rating(1, restaurant, 4),
			rating(2, restaurant, 4),
		)
	}

	// identical rating histories, but the active-rater listing is what
	// admits users into the pair universe
	engine := NewEngine(staleActiveRaters{store}, &fakeSurveyStore{}, testConfig())
	snap, err := engine.Compute(context.Background())
	require.NoError(t, err)

	_, ok := snap.Similarity(1, 2)
	assert.False(t, ok)
	assert.Equal(t, 0, snap.PairCount())
}

func TestComputeDeterministicClusters(t *testing.T) {
	surveyStore := &fakeSurveyStore{}
	cuisines := [][]string{
		{"italian", "french"}, {"italian", "mediterranean"},
		{"chinese", "japanese"}, {"japanese", "korean"},
		{"mexican"}, {"mexican", "american"},
	}
	for i, c := range cuisines {
		surveyStore.profiles = append(surveyStore.profiles,
			profileFor(int64(i+1), map[string][]string{"cuisine": c}))
	}

	engine := NewEngine(&fakeRatingStore{}, surveyStore, testConfig())

	first, err := engine.Compute(context.Background())
	require.NoError(t, err)
	second, err := engine.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Clusters(), second.Clusters())
	assert.Equal(t, first.NumClusters, second.NumClusters)
	assert.GreaterOrEqual(t, first.NumClusters, 1)
}
