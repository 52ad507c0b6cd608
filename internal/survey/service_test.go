package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	profiles map[int64]*PreferenceProfile
	failNext error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{profiles: make(map[int64]*PreferenceProfile)}
}

func (m *memoryStore) Upsert(_ context.Context, profile *PreferenceProfile) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *memoryStore) Get(_ context.Context, userID int64) (*PreferenceProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (m *memoryStore) Delete(_ context.Context, userID int64) error {
	if _, ok := m.profiles[userID]; !ok {
		return ErrProfileNotFound
	}
	delete(m.profiles, userID)
	return nil
}

func (m *memoryStore) GetAll(_ context.Context) ([]PreferenceProfile, error) {
	out := make([]PreferenceProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, *p)
	}
	return out, nil
}

type stubPreviewer struct {
	preview []RecommendationPreview
	err     error
}

func (s stubPreviewer) Preview(context.Context, int64, int) ([]RecommendationPreview, error) {
	return s.preview, s.err
}

func TestSubmitSurveyStoresAndSummarizes(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, stubPreviewer{preview: []RecommendationPreview{
		{RestaurantID: 9, Name: "Luigi's", Score: 0.8, Reason: "Matches your taste profile"},
	}})

	result, err := svc.SubmitSurvey(context.Background(), 42, fullSubmission())
	require.NoError(t, err)

	assert.Equal(t, 6, result.Profile.CompletedRounds)
	assert.Equal(t, 1.0, result.Profile.Strength)
	require.Len(t, result.Preview, 1)
	assert.Equal(t, int64(9), result.Preview[0].RestaurantID)

	stored, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, result.Profile.Score, stored.Score)
}

func TestSubmitSurveyReplacesProfile(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil)

	_, err := svc.SubmitSurvey(context.Background(), 1, fullSubmission())
	require.NoError(t, err)

	partial := &SurveySubmission{Rounds: []Round{
		{Category: "price", Selections: selections("deal_seeker")},
	}}
	_, err = svc.SubmitSurvey(context.Background(), 1, partial)
	require.NoError(t, err)

	stored, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CompletedRounds)
	assert.NotContains(t, stored.Categories, "cuisine")
}

func TestSubmitSurveyPreviewFailureIsNotFatal(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, stubPreviewer{err: errors.New("engine down")})

	result, err := svc.SubmitSurvey(context.Background(), 1, fullSubmission())
	require.NoError(t, err)
	assert.Empty(t, result.Preview)

	_, err = store.Get(context.Background(), 1)
	assert.NoError(t, err)
}

func TestDeleteProfileNotFound(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	err := svc.DeleteProfile(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestAnalyze(t *testing.T) {
	profile, err := Build(1, fullSubmission())
	require.NoError(t, err)

	analysis := Analyze(profile)

	assert.Equal(t, []string{"italian", "japanese", "thai"}, analysis.TopPreferences["cuisine"])
	assert.Equal(t, "food explorer", analysis.AdventureLevel)
	assert.Equal(t, 6, analysis.CompletedRounds)
	assert.Greater(t, analysis.DiversityScore, 0.0)
	assert.LessOrEqual(t, analysis.DiversityScore, 1.0)
}
