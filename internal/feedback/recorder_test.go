package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfuqua6/foodie/internal/common/utils"
)

type memoryStore struct {
	records []Record
	err     error
}

func (m *memoryStore) Insert(_ context.Context, record *Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *record)
	return nil
}

func validRequest() *SubmitRequest {
	return &SubmitRequest{
		RestaurantID:   12,
		PredictedScore: 0.81,
		PredictedRank:  3,
		Outcome:        OutcomeClick,
	}
}

func TestRecordStoresValidFeedback(t *testing.T) {
	store := &memoryStore{}
	recorder := NewRecorder(store)

	err := recorder.Record(context.Background(), 7, validRequest())
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, int64(7), rec.UserID)
	assert.Equal(t, int64(12), rec.RestaurantID)
	assert.Equal(t, OutcomeClick, rec.Outcome)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestRecordValidation(t *testing.T) {
	recorder := NewRecorder(&memoryStore{})

	cases := []struct {
		name   string
		mutate func(*SubmitRequest)
	}{
		{"score above one", func(r *SubmitRequest) { r.PredictedScore = 1.5 }},
		{"negative score", func(r *SubmitRequest) { r.PredictedScore = -0.1 }},
		{"zero rank", func(r *SubmitRequest) { r.PredictedRank = 0 }},
		{"unknown outcome", func(r *SubmitRequest) { r.Outcome = "shared" }},
		{"missing restaurant", func(r *SubmitRequest) { r.RestaurantID = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			err := recorder.Record(context.Background(), 7, req)
			require.Error(t, err)
			assert.True(t, utils.IsValidationError(err))
		})
	}
}

func TestRecordSwallowsStorageFailure(t *testing.T) {
	store := &memoryStore{err: errors.New("db down")}
	recorder := NewRecorder(store)

	err := recorder.Record(context.Background(), 7, validRequest())
	assert.NoError(t, err)
}
