package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfuqua6/foodie/internal/taxonomy"
)

func TestToVectorDeterministicAndUnitNorm(t *testing.T) {
	profile, err := Build(1, fullSubmission())
	require.NoError(t, err)

	v1 := ToVector(profile)
	v2 := ToVector(profile)

	require.Len(t, v1, taxonomy.VectorSize())
	assert.Equal(t, v1, v2)
	assert.InDelta(t, 1.0, v1.Norm(), 1e-9)
}

func TestToVectorSlotPlacement(t *testing.T) {
	sub := &SurveySubmission{Rounds: []Round{
		{Category: "price", Selections: selections("moderate")},
	}}
	profile, err := Build(1, sub)
	require.NoError(t, err)

	v := ToVector(profile)
	slot, ok := taxonomy.Slot("price", "moderate")
	require.True(t, ok)

	assert.InDelta(t, 1.0, v[slot], 1e-9)
	for i := range v {
		if i != slot {
			assert.Zero(t, v[i])
		}
	}
}

func TestToVectorEmptyProfile(t *testing.T) {
	v := ToVector(&PreferenceProfile{UserID: 1})
	assert.True(t, v.IsZero())

	assert.True(t, ToVector(nil).IsZero())
}

func TestVectorsByUserSkipsZeroVectors(t *testing.T) {
	p1, err := Build(1, fullSubmission())
	require.NoError(t, err)

	profiles := []PreferenceProfile{*p1, {UserID: 2}}
	vectors := VectorsByUser(profiles)

	require.Len(t, vectors, 1)
	assert.Contains(t, vectors, int64(1))
}
