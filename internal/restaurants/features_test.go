package restaurants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfuqua6/foodie/internal/taxonomy"
)

func TestFeatureVectorProjectsKnownAttributes(t *testing.T) {
	r := &Restaurant{
		ID:          1,
		CuisineType: "japanese",
		PriceLevel:  3,
		Tags:        []string{"romantic", "fine_dining", "gluten_free"},
	}

	v := FeatureVector(r)
	require.Len(t, v, taxonomy.VectorSize())
	assert.InDelta(t, 1.0, v.Norm(), 1e-9)

	for _, want := range []struct{ category, option string }{
		{"cuisine", "japanese"},
		{"price", "upscale_worth_it"},
		{"atmosphere", "romantic"},
		{"service", "fine_dining"},
		{"dietary", "gluten_free"},
	} {
		slot, ok := taxonomy.Slot(want.category, want.option)
		require.True(t, ok)
		assert.Greater(t, v[slot], 0.0, "%s/%s", want.category, want.option)
	}
}

func TestFeatureVectorDropsUnknownAttributes(t *testing.T) {
	r := &Restaurant{
		ID:          1,
		CuisineType: "fusion-unknown",
		PriceLevel:  9,
		Tags:        []string{"dog_friendly"},
	}

	v := FeatureVector(r)
	assert.True(t, v.IsZero())
}

func TestFeatureVectorDeterministic(t *testing.T) {
	r := &Restaurant{
		ID:          2,
		CuisineType: "thai",
		PriceLevel:  1,
		Tags:        []string{"casual", "takeout"},
	}

	assert.Equal(t, FeatureVector(r), FeatureVector(r))
}
