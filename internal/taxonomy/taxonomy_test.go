package taxonomy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorSizeMatchesOptionCount(t *testing.T) {
	total := 0
	for _, cat := range Categories {
		total += len(cat.Options)
	}
	assert.Equal(t, total, VectorSize())
	assert.Equal(t, 44, VectorSize())
}

func TestSlotLayoutIsContiguous(t *testing.T) {
	seen := make(map[int]bool, VectorSize())
	for _, cat := range Categories {
		for _, opt := range cat.Options {
			slot, ok := Slot(cat.Name, opt)
			require.True(t, ok, "%s/%s", cat.Name, opt)
			assert.False(t, seen[slot], "slot %d reused", slot)
			seen[slot] = true
		}
	}
	assert.Len(t, seen, VectorSize())
}

func TestSlotUnknownInputs(t *testing.T) {
	_, ok := Slot("cuisine", "klingon")
	assert.False(t, ok)

	_, ok = Slot("mood", "italian")
	assert.False(t, ok)

	assert.False(t, IsKnownOption("cuisine", ""))
	assert.True(t, IsKnownOption("adventure", "extreme_foodie"))
}

func TestCategoryByName(t *testing.T) {
	cat, ok := CategoryByName("cuisine")
	require.True(t, ok)
	assert.Equal(t, 5, cat.MaxSelections)

	_, ok = CategoryByName("nope")
	assert.False(t, ok)
}

func TestNormalizeUnitNorm(t *testing.T) {
	v := NewVector()
	v[0] = 3
	v[5] = 4

	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Norm(), 1e-9)
	assert.InDelta(t, 0.6, n[0], 1e-9)
	assert.InDelta(t, 0.8, n[5], 1e-9)

	// original untouched
	assert.Equal(t, 3.0, v[0])
}

func TestNormalizeZeroVector(t *testing.T) {
	v := NewVector()
	n := v.Normalize()
	assert.True(t, n.IsZero())
}

func TestCosine(t *testing.T) {
	a := NewVector()
	b := NewVector()
	a[1], b[1] = 2, 5
	assert.InDelta(t, 1.0, Cosine(a, b), 1e-9)

	c := NewVector()
	c[2] = 1
	assert.InDelta(t, 0.0, Cosine(a, c), 1e-9)

	zero := NewVector()
	assert.Equal(t, 0.0, Cosine(a, zero))
}

func TestDotOrthonormalBound(t *testing.T) {
	a := NewVector()
	for i := range a {
		a[i] = 1
	}
	a = a.Normalize()
	assert.InDelta(t, 1.0, a.Dot(a), 1e-9)
	assert.False(t, math.IsNaN(a.Dot(a)))
}
