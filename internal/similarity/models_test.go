package similarity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfuqua6/foodie/internal/common/utils"
)

func testSnapshot() *Snapshot {
	pairs := []Pair{
		{UserA: 1, UserB: 2, Overall: 0.9},
		{UserA: 1, UserB: 3, Overall: 0.5},
		{UserA: 2, UserB: 3, Overall: 0.7},
		{UserA: 1, UserB: 4, Overall: 0.5},
	}
	clusters := map[int64]int{1: 0, 2: 0, 3: 1, 4: 1}
	return NewSnapshot("test-epoch", time.Now(), pairs, clusters, 2)
}

func TestSnapshotLookupBothOrders(t *testing.T) {
	snap := testSnapshot()

	a, ok := snap.Similarity(1, 2)
	require.True(t, ok)
	b, ok := snap.Similarity(2, 1)
	require.True(t, ok)
	assert.Equal(t, a, b)

	_, ok = snap.Similarity(1, 99)
	assert.False(t, ok)
}

func TestSnapshotNeighborsOrderedAndTruncated(t *testing.T) {
	snap := testSnapshot()

	neighbors := snap.Neighbors(1, 10)
	require.Len(t, neighbors, 3)
	assert.Equal(t, int64(2), neighbors[0].UserID)
	// equal scores tie-break on ascending user id
	assert.Equal(t, int64(3), neighbors[1].UserID)
	assert.Equal(t, int64(4), neighbors[2].UserID)

	top := snap.Neighbors(1, 1)
	require.Len(t, top, 1)
	assert.Equal(t, int64(2), top[0].UserID)
}

func TestSnapshotClusterQueries(t *testing.T) {
	snap := testSnapshot()

	assert.True(t, snap.SameCluster(1, 2))
	assert.False(t, snap.SameCluster(1, 3))
	assert.False(t, snap.SameCluster(1, 99))

	c, ok := snap.Cluster(3)
	require.True(t, ok)
	assert.Equal(t, 1, c)
}

func TestValidatePairs(t *testing.T) {
	good := []Pair{
		{UserA: 1, UserB: 2, Overall: 0.9},
		{UserA: 2, UserB: 3, Overall: 0.0},
	}
	assert.NoError(t, validatePairs(good))

	var inconsistency *utils.InconsistencyError

	swapped := []Pair{{UserA: 5, UserB: 2, Overall: 0.4}}
	err := validatePairs(swapped)
	require.Error(t, err)
	assert.True(t, errors.As(err, &inconsistency))

	selfPair := []Pair{{UserA: 3, UserB: 3, Overall: 0.4}}
	require.Error(t, validatePairs(selfPair))

	negative := []Pair{{UserA: 1, UserB: 2, Overall: -0.1}}
	err = validatePairs(negative)
	require.Error(t, err)
	assert.True(t, errors.As(err, &inconsistency))
}

func TestSnapshotStorePublishAndIgnoreNil(t *testing.T) {
	store := NewSnapshotStore()
	bootstrap := store.Current()
	require.NotNil(t, bootstrap)

	store.Publish(nil)
	assert.Same(t, bootstrap, store.Current())

	snap := testSnapshot()
	store.Publish(snap)
	assert.Same(t, snap, store.Current())
}
