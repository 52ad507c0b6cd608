package similarity

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfuqua6/foodie/internal/taxonomy"
)

func clusterVectors(n int) map[int64]taxonomy.Vector {
	vectors := make(map[int64]taxonomy.Vector, n)
	for i := 0; i < n; i++ {
		v := taxonomy.NewVector()
		// two well-separated groups
		if i%2 == 0 {
			v[0] = 1
			v[1] = float64(i%3) * 0.1
		} else {
			v[20] = 1
			v[21] = float64(i%3) * 0.1
		}
		vectors[int64(i+1)] = v.Normalize()
	}
	return vectors
}

func TestKmeansAssignsEveryUser(t *testing.T) {
	vectors := clusterVectors(10)
	assignments, numClusters, err := kmeans(context.Background(), vectors, 2, 42)
	require.NoError(t, err)

	assert.Len(t, assignments, 10)
	assert.Equal(t, 2, numClusters)
	for id, c := range assignments {
		assert.GreaterOrEqual(t, c, 0, "user %d", id)
		assert.Less(t, c, 2, "user %d", id)
	}
}

func TestKmeansSeparatesObviousGroups(t *testing.T) {
	vectors := clusterVectors(10)
	assignments, _, err := kmeans(context.Background(), vectors, 2, 42)
	require.NoError(t, err)

	// all even-indexed users share a cluster, all odd-indexed the other
	evenCluster := assignments[1]
	oddCluster := assignments[2]
	assert.NotEqual(t, evenCluster, oddCluster)
	for i := 0; i < 10; i++ {
		id := int64(i + 1)
		if i%2 == 0 {
			assert.Equal(t, evenCluster, assignments[id])
		} else {
			assert.Equal(t, oddCluster, assignments[id])
		}
	}
}

func TestKmeansDeterministicForFixedSeed(t *testing.T) {
	vectors := clusterVectors(20)

	first, _, err := kmeans(context.Background(), vectors, 4, 42)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, _, err := kmeans(context.Background(), vectors, 4, 42)
		require.NoError(t, err)
		assert.Equal(t, first, again, "run %d diverged", i)
	}
}

func TestKmeansKLargerThanPopulation(t *testing.T) {
	vectors := clusterVectors(3)
	assignments, numClusters, err := kmeans(context.Background(), vectors, 10, 42)
	require.NoError(t, err)

	assert.Len(t, assignments, 3)
	assert.LessOrEqual(t, numClusters, 3)
}

func TestKmeansEmptyInput(t *testing.T) {
	assignments, numClusters, err := kmeans(context.Background(), map[int64]taxonomy.Vector{}, 2, 42)
	require.NoError(t, err)
	assert.Empty(t, assignments)
	assert.Zero(t, numClusters)
}

func TestKmeansCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := kmeans(ctx, clusterVectors(10), 2, 42)
	assert.Error(t, err)
}

func TestKmeansClusterCountNames(t *testing.T) {
	// guard against accidental cluster id gaps being counted as clusters
	vectors := clusterVectors(6)
	assignments, numClusters, err := kmeans(context.Background(), vectors, 3, 7)
	require.NoError(t, err)

	distinct := make(map[int]bool)
	for _, c := range assignments {
		distinct[c] = true
	}
	assert.Equal(t, len(distinct), numClusters, fmt.Sprintf("assignments: %v", assignments))
}
