package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// testForest builds a tiny two-tree forest splitting on the jeonse ratio:
// ratio <= 80 scores low, above scores high. The second tree is a constant.
func testForest() *Forest {
	return &Forest{
		Version:      "2025.06-test",
		TrainedAt:    "2025-06-01T00:00:00Z",
		FeatureNames: []string{FeatJeonseRatio, FeatIsTrust},
		Trees: []Tree{
			{
				FeatureIndex: []int{0, -1, -1},
				Threshold:    []float64{80, 0, 0},
				Left:         []int{1, 0, 0},
				Right:        []int{2, 0, 0},
				Value:        []float64{0, 0.2, 0.9},
			},
			{
				FeatureIndex: []int{-1},
				Threshold:    []float64{0},
				Left:         []int{0},
				Right:        []int{0},
				Value:        []float64{0.5},
			},
		},
	}
}

func writeForestArtifact(t *testing.T, forest *Forest) string {
	t.Helper()

	data, err := msgpack.Marshal(forest)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fraud_rf.msgpack")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestForest_PredictAveragesTrees(t *testing.T) {
	forest := testForest()

	// Low ratio: (0.2 + 0.5) / 2
	prob, err := forest.Predict(map[string]float64{FeatJeonseRatio: 60})
	require.NoError(t, err)
	assert.InDelta(t, 0.35, prob, 1e-9)

	// High ratio: (0.9 + 0.5) / 2
	prob, err = forest.Predict(map[string]float64{FeatJeonseRatio: 95})
	require.NoError(t, err)
	assert.InDelta(t, 0.70, prob, 1e-9)
}

func TestForest_SplitBoundaryGoesLeft(t *testing.T) {
	forest := testForest()

	// Exactly at the threshold descends left (Predict uses strict >)
	prob, err := forest.Predict(map[string]float64{FeatJeonseRatio: 80})
	require.NoError(t, err)
	assert.InDelta(t, 0.35, prob, 1e-9)
}

func TestForest_MissingFeaturesScoreAsZero(t *testing.T) {
	forest := testForest()

	prob, err := forest.Predict(map[string]float64{})
	require.NoError(t, err)
	assert.InDelta(t, 0.35, prob, 1e-9)
}

func TestLoadForest_RoundTrip(t *testing.T) {
	path := writeForestArtifact(t, testForest())

	forest, err := LoadForest(path)
	require.NoError(t, err)

	assert.Equal(t, "2025.06-test", forest.Version)
	assert.Equal(t, "forest/2025.06-test", forest.Name())
	assert.Len(t, forest.Trees, 2)

	prob, err := forest.Predict(map[string]float64{FeatJeonseRatio: 95})
	require.NoError(t, err)
	assert.InDelta(t, 0.70, prob, 1e-9)
}

func TestLoadForest_MissingFileIsUnavailable(t *testing.T) {
	_, err := LoadForest(filepath.Join(t.TempDir(), "nope.msgpack"))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestLoadForest_GarbageIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.msgpack")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack at all"), 0644))

	_, err := LoadForest(path)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestLoadForest_RejectsEmptyForest(t *testing.T) {
	path := writeForestArtifact(t, &Forest{
		Version:      "empty",
		FeatureNames: []string{FeatJeonseRatio},
	})

	_, err := LoadForest(path)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestLoadForest_RejectsInconsistentTree(t *testing.T) {
	broken := testForest()
	broken.Trees[0].Threshold = broken.Trees[0].Threshold[:1]

	path := writeForestArtifact(t, broken)

	_, err := LoadForest(path)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestForest_CyclicTreeFailsInsteadOfLooping(t *testing.T) {
	forest := &Forest{
		Version:      "cyclic",
		FeatureNames: []string{FeatJeonseRatio},
		Trees: []Tree{
			{
				FeatureIndex: []int{0, 0},
				Threshold:    []float64{50, 50},
				Left:         []int{1, 0},
				Right:        []int{1, 0},
				Value:        []float64{0, 0},
			},
		},
	}

	_, err := forest.Predict(map[string]float64{FeatJeonseRatio: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic")
}
