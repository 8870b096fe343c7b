package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestNewHandle_LoadsArtifactAtStartup(t *testing.T) {
	path := writeForestArtifact(t, testForest())

	h, err := NewHandle(path, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "forest/2025.06-test", h.Name())
	assert.Equal(t, path, h.Path())

	prob, err := h.Predict(map[string]float64{FeatJeonseRatio: 95})
	require.NoError(t, err)
	assert.InDelta(t, 0.70, prob, 1e-9)
}

func TestNewHandle_MissingArtifactFails(t *testing.T) {
	_, err := NewHandle(filepath.Join(t.TempDir(), "absent.msgpack"), zerolog.Nop())
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestHandle_ReloadSwapsVersion(t *testing.T) {
	path := writeForestArtifact(t, testForest())

	h, err := NewHandle(path, zerolog.Nop())
	require.NoError(t, err)

	retrained := testForest()
	retrained.Version = "2025.07-test"
	data, err := msgpack.Marshal(retrained)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	require.NoError(t, h.Reload())
	assert.Equal(t, "forest/2025.07-test", h.Name())
}

func TestHandle_FailedReloadKeepsServingOldModel(t *testing.T) {
	path := writeForestArtifact(t, testForest())

	h, err := NewHandle(path, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("corrupted"), 0644))

	assert.Error(t, h.Reload())

	// The previously loaded forest keeps answering
	assert.Equal(t, "forest/2025.06-test", h.Name())
	prob, err := h.Predict(map[string]float64{FeatJeonseRatio: 60})
	require.NoError(t, err)
	assert.InDelta(t, 0.35, prob, 1e-9)
}
