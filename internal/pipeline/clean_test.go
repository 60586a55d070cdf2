package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanData(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "nested"), 0755))
	for _, name := range []string{"monaco.osm.pbf", "monaco.osrm.cells", "nested/x"} {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte("x"), 0644))
	}

	removed, err := CleanData(dataDir)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "data dir is kept but emptied")
}

func TestCleanData_MissingDirIsCreated(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	removed, err := CleanData(dataDir)
	require.NoError(t, err)
	assert.Zero(t, removed)

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
