package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), ".osrm_env"))

	id, ok, err := s.Read()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestStore_ReadMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".osrm_env")
	require.NoError(t, os.WriteFile(path, []byte("OTHER=value\n"), 0644))

	id, ok, err := New(path).Read()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestStore_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".osrm_env")
	s := New(path)

	require.NoError(t, s.Write("4f1c9a2b7e"))

	id, ok, err := s.Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "4f1c9a2b7e", id)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "OSRM_DOCKER_ID=4f1c9a2b7e\n", string(content))
}

func TestStore_WriteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "home", ".osrm_env")
	require.NoError(t, New(path).Write("abc"))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestStore_WriteAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".osrm_env")
	require.NoError(t, os.WriteFile(path, []byte("# managed by osrmctl\n"), 0644))

	s := New(path)
	require.NoError(t, s.Write("first"))
	require.NoError(t, s.Write("second"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# managed by osrmctl\nOSRM_DOCKER_ID=first\nOSRM_DOCKER_ID=second\n", string(content))
}

func TestStore_DuplicateRecordsLastWins(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), ".osrm_env"))
	require.NoError(t, s.Write("older"))
	require.NoError(t, s.Write("newer"))

	id, ok, err := s.Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "newer", id)
}

func TestStore_WriteRejectsInvalidID(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), ".osrm_env"))

	for _, id := range []string{"", "a\nb", "k=v"} {
		assert.Error(t, s.Write(id), "id %q", id)
	}

	_, ok, err := s.Read()
	require.NoError(t, err)
	assert.False(t, ok)
}

// Concurrent first starts are not coordinated: each writer appends its own
// record. The file must stay well formed and reads must return one of the
// written ids.
func TestStore_ConcurrentWritersRace(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".osrm_env")
	const writers = 16

	var wg sync.WaitGroup
	written := make(map[string]bool, writers)
	for i := 0; i < writers; i++ {
		id := fmt.Sprintf("container%02d", i)
		written[id] = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, New(path).Write(id))
		}()
	}
	wg.Wait()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	assert.Len(t, lines, writers, "duplicate records are kept, not deduplicated")
	for _, line := range lines {
		key, value, found := strings.Cut(line, "=")
		require.True(t, found, "malformed line %q", line)
		assert.Equal(t, ContainerKey, key)
		assert.True(t, written[value], "unexpected value %q", value)
	}

	id, ok, err := New(path).Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, written[id])
}

func TestStore_ReadIgnoresForeignLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"note without equals", "some note without equals\nOSRM_DOCKER_ID=abc123\n"},
		{"unterminated quote after record", "OSRM_DOCKER_ID=abc123\nFOO=\"unterminated\n"},
		{"comment and extra key", "# managed by osrmctl\nOTHER=1\nOSRM_DOCKER_ID=abc123\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".osrm_env")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			id, ok, err := New(path).Read()
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "abc123", id)
		})
	}
}

func TestStore_ReadOnlyMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".osrm_env")
	require.NoError(t, os.WriteFile(path, []byte("not a record\nBAD=\"open\n"), 0644))

	id, ok, err := New(path).Read()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)
}
