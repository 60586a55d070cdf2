// Package store persists the id of the managed routing container in a flat
// KEY=value file.
//
// The file holds at most one fact. Records are only ever appended; when
// duplicate lines exist (for example after two concurrent first starts) the
// last line wins, i.e. the most recently created container.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ContainerKey is the key under which the container id is recorded.
const ContainerKey = "OSRM_DOCKER_ID"

// Store reads and appends container records. There is no locking.
type Store struct {
	path string
}

// New creates a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the recorded container id. ok is false when the file or the
// key is absent.
func (s *Store) Read() (id string, ok bool, err error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	// Each line is parsed on its own so an unrelated malformed line cannot
	// hide the record.
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		values, err := godotenv.Unmarshal(scanner.Text())
		if err != nil {
			continue
		}
		if v, found := values[ContainerKey]; found {
			id = strings.TrimSpace(v)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, fmt.Errorf("read store %s: %w", s.path, err)
	}

	if id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// Write appends a record for id. Existing lines are left untouched.
func (s *Store) Write(id string) error {
	if id == "" || strings.ContainsAny(id, "\r\n=") {
		return fmt.Errorf("invalid container id %q", id)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	// Single write call so concurrent appenders never interleave within a line.
	if _, err := f.WriteString(ContainerKey + "=" + id + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append store record: %w", err)
	}
	return f.Close()
}
