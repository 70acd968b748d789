// Package jsonstore implements the persistence ports over flat JSON files:
// one file per entity collection under a single data directory. Writes go
// through a temp file plus rename so an interrupted save never corrupts the
// previous snapshot.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	usersFile        = "users.json"
	portfoliosFile   = "portfolios.json"
	ratesFile        = "rates.json"
	transactionsFile = "transactions.json"
)

// Store owns the data directory and the raw JSON read/write plumbing shared
// by the entity repositories.
type Store struct {
	dataDir string
}

// NewStore prepares the data directory and seeds any missing files with an
// empty collection.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	s := &Store{dataDir: dataDir}

	seeds := map[string]any{
		usersFile:        []userRecord{},
		portfoliosFile:   []portfolioRecord{},
		ratesFile:        ratesSnapshot{Pairs: map[string]rateRecord{}},
		transactionsFile: []transactionRecord{},
	}
	for name, seed := range seeds {
		path := s.path(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := s.writeJSON(name, seed); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

func (s *Store) readJSON(name string, out any) error {
	f, err := os.Open(s.path(name))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// writeJSON writes the full collection atomically: encode to name.tmp in
// the same directory, then rename over the real file.
func (s *Store) writeJSON(name string, in any) error {
	path := s.path(name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(in); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
