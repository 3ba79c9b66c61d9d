package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"bloodsim/internal/distribution"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

// ErrNoWorkbook is returned when no workbook is configured for a group.
var ErrNoWorkbook = errors.New("ingest: no workbook configured for blood group")

type cached struct {
	hash  uint64
	rows  []distribution.ClassRow
	table *distribution.Table
}

// Store memoizes parsed workbooks keyed by the xxhash of the file bytes,
// so repeated loads are cheap while edits to a workbook are picked up on
// the next read without restarting the process.
type Store struct {
	mu    sync.Mutex
	files map[distribution.Category]string
	cache map[distribution.Category]*cached
}

// NewStore creates a store over the configured workbook path per group.
// Groups absent from files stay absent from Tables and sample to zero.
func NewStore(files map[distribution.Category]string) *Store {
	return &Store{
		files: files,
		cache: make(map[distribution.Category]*cached, len(files)),
	}
}

// Rows returns the cleaned class rows for one blood group, reloading the
// workbook only when its content changed since the last read.
func (s *Store) Rows(cat distribution.Category) ([]distribution.ClassRow, error) {
	c, err := s.load(cat)
	if err != nil {
		return nil, err
	}
	return c.rows, nil
}

// Table returns the derived distribution table for one blood group.
func (s *Store) Table(cat distribution.Category) (*distribution.Table, error) {
	c, err := s.load(cat)
	if err != nil {
		return nil, err
	}
	return c.table, nil
}

// Tables returns every distribution that could be loaded. A group whose
// workbook is missing or unreadable is logged and omitted; the simulation
// engine treats it as an always-zero distribution.
func (s *Store) Tables() map[distribution.Category]*distribution.Table {
	tables := make(map[distribution.Category]*distribution.Table, len(distribution.Categories))
	for _, cat := range distribution.Categories {
		t, err := s.Table(cat)
		if err != nil {
			log.Warn().Err(err).Str("group", string(cat)).Msg("Distribution unavailable, group will sample to zero")
			continue
		}
		tables[cat] = t
	}
	return tables
}

// Invalidate drops every memoized workbook so the next read hits disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[distribution.Category]*cached, len(s.files))
}

func (s *Store) load(cat distribution.Category) (*cached, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.files[cat]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoWorkbook, cat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", path, err)
	}

	hash := xxhash.Sum64(data)
	if c, ok := s.cache[cat]; ok && c.hash == hash {
		return c, nil
	}

	rows, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ingest: parse %s: %w", path, err)
	}

	c := &cached{hash: hash, rows: rows, table: distribution.Build(rows)}
	s.cache[cat] = c
	log.Debug().Str("group", string(cat)).Str("path", path).Int("classes", len(rows)).Msg("Loaded distribution workbook")
	return c, nil
}
