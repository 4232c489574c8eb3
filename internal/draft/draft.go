// Package draft persists in-progress form edits so an interrupted session
// can be resumed. Drafts live as JSON files in a per-profile directory, one
// file per key; the key for a new product is just another key, not a special
// case. Storage failures degrade to an in-memory copy for the rest of the
// session: persistence problems must never block editing.
package draft

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mpelle/stockwell/internal/catalog"
)

const keyPrefix = "product_draft_"

// KeyNew is the draft key for a product that does not exist remotely yet.
const KeyNew = keyPrefix + "new"

// Key returns the draft key for a product identifier; an empty identifier
// maps to KeyNew.
func Key(productID string) string {
	if productID == "" {
		return KeyNew
	}
	return keyPrefix + productID
}

// Draft is one persisted snapshot of form state. At most one exists per key;
// saving overwrites the prior one.
type Draft struct {
	Form      catalog.ProductForm `json:"formData"`
	Images    []string            `json:"images"`
	Timestamp time.Time           `json:"timestamp"`
}

// Store reads and writes drafts under a directory.
type Store struct {
	dir string
	log zerolog.Logger

	mu  sync.Mutex
	mem map[string]Draft
}

// NewStore returns a store rooted at dir. The directory is created lazily on
// first save.
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{
		dir: dir,
		log: log,
		mem: make(map[string]Draft),
	}
}

// Save persists the draft under key, overwriting any prior draft for the
// same key. The write is synchronous; callers treat it as fire-and-forget.
// On storage failure the draft is kept in memory instead and the error is
// logged, never surfaced.
func (s *Store) Save(key string, d Draft) {
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}
	d.Images = d.Form.Images

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(d)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("draft not serializable, keeping in memory")
		s.mem[key] = d
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.degrade(key, d, err)
		return
	}
	if err := os.WriteFile(s.path(key), raw, 0o644); err != nil {
		s.degrade(key, d, err)
		return
	}
	// Disk is now authoritative for this key.
	delete(s.mem, key)
}

// Load returns the last saved draft for key, if any. An in-memory copy from
// a degraded save wins over an older file.
func (s *Store) Load(key string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.mem[key]; ok {
		return d, true
	}

	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("key", key).Msg("draft unreadable")
		}
		return Draft{}, false
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("draft corrupt, ignoring")
		return Draft{}, false
	}
	return d, true
}

// Clear removes the draft for key. Called after a successful remote commit
// of the same key, so the next edit session does not resurrect stale data.
func (s *Store) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.mem, key)
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Str("key", key).Msg("draft file not removed")
	}
}

func (s *Store) degrade(key string, d Draft, err error) {
	s.log.Warn().Err(err).Str("key", key).Msg("draft persistence failed, keeping in memory for this session")
	s.mem[key] = d
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
