package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// SaveError reports a preferences snapshot that could not be persisted.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save preferences to %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Store persists Preferences as one JSON document under Key.
//
// Layout:
//
//	dir/
//	  shelf_display_options.json
type Store struct {
	dir string
	log *zap.Logger
}

func NewStore(dir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{dir: dir, log: log.Named("prefs")}, nil
}

func (s *Store) Path() string {
	return filepath.Join(s.dir, Key+".json")
}

// Load returns the persisted preferences. A missing, unreadable or invalid
// entry yields Defaults; the problem is logged, not returned.
func (s *Store) Load() Preferences {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return Defaults()
	}
	if err != nil {
		s.log.Warn("read preferences, using defaults", zap.String("path", s.Path()), zap.Error(err))
		return Defaults()
	}

	p, err := decode(data)
	if err != nil {
		s.log.Warn("parse preferences, using defaults", zap.String("path", s.Path()), zap.Error(err))
		return Defaults()
	}
	return p
}

// decode starts from Defaults so that fields missing from an older
// document keep their default value. Trailing data after the object is an
// error.
func decode(data []byte) (Preferences, error) {
	p := Defaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return Preferences{}, err
	}
	if err := p.Validate(); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

// Save writes the full snapshot immediately. There is no batching.
func (s *Store) Save(p Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return &SaveError{Path: s.Path(), Err: err}
	}

	tmpPath := s.Path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return &SaveError{Path: s.Path(), Err: err}
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return &SaveError{Path: s.Path(), Err: err}
	}
	return nil
}
