package prefs

import (
	"sync"

	"go.uber.org/zap"
)

// Persister is the storage half of Settings.
type Persister interface {
	Load() Preferences
	Save(p Preferences) error
}

// Settings holds the process-wide preferences. Construct it once at startup
// and pass it to whoever reads or changes preferences.
type Settings struct {
	mu      sync.RWMutex
	current Preferences
	store   Persister
	log     *zap.Logger
}

// NewSettings loads the persisted preferences once.
func NewSettings(store Persister, log *zap.Logger) *Settings {
	if log == nil {
		log = zap.NewNop()
	}
	return &Settings{
		current: store.Load(),
		store:   store,
		log:     log.Named("settings"),
	}
}

func (s *Settings) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn and writes the result through to the store. A failed
// save is returned, but the new value stays in effect.
func (s *Settings) Update(fn func(p *Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.current = next

	// Saving under the lock keeps the key single-writer.
	if err := s.store.Save(next); err != nil {
		s.log.Error("persist preferences", zap.Error(err))
		return err
	}
	return nil
}

func (s *Settings) Reset() error {
	return s.Update(func(p *Preferences) { *p = Defaults() })
}
