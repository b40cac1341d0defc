package config

import (
	"sync"
)

// ServiceKey is the container key of the process-wide *Store.
const ServiceKey = "config"

// Store holds the configuration for the lifetime of the process. The path is
// chosen before the first Load, typically from the --config flag.
type Store struct {
	mu     sync.RWMutex
	path   string
	config *Config
	source string
}

// NewStore returns an empty store that looks up the default files.
func NewStore() *Store {
	return &Store{}
}

// SetPath selects an explicit configuration file and forgets anything loaded
// before.
func (s *Store) SetPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path != s.path {
		s.config = nil
		s.source = ""
	}
	s.path = path
}

// Path returns the explicitly selected path, if any.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Load reads the configuration, replacing what was loaded before.
func (s *Store) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, source, err := LoadConfig(s.path)
	if err != nil {
		return Config{}, err
	}
	s.config = &cfg
	s.source = source
	return cfg, nil
}

// Config returns the loaded configuration, loading it on first use.
func (s *Store) Config() (Config, error) {
	s.mu.RLock()
	cfg := s.config
	s.mu.RUnlock()

	if cfg != nil {
		return *cfg, nil
	}
	return s.Load()
}

// Source returns the file the configuration came from, empty for defaults.
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}
