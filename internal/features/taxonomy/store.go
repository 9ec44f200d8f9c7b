package taxonomy

import (
	"fmt"
	"os"
	"sync/atomic"

	"go-pm/internal/config"

	"go.uber.org/zap"
)

// Store holds the active table; readers never observe a partially loaded one.
type Store struct {
	current atomic.Pointer[Taxonomy]
	path    string
}

func NewStore(t *Taxonomy) *Store {
	s := &Store{}
	s.current.Store(t)
	return s
}

// LoadStore builds the process-wide store from TAXONOMY_PATH, or the built-in
// table when no override is configured.
func LoadStore(cfg *config.Config, log *zap.Logger) (*Store, error) {
	if cfg.TaxonomyPath == "" {
		log.Info("Using built-in workflow taxonomy")
		return NewStore(Default()), nil
	}

	t, err := LoadFile(cfg.TaxonomyPath)
	if err != nil {
		return nil, err
	}
	s := NewStore(t)
	s.path = cfg.TaxonomyPath
	log.Info("Loaded workflow taxonomy", zap.String("path", cfg.TaxonomyPath), zap.Int("phases", len(t.doc.Phases)))
	return s, nil
}

// LoadFile parses a taxonomy YAML file.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	return Parse(data)
}

// Path is the override file backing the store, empty for the built-in table.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Current() *Taxonomy {
	return s.current.Load()
}

func (s *Store) Replace(t *Taxonomy) {
	s.current.Store(t)
}

func (s *Store) Resolve(stepName, phase string) Resolution {
	return s.Current().Resolve(stepName, phase)
}

func (s *Store) PhaseName(phase string) string {
	return s.Current().PhaseName(phase)
}
