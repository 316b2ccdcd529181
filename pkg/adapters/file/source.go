// Package file loads flow definitions from a directory of JSON or YAML
// documents. The flow id defaults to the file stem; a document carrying its
// own id wins.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kioskflow/kioskflow/internal/logging"
	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/flowdef"
)

// Source implements ports.FlowSource over a directory. Definitions are
// parsed and validated once at construction; a directory containing a broken
// flow fails loudly instead of serving a partial catalog.
type Source struct {
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	flows map[string]*domain.FlowDefinition
}

// Option configures the Source.
type Option func(*Source)

// WithLogger sets the logger used for load reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New loads every flow document under dir.
func New(dir string, opts ...Option) (*Source, error) {
	s := &Source{
		dir:    dir,
		logger: logging.NewNop(),
		flows:  make(map[string]*domain.FlowDefinition),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the directory, replacing the loaded set atomically. Content
// errors abort the reload and keep the previous set serving.
func (s *Source) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read flow directory: %w", err)
	}

	flows := make(map[string]*domain.FlowDefinition)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return fmt.Errorf("failed to read flow %s: %w", name, err)
		}

		id := strings.TrimSuffix(name, filepath.Ext(name))
		var def *domain.FlowDefinition
		if ext == ".json" {
			def, err = flowdef.Parse(id, data)
		} else {
			def, err = flowdef.ParseYAML(id, data)
		}
		if err != nil {
			return err
		}

		if _, dup := flows[def.ID]; dup {
			return &domain.ContentError{FlowID: def.ID, Reason: "duplicate flow id in directory"}
		}
		flows[def.ID] = def

		for _, warning := range flowdef.Lint(def) {
			s.logger.Warn("flow content finding", "flow", def.ID, "finding", warning)
		}
	}

	s.mu.Lock()
	s.flows = flows
	s.mu.Unlock()

	s.logger.Info("flows loaded", "dir", s.dir, "count", len(flows))
	return nil
}

// Flow returns the definition for the given id.
func (s *Source) Flow(ctx context.Context, id string) (*domain.FlowDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.flows[id]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	return def, nil
}

// List returns all flow ids in deterministic order.
func (s *Source) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.flows))
	for id := range s.flows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
