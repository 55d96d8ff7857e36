// Package shelf owns the loaded catalog and answers search input with the
// markup for the list container.
package shelf

import (
	"context"
	"html/template"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/meur/gameshelf/internal/catalog"
	"github.com/meur/gameshelf/internal/models"
	"github.com/meur/gameshelf/internal/render"
)

// State is the lifecycle stage of the catalog.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// snapshot is published once when the load finishes.
type snapshot struct {
	state   State
	catalog *catalog.Catalog
	err     error
}

var loading = &snapshot{state: StateLoading, catalog: catalog.Empty()}

// Shelf holds the full game list for the lifetime of the process.
type Shelf struct {
	loader   *catalog.Loader
	renderer *render.Renderer
	logger   *zap.Logger

	once    sync.Once
	current atomic.Pointer[snapshot]
}

// New creates a shelf in the loading state.
func New(loader *catalog.Loader, renderer *render.Renderer, logger *zap.Logger) *Shelf {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Shelf{loader: loader, renderer: renderer, logger: logger}
	s.current.Store(loading)
	return s
}

// Load fetches the catalog once. Later calls return the first outcome; a
// failed load is final for the process.
func (s *Shelf) Load(ctx context.Context) error {
	s.once.Do(func() {
		c, err := s.loader.Load(ctx)
		if err != nil {
			s.logger.Warn("catalog load failed",
				zap.String("source", s.loader.Source().Name()),
				zap.Error(err))
			s.current.Store(&snapshot{state: StateFailed, catalog: catalog.Empty(), err: err})
			return
		}
		s.logger.Info("catalog loaded",
			zap.String("source", s.loader.Source().Name()),
			zap.Int("games", c.Len()),
			zap.String("version", c.Version()))
		s.current.Store(&snapshot{state: StateLoaded, catalog: c})
	})
	return s.current.Load().err
}

// State returns the current lifecycle stage.
func (s *Shelf) State() State {
	return s.current.Load().state
}

// Catalog returns the current snapshot; empty until a load succeeds.
func (s *Shelf) Catalog() *catalog.Catalog {
	return s.current.Load().catalog
}

// Filter returns the games matching q in the current snapshot.
func (s *Shelf) Filter(q string) []models.Game {
	return s.Catalog().Filter(q)
}

// Initial is the container content for a fresh page: nothing while loading,
// the failure notice after a failed load, otherwise the cards matching q.
func (s *Shelf) Initial(q string) template.HTML {
	snap := s.current.Load()
	switch snap.state {
	case StateLoading:
		return ""
	case StateFailed:
		return s.renderer.LoadFailure()
	default:
		return s.renderer.Cards(snap.catalog.Filter(q))
	}
}

// Search is the container content after an input event. It always filters
// the current list, so a failed or pending load shows "No matches.".
func (s *Shelf) Search(q string) template.HTML {
	return s.renderer.Cards(s.Filter(q))
}
