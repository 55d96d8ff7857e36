package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrLoadFailure marks every failure to fetch or parse the catalog.
var ErrLoadFailure = errors.New("catalog could not be loaded")

// Loader runs a single fetch against its source.
type Loader struct {
	source Source
}

// NewLoader creates a loader for source.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Source returns the loader's source.
func (l *Loader) Source() Source {
	return l.source
}

// Load fetches the catalog once. On failure it returns the empty catalog and
// an error wrapping ErrLoadFailure; there are no retries.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	games, err := l.source.Fetch(ctx)
	if err != nil {
		return Empty(), fmt.Errorf("%w: %s: %w", ErrLoadFailure, l.source.Name(), err)
	}
	return New(games), nil
}
