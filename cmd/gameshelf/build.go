package main

import (
	"go.uber.org/zap"

	"github.com/meur/gameshelf/internal/catalog"
	"github.com/meur/gameshelf/internal/config"
	"github.com/meur/gameshelf/internal/render"
	"github.com/meur/gameshelf/internal/shelf"
)

// newShelf wires the loader and renderer described by c.
func newShelf(c *config.Config, log *zap.Logger) (*shelf.Shelf, *render.Renderer, error) {
	source := catalog.ParseSource(c.Catalog.Source, c.Catalog.Timeout)
	renderer, err := render.New(render.Options{
		Images:       c.Render.Images,
		Markup:       c.Render.Markup,
		ResourceName: source.Name(),
		Title:        c.Render.Title,
	})
	if err != nil {
		return nil, nil, err
	}
	return shelf.New(catalog.NewLoader(source), renderer, log), renderer, nil
}
