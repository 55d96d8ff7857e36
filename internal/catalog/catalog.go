// Package catalog holds the loaded game list and the search over it.
package catalog

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"
	"github.com/meur/gameshelf/internal/models"
)

// Catalog is an immutable snapshot of the full game list.
type Catalog struct {
	games   []models.Game
	search  []string // Precomputed SearchText per game, same index
	version string
}

// New builds a snapshot from games, keeping their order.
func New(games []models.Game) *Catalog {
	c := &Catalog{
		games:  make([]models.Game, len(games)),
		search: make([]string, len(games)),
	}
	for i, g := range games {
		c.games[i] = cloneGame(g)
		c.search[i] = g.SearchText()
	}
	c.version = contentVersion(c.games)
	return c
}

// Empty returns the catalog used before a load completes or after it fails.
func Empty() *Catalog {
	return New(nil)
}

// Len returns the number of games in the catalog.
func (c *Catalog) Len() int {
	return len(c.games)
}

// Items returns a copy of all games in source order.
func (c *Catalog) Items() []models.Game {
	out := make([]models.Game, len(c.games))
	for i, g := range c.games {
		out[i] = cloneGame(g)
	}
	return out
}

// cloneGame copies g including its list fields, so snapshots share no
// backing arrays with callers.
func cloneGame(g models.Game) models.Game {
	g.Platforms = slices.Clone(g.Platforms)
	g.Tags = slices.Clone(g.Tags)
	return g
}

// Version identifies the catalog content; equal lists share a version.
func (c *Catalog) Version() string {
	return c.version
}

// contentVersion derives a stable name-based UUID from the canonical JSON
// of the games.
func contentVersion(games []models.Game) string {
	if games == nil {
		games = []models.Game{}
	}
	data, err := json.Marshal(games)
	if err != nil {
		return uuid.Nil.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, data).String()
}
