package catalog

import (
	"strings"

	"github.com/meur/gameshelf/internal/models"
)

// NormalizeQuery trims surrounding whitespace and lowercases q.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Filter returns the games whose search text contains the normalized query,
// in source order. An empty query returns every game.
func (c *Catalog) Filter(q string) []models.Game {
	query := NormalizeQuery(q)
	if query == "" {
		return c.Items()
	}

	matches := make([]models.Game, 0)
	for i, text := range c.search {
		if strings.Contains(text, query) {
			matches = append(matches, cloneGame(c.games[i]))
		}
	}
	return matches
}
