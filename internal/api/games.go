package api

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/meur/gameshelf/internal/catalog"
	"github.com/meur/gameshelf/internal/models"
	"github.com/meur/gameshelf/internal/render"
	"github.com/meur/gameshelf/internal/shelf"
)

// handlePage renders the full page. htmx requests get only the list
// container, computed the same way as an input event.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	w.Header().Add("Vary", "HX-Request")

	if IsHTMX(r.Context()) {
		respondHTML(w, http.StatusOK, string(s.shelf.Search(q)))
		return
	}

	var buf bytes.Buffer
	page := render.Page{Query: q, List: s.shelf.Initial(q)}
	if err := s.renderer.WritePage(&buf, page); err != nil {
		s.logger.Error("render page", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	respondHTML(w, http.StatusOK, buf.String())
}

// handleSearch returns the list container for the current query
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	respondHTML(w, http.StatusOK, string(s.shelf.Search(r.URL.Query().Get("q"))))
}

// handleGetGames returns the games matching ?q= as JSON
func (s *Server) handleGetGames(w http.ResponseWriter, r *http.Request) {
	switch s.shelf.State() {
	case shelf.StateLoading:
		w.Header().Set("Retry-After", "1")
		respondError(w, http.StatusServiceUnavailable, "Catalog is still loading")
		return
	case shelf.StateFailed:
		respondError(w, http.StatusServiceUnavailable, "Catalog could not be loaded")
		return
	}

	c := s.shelf.Catalog()
	q := r.URL.Query().Get("q")
	w.Header().Set("Cache-Control", "no-cache")
	// Only the unfiltered list is identified by the catalog version.
	if catalog.NormalizeQuery(q) == "" {
		etag := `"` + c.Version() + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	games := c.Filter(q)
	respondJSON(w, http.StatusOK, models.GameList{
		Items:      games,
		TotalCount: len(games),
		Version:    c.Version(),
	})
}
