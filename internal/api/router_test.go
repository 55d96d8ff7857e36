package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/meur/gameshelf/internal/catalog"
	"github.com/meur/gameshelf/internal/models"
	"github.com/meur/gameshelf/internal/render"
	"github.com/meur/gameshelf/internal/shelf"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticSource struct {
	games []models.Game
	err   error
}

func (s staticSource) Name() string { return "games.json" }

func (s staticSource) Fetch(context.Context) ([]models.Game, error) { return s.games, s.err }

var testGames = []models.Game{
	{Title: "Chess", Tags: []string{"strategy", "board"}, Platforms: []string{"PC"}, Wiki: "https://en.wikipedia.org/wiki/Chess"},
	{Title: "Foo", RecommendedBy: "Alice"},
}

func newTestServer(t *testing.T, src catalog.Source, load bool, opts Options) *Server {
	t.Helper()
	r, err := render.New(render.Options{ResourceName: src.Name()})
	require.NoError(t, err)
	sh := shelf.New(catalog.NewLoader(src), r, nil)
	if load {
		_ = sh.Load(context.Background())
	}
	return New(sh, r, opts)
}

func get(t *testing.T, h http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, staticSource{}, false, Options{})
	w := get(t, srv, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestPageRendersFullList(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames}, true, Options{})
	w := get(t, srv, "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "<strong>Chess</strong>")
	assert.Contains(t, body, "<strong>Foo</strong>")
	assert.Contains(t, body, `target="_blank" rel="noopener noreferrer">Wikipedia</a>`)
}

func TestPageWithQueryFiltersInitialList(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames}, true, Options{})
	body := get(t, srv, "/?q=alice", nil).Body.String()

	assert.Contains(t, body, `value="alice"`)
	assert.Contains(t, body, "<strong>Foo</strong>")
	assert.NotContains(t, body, "<strong>Chess</strong>")
}

func TestPageWhileLoadingLeavesContainerEmpty(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames}, false, Options{})
	body := get(t, srv, "/", nil).Body.String()
	assert.Contains(t, body, `<div id="list"></div>`)
}

func TestHTMXPageRequestReturnsFragment(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames}, true, Options{})
	w := get(t, srv, "/?q=STRATEGY", map[string]string{"HX-Request": "true"})

	body := w.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, "<strong>Chess</strong>")
	assert.Contains(t, w.Header().Values("Vary"), "HX-Request")
}

func TestSearchFragment(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames}, true, Options{})

	w := get(t, srv, "/games?q=hess", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), "<strong>Chess</strong>")

	w = get(t, srv, "/games?q=xyz", nil)
	assert.Equal(t, `<article><small>No matches.</small></article>`, w.Body.String())
}

func TestLoadFailureFlow(t *testing.T) {
	src := staticSource{err: errors.New("decode catalog: invalid character")}
	srv := newTestServer(t, src, true, Options{})

	page := get(t, srv, "/", nil).Body.String()
	assert.Contains(t, page, `<div id="list"><article><small>Couldn’t load games.json.</small></article></div>`)

	w := get(t, srv, "/games?q=chess", nil)
	assert.Equal(t, `<article><small>No matches.</small></article>`, w.Body.String())

	w = get(t, srv, "/api/games", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAPIGames(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames}, true, Options{})

	w := get(t, srv, "/api/games?q=alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("ETag"))

	var list models.GameList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, "Foo", list.Items[0].Title)
	assert.NotEmpty(t, list.Version)
}

func TestAPIGamesETag(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames}, true, Options{})

	w := get(t, srv, "/api/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = get(t, srv, "/api/games", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestAPIGamesWhileLoading(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames}, false, Options{})
	w := get(t, srv, "/api/games", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames}, true, Options{AllowedOrigins: []string{"http://example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.css"), []byte("body{}"), 0o644))
	srv := newTestServer(t, staticSource{}, false, Options{AssetsDir: dir})

	w := get(t, srv, "/assets/site.css", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())

	w = get(t, srv, "/assets", nil)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := newTestServer(t, staticSource{games: testGames}, true, Options{Logger: zap.New(core)})

	get(t, srv, "/games?q=chess", map[string]string{"HX-Request": "true"})

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/games", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Equal(t, true, fields["htmx"])
}
