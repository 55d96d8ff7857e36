package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/meur/gameshelf/internal/models"
	"github.com/meur/gameshelf/internal/storage"
)

// DefaultResource is the catalog file name the page has always used.
const DefaultResource = "games.json"

// Source fetches the raw game list.
type Source interface {
	// Name is the resource name shown to users when loading fails.
	Name() string
	Fetch(ctx context.Context) ([]models.Game, error)
}

// HTTPSource fetches the catalog with a single uncached GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Name returns the last element of the URL path, or DefaultResource when
// the path names no file.
func (s *HTTPSource) Name() string {
	u, err := url.Parse(s.URL)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return DefaultResource
	}
	if name := path.Base(u.Path); name != "." && name != "/" {
		return name
	}
	return DefaultResource
}

// Fetch issues the request and decodes the body as a JSON array.
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Game, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", s.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.URL, err)
	}
	return Decode(data)
}

// FileSource reads the catalog from a local JSON file.
type FileSource struct {
	Path string
}

// Name returns the file's base name.
func (s *FileSource) Name() string {
	return filepath.Base(s.Path)
}

// Fetch reads and decodes the file.
func (s *FileSource) Fetch(ctx context.Context) ([]models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return Decode(data)
}

// SQLiteSource reads a catalog previously imported into SQLite.
type SQLiteSource struct {
	Path string
}

// Name returns the database file's base name.
func (s *SQLiteSource) Name() string {
	return filepath.Base(s.Path)
}

// Fetch opens the database, reads every game in order, and closes it.
func (s *SQLiteSource) Fetch(ctx context.Context) ([]models.Game, error) {
	// Open would create a missing file; an absent catalog is a failure.
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	store, err := storage.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Games(ctx)
}

// Decode parses data as a JSON array of games. Anything else, including a
// literal null, is an error.
func Decode(data []byte) ([]models.Game, error) {
	var games []models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if games == nil {
		return nil, errors.New("decode catalog: not a JSON array")
	}
	return games, nil
}

// ParseSource picks a source for raw: http(s) URLs are fetched, sqlite://
// paths are read from an imported database, anything else is a local file.
func ParseSource(raw string, timeout time.Duration) Source {
	switch {
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		client := &http.Client{}
		if timeout > 0 {
			client.Timeout = timeout
		}
		return &HTTPSource{URL: raw, Client: client}
	case strings.HasPrefix(raw, "sqlite://"):
		return &SQLiteSource{Path: strings.TrimPrefix(raw, "sqlite://")}
	case raw == "":
		return &FileSource{Path: DefaultResource}
	default:
		return &FileSource{Path: raw}
	}
}
