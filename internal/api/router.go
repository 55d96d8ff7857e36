package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/meur/gameshelf/internal/render"
	"github.com/meur/gameshelf/internal/shelf"
)

// Options configures the HTTP server
type Options struct {
	AllowedOrigins []string
	AssetsDir      string // Served under /assets/ when set
	Logger         *zap.Logger
}

// Server holds the HTTP server dependencies
type Server struct {
	shelf    *shelf.Shelf
	renderer *render.Renderer
	logger   *zap.Logger
	opts     Options
	router   chi.Router
}

// New creates a new HTTP server for the shelf
func New(sh *shelf.Shelf, renderer *render.Renderer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		shelf:    sh,
		renderer: renderer,
		logger:   logger,
		opts:     opts,
		router:   chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(HTMX)
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "HX-Request", "HX-Current-URL", "HX-Target", "HX-Trigger"},
		ExposedHeaders: []string{"ETag"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	// Page and the fragment the search box swaps in
	s.router.Get("/", s.handlePage)
	s.router.Get("/games", s.handleSearch)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/games", s.handleGetGames)
	})

	if s.opts.AssetsDir != "" {
		FileServer(s.router, "/assets", http.Dir(s.opts.AssetsDir))
	}

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondHTML(w http.ResponseWriter, status int, markup string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write([]byte(markup))
}
