package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blockdude2/level-maker/src/frontend"
	"github.com/blockdude2/level-maker/src/internal/config"
)

// NewRouter creates a new HTTP router with the level API and the static
// editor files.
func NewRouter(cfg *config.Config, store LevelStore) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logger)
	if cfg.Server.PrivateOnly {
		r.Use(PrivateSubnetOnly)
	}
	r.Use(CORS)

	h := NewHandler(store, cfg.Server.MaxBodyBytes)

	r.Route("/api/levels", func(r chi.Router) {
		r.Get("/", h.GetLevels)
		r.Post("/", h.SaveLevel)
		r.Get("/{id}", h.GetLevel)
		r.Delete("/{id}", h.DeleteLevel)
	})

	// Unknown API paths never reach the static files
	r.HandleFunc("/api/*", func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Resource")
	})

	// Everything else is a static file below the root directory
	fileServer := frontend.NewFileServer(cfg.GetAbsRootDir())
	r.Get("/*", fileServer.ServeHTTP)
	r.Head("/*", fileServer.ServeHTTP)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Resource")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, NewAPIError(ErrCodeMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path))
	})

	return r
}
