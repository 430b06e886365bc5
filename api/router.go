package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/raushankrgupta/storefront-listings/utils"
)

// NewRouter wires every route of the storefront. publicDir serves /images and /assets.
func NewRouter(a *ListingsAPI, publicDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(utils.CORSMiddleware)
	r.Use(utils.LatencyMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve static files for images and page assets
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(filepath.Join(publicDir, "images")))))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(publicDir, "assets")))))

	r.Get("/listings/card", a.CardHandler)
	r.Get("/api/listings", a.ListingsHandler)
	r.Post("/admin/login", a.LoginHandler)
	r.With(a.AuthMiddleware).Post("/admin/listings/import", a.ImportHandler)

	r.Get("/", a.PageHandler)
	r.Get("/{page}", a.PageHandler)

	return r
}
