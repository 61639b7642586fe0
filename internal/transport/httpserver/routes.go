package httpserver

import (
	"net/http"
	"strings"
	"time"

	"directory-app-go/internal/config"
	"directory-app-go/internal/metrics"
	"directory-app-go/internal/transport/httpserver/handler"
	authmw "directory-app-go/internal/transport/httpserver/middleware"
	"directory-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the directory API. reg may be nil, in which case /metrics is not mounted.
func NewRouter(cfg config.Config, handlers *handler.Handlers, reg *metrics.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if reg != nil {
		r.Use(authmw.Metrics(reg))
		r.Method(http.MethodGet, "/metrics", reg.Handler())
	}

	publicPath := "/" + strings.Trim(cfg.Directory.ImagePublicPath, "/")
	r.Handle(publicPath+"/*", http.StripPrefix(publicPath+"/", imageFileServer(cfg.Directory.ImageDir)))

	auth := authmw.NewAuth(cfg.Auth, log)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))

		r.Get("/health", handlers.Health)

		r.Post("/directory/register", handlers.RegisterMember)
		r.Get("/directory/members", handlers.ApprovedRoster)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Route("/admin/directory", func(r chi.Router) {
				r.Use(authmw.RequireAdmin)

				r.Get("/stats", handlers.MemberStats)
				r.Get("/members", handlers.ListMembers)
				r.Get("/members/export", handlers.ExportMembers)
				r.Post("/members/import", handlers.ImportMembers)
				r.Get("/members/{id}", handlers.GetMember)
				r.Patch("/members/{id}", handlers.UpdateMember)
				r.Delete("/members/{id}", handlers.DeleteMember)
				r.Post("/members/{id}/approve", handlers.ApproveMember)
				r.Post("/members/{id}/reject", handlers.RejectMember)
				r.Post("/members/{id}/photo", handlers.AttachPhoto)
			})
		})
	})

	return r
}

// imageFileServer serves stored photos without exposing directory listings.
func imageFileServer(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}
