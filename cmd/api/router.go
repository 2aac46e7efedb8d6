package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/blog-api/internal/config"
	"github.com/crucial707/blog-api/internal/handlers"
	"github.com/crucial707/blog-api/internal/logger"
	"github.com/crucial707/blog-api/internal/middleware"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/service"
	"github.com/crucial707/blog-api/internal/token"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repos, services and handlers on top of db and returns the
// full API handler.
func newRouter(db *sql.DB, cfg config.Config, log *logger.Logger) http.Handler {
	// ==========================
	// Dependencies
	// ==========================
	userRepo := repo.NewUserRepo(db)
	postRepo := repo.NewPostRepo(db)
	auditRepo := repo.NewAuditRepo(db)
	jwt := token.NewJWT([]byte(cfg.JWT.Secret), cfg.JWT.TTL())

	userSvc := service.NewUserService(userRepo, postRepo, jwt, log)
	postSvc := service.NewPostService(postRepo, log)
	postSvc.EmptyListNotFound = cfg.PostsEmptyListNotFound

	authHandler := &handlers.AuthHandler{Users: userSvc, AuditRepo: auditRepo}
	userHandler := &handlers.UserHandler{Users: userSvc, AuditRepo: auditRepo}
	auditHandler := &handlers.AuditHandler{Users: userSvc, Repo: auditRepo}
	postHandler := &handlers.PostHandler{Posts: postSvc, AuditRepo: auditRepo}

	authn := middleware.Authenticate(jwt, userRepo)
	limitBody := middleware.MaxBytes(cfg.MaxBodyBytes)

	// ==========================
	// Router
	// ==========================
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLS.Enabled()))
	r.Use(middleware.CORS(cfg.CORS.Origins()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/users", func(r chi.Router) {
		r.With(limitBody).Post("/register", authHandler.Register)
		r.With(limitBody).Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/{id}", userHandler.GetUser)
			r.With(limitBody).Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
			r.Get("/{id}/activity", auditHandler.ListActivity)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.ListPosts)
		r.Get("/{id}", postHandler.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.With(limitBody).Post("/", postHandler.CreatePost)
			r.With(limitBody).Put("/{id}", postHandler.UpdatePost)
			r.Delete("/{id}", postHandler.DeletePost)
		})
	})

	return r
}
