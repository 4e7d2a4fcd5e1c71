// This is the main entry point of the application. It is responsible for
// loading configuration, connecting to the database, running migrations,
// wiring stores into services and services into handlers, mounting the HTTP
// router with its middleware, and starting the server with graceful
// shutdown.
//
// Analogy to Nest.js: this file plays the role of `main.ts`, where the
// application instance is created, modules are wired, middleware is applied,
// and the app is bootstrapped to listen for requests. Go has no DI
// container; dependencies are passed explicitly through constructors.
// @title Conduit API
// @version 1.0
// @description A social publishing API: articles, favorites, follows, comments and tags.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/articles"
	"github.com/user/conduit-go/auth"
	"github.com/user/conduit-go/comments"
	"github.com/user/conduit-go/config"
	"github.com/user/conduit-go/db"
	"github.com/user/conduit-go/logger"
	"github.com/user/conduit-go/profiles"
	"github.com/user/conduit-go/tags"
	"github.com/user/conduit-go/users"
)

func main() {
	// .env is a development convenience; in production the variables are set
	// directly, so a missing file is only worth a warning.
	if err := godotenv.Load(); err != nil {
		stdlog.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		stdlog.Fatalf("Failed to create logger: %v", err)
	}
	defer log.Sync() //nolint:errcheck // stderr sync failure at exit is harmless

	pool, err := db.NewDBPool(cfg.DB)
	if err != nil {
		log.Fatalw("failed to create database pool", "error", err)
	}
	defer pool.Close()

	// The schema carries the uniqueness constraints the services lean on, so
	// migrations run unconditionally at startup.
	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	// Stores are the persistence boundary; everything above them is testable
	// against the in-memory implementations.
	userStore := auth.NewPostgresUserStore(pool)
	followStore := profiles.NewPostgresFollowStore(pool)
	articleStore := articles.NewPostgresArticleStore(pool)
	commentStore := comments.NewPostgresCommentStore(pool)

	authService := auth.NewAuthService(userStore, *cfg.Auth, logger.Named(log, "auth"))
	userService := users.NewService(userStore, authService, logger.Named(log, "users"))
	profileService := profiles.NewService(userStore, followStore, logger.Named(log, "profiles"))
	articleService := articles.NewService(articleStore, userStore, followStore, logger.Named(log, "articles"))
	commentService := comments.NewService(commentStore, articleStore, userStore, followStore, logger.Named(log, "comments"))
	tagService := tags.NewService(articleStore, logger.Named(log, "tags"))

	authHandlers := auth.NewHandlers(authService)
	userHandlers := users.NewHandlers(userService)
	profileHandlers := profiles.NewHandlers(profileService)
	articleHandlers := articles.NewHandlers(articleService)
	commentHandlers := comments.NewHandlers(commentService)
	tagHandlers := tags.NewHandlers(tagService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		// Any origin is fine for a public API; tighten per deployment.
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that renders the standard error envelope instead of the
	// bare 500 from middleware.Recoverer.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Errorw("panic recovered", "panic", rvr, "path", req.URL.Path)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, req)
		})
	})

	requireAuth := auth.JWTMiddleware(cfg.Auth)
	optionalAuth := auth.OptionalJWTMiddleware(cfg.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/", authHandlers.HandleRegister())
			r.Post("/login", authHandlers.HandleLogin())
			r.Post("/refresh", authHandlers.HandleRefreshToken())

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", userHandlers.HandleGetCurrentUser())
				r.Put("/", userHandlers.HandleUpdateCurrentUser())
			})
		})

		r.Route("/profiles/{username}", func(r chi.Router) {
			r.With(optionalAuth).Get("/", profileHandlers.HandleGetProfile())

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/follow", profileHandlers.HandleFollow())
				r.Delete("/follow", profileHandlers.HandleUnfollow())
			})
		})

		r.Route("/articles", func(r chi.Router) {
			r.With(optionalAuth).Get("/", articleHandlers.HandleList())

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				// "/feed" is registered before "/{slug}" picks it up as a slug.
				r.Get("/feed", articleHandlers.HandleFeed())
				r.Post("/", articleHandlers.HandleCreate())
			})

			r.Route("/{slug}", func(r chi.Router) {
				r.With(optionalAuth).Get("/", articleHandlers.HandleGet())
				r.With(optionalAuth).Get("/comments", commentHandlers.HandleList())

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Put("/", articleHandlers.HandleUpdate())
					r.Delete("/", articleHandlers.HandleDelete())
					r.Post("/favorite", articleHandlers.HandleFavorite())
					r.Delete("/favorite", articleHandlers.HandleUnfavorite())
					r.Post("/comments", commentHandlers.HandleAdd())
					r.Patch("/comments/{id}", commentHandlers.HandleUpdate())
					r.Delete("/comments/{id}", commentHandlers.HandleDelete())
				})
			})
		})

		r.Get("/tags", tagHandlers.HandleList())
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// The server runs in its own goroutine so main can block on the shutdown
	// signal.
	go func() {
		log.Infow("server starting", "addr", addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown lets in-flight requests finish before the listener closes.
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server shutdown failed", "error", err)
	}
	log.Infow("server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware, kept here
// so the middleware closure does not depend on any feature package.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
