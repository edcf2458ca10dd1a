package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/spf13/cobra"
	"github.com/tagvault/mediasearch/internal/auth"
	"github.com/tagvault/mediasearch/internal/handlers"
	"github.com/tagvault/mediasearch/internal/logger"
	"github.com/tagvault/mediasearch/internal/middleware"
	"go.uber.org/zap"
)

const (
	maxOpenConns    = 25
	shutdownTimeout = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup("info")
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required to serve the API")
	}

	db, err := openStore(cfg, maxOpenConns)
	if err != nil {
		return err
	}
	defer db.Close()

	c := buildComponents(db, cfg, logger.Logger)
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newRouter(c, tokenGenerator, cfg.CORS.AllowedOrigins, logger.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Logger.Info("Server exited")
	return nil
}

// newRouter builds the API router with the middleware chain
func newRouter(c components, tokens *auth.TokenGenerator, allowedOrigins []string, log *zap.Logger) http.Handler {
	authMw := middleware.AuthMiddleware(tokens)

	authHandler := handlers.NewAuthHandler(c.auth, tokens, log)
	mediaHandler := handlers.NewMediaHandler(c.search, c.ratings, c.activity, log)
	historyHandler := handlers.NewHistoryHandler(c.history, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.RecoveryMiddleware(log))
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		mediaHandler.RegisterRoutes(r, authMw)
		historyHandler.RegisterRoutes(r, authMw)
	})

	return r
}
