package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thetunix/Calzen/internal/ai"
	"github.com/thetunix/Calzen/internal/config"
	"github.com/thetunix/Calzen/internal/favimport"
	"github.com/thetunix/Calzen/internal/logger"
	"github.com/thetunix/Calzen/internal/store"
	"github.com/thetunix/Calzen/internal/tracker"
)

// blobStore is what both the SQL and in-memory stores provide.
type blobStore interface {
	tracker.BlobStore
	Put(ctx context.Context, name string, body []byte) error
	Close() error
}

// openStore opens the configured backend and applies migrations.
func openStore(cfg *config.Config) (blobStore, error) {
	if cfg.DBDriver == "memory" {
		slog.Warn("using in-memory store, nothing will be persisted")
		return store.NewMemory(), nil
	}
	db, err := store.Open(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func main() {
	cfg := config.Load()
	flush := logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.AppEnv,
	})

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		flush()
		os.Exit(1)
	}
	flush()
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	state := tracker.NewManager(st)
	if err := state.Load(ctx); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if cfg.FavoritesImportDir != "" {
		w, err := favimport.NewWatcher(cfg.FavoritesImportDir, state)
		if err != nil {
			return fmt.Errorf("favorites watcher: %w", err)
		}
		go w.Run(ctx)
		slog.Info("watching for favorites CSV files", "dir", cfg.FavoritesImportDir)
	}

	h := &Handler{
		state:    state,
		store:    st,
		ai:       ai.New(cfg.AIBaseURL, cfg.AIModel),
		aiAPIKey: cfg.AIAPIKey,
	}

	if cfg.GinReleaseMode() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs method, path, status and duration through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/healthz" {
			return
		}
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
