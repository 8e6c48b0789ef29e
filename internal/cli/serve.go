package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/file-finder/backend/internal/api"
	"github.com/file-finder/backend/internal/api/middleware"
	"github.com/file-finder/backend/internal/auth"
	"github.com/file-finder/backend/internal/command"
	"github.com/file-finder/backend/internal/config"
	"github.com/file-finder/backend/internal/db"
	"github.com/file-finder/backend/internal/filelock"
	"github.com/file-finder/backend/internal/metrics"
	"github.com/file-finder/backend/internal/search"
)

// NewServeCommand starts the HTTP command bridge.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the command bridge for the desktop UI",
		Long: `Starts the local HTTP bridge the desktop UI calls. Configuration comes
from environment variables and the optional YAML file named by FILEFINDER_CONFIG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	lock, err := filelock.Acquire(cfg.DataPath)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	m := metrics.New()
	registry := command.NewRegistry(database, cfg.JournalKeep, m)
	command.RegisterDefaults(registry, search.NewSearcher(log.Default()), m)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	sessionLimiter := middleware.NewRateLimiter(ctx, cfg.SessionRateLimit, time.Minute)
	router := api.NewRouter(cfg, database, jwtService, registry, m, sessionLimiter)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting server on %s", cfg.Addr())
	log.Printf("Browse root: %s", cfg.BrowseRoot)
	log.Printf("Data path: %s (journal keeps %d invocations, body limit %s)",
		cfg.DataPath, cfg.JournalKeep, humanize.IBytes(uint64(cfg.BodyLimit)))
	log.Printf("Commands: %v, session auth required: %v", registry.Names(), cfg.AuthRequired())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
