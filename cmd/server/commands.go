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

	"codeclash/internal/api"
	"codeclash/internal/common/security"
	"codeclash/internal/domain/repository"
	"codeclash/internal/domain/repository/memory"
	"codeclash/internal/platform/cache"
	"codeclash/internal/platform/config"
	"codeclash/internal/platform/database"
	"codeclash/internal/platform/judge"
	"codeclash/internal/platform/logger"
	"codeclash/internal/platform/metrics"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "codeclash",
		Short:         "CodeClash contest backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.AddCommand(newServeCommand(), newMigrateCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate needs STORE_DRIVER=%s, got %q", config.StoreDriverPostgres, cfg.StoreDriver)
			}
			ctx := contextOrBackground(cmd.Context())
			db, err := database.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			return database.Migrate(ctx, db)
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Setup(cfg)
	return cfg, nil
}

func runServe(ctx context.Context) error {
	ctx = contextOrBackground(ctx)

	// 1. Load Configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.WithField("store", cfg.StoreDriver).Info("Configuration loaded")

	// 2. Initialize Storage
	repos, closeStorage, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	// 3. Initialize Metrics, Tokens and the Judge Client
	m := metrics.New()
	tokens := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)
	judgeClient := judge.NewClient(judge.Options{
		BaseURL: cfg.JudgeAPIURL,
		APIKey:  cfg.JudgeAPIKey,
		APIHost: cfg.JudgeAPIHost,
		Timeout: cfg.JudgeTimeout,
	}, m)

	// 4. Initialize Services & Router
	svcs := api.NewServices(repos, judgeClient, tokens, m)
	router := api.NewRouter(api.Options{
		RequireAuth:        cfg.RequireAuth,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, svcs, repos.Sessions, tokens, m)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  120 * time.Second,
	}

	// 5. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("could not listen on %s: %w", cfg.APIPort, err)
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Server stopped gracefully")
	return nil
}

// openRepositories connects the configured store. The returned func releases
// every connection it opened.
func openRepositories(ctx context.Context, cfg *config.Config) (repository.Set, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn("Using in-memory store, data is lost on exit")
		return memory.NewStore().Set(), func() {}, nil
	}

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return repository.Set{}, nil, err
	}
	rdb, err := cache.ConnectRedis(ctx, cfg)
	if err != nil {
		database.Close(db)
		return repository.Set{}, nil, err
	}

	closeAll := func() {
		cache.CloseRedis(rdb)
		database.Close(db)
	}
	return repository.NewPgSet(db, repository.NewRedisSessionRepository(rdb)), closeAll, nil
}

// writeTimeout leaves room for the slowest judge call. With no judge timeout a
// submission may block indefinitely, so writes are not bounded either.
func writeTimeout(cfg *config.Config) time.Duration {
	if cfg.JudgeTimeout <= 0 {
		return 0
	}
	return cfg.JudgeTimeout + 15*time.Second
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
