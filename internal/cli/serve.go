package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/otog-org/otog-server/internal/api"
	"github.com/otog-org/otog-server/internal/api/admin"
	"github.com/otog-org/otog-server/internal/api/user"
	"github.com/otog-org/otog-server/internal/cache"
	"github.com/otog-org/otog-server/internal/config"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/pubsub"
	"github.com/otog-org/otog-server/internal/scoreboard"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewServeCmd builds the subcommand that runs the API servers.
func NewServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the user and admin API servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath)
		},
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newStore picks the redis snapshot cache when an address is configured and
// the in-process cache otherwise. The returned func releases the store.
func newStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (cache.Store, func(), error) {
	loader := func(ctx context.Context, contestID uint) (scoreboard.Snapshot, error) {
		return database.GetContestScoreboard(db.WithContext(ctx), contestID)
	}

	if cfg.Cache.Redis.Addr == "" {
		zap.S().Infof("using in-memory scoreboard cache (ttl %s)", cfg.CacheTTL())
		return cache.NewMemory(loader, cfg.CacheTTL()), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Cache.Redis.Addr, err)
	}
	zap.S().Infof("using redis scoreboard cache at %s (ttl %s)", cfg.Cache.Redis.Addr, cfg.CacheTTL())
	return cache.NewRedis(client, loader, cfg.CacheTTL()), func() { client.Close() }, nil
}

func runServer(ctx context.Context, configPath string) error {
	fmt.Fprintf(os.Stderr, "OTOG %s - contest server\n\n", Version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// logger
	logger, err := newLogger(cfg.Logger.Level)
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// database
	db, err := database.Init(cfg.Storage.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	zap.S().Info("database initialized successfully")

	// recovery
	if n, err := database.RecoverInterrupted(db); err != nil {
		zap.S().Errorf("failed to recover interrupted submissions: %v", err)
	} else if n > 0 {
		zap.S().Infof("requeued %d submissions interrupted while grading", n)
	}

	store, closeStore, err := newStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()
	boards := api.NewBoards(store, pubsub.GetBroker())

	// API routers
	servers := []*http.Server{{
		Addr:    cfg.Listen,
		Handler: user.NewUserRouter(cfg, db, boards),
	}}
	if cfg.Admin.Enabled {
		servers = append(servers, &http.Server{
			Addr:    cfg.Admin.Listen,
			Handler: admin.NewAdminRouter(cfg, db, boards),
		})
	}

	// start servers
	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			zap.S().Infof("starting server at %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server at %s failed: %w", srv.Addr, err)
			}
		}(srv)
	}

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		zap.S().Info("shutting down server...")
	case <-ctx.Done():
		zap.S().Info("context canceled, shutting down server...")
	case runErr = <-errCh:
		zap.S().Error(runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.S().Warnf("failed to shut down server at %s: %v", srv.Addr, err)
		}
	}
	return runErr
}
