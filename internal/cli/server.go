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

	"dsa-tracker/internal/app"
	"dsa-tracker/internal/config"
	"dsa-tracker/internal/infra/memory"
	pgstore "dsa-tracker/internal/infra/postgres"
	redisstore "dsa-tracker/internal/infra/redis"
	"dsa-tracker/internal/logging"
	transport "dsa-tracker/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the tracker API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func loadConfig(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return cfg, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

// openStores builds the repositories for the configured driver. The returned
// closer releases any connections.
func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (app.Stores, func(), error) {
	switch driver := cfg.StoreDriver(); driver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		return app.Stores{
			Questions: memory.NewQuestionStore(),
			Topics:    memory.NewTopicStore(),
			Activity:  memory.NewActivityStore(),
		}, func() {}, nil

	case "redis":
		if cfg.Redis.Addr == "" {
			return app.Stores{}, nil, errors.New("redis addr not configured")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return app.Stores{}, nil, fmt.Errorf("connect redis: %w", err)
		}
		return app.Stores{
			Questions: redisstore.NewQuestionRepository(client),
			Topics:    redisstore.NewTopicRepository(client),
			Activity:  redisstore.NewActivityRepository(client),
		}, func() { _ = client.Close() }, nil

	case "postgres":
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return app.Stores{}, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return app.Stores{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		var questions app.QuestionRepository = pgstore.NewQuestionRepository(pool)
		if ttl := config.TTLDuration(cfg.Cache.TTL, time.Minute); ttl > 0 {
			questions = memory.NewCachedQuestions(questions, ttl)
		}
		return app.Stores{
			Questions: questions,
			Topics:    pgstore.NewTopicRepository(pool),
			Activity:  pgstore.NewActivityRepository(pool),
		}, pool.Close, nil

	default:
		return app.Stores{}, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, logger, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	stores, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	loc := cfg.Location()
	service := app.NewTrackerService(stores,
		app.WithLocation(loc),
		app.WithLogger(logger.Named("tracker")),
	)
	router := transport.NewRouter(transport.RouterConfig{
		Service:  service,
		Auth:     transport.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Admins),
		Logger:   logger.Named("http"),
		Location: loc,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting tracker service", zap.String("port", finalPort), zap.String("store", cfg.StoreDriver()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
