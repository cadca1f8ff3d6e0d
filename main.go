package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/assistant"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/claude"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/config"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/database"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/dateparse"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/extract"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/gcal"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/gemini"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/logging"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/server"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/session"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/timeutil"
)

// closer is anything main must release on shutdown.
type closer func()

func main() {
	cfg := config.LoadFromEnv()

	logger, err := logging.New(cfg.DevMode)
	if err != nil {
		fatal("creating logger", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	// Phase 1: Core infrastructure
	db, err := initDatabase(cfg, logger)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	store, closeStore, err := initSessionStore(cfg, db, logger)
	if err != nil {
		fatal("creating session store", err)
	}
	defer closeStore()

	cleanup := session.NewCleanupJob(store, session.CleanupConfig{
		IdleTimeout:     cfg.SessionIdleTimeout,
		CleanupInterval: cfg.SessionCleanupInterval,
	}, logger)
	cleanup.Start(ctx)

	// Phase 2: External services
	extractor, closeExtractor, err := initExtractor(ctx, cfg, logger)
	if err != nil {
		fatal("creating extractor", err)
	}
	defer closeExtractor()

	gcalClient, err := gcal.NewClient(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		fatal("creating calendar client", err)
	}
	logger.Info("Google Calendar client initialized", zap.String("calendar_id", cfg.CalendarID))

	// Phase 3: Conversation and HTTP
	loc := timeutil.FixedLocation(cfg.UTCOffsetMinutes)
	a, err := assistant.New(assistant.Config{
		Extractor:       extractor,
		Resolver:        dateparse.NewParser(loc),
		Calendar:        gcalClient,
		Store:           store,
		Bookings:        db,
		Logger:          logger,
		CalendarID:      cfg.CalendarID,
		TimeZone:        cfg.CalendarTimeZone,
		Location:        loc,
		MaxAlternatives: cfg.MaxAlternatives,
		CallTimeout:     cfg.ExternalCallTimeout,
	})
	if err != nil {
		fatal("creating assistant", err)
	}

	srv := server.New(server.ServerConfig{
		Assistant:          a,
		Bookings:           db,
		DB:                 db,
		Port:               cfg.HTTPPort,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	waitForShutdown(logger, srv, cleanup)
}

func initDatabase(cfg *config.Config, logger *zap.Logger) (*database.DB, error) {
	return database.New(cfg.DBPath, logger)
}

func initSessionStore(cfg *config.Config, db *database.DB, logger *zap.Logger) (session.Store, closer, error) {
	switch cfg.SessionBackend {
	case "", "memory":
		logger.Info("session store: memory")
		return session.NewMemoryStore(), func() {}, nil
	case "sqlite":
		logger.Info("session store: sqlite", zap.String("path", cfg.DBPath))
		return database.NewSessionStore(db), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("session store: redis", zap.String("addr", cfg.RedisAddr))
		return session.NewRedisStore(client, cfg.SessionIdleTimeout), func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

func initExtractor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*extract.Extractor, closer, error) {
	var (
		completer extract.Completer
		closeFn   closer = func() {}
	)

	switch cfg.LLMProvider {
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		completer = client
		closeFn = func() { client.Close() }
		logger.Info("extraction backend: Gemini", zap.String("model", cfg.GeminiModel))
	case "claude":
		client := claude.NewClient(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.ClaudeTemperature)
		if !client.IsConfigured() {
			return nil, nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the claude provider")
		}
		completer = client
		logger.Info("extraction backend: Claude", zap.String("model", cfg.ClaudeModel))
	default:
		return nil, nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}

	return extract.NewExtractor(completer, extract.Config{
		Retries:    cfg.ExtractionRetries,
		RetryDelay: cfg.ExtractionDelay,
	}, logger), closeFn, nil
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(logger *zap.Logger, srv *server.Server, cleanup *session.CleanupJob) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cleanup.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("HTTP server shutdown", zap.Error(err))
	}
}
