package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	mindcheckroot "github.com/set-night/mindcheck"
	"github.com/set-night/mindcheck/internal/config"
	"github.com/set-night/mindcheck/internal/handler"
	"github.com/set-night/mindcheck/internal/middleware"
	"github.com/set-night/mindcheck/internal/repository"
	"github.com/set-night/mindcheck/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(mindcheckroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)
	catalogRepo := repository.NewCatalogRepo(pool)
	diagnosisRepo := repository.NewDiagnosisRepo(pool)

	// Initialize services
	userService := service.NewUserService(pool, userRepo)
	sessionService := service.NewSessionService(pool, sessionRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	diagnosisService := service.NewDiagnosisService(catalogService, diagnosisRepo, sessionService)
	questionnaire := service.NewQuestionnaire(catalogService)

	// Load the symptom/disorder/rule catalog into memory
	if err := catalogService.Warm(ctx); err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.UserLoader(userService, cfg),
		),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:              b,
		Cfg:              cfg,
		UserService:      userService,
		SessionService:   sessionService,
		CatalogService:   catalogService,
		DiagnosisService: diagnosisService,
		Questionnaire:    questionnaire,
	})

	// Register all handlers
	h.Register()

	// Sweep stale screenings: sessions idle beyond the TTL are abandoned
	// with reason "timeout".
	go func() {
		ticker := time.NewTicker(config.StaleSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				closed, err := sessionService.AbandonStale(context.Background(), cfg.SessionTTL)
				if err != nil {
					slog.Error("sweep stale sessions", "error", err)
				} else if closed > 0 {
					slog.Info("stale sessions abandoned", "count", closed)
				}
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
