package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"reservas/internal/api"
	"reservas/internal/auth"
	"reservas/internal/config"
	"reservas/internal/events"
	"reservas/internal/google"
	"reservas/internal/logging"
	"reservas/internal/metrics"
	"reservas/internal/models"
	"reservas/internal/notify"
	"reservas/internal/pos"
	"reservas/internal/repository"
	"reservas/internal/service"
	"reservas/internal/storage"
	"reservas/internal/worker"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, menu, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, logger); err != nil {
		return err
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
	}

	eventBus := events.NewBus()

	sessions := initSessionStore(ctx, cfg, logger)
	gate := auth.NewGate(store, sessions, eventBus, cfg.Admin.MinPasswordLength, time.Duration(cfg.Admin.SessionTTLSeconds)*time.Second, logger)

	repo := repository.NewReservationRepository(store, logger)

	if sheetsService := initGoogleSheets(ctx, cfg, logger); sheetsService != nil {
		syncWorker := worker.NewSyncWorker(sheetsService, repo.LoadAll, worker.RetryPolicy{}, logger)
		go syncWorker.Run(ctx)

		trigger := func(event *events.Event) error {
			syncWorker.Trigger()
			return nil
		}
		eventBus.Subscribe(events.EventReservationCreated, trigger)
		eventBus.Subscribe(events.EventReservationsCleared, trigger)
	}

	reservationService := service.NewReservationService(repo, eventBus, initNotifier(cfg, logger), logger)
	posService := pos.NewService(store, menu, eventBus, logger)

	if cfg.Backup.Enabled {
		backupService := storage.NewBackupService(cfg.Storage.Path, cfg.Backup, logger)
		go backupService.Start(ctx)
	}

	server := api.NewServer(cfg, reservationService, gate, posService, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadConfigAndLogger() (*config.Config, models.Menu, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	componentLogger := baseLogger.With().Str("component", "server").Logger()
	logger := &componentLogger

	menuPath := os.Getenv("MENU_PATH")
	if menuPath == "" {
		menuPath = "configs/menu.yaml"
	}
	menu, err := config.LoadMenu(menuPath)
	if err != nil {
		logger.Error().Err(err).Str("path", menuPath).Msg("failed to load menu")
		return nil, nil, nil, closer, err
	}

	return cfg, menu, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	dirs := []string{
		filepath.Dir(cfg.Storage.Path),
		cfg.Exports.Path,
	}
	if cfg.Backup.Enabled && cfg.Backup.StoragePath != "" {
		dirs = append(dirs, cfg.Backup.StoragePath)
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error().Err(err).Str("dir", dir).Msg("failed to create directory")
			return err
		}
	}
	return nil
}

// initSessionStore prefers redis with an in-memory fallback; with no redis
// configured it runs purely in memory, which means sessions do not survive
// a restart.
func initSessionStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) storage.SessionStore {
	memory := storage.NewMemorySessionStore()
	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured; sessions are in-memory only")
		return memory
	}

	client := storage.NewRedisClient(storage.RedisOptions{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err := storage.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable at startup; failover will retry")
	}

	return storage.NewFailoverSessionStore(storage.NewRedisSessionStore(client), memory, logger)
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.SpreadsheetID == "" {
		logger.Info().Msg("google sheets mirror disabled")
		return nil
	}

	sheetsService, err := google.NewSheetsService(ctx, cfg.Google.CredentialsFile, cfg.Google.SpreadsheetID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to init google sheets; mirror disabled")
		return nil
	}

	testCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sheetsService.TestConnection(testCtx); err != nil {
		if email, emailErr := google.ServiceAccountEmail(cfg.Google.CredentialsFile); emailErr == nil {
			logger.Warn().Err(err).Str("service_account", email).Msg("spreadsheet unreachable; share it with the service account")
		} else {
			logger.Warn().Err(err).Msg("spreadsheet unreachable")
		}
	}

	logger.Info().Msg("google sheets mirror enabled")
	return sheetsService
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) notify.Notifier {
	if !cfg.Telegram.Enabled {
		return notify.Noop{}
	}

	telegram, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to init telegram notifier; notifications disabled")
		return notify.Noop{}
	}

	logger.Info().Msg("telegram notifications enabled")
	return telegram
}
