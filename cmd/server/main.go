package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/extrasite-backend/internal/cache"
	"github.com/ignatzorin/extrasite-backend/internal/config"
	"github.com/ignatzorin/extrasite-backend/internal/db"
	httpHandlers "github.com/ignatzorin/extrasite-backend/internal/http/handlers"
	"github.com/ignatzorin/extrasite-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/extrasite-backend/internal/http/router"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/notify"
	"github.com/ignatzorin/extrasite-backend/internal/repository"
	"github.com/ignatzorin/extrasite-backend/internal/service"
	"github.com/ignatzorin/extrasite-backend/internal/storage"
	"github.com/ignatzorin/extrasite-backend/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}
	appLog := logger.Component("main")

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		appLog.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		appLog.WithError(err).Fatal("ошибка миграций")
	}

	// Кэш мурала и счётчики rate limiter: redis, если задан REDIS_URL, иначе память процесса.
	var (
		cacheStore  cache.Store
		redisClient *redis.Client
		cachePinger httpHandlers.Pinger
	)
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			appLog.WithError(err).Fatal("redis недоступен")
		}
		cacheStore, redisClient, cachePinger = redisStore, redisStore.Client(), redisStore
		appLog.Info("cache: redis")
	} else {
		cacheStore = cache.NewMemoryStore(time.Minute)
		appLog.Info("cache: in-memory")
	}
	defer cacheStore.Close()

	limiterStore, err := middleware.NewLimiterStore(redisClient)
	if err != nil {
		appLog.WithError(err).Fatal("не удалось создать хранилище rate limiter")
	}

	images, err := storage.NewImageStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		appLog.WithError(err).Fatal("не удалось подготовить файловое хранилище")
	}

	mailer, err := newMailer(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("не удалось настроить отправку писем")
	}

	seekerRepo := repository.NewJobSeekerRepository(dbConn)
	companyRepo := repository.NewCompanyRepository(dbConn)
	adminRepo := repository.NewAdminRepository(dbConn)
	postingRepo := repository.NewPostingRepository(dbConn)
	applicationRepo := repository.NewApplicationRepository(dbConn)
	ratingRepo := repository.NewRatingRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	settingsRepo := repository.NewSettingsRepository(dbConn)
	alarmRepo := repository.NewAlarmRepository(dbConn)

	calendar := service.NewCalendar(cfg.Timezone)
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	settingsService := service.NewSettingsService(settingsRepo, cacheStore,
		service.DefaultPlatformSettings(cfg.Platform.Fee, cfg.Platform.PlatformName, cfg.Platform.PlatformCity))
	if err := settingsService.Load(ctx); err != nil {
		appLog.WithError(err).Fatal("не удалось загрузить настройки платформы")
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	notificationService := service.NewNotificationService(notificationRepo)
	notificationService.SetHub(hub)

	authService := service.NewAuthService(seekerRepo, companyRepo, adminRepo, tokenManager, calendar)
	authService.SetMailer(mailer)
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			appLog.WithError(err).Fatal("не удалось создать администратора")
		}
	}

	postingService := service.NewPostingService(postingRepo, companyRepo, settingsService, calendar, cacheStore, cfg.CacheTTL)

	applicationService := service.NewApplicationService(applicationRepo, applicationRepo, postingRepo, seekerRepo, companyRepo, settingsService, calendar)
	applicationService.SetMailer(mailer)
	applicationService.SetInbox(notificationService)
	applicationService.SetCache(cacheStore)

	ratingService := service.NewRatingService(applicationRepo, ratingRepo, applicationRepo)
	ratingService.SetInbox(notificationService)

	profileService := service.NewProfileService(seekerRepo, companyRepo, images)

	adminService := service.NewAdminService(companyRepo, seekerRepo, postingRepo, applicationRepo, calendar)
	adminService.SetMailer(mailer)
	adminService.SetInbox(notificationService)

	alarmService := service.NewAlarmService(alarmRepo)
	seedService := service.NewSeedService(authService, adminService, postingService, companyRepo, calendar)

	handlers := httpRouter.Handlers{
		Auth:          httpHandlers.NewAuthHandler(authService),
		Jobs:          httpHandlers.NewJobHandler(postingService, settingsService),
		Applications:  httpHandlers.NewApplicationHandler(applicationService, ratingService),
		Profiles:      httpHandlers.NewProfileHandler(profileService, cfg.MaxUploadSizeMB),
		Dashboards:    httpHandlers.NewDashboardHandler(adminService),
		Admin:         httpHandlers.NewAdminHandler(adminService, postingService, settingsService),
		Alarm:         httpHandlers.NewAlarmHandler(alarmService),
		Notifications: httpHandlers.NewNotificationHandler(notificationService),
		WS:            httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Health:        httpHandlers.NewHealthHandler(dbConn, cachePinger),
	}
	if cfg.Env == "development" {
		handlers.Seed = httpHandlers.NewSeedHandler(seedService)
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokenManager, limiterStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLog.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			appLog.WithError(err).Error("сервер завершился с ошибкой")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("ошибка остановки http сервера")
	}
	// Дожидаемся писем, поставленных в отправку до остановки.
	mailer.Wait(shutdownCtx)
	appLog.Info("сервер остановлен")
}

func newMailer(ctx context.Context, cfg *config.Config) (*notify.Mailer, error) {
	templates, err := notify.NewTemplates(cfg.Platform.PlatformName, cfg.Platform.PlatformCity, cfg.Mail.BaseURL)
	if err != nil {
		return nil, err
	}

	var sender notify.Sender = notify.NewLogSender()
	if cfg.Mail.Driver == "ses" {
		sender, err = notify.NewSESSender(ctx, cfg.Mail.AWSRegion, cfg.Mail.From)
		if err != nil {
			return nil, err
		}
	}
	return notify.NewMailer(sender, templates), nil
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Component("main").WithError(err).Warn("ошибка закрытия базы")
	}
}
