package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	fileapp "github.com/storefront/backend/internal/application/file"
	identityapp "github.com/storefront/backend/internal/application/identity"
	locationapp "github.com/storefront/backend/internal/application/location"
	regionapp "github.com/storefront/backend/internal/application/region"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/storefront/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Storefront Backend API
//	@version		1.0
//	@description	Admin and storefront REST API: regions, store settings, stock locations, admin users and file uploads.
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/storefront/backend

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:9000
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// The OTLP log bridge has to exist before the logger so it can be teed in
	logsCfg := telemetryCfg
	logsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, logsCfg)
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}
	var extraCores []zapcore.Core
	if core := loggerProvider.Core(); core != nil {
		extraCores = append(extraCores, core)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, extraCores...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()
	defer func() {
		_ = loggerProvider.Shutdown(context.Background(), log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing, OTLP metrics and profiling
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	metricsCfg := telemetryCfg
	metricsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled
	meterProvider, err := telemetry.NewMeterProvider(ctx, metricsCfg, 0, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if cfg.Telemetry.ProfilingEnabled {
		tracerProvider.EnableSpanProfiles()
	}

	domainEvents, err := telemetry.NewDomainEvents(meterProvider.Meter("storefront"))
	if err != nil {
		log.Fatal("Failed to create domain event counter", zap.Error(err))
	}
	registry := telemetry.NewRegistry()

	// Database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	healthChecks := map[string]handler.Pinger{"database": db}

	// Redis backs the token blacklist and the read cache when enabled
	var (
		redisClient *redis.Client
		blacklist   auth.TokenBlacklist = auth.NewMemoryTokenBlacklist()
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		healthChecks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	var readCache cache.Cache
	if redisClient != nil {
		readCache = cache.New(cfg.Cache, redisClient, log)
	} else {
		readCache = cache.New(cfg.Cache, nil, log)
	}

	// Repositories
	txScope := persistence.NewGormTransactionScope(db.DB)
	regionRepo := persistence.NewGormRegionRepository(db.DB)
	countryRepo := persistence.NewGormCountryRepository(db.DB)
	currencyRepo := persistence.NewGormCurrencyRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	inviteRepo := persistence.NewGormInviteRepository(db.DB)
	fileRepo := persistence.NewGormFileRepository(db.DB)

	// Event bus with the audit subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditHandler(log, domainEvents))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// File storage
	files, err := storage.New(ctx, cfg.Storage, cfg.JWT.Secret, log)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}
	var uploadsHandler *handler.UploadsHandler
	if local, ok := files.(*storage.LocalFileService); ok {
		uploadsHandler = handler.NewUploadsHandler(local.FS(), local)
		defer func() {
			_ = local.Close()
		}()
	}
	files = storage.Instrument(files, cfg.Storage.Provider, storage.NewMetrics(registry))
	log.Info("File storage ready", zap.String("provider", cfg.Storage.Provider))

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	regionService := regionapp.NewRegionService(regionRepo, txScope, eventBus, readCache, cfg.Cache.RegionTTL, log)
	countryService := regionapp.NewCountryService(countryRepo, log)
	currencyService := storeapp.NewCurrencyService(currencyRepo)
	storeService := storeapp.NewStoreService(storeRepo, currencyRepo, txScope, eventBus, log)
	locationService := locationapp.NewLocationService(locationRepo, txScope, eventBus, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	userService := identityapp.NewUserService(userRepo, blacklist, eventBus, jwtService.AccessTokenExpiration(), log)
	inviteService := identityapp.NewInviteService(inviteRepo, txScope, jwtService, eventBus, cfg.Auth.InviteTTL, log)
	uploadService := fileapp.NewUploadService(files, fileRepo, eventBus, log)

	// Reference data and the store singleton must exist before serving
	bootCtx, cancelBoot := context.WithTimeout(ctx, 30*time.Second)
	if n, err := countryService.EnsureCountries(bootCtx); err != nil {
		log.Fatal("Failed to seed countries", zap.Error(err))
	} else if n > 0 {
		log.Info("Seeded countries", zap.Int("count", n))
	}
	if _, err := storeService.EnsureStore(bootCtx); err != nil {
		log.Fatal("Failed to ensure store", zap.Error(err))
	}
	cancelBoot()

	// Background maintenance
	if cfg.Scheduler.Enabled {
		jobs, err := scheduler.NewScheduler(scheduler.Config{
			Workers:       cfg.Scheduler.Workers,
			JobTimeout:    cfg.Scheduler.JobTimeout,
			RetryAttempts: cfg.Scheduler.RetryAttempts,
			RetryDelay:    cfg.Scheduler.RetryDelay,
		}, log.Named("scheduler"))
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		trigger := scheduler.NewIntervalTrigger(jobs, log.Named("scheduler"))
		if err := trigger.Register(scheduler.Task{
			Name:       "purge_expired_invites",
			Interval:   cfg.Scheduler.InvitePurgeInterval,
			RunOnStart: true,
			Run: func(ctx context.Context) error {
				_, err := inviteService.PurgeExpired(ctx, cfg.Scheduler.InvitePurgeGrace)
				return err
			},
		}); err != nil {
			log.Fatal("Failed to register invite purge", zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = trigger.Stop(stopCtx)
			if err := jobs.Stop(stopCtx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Users:         handler.NewUserHandler(userService),
		Invites:       handler.NewInviteHandler(inviteService),
		Regions:       handler.NewRegionHandler(regionService),
		ReferenceData: handler.NewReferenceDataHandler(countryService, currencyService),
		Store:         handler.NewStoreHandler(storeService),
		Locations:     handler.NewLocationHandler(locationService),
		Files:         handler.NewUploadHandler(uploadService, handler.DefaultStreamThreshold),
		Uploads:       uploadsHandler,
		System:        handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, healthChecks),
	}
	if cfg.Admin.Serve {
		handlers.SPA = handler.NewSPAHandler(os.DirFS(cfg.Admin.Path), cfg.Admin.Base)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Global middleware, outermost first:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Root span per request, marked on 5xx
	// 3. Logger - Log requests with request and trace IDs
	// 4. Recovery - Catch panics
	// 5. Metrics - Prometheus request counters
	// 6. Profiling - Pyroscope labels per route
	// Surface CORS, auth, body limits and rate limiting are applied per route group.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log, "/health", "/metrics"))
	engine.Use(logger.Recovery(log))
	if cfg.Metrics.Enabled {
		engine.Use(middleware.Metrics(registry))
	}
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:   cfg.Telemetry.ProfilingEnabled,
		SkipPaths: []string{"/health", cfg.Metrics.Path},
	}))

	opts := router.Options{
		JWTService:    jwtService,
		Blacklist:     blacklist,
		APITokens:     authService,
		AdminCORS:     cfg.HTTP.AdminCORS,
		StoreCORS:     cfg.HTTP.StoreCORS,
		MaxBodySize:   cfg.HTTP.MaxBodySize,
		MaxUploadSize: cfg.HTTP.MaxUploadSize,
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		},
		SwaggerHandler: ginSwagger.WrapHandler(swaggerFiles.Handler),
		MetricsPath:    cfg.Metrics.Path,
		Logger:         log,
	}
	if cfg.HTTP.RateLimitEnabled {
		opts.StoreRateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		log.Info("Store rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.Metrics.Enabled {
		opts.MetricsHandler = registry.Handler()
	}
	router.Mount(engine, handlers, opts)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
