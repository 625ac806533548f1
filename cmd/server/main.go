package main

import (
	"context"
	"log"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/mywallet/backend/api/handler"
	"github.com/mywallet/backend/internal/config"
	"github.com/mywallet/backend/internal/infrastructure/buffer"
	"github.com/mywallet/backend/internal/infrastructure/monitor"
	pgInfra "github.com/mywallet/backend/internal/infrastructure/postgres"
	redisInfra "github.com/mywallet/backend/internal/infrastructure/redis"
	"github.com/mywallet/backend/internal/middleware"
	"github.com/mywallet/backend/internal/router"
	"github.com/mywallet/backend/internal/services"
	"github.com/mywallet/backend/internal/services/lifecycle"
	"github.com/mywallet/backend/internal/services/presence"
	"github.com/mywallet/backend/pkg/clock"
	"github.com/mywallet/backend/pkg/httpcontext"
	"github.com/mywallet/backend/pkg/logger"
	"github.com/mywallet/backend/repository"
	memoryRepo "github.com/mywallet/backend/repository/memory"
	"github.com/mywallet/backend/repository/postgres"
	redisRepo "github.com/mywallet/backend/repository/redis"
	authUC "github.com/mywallet/backend/usecase/auth"
	ledgerUC "github.com/mywallet/backend/usecase/ledger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	sysClock := clock.System{}

	var redisClient *redislib.Client
	var sessionStore repository.SessionStore
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		redisClient, err = redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		sessionStore = redisRepo.NewSessionStore(redisClient, sysClock)
	default:
		sessionStore = memoryRepo.NewSessionStore(sysClock)
	}

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "entries")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		entryRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	sweeper := presence.NewSweeper(sessionStore, presence.Config{
		TTL:    cfg.Session.TTL,
		Period: cfg.Session.SweepInterval,
	}, zapLogger)
	sweeper.Start()
	manager.Register("presence_sweeper", func(ctx context.Context) error {
		sweeper.Stop()
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	authUseCase := authUC.New(userRepo, sessionStore, zapLogger)
	ledgerUseCase := ledgerUC.New(userRepo, entryRepo, bufferBridge, sysClock, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Entry:  apiHandler.NewEntryHandler(ledgerUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
