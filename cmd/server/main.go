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

	"go.uber.org/zap"

	"briefly-backend/internal/config"
	"briefly-backend/internal/database"
	"briefly-backend/internal/handlers"
	"briefly-backend/internal/logger"
	"briefly-backend/internal/middleware"
	"briefly-backend/internal/repository"
	"briefly-backend/internal/router"
	"briefly-backend/internal/services"
	"briefly-backend/internal/websocket"
	"briefly-backend/internal/worker"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("starting Briefly backend", zap.String("env", cfg.Env), zap.String("provider", cfg.AIProvider))

	ctx := context.Background()

	// ──── Step 2: Optional Redis ────
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		redisClients, err = database.NewRedisClients(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisClients.Close()
		log.Info("redis connected")
	}

	// ──── Step 3: Optional PostgreSQL + Migrations ────
	var runRepo *repository.RunRepo
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("postgres connection failed", zap.Error(err))
		}
		defer pool.Close()

		if err := database.RunMigrations(ctx, pool, cfg.MigrationsDir, log); err != nil {
			log.Fatal("database migration failed", zap.Error(err))
		}
		runRepo = repository.NewRunRepo(pool)
		log.Info("postgres connected, run history enabled")
	}

	// ──── Step 4: Generative Backend + Cache ────
	backend, closeBackend, err := services.NewBackend(cfg, log)
	if err != nil {
		log.Fatal("backend initialization failed", zap.Error(err))
	}
	defer closeBackend()

	var cache services.ResponseCache = services.NewMemoryCache()
	if cfg.CacheBackend == "redis" {
		cache = services.NewRedisCache(redisClients.Data, cfg.CachePrefix, log)
	}
	log.Info("pipeline ready", zap.String("backend", backend.Name()), zap.String("cache", cfg.CacheBackend))

	pipeline := services.NewPipeline(backend, cache, log)

	// ──── Step 5: Status Feed ────
	sessions := middleware.NewSessions(cfg.JWTSecret)
	wsHub := newHub(redisClients, sessions, log)

	var publisher services.Publisher = wsHub
	if redisClients != nil {
		publisher = services.NewRedisPublisher(redisClients.Data, log)
	}

	// ──── Step 6: Handlers ────
	var runStore handlers.RunCreator
	var runHandler *handlers.RunHandler
	if runRepo != nil {
		runStore = runRepo
		runHandler = handlers.NewRunHandler(runRepo)
	}

	distillHandler := handlers.NewDistillHandler(
		pipeline,
		runStore,
		publisher,
		services.NewFileExtractService(),
		services.NewYouTubeService(log),
		cfg.MaxUploadMB,
		log,
	)
	systemHandler := handlers.NewSystemHandler(pipeline, log)

	// ──── Step 7: Async Worker Pool ────
	var jobHandler *handlers.JobHandler
	var workerPool *worker.Pool
	if redisClients != nil {
		jobRepo := repository.NewJobRepo(redisClients.Data)

		var workerRuns worker.RunStore
		if runRepo != nil {
			workerRuns = runRepo
		}
		workerPool = worker.NewPool(redisClients.Data, pipeline, jobRepo, workerRuns, publisher, cfg.WorkerCount, log)
		workerPool.Start()
		jobHandler = handlers.NewJobHandler(jobRepo, workerPool, log)
	}

	// ──── Step 8: Start HTTP Server ────
	r := router.New(router.Deps{
		Sessions:       sessions,
		DistillHandler: distillHandler,
		RunHandler:     runHandler,
		JobHandler:     jobHandler,
		SystemHandler:  systemHandler,
		WSHub:          wsHub,
		FrontendURL:    cfg.FrontendURL,
		Logger:         log,
	})

	// Backend calls bound themselves with AI_REQUEST_TIMEOUT; leave room for two.
	writeTimeout := 2*cfg.AIRequestTimeout + 15*time.Second

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if workerPool != nil {
			if err := workerPool.Stop(ctx); err != nil {
				log.Warn("worker pool did not drain", zap.Error(err))
			}
		}
		server.Shutdown(ctx)
	}()

	log.Info("Briefly backend ready",
		zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)),
		zap.String("ws", fmt.Sprintf("ws://localhost:%s/api/v1/ws", cfg.Port)),
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}

func newHub(redisClients *database.RedisClients, sessions *middleware.Sessions, log *zap.Logger) *websocket.Hub {
	if redisClients == nil {
		return websocket.NewHub(nil, sessions, log)
	}
	return websocket.NewHub(redisClients.PubSub, sessions, log)
}
