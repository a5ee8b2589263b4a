package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"filereducer/docs"
	"filereducer/internal/chunk"
	"filereducer/internal/cleanup"
	"filereducer/internal/compress"
	"filereducer/internal/config"
	handlers "filereducer/internal/http/handler"
	"filereducer/internal/http/middleware"
	"filereducer/internal/logging"
	"filereducer/internal/metrics"
	tracing "filereducer/internal/otel"
	"filereducer/internal/repository/memory"
	"filereducer/internal/service"
	"filereducer/internal/storage"
	"filereducer/internal/worker"
)

// @title File Reducer API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	logger := logging.New(os.Stdout, cfg.LogLevel, loc)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return err
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	// Local storage shared by uploads, cleanup and chunk reassembly through one lease table
	leases := storage.NewLeases()
	store := storage.NewFileStore(cfg.Storage.UploadDir, cfg.Storage.ProcessedDir, cfg.Storage.ChunkDir, leases)
	if err := store.EnsureDirs(); err != nil {
		return err
	}

	tasks := memory.NewTaskMemory()
	pool := worker.NewPool(cfg.Processing.WorkerCount, cfg.Processing.WorkerQueueSize, logger)

	policy := cleanup.Thresholds{Regular: cfg.Cleanup.Regular, Urgent: cfg.Cleanup.Urgent}
	dirs := cleanup.Dirs{Upload: store.UploadDir(), Processed: store.ProcessedDir(), Chunk: store.ChunkDir()}
	scheduler := cleanup.NewScheduler(store, policy, cfg.Cleanup.DeletionGrace, cfg.Cleanup.DeletionQueue, logger, rec)
	sweeper := cleanup.NewSweeper(dirs, store, tasks, policy, cfg.Cleanup.SweepEvery, logger, rec)
	purger := cleanup.NewPurger(dirs, store, logger, rec)
	if err := rec.WatchQueue("jobs", pool.Queued); err != nil {
		return err
	}
	if err := rec.WatchQueue("deletions", scheduler.Pending); err != nil {
		return err
	}

	svc := service.NewMediaService(service.Deps{
		Store:      store,
		Tasks:      tasks,
		Chunks:     chunk.NewStore(cfg.Storage.ChunkDir, leases, logger),
		Images:     compress.NewImageCodec(logger),
		Videos:     compress.NewFFmpeg(cfg.Processing.FFmpegPath, cfg.Processing.FFprobePath, cfg.Processing.FFmpegPreset, logger),
		Pool:       pool,
		Scheduler:  scheduler,
		Sweeper:    sweeper,
		Purger:     purger,
		Classifier: service.NewClassifier(cfg.Extensions.Image, cfg.Extensions.Video, cfg.Extensions.Document),
		Options: service.Options{
			DefaultQuality:      cfg.Processing.DefaultQuality,
			DefaultResizeFactor: cfg.Processing.DefaultResizeFactor,
			DefaultCRF:          cfg.Processing.DefaultCRF,
			VideoAsync:          cfg.Processing.VideoAsync,
		},
		Logger:  logger,
		Metrics: rec,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             int(cfg.Storage.MaxUploadSize),
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(recover.New())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(cfg.Location()))
	app.Use(promMiddleware.Handler())
	app.Use(otelfiber.Middleware())

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, svc, handlers.RouteOptions{UploadRateLimit: cfg.UploadRateLimit})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	g, gctx := errgroup.WithContext(ctx)

	scheduler.Start()
	sweeper.Start(gctx)

	g.Go(func() error {
		addr := ":" + cfg.Port
		logger.Info("server listening", "addr", addr)
		return app.Listen(addr)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		sweeper.Wait()
		if err := pool.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		// Pending pair deletions run now instead of waiting out their grace period.
		scheduler.Stop()
		if err := shutdownTracing(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
