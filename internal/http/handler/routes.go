package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"filereducer/internal/service"
)

// RouteOptions tune the HTTP surface.
type RouteOptions struct {
	// UploadRateLimit is the number of upload requests allowed per client IP per minute.
	// Zero disables the limit.
	UploadRateLimit int
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc service.MediaService, opts RouteOptions) {
	app.Get("/health", HealthCheck(svc))
	app.Get("/healthz", LivenessProbe())

	uploads := []fiber.Handler{}
	if opts.UploadRateLimit > 0 {
		uploads = append(uploads, uploadLimiter(opts.UploadRateLimit))
	}

	app.Post("/upload", append(uploads, UploadFile(svc))...)
	app.Post("/upload-chunk", append(uploads, UploadChunk(svc))...)
	app.Post("/finalize-chunks", FinalizeChunks(svc))

	app.Get("/processing-status/:task_id", ProcessingStatus(svc))
	app.Get("/download/:filename", DownloadFile(svc))
	app.Get("/check-ffmpeg", CheckFFmpeg(svc))

	app.Post("/cleanup", Cleanup(svc))
	app.Post("/cleanup-all", CleanupAll(svc))
	app.Post("/delete-files", DeleteFiles(svc))
}

func uploadLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return writeError(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "Too many uploads, slow down.")
		},
	})
}

// HealthCheck reports whether the storage directories are usable.
//
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Health(c.UserContext()); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "storage unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a backward-compatible simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
