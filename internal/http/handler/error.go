package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"filereducer/internal/chunk"
	"filereducer/internal/http/middleware"
	"filereducer/internal/repository"
	"filereducer/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_PARAMS", "FILE_NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// mapServiceError translates service and domain errors into HTTP responses.
// Validation and not-found errors carry their own message; anything else is
// logged and reported as an internal error.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrFileRequired):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "No file provided.")
	case errors.Is(err, service.ErrUnsupportedFileType):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "File type not allowed.")
	case errors.Is(err, service.ErrInvalidParams):
		return writeError(c, fiber.StatusBadRequest, "INVALID_PARAMS", err.Error())
	case errors.Is(err, service.ErrInvalidFilename):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "Invalid file name.")
	case errors.Is(err, chunk.ErrInvalidUploadID):
		return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD_ID", "Missing or invalid upload_id.")
	case errors.Is(err, chunk.ErrInvalidChunk):
		return writeError(c, fiber.StatusBadRequest, "INVALID_CHUNK", "Invalid chunk_index or total_chunks.")
	case errors.Is(err, chunk.ErrIncompleteUpload):
		return writeError(c, fiber.StatusBadRequest, "INCOMPLETE_UPLOAD", err.Error())
	case errors.Is(err, chunk.ErrNoChunksFound):
		return writeError(c, fiber.StatusNotFound, "NO_CHUNKS_FOUND", "No chunks found for this upload.")
	case errors.Is(err, repository.ErrTaskNotFound):
		return writeError(c, fiber.StatusNotFound, "TASK_NOT_FOUND", "Task not found")
	case errors.Is(err, service.ErrFileNotFound):
		return writeError(c, fiber.StatusNotFound, "FILE_NOT_FOUND", "File not found or has been deleted.")
	case errors.Is(err, service.ErrBusy):
		return writeError(c, fiber.StatusServiceUnavailable, "BUSY", "Video processing queue is full, try again later.")
	default:
		slog.Error("request failed", "request_id", requestIDFromCtx(c), "path", c.Path(), "error", err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "file exceeds the maximum upload size")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", "too many requests")
		case fiber.StatusServiceUnavailable:
			return writeError(c, status, "SERVICE_UNAVAILABLE", "service unavailable")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
