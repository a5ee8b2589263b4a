package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"filereducer/internal/cleanup"
	"filereducer/internal/service"
)

type cleanupResponse struct {
	Message      string `json:"message"`
	RemovedCount int    `json:"removed_count"`
	SkippedCount int    `json:"skipped_count"`
	TasksPruned  int    `json:"tasks_pruned"`
}

func newCleanupResponse(msg string, rep cleanup.Report) cleanupResponse {
	return cleanupResponse{
		Message:      msg,
		RemovedCount: len(rep.Removed),
		SkippedCount: len(rep.Skipped),
		TasksPruned:  rep.TasksPruned,
	}
}

// Cleanup runs one sweep of expired files and finished tasks.
//
// @Summary Sweep expired files
// @Tags maintenance
// @Produce json
// @Success 200 {object} cleanupResponse
// @Router /cleanup [post]
func Cleanup(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep := svc.Cleanup(c.UserContext())
		return c.JSON(newCleanupResponse("Cleanup completed", rep))
	}
}

// CleanupAll removes every temporary file that is not in use.
//
// @Summary Remove all temporary files
// @Tags maintenance
// @Produce json
// @Success 200 {object} cleanupResponse
// @Router /cleanup-all [post]
func CleanupAll(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep := svc.CleanupAll(c.UserContext())
		return c.JSON(newCleanupResponse("All files cleaned up", rep))
	}
}

type deleteFilesRequest struct {
	ProcessedFilename string `json:"processed_filename"`
}

// DeleteFiles removes a processed file and its original.
//
// @Summary Delete a processed file and its original
// @Tags maintenance
// @Accept json
// @Produce json
// @Param body body deleteFilesRequest true "File to delete"
// @Success 200 {object} cleanupResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /delete-files [post]
func DeleteFiles(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req deleteFilesRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		req.ProcessedFilename = strings.TrimSpace(req.ProcessedFilename)
		if req.ProcessedFilename == "" {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "processed_filename is required")
		}

		rep, err := svc.DeleteFiles(c.UserContext(), req.ProcessedFilename)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(newCleanupResponse("Files deleted", rep))
	}
}
