package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"filereducer/internal/service"
)

// parseParams reads the optional compression parameters from the form.
func parseParams(c *fiber.Ctx) (service.Params, error) {
	var p service.Params
	if v := c.FormValue("quality"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: quality must be an integer", service.ErrInvalidParams)
		}
		p.Quality = &q
	}
	if v := c.FormValue("resize_factor"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("%w: resize_factor must be a number", service.ErrInvalidParams)
		}
		p.ResizeFactor = &f
	}
	if v := c.FormValue("crf"); v != "" {
		crf, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: crf must be an integer", service.ErrInvalidParams)
		}
		p.CRF = &crf
	}
	return p, nil
}

// writeDispatch renders an upload result. Async results answer 202.
func writeDispatch(c *fiber.Ctx, res *service.DispatchResult) error {
	status := fiber.StatusOK
	if res.Kind == service.KindAsync {
		status = fiber.StatusAccepted
	}
	return c.Status(status).JSON(res)
}

// UploadFile accepts a single file and compresses it.
//
// @Summary Upload a file for compression
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to compress"
// @Param quality formData int false "Image quality 0-100"
// @Param resize_factor formData number false "Image scale factor (0, 1]"
// @Param crf formData int false "Video CRF 0-51"
// @Success 200 {object} service.DispatchResult
// @Success 202 {object} service.DispatchResult
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /upload [post]
func UploadFile(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil || fh.Filename == "" {
			return mapServiceError(c, service.ErrFileRequired)
		}
		p, err := parseParams(c)
		if err != nil {
			return mapServiceError(c, err)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.Upload(c.UserContext(), f, fh.Filename, p)
		if err != nil {
			return mapServiceError(c, err)
		}
		return writeDispatch(c, res)
	}
}

// ProcessingStatus returns the progress of a video task.
//
// @Summary Video task status
// @Tags tasks
// @Produce json
// @Param task_id path string true "Task ID"
// @Success 200 {object} model.ProcessingTask
// @Failure 404 {object} errorPayload
// @Router /processing-status/{task_id} [get]
func ProcessingStatus(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		task, err := svc.Status(c.UserContext(), c.Params("task_id"))
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(task)
	}
}

// DownloadFile streams a processed file and schedules it for deletion.
//
// @Summary Download a processed file
// @Tags files
// @Produce octet-stream
// @Param filename path string true "Processed file name"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /download/{filename} [get]
func DownloadFile(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("filename")
		f, err := svc.OpenDownload(c.UserContext(), name)
		if err != nil {
			return mapServiceError(c, err)
		}
		c.Attachment(name)
		// fasthttp closes the stream once the body is written, which releases the lease.
		c.Response().SetBodyStream(f, int(f.Size()))
		return nil
	}
}

// CheckFFmpeg reports whether video compression is available.
//
// @Summary Check ffmpeg availability
// @Tags health
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /check-ffmpeg [get]
func CheckFFmpeg(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ffmpeg_installed": svc.FFmpegInstalled(c.UserContext())})
	}
}
