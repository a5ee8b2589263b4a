package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"filereducer/internal/chunk"
	"filereducer/internal/service"
)

type chunkResponse struct {
	Message string `json:"message"`
	chunk.Progress
}

// UploadChunk stages one piece of a chunked upload.
//
// @Summary Upload one chunk
// @Tags chunks
// @Accept multipart/form-data
// @Produce json
// @Param chunk formData file true "Chunk bytes"
// @Param chunk_index formData int true "Zero-based chunk index"
// @Param total_chunks formData int true "Number of chunks"
// @Param upload_id formData string true "Client-chosen upload ID"
// @Success 200 {object} chunkResponse
// @Failure 400 {object} errorPayload
// @Router /upload-chunk [post]
func UploadChunk(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("chunk")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "CHUNK_REQUIRED", "No chunk provided.")
		}
		index, err := strconv.Atoi(c.FormValue("chunk_index"))
		if err != nil {
			return mapServiceError(c, chunk.ErrInvalidChunk)
		}
		total, err := strconv.Atoi(c.FormValue("total_chunks"))
		if err != nil {
			return mapServiceError(c, chunk.ErrInvalidChunk)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded chunk")
		}
		defer f.Close()

		prog, err := svc.AcceptChunk(c.UserContext(), c.FormValue("upload_id"), index, total, f)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(chunkResponse{Message: "Chunk received", Progress: prog})
	}
}

// FinalizeChunks assembles a chunked upload and compresses it.
//
// @Summary Finalize a chunked upload
// @Tags chunks
// @Accept multipart/form-data
// @Produce json
// @Param upload_id formData string true "Upload ID"
// @Param filename formData string true "Original file name"
// @Param quality formData int false "Image quality 0-100"
// @Param resize_factor formData number false "Image scale factor (0, 1]"
// @Param crf formData int false "Video CRF 0-51"
// @Success 200 {object} service.DispatchResult
// @Success 202 {object} service.DispatchResult
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /finalize-chunks [post]
func FinalizeChunks(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := parseParams(c)
		if err != nil {
			return mapServiceError(c, err)
		}
		res, err := svc.FinalizeChunks(c.UserContext(), c.FormValue("upload_id"), c.FormValue("filename"), p)
		if err != nil {
			return mapServiceError(c, err)
		}
		return writeDispatch(c, res)
	}
}
