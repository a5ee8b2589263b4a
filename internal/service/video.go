package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"filereducer/internal/compress"
	"filereducer/internal/model"
)

// transcode runs the video compressor from src to dst and returns the size of dst.
// onProgress may be nil.
func (s *mediaService) transcode(ctx context.Context, src, dst string, crf int, onProgress func(percent int)) (int64, error) {
	if !s.videos.Available(ctx) {
		return 0, compress.ErrToolUnavailable
	}
	duration, err := s.videos.Probe(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("probe duration: %w", err)
	}

	var progress compress.ProgressFunc
	if onProgress != nil {
		progress = func(elapsed time.Duration) {
			onProgress(compress.ProgressPercent(elapsed, duration))
		}
	}
	if err := s.videos.Compress(ctx, src, dst, crf, progress); err != nil {
		return 0, err
	}
	return s.store.Size(dst)
}

func fallbackMessage(err error) string {
	if errors.Is(err, compress.ErrToolUnavailable) {
		return "FFmpeg is not available, original file copied."
	}
	return "Video compression failed, original file copied."
}

// runVideoTask is the worker body of an asynchronous video job.
// The caller holds the lease on the original for the whole job.
func (s *mediaService) runVideoTask(ctx context.Context, link trace.Link, id string, file *model.UploadedFile, crf int) {
	ctx, span := tracer.Start(ctx, "service.VideoTask", trace.WithLinks(link), trace.WithAttributes(
		attribute.String("task.id", id),
		attribute.String("file.name", file.Name),
		attribute.Int("video.crf", crf),
	))
	defer span.End()

	log := s.log.With("task_id", id, "file", file.Name)
	s.updateTask(ctx, log, id, model.TaskUpdate{
		State:   ptr(model.TaskProcessing),
		Message: ptr("Analyzing video..."),
	})

	last := 0
	_, size, err := s.produce(file.ProcessedName(), func(path string) (int64, error) {
		return s.transcode(ctx, file.Path, path, crf, func(percent int) {
			if percent <= last || percent >= 100 {
				return
			}
			last = percent
			s.updateTask(ctx, log, id, model.TaskUpdate{
				Progress: ptr(percent),
				Message:  ptr(fmt.Sprintf("Compressing video... %d%%", percent)),
			})
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "video compression failed")
		s.failVideo(ctx, log, id, file, err)
		return
	}

	report := model.NewSizeReport(file.Size, size)
	s.updateTask(ctx, log, id, model.TaskUpdate{
		State:         ptr(model.TaskCompleted),
		Progress:      ptr(100),
		Message:       ptr("Video compression completed"),
		ProcessedName: ptr(file.ProcessedName()),
		Report:        &report,
	})
	s.metrics.TaskFinished(string(model.TaskCompleted))
	log.Info("video task completed", "original_size", report.OriginalSize, "reduced_size", report.ReducedSize)
}

// failVideo publishes a copy of the original and marks the task as failed.
func (s *mediaService) failVideo(ctx context.Context, log *slog.Logger, id string, file *model.UploadedFile, cause error) {
	log.Warn("video compression failed, copying original", "error", cause)

	upd := model.TaskUpdate{
		State:   ptr(model.TaskError),
		Message: ptr(fallbackMessage(cause)),
	}
	_, size, err := s.copyOriginal(file)
	if err != nil {
		log.Error("failed to copy original video", "error", err)
		upd.Message = ptr("Video compression failed and the original could not be copied.")
	} else {
		report := model.NewSizeReport(file.Size, size)
		upd.Report = &report
		upd.ProcessedName = ptr(file.ProcessedName())
	}
	s.updateTask(ctx, log, id, upd)
	s.metrics.TaskFinished(string(model.TaskError))
}

func (s *mediaService) updateTask(ctx context.Context, log *slog.Logger, id string, upd model.TaskUpdate) {
	if _, err := s.tasks.Update(ctx, id, upd); err != nil {
		log.Warn("failed to update task", "error", err)
	}
}

func ptr[T any](v T) *T { return &v }
