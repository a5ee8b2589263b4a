package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"filereducer/internal/compress"
	"filereducer/internal/model"
	"filereducer/internal/storage"
)

const copiedMessage = "File type not compressible, copied as-is."

type resolvedParams struct {
	quality      int
	resizeFactor float64
	crf          int
}

// resolve applies defaults and validates ranges.
func (s *mediaService) resolve(p Params) (resolvedParams, error) {
	rp := resolvedParams{
		quality:      s.opts.DefaultQuality,
		resizeFactor: s.opts.DefaultResizeFactor,
		crf:          s.opts.DefaultCRF,
	}
	if p.Quality != nil {
		rp.quality = *p.Quality
	}
	if p.ResizeFactor != nil {
		rp.resizeFactor = *p.ResizeFactor
	}
	if p.CRF != nil {
		rp.crf = *p.CRF
	}

	switch {
	case rp.quality < 0 || rp.quality > 100:
		return rp, fmt.Errorf("%w: quality must be between 0 and 100", ErrInvalidParams)
	case rp.resizeFactor <= 0 || rp.resizeFactor > 1:
		return rp, fmt.Errorf("%w: resize_factor must be greater than 0 and at most 1", ErrInvalidParams)
	case rp.crf < 0 || rp.crf > 51:
		return rp, fmt.Errorf("%w: crf must be between 0 and 51", ErrInvalidParams)
	}
	return rp, nil
}

func (s *mediaService) Dispatch(ctx context.Context, file *model.UploadedFile, p Params) (*DispatchResult, error) {
	if file == nil {
		return nil, ErrFileRequired
	}
	rp, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	if file.Category == "" {
		file.Category = s.classifier.Category(file.Name)
	}

	ctx, span := tracer.Start(ctx, "service.Dispatch", trace.WithAttributes(
		attribute.String("file.name", file.Name),
		attribute.String("file.category", string(file.Category)),
		attribute.Int64("file.size", file.Size),
	))
	defer span.End()

	var res *DispatchResult
	switch file.Category {
	case model.CategoryImage:
		res, err = s.processImage(ctx, file, rp)
	case model.CategoryVideo:
		if s.opts.VideoAsync {
			res, err = s.startVideoTask(ctx, file, rp)
		} else {
			res, err = s.processVideoSync(ctx, file, rp)
		}
	default:
		res, err = s.copyThrough(ctx, file)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		return nil, err
	}

	span.SetAttributes(attribute.String("dispatch.kind", string(res.Kind)))
	s.metrics.Dispatched(string(file.Category), string(res.Kind))
	return res, nil
}

func (s *mediaService) processImage(ctx context.Context, file *model.UploadedFile, rp resolvedParams) (*DispatchResult, error) {
	defer s.store.Lease(file.Path)()

	dst, size, err := s.produce(file.ProcessedName(), func(path string) (int64, error) {
		return s.images.Compress(ctx, file.Path, path, compress.ImageOptions{
			Quality:      rp.quality,
			ResizeFactor: rp.resizeFactor,
		})
	})
	if err != nil {
		s.log.Warn("image compression failed, copying original", "file", file.Name, "error", err)
		if dst, size, err = s.copyOriginal(file); err != nil {
			return nil, fmt.Errorf("copy original image: %w", err)
		}
	}

	return completedResult(KindSync, file, file.Processed(dst, size, time.Now())), nil
}

// produce writes the output for name into a leased staging file and publishes it,
// so the processed name only ever refers to a complete file.
func (s *mediaService) produce(name string, write func(path string) (int64, error)) (string, int64, error) {
	staging := s.store.StagingPath(name)
	release := s.store.Lease(staging)

	size, err := write(staging)
	if err == nil {
		var dst string
		if dst, err = s.store.Publish(staging, name); err == nil {
			release()
			return dst, size, nil
		}
	}

	release()
	if rerr := s.store.Remove(staging); rerr != nil && !storage.IsNotFound(rerr) {
		s.log.Warn("failed to remove staged output", "path", staging, "error", rerr)
	}
	return "", 0, err
}

// copyOriginal publishes an unmodified copy of file under its processed name.
func (s *mediaService) copyOriginal(file *model.UploadedFile) (string, int64, error) {
	return s.produce(file.ProcessedName(), func(path string) (int64, error) {
		return s.store.CopyFile(file.Path, path)
	})
}

// completedResult reports a processed file that is ready for download.
func completedResult(kind DispatchKind, file *model.UploadedFile, out model.ProcessedFile) *DispatchResult {
	report := model.NewSizeReport(file.Size, out.Size)
	return &DispatchResult{
		Kind:                kind,
		ProcessingCompleted: true,
		ProcessedName:       out.Name,
		SizeReport:          &report,
	}
}

func (s *mediaService) copyThrough(ctx context.Context, file *model.UploadedFile) (*DispatchResult, error) {
	defer s.store.Lease(file.Path)()

	dst, size, err := s.copyOriginal(file)
	if err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	res := completedResult(KindCopy, file, file.Processed(dst, size, time.Now()))
	res.Message = copiedMessage
	return res, nil
}

// startVideoTask registers a task and queues the transcode on the worker pool.
func (s *mediaService) startVideoTask(ctx context.Context, file *model.UploadedFile, rp resolvedParams) (*DispatchResult, error) {
	id := uuid.NewString()
	if _, err := s.tasks.Create(ctx, id); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.metrics.TaskStarted()
	link := trace.LinkFromContext(ctx)
	// The original stays leased while the job waits in the queue.
	release := s.store.Lease(file.Path)
	err := s.pool.Submit(func(jobCtx context.Context) {
		defer release()
		s.runVideoTask(jobCtx, link, id, file, rp.crf)
	})
	if err != nil {
		release()
		s.metrics.TaskRejected()
		if derr := s.tasks.Delete(ctx, id); derr != nil {
			s.log.Warn("failed to delete rejected task", "task_id", id, "error", derr)
		}
		return nil, fmt.Errorf("%w: %v", ErrBusy, err)
	}

	s.log.Info("video task queued", "task_id", id, "file", file.Name, "crf", rp.crf)
	return &DispatchResult{
		Kind:          KindAsync,
		ProcessedName: file.ProcessedName(),
		TaskID:        id,
		Message:       "Video processing started",
	}, nil
}

// processVideoSync transcodes inside the request, falling back to a copy on tool problems.
func (s *mediaService) processVideoSync(ctx context.Context, file *model.UploadedFile, rp resolvedParams) (*DispatchResult, error) {
	defer s.store.Lease(file.Path)()

	dst, size, terr := s.produce(file.ProcessedName(), func(path string) (int64, error) {
		return s.transcode(ctx, file.Path, path, rp.crf, nil)
	})
	if terr != nil {
		s.log.Warn("video compression failed, copying original", "file", file.Name, "error", terr)
		var err error
		if dst, size, err = s.copyOriginal(file); err != nil {
			return nil, fmt.Errorf("copy original video: %w", err)
		}
	}
	res := completedResult(KindSync, file, file.Processed(dst, size, time.Now()))
	if terr != nil {
		res.Message = fallbackMessage(terr)
	}
	return res, nil
}
