package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"filereducer/internal/chunk"
	"filereducer/internal/cleanup"
	"filereducer/internal/compress"
	"filereducer/internal/metrics"
	"filereducer/internal/model"
	"filereducer/internal/repository"
	"filereducer/internal/storage"
	"filereducer/internal/worker"
)

var (
	ErrFileRequired        = errors.New("file is required")
	ErrUnsupportedFileType = errors.New("file type not allowed")
	ErrInvalidParams       = errors.New("invalid compression parameters")
	ErrInvalidFilename     = errors.New("invalid file name")
	ErrFileNotFound        = errors.New("file not found or has been deleted")
	// ErrBusy is returned when a video cannot be queued for processing.
	ErrBusy = errors.New("video processing queue is full")
)

var tracer = otel.Tracer("filereducer/internal/service")

// Params are the optional compression parameters supplied by a client.
// Nil fields take the configured defaults.
type Params struct {
	Quality      *int
	ResizeFactor *float64
	CRF          *int
}

// DispatchKind tells which processing path produced a DispatchResult.
type DispatchKind string

const (
	KindSync  DispatchKind = "sync"
	KindAsync DispatchKind = "async"
	KindCopy  DispatchKind = "copy"
)

// DispatchResult is returned to the client after an upload. For the async
// path only TaskID and ProcessedName are known; the size report arrives with
// the task status.
type DispatchResult struct {
	Kind                DispatchKind `json:"-"`
	ProcessingCompleted bool         `json:"processing_completed"`
	ProcessedName       string       `json:"processed_name"`
	TaskID              string       `json:"task_id,omitempty"`
	Message             string       `json:"message,omitempty"`
	*model.SizeReport
}

// MediaService defines the use cases of the file reducer.
type MediaService interface {
	// Upload stores r as a new upload and dispatches it for processing.
	Upload(ctx context.Context, r io.Reader, filename string, p Params) (*DispatchResult, error)

	// Dispatch routes a stored upload to the image, video or copy path.
	Dispatch(ctx context.Context, file *model.UploadedFile, p Params) (*DispatchResult, error)

	// Status returns the progress of an asynchronous video task.
	Status(ctx context.Context, taskID string) (*model.ProcessingTask, error)

	// OpenDownload opens a processed file for streaming and schedules it and its
	// original for deletion. The caller must Close the returned file.
	OpenDownload(ctx context.Context, filename string) (*storage.LeasedFile, error)

	// DeleteFiles removes a processed file and the upload it was derived from.
	DeleteFiles(ctx context.Context, processedName string) (cleanup.Report, error)

	// Cleanup runs one sweep pass.
	Cleanup(ctx context.Context) cleanup.Report

	// CleanupAll removes every upload and processed file that is not in use.
	CleanupAll(ctx context.Context) cleanup.Report

	// AcceptChunk stages one chunk of a chunked upload.
	AcceptChunk(ctx context.Context, uploadID string, index, total int, r io.Reader) (chunk.Progress, error)

	// FinalizeChunks assembles a chunked upload and dispatches it like a regular upload.
	FinalizeChunks(ctx context.Context, uploadID, filename string, p Params) (*DispatchResult, error)

	// FFmpegInstalled reports whether video compression is possible.
	FFmpegInstalled(ctx context.Context) bool

	// Health checks that the storage directories are usable.
	Health(ctx context.Context) error
}

// ChunkStore stages and reassembles chunked uploads.
type ChunkStore interface {
	Accept(ctx context.Context, uploadID string, index, total int, r io.Reader) (chunk.Progress, error)
	Status(uploadID string) (chunk.Progress, error)
	Finalize(ctx context.Context, uploadID, filename string, sink chunk.Sink) (*model.UploadedFile, error)
}

// JobSubmitter queues background jobs.
type JobSubmitter interface {
	Submit(job worker.Job) error
}

// PairScheduler schedules deletion of a consumed processed/original pair.
type PairScheduler interface {
	SchedulePair(processedPath, originalPath string) bool
}

// Sweeper runs a cleanup pass on demand.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) cleanup.Report
}

// Purger removes files regardless of age.
type Purger interface {
	PurgeAll(ctx context.Context) cleanup.Report
	DeletePair(ctx context.Context, processedPath, originalPath string) cleanup.Report
}

// Options are the processing defaults.
type Options struct {
	DefaultQuality      int
	DefaultResizeFactor float64
	DefaultCRF          int
	// VideoAsync runs video jobs on the worker pool; otherwise they run inside the request.
	VideoAsync bool
}

// Deps are the collaborators of the media service.
type Deps struct {
	Store      storage.Store
	Tasks      repository.TaskRepository
	Chunks     ChunkStore
	Images     compress.ImageCompressor
	Videos     compress.VideoCompressor
	Pool       JobSubmitter
	Scheduler  PairScheduler
	Sweeper    Sweeper
	Purger     Purger
	Classifier *Classifier
	Options    Options
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// mediaService is a concrete implementation of MediaService.
type mediaService struct {
	store      storage.Store
	tasks      repository.TaskRepository
	chunks     ChunkStore
	images     compress.ImageCompressor
	videos     compress.VideoCompressor
	pool       JobSubmitter
	scheduler  PairScheduler
	sweeper    Sweeper
	purger     Purger
	classifier *Classifier
	opts       Options
	log        *slog.Logger
	metrics    *metrics.Recorder
}

// NewMediaService constructs a new MediaService.
func NewMediaService(d Deps) MediaService {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	classifier := d.Classifier
	if classifier == nil {
		classifier = NewClassifier(nil, nil, nil)
	}
	return &mediaService{
		store:      d.Store,
		tasks:      d.Tasks,
		chunks:     d.Chunks,
		images:     d.Images,
		videos:     d.Videos,
		pool:       d.Pool,
		scheduler:  d.Scheduler,
		sweeper:    d.Sweeper,
		purger:     d.Purger,
		classifier: classifier,
		opts:       d.Options,
		log:        log.With("component", "media_service"),
		metrics:    d.Metrics,
	}
}

func (s *mediaService) Upload(ctx context.Context, r io.Reader, filename string, p Params) (*DispatchResult, error) {
	if r == nil || filename == "" {
		return nil, ErrFileRequired
	}
	if !s.classifier.Allowed(filename) {
		return nil, ErrUnsupportedFileType
	}
	if _, err := s.resolve(p); err != nil {
		return nil, err
	}

	file, err := s.store.SaveUpload(ctx, r, filename)
	if err != nil {
		return nil, err
	}
	s.log.Info("upload stored", "file", file.Name, "original_name", filename, "size", file.Size)
	return s.Dispatch(ctx, file, p)
}

func (s *mediaService) Status(ctx context.Context, taskID string) (*model.ProcessingTask, error) {
	if taskID == "" {
		return nil, repository.ErrTaskNotFound
	}
	return s.tasks.Get(ctx, taskID)
}

func (s *mediaService) FFmpegInstalled(ctx context.Context) bool {
	return s.videos.Available(ctx)
}

func (s *mediaService) Health(ctx context.Context) error {
	return s.store.Check()
}
