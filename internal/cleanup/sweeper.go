package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"filereducer/internal/metrics"
	"filereducer/internal/repository"
)

const sweepSource = "sweep"

// Sweeper periodically removes expired files, abandoned chunk sets and
// finished task records.
type Sweeper struct {
	dirs     Dirs
	files    Remover
	tasks    repository.TaskRepository
	policy   Thresholds
	interval time.Duration
	log      *slog.Logger
	metrics  *metrics.Recorder

	passMu  sync.Mutex
	mu      sync.Mutex
	started bool
	done    chan struct{}
}

// NewSweeper creates a Sweeper. Call Start to run it periodically.
func NewSweeper(dirs Dirs, files Remover, tasks repository.TaskRepository, policy Thresholds, interval time.Duration, log *slog.Logger, rec *metrics.Recorder) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{
		dirs:     dirs,
		files:    files,
		tasks:    tasks,
		policy:   policy,
		interval: interval,
		log:      log.With("component", "sweeper"),
		metrics:  rec,
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop in a background goroutine. It runs one pass
// immediately and then one per interval until ctx is canceled.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.log.Info("sweeper started", "interval", s.interval, "regular", s.policy.Regular, "urgent", s.policy.Urgent)

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.Sweep(ctx, time.Now())

		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx, time.Now())
			case <-ctx.Done():
				s.log.Info("sweeper stopping")
				return
			}
		}
	}()
}

// Wait blocks until the sweep loop has exited. It returns immediately if Start was never called.
func (s *Sweeper) Wait() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}

// Sweep runs one cleanup pass as of now. Running it again with no new files
// removes nothing. Passes are serialized.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) Report {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	var rep Report
	for _, dir := range []string{s.dirs.Upload, s.dirs.Processed} {
		s.sweepFiles(ctx, dir, now, &rep)
	}
	s.sweepChunks(ctx, now, &rep)
	rep.TasksPruned = s.pruneTasks(ctx, now)

	record(s.metrics, sweepSource, rep)
	s.log.Debug("sweep finished",
		"removed", len(rep.Removed),
		"skipped", len(rep.Skipped),
		"tasks_pruned", rep.TasksPruned,
	)
	return rep
}

func (s *Sweeper) sweepFiles(ctx context.Context, dir string, now time.Time, rep *Report) {
	if dir == "" {
		return
	}
	infos, err := regularFiles(dir)
	if err != nil {
		s.log.Warn("failed to list directory", "dir", dir, "error", err)
		return
	}
	for _, info := range infos {
		if ctx.Err() != nil {
			return
		}
		reason, expired := s.policy.Classify(info.ModTime(), now)
		if !expired {
			continue
		}
		path := filepath.Join(dir, info.Name())
		if removeFile(s.log, sweepSource, rep, path, s.files.Remove) == outcomeRemoved {
			s.log.Debug("expired file removed", "path", path, "reason", reason)
		}
	}
}

// sweepChunks removes whole chunk sets whose directory has not changed for ChunkThreshold.
func (s *Sweeper) sweepChunks(ctx context.Context, now time.Time, rep *Report) {
	if s.dirs.Chunk == "" {
		return
	}
	entries, err := os.ReadDir(s.dirs.Chunk)
	if err != nil {
		s.log.Warn("failed to list chunk directory", "dir", s.dirs.Chunk, "error", err)
		return
	}
	threshold := s.policy.ChunkThreshold()
	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}
		info, err := e.Info()
		if err != nil || !IsExpired(info.ModTime(), now, threshold) {
			continue
		}
		removeFile(s.log, sweepSource, rep, filepath.Join(s.dirs.Chunk, e.Name()), s.files.RemoveAll)
	}
}

func (s *Sweeper) pruneTasks(ctx context.Context, now time.Time) int {
	if s.tasks == nil {
		return 0
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		s.log.Warn("failed to list tasks", "error", err)
		return 0
	}
	var pruned int
	for _, t := range tasks {
		if !t.State.Terminal() || !IsExpired(t.UpdatedAt, now, s.policy.Regular) {
			continue
		}
		if err := s.tasks.Delete(ctx, t.ID); err != nil {
			s.log.Warn("failed to prune task", "task_id", t.ID, "error", err)
			continue
		}
		pruned++
		s.log.Info("pruned task status", "task_id", t.ID, "state", t.State)
	}
	return pruned
}
