package cleanup

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"filereducer/internal/metrics"
)

const schedulerSource = "scheduler"

type pendingDeletion struct {
	paths []string
	due   time.Time
}

// Scheduler deletes consumed file pairs after a grace period.
//
// Scheduling a pair back-dates both files so the next sweep treats them as
// urgent, then queues a direct deletion. The grace period is fixed, so the
// queue is ordered by due time and a single goroutine serves it. Leased
// files are skipped and left for the sweeper.
type Scheduler struct {
	files   Remover
	policy  Thresholds
	grace   time.Duration
	queue   chan pendingDeletion
	log     *slog.Logger
	metrics *metrics.Recorder

	mu      sync.RWMutex
	closed  bool
	started bool
	stop    chan struct{}
	done    chan struct{}
}

// NewScheduler creates a Scheduler with room for queueSize pending pairs.
func NewScheduler(files Remover, policy Thresholds, grace time.Duration, queueSize int, log *slog.Logger, rec *metrics.Recorder) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Scheduler{
		files:   files,
		policy:  policy,
		grace:   grace,
		queue:   make(chan pendingDeletion, queueSize),
		log:     log.With("component", "deletion_scheduler"),
		metrics: rec,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the deletion loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	go s.loop()
}

// SchedulePair back-dates the processed file and its original, then queues
// them for deletion after the grace period. It never blocks. It returns false
// if the pair could not be queued; the back-dated files are still picked up
// by the sweeper.
func (s *Scheduler) SchedulePair(processedPath, originalPath string) bool {
	now := time.Now()
	mtime := s.policy.Backdate(now)
	paths := make([]string, 0, 2)
	for _, p := range []string{processedPath, originalPath} {
		if p == "" {
			continue
		}
		paths = append(paths, p)
		if err := os.Chtimes(p, now, mtime); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to back-date file", "path", p, "error", err)
		}
	}
	if len(paths) == 0 {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.queue <- pendingDeletion{paths: paths, due: now.Add(s.grace)}:
		return true
	default:
		s.log.Warn("deletion queue full, leaving files to sweeper", "paths", paths)
		return false
	}
}

// Pending returns the number of queued pairs.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Stop refuses new pairs, attempts every queued deletion immediately and
// waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	started := s.started
	close(s.stop)
	s.mu.Unlock()

	if !started {
		s.drain()
		close(s.done)
		return
	}
	<-s.done
}

func (s *Scheduler) loop() {
	defer close(s.done)
	for {
		select {
		case p := <-s.queue:
			s.waitUntil(p.due)
			s.delete(p)
		case <-s.stop:
			s.drain()
			return
		}
	}
}

// waitUntil sleeps until due or until Stop is called.
func (s *Scheduler) waitUntil(due time.Time) {
	d := time.Until(due)
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.stop:
	}
}

func (s *Scheduler) drain() {
	for {
		select {
		case p := <-s.queue:
			s.delete(p)
		default:
			return
		}
	}
}

func (s *Scheduler) delete(p pendingDeletion) {
	var rep Report
	for _, path := range p.paths {
		removeFile(s.log, schedulerSource, &rep, path, s.files.Remove)
	}
	record(s.metrics, schedulerSource, rep)
}
