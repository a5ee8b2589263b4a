package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the domain metrics for file cleanup and processing tasks.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	reg           prometheus.Registerer
	filesRemoved  *prometheus.CounterVec
	filesSkipped  *prometheus.CounterVec
	tasksFinished *prometheus.CounterVec
	activeTasks   prometheus.Gauge
	dispatched    *prometheus.CounterVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		reg: reg,
		filesRemoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filereducer_files_removed_total",
				Help: "Temporary files removed, by cleanup source.",
			},
			[]string{"source"},
		),
		filesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filereducer_files_skipped_total",
				Help: "Temporary files left in place because they were in use, by cleanup source.",
			},
			[]string{"source"},
		),
		tasksFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filereducer_tasks_finished_total",
				Help: "Video tasks that reached a terminal state.",
			},
			[]string{"state"},
		),
		activeTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "filereducer_tasks_active",
			Help: "Video tasks queued or running.",
		}),
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filereducer_dispatch_total",
				Help: "Files dispatched for processing, by category and path.",
			},
			[]string{"category", "kind"},
		),
	}

	for _, c := range []prometheus.Collector{r.filesRemoved, r.filesSkipped, r.tasksFinished, r.activeTasks, r.dispatched} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// WatchQueue exports depth as the filereducer_queue_depth gauge for the named queue.
func (r *Recorder) WatchQueue(queue string, depth func() int) error {
	if r == nil {
		return nil
	}
	return r.reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "filereducer_queue_depth",
			Help:        "Items waiting in an internal queue.",
			ConstLabels: prometheus.Labels{"queue": queue},
		},
		func() float64 { return float64(depth()) },
	))
}

func (r *Recorder) FilesRemoved(source string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.filesRemoved.WithLabelValues(source).Add(float64(n))
}

func (r *Recorder) FilesSkipped(source string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.filesSkipped.WithLabelValues(source).Add(float64(n))
}

func (r *Recorder) TaskStarted() {
	if r == nil {
		return
	}
	r.activeTasks.Inc()
}

// TaskRejected undoes TaskStarted for a task that never reached a worker.
func (r *Recorder) TaskRejected() {
	if r == nil {
		return
	}
	r.activeTasks.Dec()
}

func (r *Recorder) TaskFinished(state string) {
	if r == nil {
		return
	}
	r.activeTasks.Dec()
	r.tasksFinished.WithLabelValues(state).Inc()
}

func (r *Recorder) Dispatched(category, kind string) {
	if r == nil {
		return
	}
	r.dispatched.WithLabelValues(category, kind).Inc()
}
