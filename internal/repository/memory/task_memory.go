package memory

import (
	"context"
	"sync"
	"time"

	"filereducer/internal/model"
	"filereducer/internal/repository"
)

// TaskMemory is an in-process implementation of repository.TaskRepository.
// It is safe for concurrent use; state is lost on restart.
type TaskMemory struct {
	mu    sync.RWMutex
	tasks map[string]*model.ProcessingTask
	now   func() time.Time
}

// NewTaskMemory creates an empty TaskMemory.
func NewTaskMemory() *TaskMemory {
	return &TaskMemory{
		tasks: make(map[string]*model.ProcessingTask),
		now:   time.Now,
	}
}

var _ repository.TaskRepository = (*TaskMemory)(nil)

func (r *TaskMemory) Create(ctx context.Context, id string) (*model.ProcessingTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; ok {
		return nil, repository.ErrTaskExists
	}
	t := &model.ProcessingTask{
		ID:        id,
		State:     model.TaskStarting,
		Message:   "Task queued",
		UpdatedAt: r.now(),
	}
	r.tasks[id] = t
	return copyTask(t), nil
}

// Update refuses to move a task that already reached completed or error.
func (r *TaskMemory) Update(ctx context.Context, id string, upd model.TaskUpdate) (*model.ProcessingTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	if t.State.Terminal() {
		return nil, repository.ErrTaskTerminal
	}
	upd.Apply(t, r.now())
	return copyTask(t), nil
}

func (r *TaskMemory) Get(ctx context.Context, id string) (*model.ProcessingTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	return copyTask(t), nil
}

func (r *TaskMemory) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tasks, id)
	return nil
}

func (r *TaskMemory) List(ctx context.Context) ([]model.ProcessingTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.ProcessingTask, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, *copyTask(t))
	}
	return out, nil
}

func copyTask(t *model.ProcessingTask) *model.ProcessingTask {
	c := *t
	if t.SizeReport != nil {
		r := *t.SizeReport
		c.SizeReport = &r
	}
	return &c
}
