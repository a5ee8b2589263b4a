package model

import "time"

// TaskState is the lifecycle state of an asynchronous processing task.
type TaskState string

const (
	TaskStarting   TaskState = "starting"
	TaskProcessing TaskState = "processing"
	TaskCompleted  TaskState = "completed"
	TaskError      TaskState = "error"
)

// Terminal reports whether no further transitions are allowed from s.
func (s TaskState) Terminal() bool {
	return s == TaskCompleted || s == TaskError
}

// ProcessingTask is the status record polled by clients while a video is being compressed.
// The size report fields are flattened into the JSON object once they are known.
type ProcessingTask struct {
	ID            string    `json:"task_id"`
	State         TaskState `json:"state"`
	Progress      int       `json:"progress"`
	Message       string    `json:"message"`
	ProcessedName string    `json:"processed_name,omitempty"`
	UpdatedAt     time.Time `json:"timestamp"`
	*SizeReport
}

// TaskUpdate carries a partial change to a ProcessingTask. Nil fields are left untouched.
type TaskUpdate struct {
	State         *TaskState
	Progress      *int
	Message       *string
	ProcessedName *string
	Report        *SizeReport
}

// Apply merges u into t and stamps the update time.
func (u TaskUpdate) Apply(t *ProcessingTask, now time.Time) {
	if u.State != nil {
		t.State = *u.State
	}
	if u.Progress != nil {
		t.Progress = *u.Progress
	}
	if u.Message != nil {
		t.Message = *u.Message
	}
	if u.ProcessedName != nil {
		t.ProcessedName = *u.ProcessedName
	}
	if u.Report != nil {
		r := *u.Report
		t.SizeReport = &r
	}
	t.UpdatedAt = now
}
