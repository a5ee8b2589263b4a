package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSizeReport(t *testing.T) {
	tests := []struct {
		name     string
		original int64
		reduced  int64
		want     SizeReport
	}{
		{
			name:     "sixty percent smaller",
			original: 1000,
			reduced:  400,
			want:     SizeReport{OriginalSize: 1000, ReducedSize: 400, SizeReduction: 600, PercentageReduction: 60.0},
		},
		{
			name:     "empty original",
			original: 0,
			reduced:  0,
			want:     SizeReport{},
		},
		{
			name:     "output grew",
			original: 100,
			reduced:  150,
			want:     SizeReport{OriginalSize: 100, ReducedSize: 150, SizeReduction: -50, PercentageReduction: -50.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSizeReport(tt.original, tt.reduced))
		})
	}
}

func TestTaskUpdate_Apply(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	task := &ProcessingTask{ID: "abc", State: TaskStarting, Message: "queued"}

	progress := 40
	TaskUpdate{Progress: &progress}.Apply(task, now)

	assert.Equal(t, TaskStarting, task.State)
	assert.Equal(t, 40, task.Progress)
	assert.Equal(t, "queued", task.Message)
	assert.Equal(t, now, task.UpdatedAt)

	state := TaskCompleted
	report := NewSizeReport(10, 5)
	TaskUpdate{State: &state, Report: &report}.Apply(task, now.Add(time.Second))

	assert.Equal(t, TaskCompleted, task.State)
	assert.Equal(t, 40, task.Progress)
	require.NotNil(t, task.SizeReport)
	assert.Equal(t, int64(5), task.SizeReduction)
}

func TestProcessingTask_JSON(t *testing.T) {
	task := ProcessingTask{ID: "abc", State: TaskProcessing, Progress: 10}
	b, err := json.Marshal(task)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "processing", m["state"])
	assert.NotContains(t, m, "original_size")

	report := NewSizeReport(1000, 400)
	task.SizeReport = &report
	b, err = json.Marshal(task)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, 60.0, m["percentage_reduction"])
}

func TestTaskState_Terminal(t *testing.T) {
	assert.False(t, TaskStarting.Terminal())
	assert.False(t, TaskProcessing.Terminal())
	assert.True(t, TaskCompleted.Terminal())
	assert.True(t, TaskError.Terminal())
}

func TestUploadedFile_ProcessedName(t *testing.T) {
	f := UploadedFile{Name: "clip_1a2b3c4d.mp4"}
	assert.Equal(t, "reduced_clip_1a2b3c4d.mp4", f.ProcessedName())
}

func TestUploadedFile_Processed(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f := UploadedFile{Name: "photo_1a2b3c4d.jpg", Size: 2000}

	out := f.Processed("/processed/reduced_photo_1a2b3c4d.jpg", 800, at)
	assert.Equal(t, "reduced_photo_1a2b3c4d.jpg", out.Name)
	assert.Equal(t, int64(800), out.Size)
	assert.Equal(t, at, out.CreatedAt)
}
