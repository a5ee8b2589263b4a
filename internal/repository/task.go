package repository

import (
	"context"
	"errors"

	"filereducer/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., memory) inside this directory.

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrTaskExists   = errors.New("task already exists")
	// ErrTaskTerminal is returned when an update would move a completed or failed task.
	ErrTaskTerminal = errors.New("task is in a terminal state")
)

// TaskRepository stores the status of asynchronous processing tasks.
// Returned tasks are copies; mutating them does not affect the stored record.
type TaskRepository interface {
	// Create registers a new task in the starting state.
	Create(ctx context.Context, id string) (*model.ProcessingTask, error)

	// Update merges the non-nil fields of upd into the task and returns the result.
	Update(ctx context.Context, id string, upd model.TaskUpdate) (*model.ProcessingTask, error)

	// Get returns ErrTaskNotFound when the id is unknown or was already pruned.
	Get(ctx context.Context, id string) (*model.ProcessingTask, error)

	// Delete removes a task. It returns nil if the task did not exist.
	Delete(ctx context.Context, id string) error

	// List returns a snapshot of every stored task.
	List(ctx context.Context) ([]model.ProcessingTask, error)
}
