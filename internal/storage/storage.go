package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"filereducer/internal/model"
)

// Package storage keeps uploaded and processed files on local disk.
// Every path handed out by a Store can be leased; a leased path is never removed.

var (
	// ErrInUse is returned when a removal targets a path that is currently leased.
	ErrInUse = errors.New("file is in use")
	// ErrInvalidName is returned for names that are empty or would escape their directory.
	ErrInvalidName = errors.New("invalid file name")
)

// Store is the file storage used by the processing pipeline.
type Store interface {
	// EnsureDirs creates the upload, processed and chunk directories if missing.
	EnsureDirs() error
	// Check verifies the directories exist and are writable.
	Check() error
	// SaveUpload streams r into a new upload named after originalName plus a random suffix.
	SaveUpload(ctx context.Context, r io.Reader, originalName string) (*model.UploadedFile, error)
	UploadPath(name string) string
	ProcessedPath(name string) string
	// StagingPath returns a fresh path in the processed directory for writing the
	// output that will be published as name. It keeps name's extension.
	StagingPath(name string) string
	// Publish renames a staged file to its processed name and returns the final path.
	Publish(stagingPath, name string) (string, error)
	// CopyFile copies src to dst and returns the number of bytes written.
	CopyFile(src, dst string) (int64, error)
	// Size returns the size of the file at path.
	Size(path string) (int64, error)
	// Lease marks path as in use until the returned release func is called.
	Lease(path string) (release func())
	// OpenProcessed opens a published processed file for reading. The file stays leased until closed.
	OpenProcessed(name string) (*LeasedFile, error)
	// Remove deletes path unless it is leased.
	Remove(path string) error
}

// LeasedFile is an open file that holds a lease on its path until Close.
type LeasedFile struct {
	*os.File
	size    int64
	release func()
}

// Size is the file size observed when it was opened.
func (f *LeasedFile) Size() int64 {
	return f.size
}

// Close closes the file and releases its lease. It is safe to call more than once.
func (f *LeasedFile) Close() error {
	err := f.File.Close()
	f.release()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

// IsLocked reports whether err means a file could not be removed because something holds it.
func IsLocked(err error) bool {
	return errors.Is(err, ErrInUse) || errors.Is(err, fs.ErrPermission)
}

// IsNotFound reports whether err means the file was already gone.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
