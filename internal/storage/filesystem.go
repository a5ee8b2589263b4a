package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"filereducer/internal/model"
)

// FileStore is a Store backed by three local directories.
type FileStore struct {
	uploadDir    string
	processedDir string
	chunkDir     string
	leases       *Leases
}

// NewFileStore creates a FileStore. The directories are not created until EnsureDirs.
func NewFileStore(uploadDir, processedDir, chunkDir string, leases *Leases) *FileStore {
	if leases == nil {
		leases = NewLeases()
	}
	return &FileStore{
		uploadDir:    uploadDir,
		processedDir: processedDir,
		chunkDir:     chunkDir,
		leases:       leases,
	}
}

func (s *FileStore) UploadDir() string    { return s.uploadDir }
func (s *FileStore) ProcessedDir() string { return s.processedDir }
func (s *FileStore) ChunkDir() string     { return s.chunkDir }

// Leases exposes the lease table shared with the chunk store and cleanup.
func (s *FileStore) Leases() *Leases { return s.leases }

func (s *FileStore) EnsureDirs() error {
	for _, dir := range []string{s.uploadDir, s.processedDir, s.chunkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Check writes and removes a probe file in every directory.
func (s *FileStore) Check() error {
	for _, dir := range []string{s.uploadDir, s.processedDir, s.chunkDir} {
		f, err := os.CreateTemp(dir, ".health-*")
		if err != nil {
			return fmt.Errorf("directory %s not writable: %w", dir, err)
		}
		name := f.Name()
		f.Close()
		os.Remove(name)
	}
	return nil
}

func (s *FileStore) SaveUpload(ctx context.Context, r io.Reader, originalName string) (*model.UploadedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := UniqueName(originalName)
	path := s.UploadPath(name)

	release := s.leases.Acquire(path)
	defer release()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &model.UploadedFile{
		Name:         name,
		OriginalName: originalName,
		Path:         path,
		Size:         n,
		ModifiedAt:   time.Now(),
	}, nil
}

func (s *FileStore) UploadPath(name string) string {
	return filepath.Join(s.uploadDir, name)
}

func (s *FileStore) ProcessedPath(name string) string {
	return filepath.Join(s.processedDir, name)
}

func (s *FileStore) StagingPath(name string) string {
	return filepath.Join(s.processedDir, stagingPrefix+uuid.NewString()[:8]+"-"+name)
}

// Publish moves a finished staging file into place. Readers see either no file or the whole file.
func (s *FileStore) Publish(stagingPath, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if filepath.Dir(stagingPath) != filepath.Clean(s.processedDir) {
		return "", fmt.Errorf("%s: %w", stagingPath, ErrInvalidName)
	}
	dst := s.ProcessedPath(name)
	if err := os.Rename(stagingPath, dst); err != nil {
		return "", fmt.Errorf("publish %s: %w", name, err)
	}
	return dst, nil
}

func (s *FileStore) CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, fmt.Errorf("copy file: %w", err)
	}
	return n, nil
}

func (s *FileStore) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *FileStore) Lease(path string) func() {
	return s.leases.Acquire(path)
}

// OpenProcessed takes the lease before opening, so a concurrent removal either
// happens first (and the open fails with not found) or is refused.
func (s *FileStore) OpenProcessed(name string) (*LeasedFile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if IsStaging(name) {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	path := s.ProcessedPath(name)
	release := s.leases.Acquire(path)

	f, err := os.Open(path)
	if err != nil {
		release()
		return nil, err
	}
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		f.Close()
		release()
		if err == nil {
			err = fmt.Errorf("%s: %w", name, os.ErrNotExist)
		}
		return nil, err
	}
	return &LeasedFile{File: f, size: info.Size(), release: release}, nil
}

func (s *FileStore) Remove(path string) error {
	return s.leases.RemoveIdle(path, os.Remove)
}

// RemoveAll recursively deletes a directory unless it is leased.
func (s *FileStore) RemoveAll(path string) error {
	return s.leases.RemoveIdle(path, os.RemoveAll)
}
