package chunk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/google/uuid"

	"filereducer/internal/model"
	"filereducer/internal/storage"
)

// Package chunk stages the pieces of a chunked upload on disk and reassembles them.
// All state lives in the staging directory, so a set removed by the sweeper leaves nothing behind.

var (
	ErrInvalidUploadID  = errors.New("invalid upload id")
	ErrInvalidChunk     = errors.New("invalid chunk index or total")
	ErrNoChunksFound    = errors.New("no chunks found for upload")
	ErrIncompleteUpload = errors.New("upload is incomplete")
)

var (
	uploadIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)
	partPattern     = regexp.MustCompile(`^(\d{6})-of-(\d{6})\.part$`)
)

// MaxChunks bounds the declared chunk count so names stay fixed-width.
const MaxChunks = 999999

// Progress reports what has been staged for one upload.
type Progress struct {
	UploadID string `json:"upload_id"`
	Received int    `json:"received_chunks"`
	Total    int    `json:"total_chunks"`
	Complete bool   `json:"complete"`
}

// Sink stores an assembled upload stream under a name derived from filename.
type Sink func(ctx context.Context, r io.Reader, filename string) (*model.UploadedFile, error)

// Store keeps chunk sets as directories under dir, one per upload id.
type Store struct {
	dir    string
	leases *storage.Leases
	log    *slog.Logger
}

// NewStore creates a Store. leases must be the table used by cleanup so that
// sets being written or assembled are never swept.
func NewStore(dir string, leases *storage.Leases, log *slog.Logger) *Store {
	if leases == nil {
		leases = storage.NewLeases()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: dir, leases: leases, log: log.With("component", "chunks")}
}

// ValidateUploadID checks that id is a safe single path element.
func ValidateUploadID(id string) error {
	if !uploadIDPattern.MatchString(id) {
		return ErrInvalidUploadID
	}
	return nil
}

func partName(index, total int) string {
	return fmt.Sprintf("%06d-of-%06d.part", index, total)
}

type part struct {
	index int
	total int
	path  string
}

// listParts returns the staged parts of a set directory sorted by index.
func listParts(dir string) ([]part, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var parts []part
	for _, e := range entries {
		m := partPattern.FindStringSubmatch(e.Name())
		if m == nil || !e.Type().IsRegular() {
			continue
		}
		var p part
		fmt.Sscanf(m[1], "%d", &p.index)
		fmt.Sscanf(m[2], "%d", &p.total)
		p.path = filepath.Join(dir, e.Name())
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })
	return parts, nil
}

// progressOf counts distinct indices matching total.
func progressOf(uploadID string, parts []part, total int) Progress {
	seen := make(map[int]struct{}, len(parts))
	for _, p := range parts {
		if p.total == total && p.index < total {
			seen[p.index] = struct{}{}
		}
	}
	return Progress{
		UploadID: uploadID,
		Received: len(seen),
		Total:    total,
		Complete: total > 0 && len(seen) == total,
	}
}

// Accept stores the chunk at index, replacing any earlier copy of it.
// Every chunk of a set must declare the same total.
func (s *Store) Accept(ctx context.Context, uploadID string, index, total int, r io.Reader) (Progress, error) {
	if err := ValidateUploadID(uploadID); err != nil {
		return Progress{}, err
	}
	if total < 1 || total > MaxChunks || index < 0 || index >= total {
		return Progress{}, ErrInvalidChunk
	}
	if err := ctx.Err(); err != nil {
		return Progress{}, err
	}

	dir := filepath.Join(s.dir, uploadID)
	release := s.leases.Acquire(dir)
	defer release()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Progress{}, fmt.Errorf("create chunk directory: %w", err)
	}
	parts, err := listParts(dir)
	if err != nil {
		return Progress{}, fmt.Errorf("list chunks: %w", err)
	}
	for _, p := range parts {
		if p.total != total {
			return Progress{}, fmt.Errorf("%w: total changed from %d to %d", ErrInvalidChunk, p.total, total)
		}
	}

	tmp, err := os.CreateTemp(dir, ".incoming-*")
	if err != nil {
		return Progress{}, fmt.Errorf("create chunk: %w", err)
	}
	_, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), filepath.Join(dir, partName(index, total)))
	}
	if err != nil {
		os.Remove(tmp.Name())
		return Progress{}, fmt.Errorf("write chunk: %w", err)
	}

	parts, err = listParts(dir)
	if err != nil {
		return Progress{}, fmt.Errorf("list chunks: %w", err)
	}
	return progressOf(uploadID, parts, total), nil
}

// Status reports the staged progress of an upload.
func (s *Store) Status(uploadID string) (Progress, error) {
	if err := ValidateUploadID(uploadID); err != nil {
		return Progress{}, err
	}
	parts, err := listParts(filepath.Join(s.dir, uploadID))
	if err != nil {
		if os.IsNotExist(err) {
			return Progress{}, ErrNoChunksFound
		}
		return Progress{}, err
	}
	if len(parts) == 0 {
		return Progress{}, ErrNoChunksFound
	}
	return progressOf(uploadID, parts, parts[0].total), nil
}

// Finalize concatenates the chunks of uploadID in index order and hands the stream to sink.
//
// The set directory is first renamed to a private name, so concurrent finalize
// calls for the same id cannot both consume it. Each chunk is removed once it
// has been read. An incomplete set is put back so the client can send the
// missing chunks.
func (s *Store) Finalize(ctx context.Context, uploadID, filename string, sink Sink) (*model.UploadedFile, error) {
	if err := ValidateUploadID(uploadID); err != nil {
		return nil, err
	}
	src := filepath.Join(s.dir, uploadID)
	work := filepath.Join(s.dir, "."+uploadID+".assembling-"+uuid.NewString()[:8])

	release := s.leases.Acquire(work)
	defer release()

	if err := os.Rename(src, work); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoChunksFound
		}
		return nil, fmt.Errorf("claim chunk set: %w", err)
	}

	parts, err := listParts(work)
	if err != nil {
		os.RemoveAll(work)
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	if len(parts) == 0 {
		os.RemoveAll(work)
		return nil, ErrNoChunksFound
	}
	total := parts[0].total
	prog := progressOf(uploadID, parts, total)
	if !prog.Complete || len(parts) != total {
		s.restore(work, src)
		return nil, fmt.Errorf("%w: received %d/%d", ErrIncompleteUpload, prog.Received, total)
	}

	r := &consumingReader{parts: parts, log: s.log}
	f, err := sink(ctx, r, filename)
	r.Close()
	if err := os.RemoveAll(work); err != nil {
		s.log.Warn("failed to remove chunk directory", "upload_id", uploadID, "error", err)
	}
	if err != nil {
		return nil, fmt.Errorf("assemble upload: %w", err)
	}

	s.log.Info("chunked upload assembled", "upload_id", uploadID, "chunks", total, "file", f.Name, "size", f.Size)
	return f, nil
}

// restore moves parts from work back into the set directory, keeping any
// chunks that arrived in the meantime.
func (s *Store) restore(work, src string) {
	defer os.RemoveAll(work)
	if err := os.MkdirAll(src, 0o755); err != nil {
		s.log.Warn("failed to restore chunk set", "dir", src, "error", err)
		return
	}
	parts, err := listParts(work)
	if err != nil {
		return
	}
	for _, p := range parts {
		dst := filepath.Join(src, filepath.Base(p.path))
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if err := os.Rename(p.path, dst); err != nil {
			s.log.Warn("failed to restore chunk", "path", p.path, "error", err)
		}
	}
}

// consumingReader reads parts in order and removes each one after it is fully read.
type consumingReader struct {
	parts []part
	cur   *os.File
	log   *slog.Logger
}

func (r *consumingReader) Read(b []byte) (int, error) {
	for {
		if r.cur == nil {
			if len(r.parts) == 0 {
				return 0, io.EOF
			}
			f, err := os.Open(r.parts[0].path)
			if err != nil {
				return 0, fmt.Errorf("open chunk %d: %w", r.parts[0].index, err)
			}
			r.cur = f
		}
		n, err := r.cur.Read(b)
		if err == io.EOF {
			r.finishCurrent()
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (r *consumingReader) finishCurrent() {
	path := r.cur.Name()
	r.cur.Close()
	r.cur = nil
	r.parts = r.parts[1:]
	if err := os.Remove(path); err != nil {
		r.log.Debug("failed to remove consumed chunk", "path", path, "error", err)
	}
}

func (r *consumingReader) Close() error {
	if r.cur != nil {
		return r.cur.Close()
	}
	return nil
}
