package cleanup

import (
	"log/slog"
	"os"
	"path/filepath"

	"filereducer/internal/metrics"
	"filereducer/internal/storage"
)

// Remover deletes files and directories, refusing paths that are in use.
type Remover interface {
	Remove(path string) error
	RemoveAll(path string) error
}

var _ Remover = (*storage.FileStore)(nil)

// Dirs are the directories managed by cleanup.
type Dirs struct {
	Upload    string
	Processed string
	Chunk     string
}

// Report summarizes one cleanup operation.
type Report struct {
	Removed     []string `json:"removed"`
	Skipped     []string `json:"skipped"`
	TasksPruned int      `json:"tasks_pruned"`
}

// outcome is the result of a single removal attempt.
type outcome int

const (
	outcomeRemoved outcome = iota
	outcomeGone
	outcomeSkipped
	outcomeFailed
)

// removeFile removes path and records the result in rep. Not found counts as neither
// removed nor skipped, since another cleanup path got there first.
func removeFile(log *slog.Logger, source string, rep *Report, path string, remove func(string) error) outcome {
	err := remove(path)
	switch {
	case err == nil:
		rep.Removed = append(rep.Removed, path)
		log.Info("removed file", "source", source, "path", path)
		return outcomeRemoved
	case storage.IsNotFound(err):
		return outcomeGone
	case storage.IsLocked(err):
		rep.Skipped = append(rep.Skipped, path)
		log.Info("file in use, skipping", "source", source, "path", path)
		return outcomeSkipped
	default:
		log.Warn("failed to remove file", "source", source, "path", path, "error", err)
		return outcomeFailed
	}
}

// regularFiles lists the regular files directly inside dir.
func regularFiles(dir string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]os.FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

func record(rec *metrics.Recorder, source string, rep Report) {
	rec.FilesRemoved(source, len(rep.Removed))
	rec.FilesSkipped(source, len(rep.Skipped))
}

func joinAll(dir string, infos []os.FileInfo) []string {
	paths := make([]string, len(infos))
	for i, info := range infos {
		paths[i] = filepath.Join(dir, info.Name())
	}
	return paths
}
