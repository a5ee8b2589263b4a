package cleanup

import (
	"context"
	"log/slog"

	"filereducer/internal/metrics"
)

// Purger removes files on explicit request, regardless of age.
type Purger struct {
	dirs    Dirs
	files   Remover
	log     *slog.Logger
	metrics *metrics.Recorder
}

func NewPurger(dirs Dirs, files Remover, log *slog.Logger, rec *metrics.Recorder) *Purger {
	if log == nil {
		log = slog.Default()
	}
	return &Purger{dirs: dirs, files: files, log: log.With("component", "purger"), metrics: rec}
}

// PurgeAll removes every file in the upload and processed directories.
// Files in use are skipped.
func (p *Purger) PurgeAll(ctx context.Context) Report {
	var rep Report
	for _, dir := range []string{p.dirs.Upload, p.dirs.Processed} {
		infos, err := regularFiles(dir)
		if err != nil {
			p.log.Warn("failed to list directory", "dir", dir, "error", err)
			continue
		}
		for _, path := range joinAll(dir, infos) {
			if ctx.Err() != nil {
				break
			}
			removeFile(p.log, "purge_all", &rep, path, p.files.Remove)
		}
	}
	record(p.metrics, "purge_all", rep)
	return rep
}

// DeletePair removes a processed file and its original. Missing files are ignored.
func (p *Purger) DeletePair(ctx context.Context, processedPath, originalPath string) Report {
	var rep Report
	for _, path := range []string{processedPath, originalPath} {
		if path == "" {
			continue
		}
		removeFile(p.log, "delete_pair", &rep, path, p.files.Remove)
	}
	record(p.metrics, "delete_pair", rep)
	return rep
}
