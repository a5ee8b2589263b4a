package service

import (
	"context"
	"time"

	"filereducer/internal/cleanup"
	"filereducer/internal/storage"
)

func (s *mediaService) OpenDownload(ctx context.Context, filename string) (*storage.LeasedFile, error) {
	if err := storage.ValidateName(filename); err != nil {
		return nil, ErrInvalidFilename
	}
	f, err := s.store.OpenProcessed(filename)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	original := ""
	if name, ok := storage.OriginalName(filename); ok {
		original = s.store.UploadPath(name)
	}
	if !s.scheduler.SchedulePair(s.store.ProcessedPath(filename), original) {
		s.log.Warn("deletion queue full, leaving pair to the sweeper", "file", filename)
	}
	return f, nil
}

func (s *mediaService) DeleteFiles(ctx context.Context, processedName string) (cleanup.Report, error) {
	if err := storage.ValidateName(processedName); err != nil {
		return cleanup.Report{}, ErrInvalidFilename
	}
	name, ok := storage.OriginalName(processedName)
	if !ok {
		return cleanup.Report{}, ErrInvalidFilename
	}
	processed, original := s.store.ProcessedPath(processedName), s.store.UploadPath(name)
	if s.missing(processed) && s.missing(original) {
		return cleanup.Report{}, ErrFileNotFound
	}
	rep := s.purger.DeletePair(ctx, processed, original)
	s.log.Info("files deleted on request", "file", processedName, "removed", len(rep.Removed), "skipped", len(rep.Skipped))
	return rep, nil
}

func (s *mediaService) missing(path string) bool {
	_, err := s.store.Size(path)
	return storage.IsNotFound(err)
}

func (s *mediaService) Cleanup(ctx context.Context) cleanup.Report {
	return s.sweeper.Sweep(ctx, time.Now())
}

func (s *mediaService) CleanupAll(ctx context.Context) cleanup.Report {
	return s.purger.PurgeAll(ctx)
}
