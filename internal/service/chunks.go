package service

import (
	"context"
	"io"

	"filereducer/internal/chunk"
)

func (s *mediaService) AcceptChunk(ctx context.Context, uploadID string, index, total int, r io.Reader) (chunk.Progress, error) {
	if r == nil {
		return chunk.Progress{}, ErrFileRequired
	}
	return s.chunks.Accept(ctx, uploadID, index, total, r)
}

func (s *mediaService) FinalizeChunks(ctx context.Context, uploadID, filename string, p Params) (*DispatchResult, error) {
	if err := chunk.ValidateUploadID(uploadID); err != nil {
		return nil, err
	}
	if filename == "" {
		return nil, ErrFileRequired
	}
	if _, err := s.chunks.Status(uploadID); err != nil {
		return nil, err
	}
	if !s.classifier.Allowed(filename) {
		return nil, ErrUnsupportedFileType
	}
	if _, err := s.resolve(p); err != nil {
		return nil, err
	}

	file, err := s.chunks.Finalize(ctx, uploadID, filename, s.store.SaveUpload)
	if err != nil {
		return nil, err
	}
	file.Category = s.classifier.Category(file.Name)
	return s.Dispatch(ctx, file, p)
}
