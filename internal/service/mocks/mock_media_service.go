package mocks

import (
	"context"
	"io"

	"filereducer/internal/chunk"
	"filereducer/internal/cleanup"
	"filereducer/internal/model"
	"filereducer/internal/service"
	"filereducer/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockMediaService struct {
	mock.Mock
}

var _ service.MediaService = (*MockMediaService)(nil)

func (m *MockMediaService) Upload(ctx context.Context, r io.Reader, filename string, p service.Params) (*service.DispatchResult, error) {
	args := m.Called(ctx, r, filename, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DispatchResult), args.Error(1)
}

func (m *MockMediaService) Dispatch(ctx context.Context, file *model.UploadedFile, p service.Params) (*service.DispatchResult, error) {
	args := m.Called(ctx, file, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DispatchResult), args.Error(1)
}

func (m *MockMediaService) Status(ctx context.Context, taskID string) (*model.ProcessingTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProcessingTask), args.Error(1)
}

func (m *MockMediaService) OpenDownload(ctx context.Context, filename string) (*storage.LeasedFile, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.LeasedFile), args.Error(1)
}

func (m *MockMediaService) DeleteFiles(ctx context.Context, processedName string) (cleanup.Report, error) {
	args := m.Called(ctx, processedName)
	return args.Get(0).(cleanup.Report), args.Error(1)
}

func (m *MockMediaService) Cleanup(ctx context.Context) cleanup.Report {
	args := m.Called(ctx)
	return args.Get(0).(cleanup.Report)
}

func (m *MockMediaService) CleanupAll(ctx context.Context) cleanup.Report {
	args := m.Called(ctx)
	return args.Get(0).(cleanup.Report)
}

func (m *MockMediaService) AcceptChunk(ctx context.Context, uploadID string, index, total int, r io.Reader) (chunk.Progress, error) {
	args := m.Called(ctx, uploadID, index, total, r)
	return args.Get(0).(chunk.Progress), args.Error(1)
}

func (m *MockMediaService) FinalizeChunks(ctx context.Context, uploadID, filename string, p service.Params) (*service.DispatchResult, error) {
	args := m.Called(ctx, uploadID, filename, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DispatchResult), args.Error(1)
}

func (m *MockMediaService) FFmpegInstalled(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockMediaService) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
