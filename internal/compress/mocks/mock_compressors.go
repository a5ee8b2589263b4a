package mocks

import (
	"context"
	"time"

	"filereducer/internal/compress"

	"github.com/stretchr/testify/mock"
)

type MockImageCompressor struct {
	mock.Mock
}

func (m *MockImageCompressor) Compress(ctx context.Context, src, dst string, opts compress.ImageOptions) (int64, error) {
	args := m.Called(ctx, src, dst, opts)
	if f, ok := args.Get(0).(func(context.Context, string, string, compress.ImageOptions) int64); ok {
		return f(ctx, src, dst, opts), args.Error(1)
	}
	return args.Get(0).(int64), args.Error(1)
}

type MockVideoCompressor struct {
	mock.Mock
}

func (m *MockVideoCompressor) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockVideoCompressor) Probe(ctx context.Context, path string) (time.Duration, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(time.Duration), args.Error(1)
}

// Compress calls the function registered with Run, if any, before returning,
// so tests can write the output file and report progress.
func (m *MockVideoCompressor) Compress(ctx context.Context, src, dst string, crf int, progress compress.ProgressFunc) error {
	args := m.Called(ctx, src, dst, crf, progress)
	return args.Error(0)
}
