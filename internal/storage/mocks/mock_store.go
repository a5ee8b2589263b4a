package mocks

import (
	"context"
	"io"

	"filereducer/internal/model"
	"filereducer/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) EnsureDirs() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStore) Check() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStore) SaveUpload(ctx context.Context, r io.Reader, originalName string) (*model.UploadedFile, error) {
	args := m.Called(ctx, r, originalName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedFile), args.Error(1)
}

func (m *MockStore) UploadPath(name string) string {
	args := m.Called(name)
	return args.String(0)
}

func (m *MockStore) ProcessedPath(name string) string {
	args := m.Called(name)
	return args.String(0)
}

func (m *MockStore) StagingPath(name string) string {
	args := m.Called(name)
	return args.String(0)
}

func (m *MockStore) Publish(stagingPath, name string) (string, error) {
	args := m.Called(stagingPath, name)
	return args.String(0), args.Error(1)
}

func (m *MockStore) CopyFile(src, dst string) (int64, error) {
	args := m.Called(src, dst)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Size(path string) (int64, error) {
	args := m.Called(path)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Lease(path string) func() {
	m.Called(path)
	return func() {}
}

func (m *MockStore) OpenProcessed(name string) (*storage.LeasedFile, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.LeasedFile), args.Error(1)
}

func (m *MockStore) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}
