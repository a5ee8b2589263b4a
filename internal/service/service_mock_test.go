package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"filereducer/internal/model"
	repoMocks "filereducer/internal/repository/mocks"
	storageMocks "filereducer/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMockedService(store *storageMocks.MockStore, tasks *repoMocks.MockTaskRepository) MediaService {
	return NewMediaService(Deps{
		Store:      store,
		Tasks:      tasks,
		Pool:       rejectingPool{},
		Scheduler:  &fakeScheduler{},
		Classifier: NewClassifier([]string{"jpg"}, []string{"mp4"}, []string{"pdf"}),
		Options:    Options{DefaultQuality: 70, DefaultResizeFactor: 0.8, DefaultCRF: 28, VideoAsync: true},
		Logger:     discardLogger,
	})
}

func TestUpload_StoreFailure(t *testing.T) {
	store := new(storageMocks.MockStore)
	svc := newMockedService(store, new(repoMocks.MockTaskRepository))

	store.On("SaveUpload", mock.Anything, mock.Anything, "a.pdf").Return(nil, errors.New("no space left on device")).Once()

	_, err := svc.Upload(context.Background(), strings.NewReader("x"), "a.pdf", Params{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no space left")
	store.AssertExpectations(t)
}

func TestDispatch_CopyFailure(t *testing.T) {
	store := new(storageMocks.MockStore)
	svc := newMockedService(store, new(repoMocks.MockTaskRepository))
	file := &model.UploadedFile{Name: "a.pdf", Path: "/u/a.pdf", Size: 10}

	store.On("StagingPath", "reduced_a.pdf").Return("/p/.staging-1-reduced_a.pdf")
	store.On("Lease", mock.Anything)
	store.On("CopyFile", "/u/a.pdf", "/p/.staging-1-reduced_a.pdf").Return(int64(0), errors.New("read-only file system")).Once()
	store.On("Remove", "/p/.staging-1-reduced_a.pdf").Return(nil).Once()

	_, err := svc.Dispatch(context.Background(), file, Params{})
	require.Error(t, err)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDispatch_PublishFailure(t *testing.T) {
	store := new(storageMocks.MockStore)
	svc := newMockedService(store, new(repoMocks.MockTaskRepository))
	file := &model.UploadedFile{Name: "a.pdf", Path: "/u/a.pdf", Size: 10}

	store.On("StagingPath", "reduced_a.pdf").Return("/p/.staging-1-reduced_a.pdf")
	store.On("Lease", mock.Anything)
	store.On("CopyFile", "/u/a.pdf", "/p/.staging-1-reduced_a.pdf").Return(int64(10), nil).Once()
	store.On("Publish", "/p/.staging-1-reduced_a.pdf", "reduced_a.pdf").Return("", errors.New("cross-device link")).Once()
	store.On("Remove", "/p/.staging-1-reduced_a.pdf").Return(nil).Once()

	_, err := svc.Dispatch(context.Background(), file, Params{})
	require.Error(t, err)
	store.AssertExpectations(t)
}

func TestDispatch_TaskCreateFailure(t *testing.T) {
	store := new(storageMocks.MockStore)
	tasks := new(repoMocks.MockTaskRepository)
	svc := newMockedService(store, tasks)
	file := &model.UploadedFile{Name: "clip.mp4", Path: "/u/clip.mp4", Size: 10}

	tasks.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("registry closed")).Once()

	_, err := svc.Dispatch(context.Background(), file, Params{})
	require.Error(t, err)
	tasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDispatch_RejectedTaskIsDeleted(t *testing.T) {
	store := new(storageMocks.MockStore)
	tasks := new(repoMocks.MockTaskRepository)
	svc := newMockedService(store, tasks)
	file := &model.UploadedFile{Name: "clip.mp4", Path: "/u/clip.mp4", Size: 10}

	var created string
	tasks.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.String(1) }).
		Return(&model.ProcessingTask{State: model.TaskStarting}, nil).Once()
	tasks.On("Delete", mock.Anything, mock.MatchedBy(func(id string) bool { return id == created })).Return(nil).Once()
	store.On("Lease", "/u/clip.mp4").Once()

	_, err := svc.Dispatch(context.Background(), file, Params{})
	require.ErrorIs(t, err, ErrBusy)
	tasks.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestHealth(t *testing.T) {
	store := new(storageMocks.MockStore)
	svc := newMockedService(store, new(repoMocks.MockTaskRepository))

	store.On("Check").Return(errors.New("permission denied")).Once()
	assert.Error(t, svc.Health(context.Background()))

	store.On("Check").Return(nil).Once()
	assert.NoError(t, svc.Health(context.Background()))
}
