package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aibi-gateway/internal/dataset"
	"aibi-gateway/internal/dataset/repository"
	"aibi-gateway/internal/engine"
	"aibi-gateway/internal/model"
	"aibi-gateway/internal/notifier"
	"aibi-gateway/pkg/log"
	pkgMinio "aibi-gateway/pkg/minio"
	"aibi-gateway/pkg/paginator"
)

// --- mocks ---

type mockRepository struct{ mock.Mock }

func (m *mockRepository) Create(ctx context.Context, sc model.Scope, opts repository.CreateOptions) (model.Dataset, error) {
	args := m.Called(ctx, sc, opts)
	return args.Get(0).(model.Dataset), args.Error(1)
}

func (m *mockRepository) Get(ctx context.Context, sc model.Scope, opts repository.GetOptions) ([]model.Dataset, paginator.Paginator, error) {
	args := m.Called(ctx, sc, opts)
	return args.Get(0).([]model.Dataset), args.Get(1).(paginator.Paginator), args.Error(2)
}

func (m *mockRepository) Detail(ctx context.Context, sc model.Scope, id string) (model.Dataset, error) {
	args := m.Called(ctx, sc, id)
	return args.Get(0).(model.Dataset), args.Error(1)
}

func (m *mockRepository) UpdateStatus(ctx context.Context, sc model.Scope, opts repository.UpdateStatusOptions) (model.Dataset, error) {
	args := m.Called(ctx, sc, opts)
	return args.Get(0).(model.Dataset), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, sc model.Scope, id string) error {
	args := m.Called(ctx, sc, id)
	return args.Error(0)
}

type mockStorage struct{ mock.Mock }

func (m *mockStorage) Connect(ctx context.Context) error     { return m.Called(ctx).Error(0) }
func (m *mockStorage) HealthCheck(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockStorage) Close() error                          { return m.Called().Error(0) }

func (m *mockStorage) EnsureBucket(ctx context.Context, bucketName string) error {
	return m.Called(ctx, bucketName).Error(0)
}

func (m *mockStorage) UploadFile(ctx context.Context, req *pkgMinio.UploadRequest) (*pkgMinio.FileInfo, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgMinio.FileInfo), args.Error(1)
}

func (m *mockStorage) DownloadFile(ctx context.Context, req *pkgMinio.DownloadRequest) (*pkgMinio.DownloadResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgMinio.DownloadResult), args.Error(1)
}

func (m *mockStorage) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	return m.Called(ctx, bucketName, objectName).Error(0)
}

type mockEngine struct{ mock.Mock }

func (m *mockEngine) Health(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *mockEngine) ProcessDataset(ctx context.Context, ip engine.ProcessDatasetInput) error {
	return m.Called(ctx, ip).Error(0)
}

func (m *mockEngine) Ask(ctx context.Context, ip engine.AskInput) (engine.AskOutput, error) {
	args := m.Called(ctx, ip)
	return args.Get(0).(engine.AskOutput), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishToUser(ctx context.Context, userID string, msg *notifier.Message) error {
	return m.Called(ctx, userID, msg).Error(0)
}

// --- helpers ---

func testLogger() log.Logger {
	return log.Init(log.ZapConfig{
		Level:    log.LevelDebug,
		Mode:     log.ModeDevelopment,
		Encoding: log.EncodingConsole,
	})
}

type deps struct {
	repo      *mockRepository
	storage   *mockStorage
	engine    *mockEngine
	publisher *mockPublisher
}

func newUsecase() (dataset.UseCase, deps) {
	d := deps{
		repo:      &mockRepository{},
		storage:   &mockStorage{},
		engine:    &mockEngine{},
		publisher: &mockPublisher{},
	}
	uc := New(testLogger(), d.repo, d.storage, "datasets", testMaxUploadSize, d.engine, d.publisher)
	return uc, d
}

const testMaxUploadSize = int64(1 << 20)

var sc = model.Scope{UserID: "alice"}

// --- tests ---

func TestUpload(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.storage.On("UploadFile", ctx, mock.MatchedBy(func(req *pkgMinio.UploadRequest) bool {
		return req.BucketName == "datasets" &&
			req.OriginalName == "sales.csv" &&
			strings.HasPrefix(req.ObjectName, "alice/") &&
			strings.HasSuffix(req.ObjectName, ".csv")
	})).Return(&pkgMinio.FileInfo{}, nil)

	d.repo.On("Create", ctx, sc, mock.MatchedBy(func(opts repository.CreateOptions) bool {
		return opts.Dataset.Status == model.DatasetStatusUploaded &&
			opts.Dataset.UserID == "alice" &&
			opts.Dataset.Name == "sales.csv"
	})).Return(model.Dataset{ID: "11111111-1111-1111-1111-111111111111", UserID: "alice",
		ObjectKey: "alice/x.csv", FileType: "csv", Status: model.DatasetStatusUploaded}, nil)

	d.engine.On("ProcessDataset", ctx, mock.MatchedBy(func(ip engine.ProcessDatasetInput) bool {
		return ip.DatasetID == "11111111-1111-1111-1111-111111111111" && ip.UserID == "alice"
	})).Return(nil)

	d.repo.On("UpdateStatus", ctx, sc, mock.MatchedBy(func(opts repository.UpdateStatusOptions) bool {
		return opts.Status == model.DatasetStatusProcessing
	})).Return(model.Dataset{ID: "11111111-1111-1111-1111-111111111111", UserID: "alice",
		Status: model.DatasetStatusProcessing}, nil)

	d.publisher.On("PublishToUser", ctx, "alice", mock.MatchedBy(func(msg *notifier.Message) bool {
		return msg.Type == notifier.MessageTypeDataProcessingUpdate
	})).Return(nil)

	out, err := uc.Upload(ctx, sc, dataset.UploadInput{
		FileName: "sales.csv",
		Size:     128,
		Reader:   strings.NewReader("a,b\n1,2\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.DatasetStatusProcessing, out.Dataset.Status)

	d.repo.AssertExpectations(t)
	d.storage.AssertExpectations(t)
	d.engine.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
}

func TestUploadUnsupportedFileType(t *testing.T) {
	uc, _ := newUsecase()

	_, err := uc.Upload(context.Background(), sc, dataset.UploadInput{
		FileName: "notes.pdf",
		Size:     10,
		Reader:   strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, dataset.ErrUnsupportedFileType)
}

func TestUploadFileTooLarge(t *testing.T) {
	uc, d := newUsecase()

	_, err := uc.Upload(context.Background(), sc, dataset.UploadInput{
		FileName: "sales.csv",
		Size:     testMaxUploadSize + 1,
		Reader:   strings.NewReader("a,b\n"),
	})
	assert.ErrorIs(t, err, dataset.ErrFileTooLarge)

	// Rejected before anything touches storage.
	d.storage.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything)
}

func TestUploadEngineDispatchFails(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.storage.On("UploadFile", ctx, mock.Anything).Return(&pkgMinio.FileInfo{}, nil)
	d.repo.On("Create", ctx, sc, mock.Anything).
		Return(model.Dataset{ID: "11111111-1111-1111-1111-111111111111", UserID: "alice",
			Status: model.DatasetStatusUploaded}, nil)
	d.engine.On("ProcessDataset", ctx, mock.Anything).Return(engine.ErrEngineUnavailable)

	d.repo.On("UpdateStatus", ctx, sc, mock.MatchedBy(func(opts repository.UpdateStatusOptions) bool {
		return opts.Status == model.DatasetStatusFailed && opts.ErrorMessage != nil
	})).Return(model.Dataset{ID: "11111111-1111-1111-1111-111111111111", UserID: "alice",
		Status: model.DatasetStatusFailed}, nil)

	d.publisher.On("PublishToUser", ctx, "alice", mock.MatchedBy(func(msg *notifier.Message) bool {
		return msg.Type == notifier.MessageTypeDataProcessingUpdate
	})).Return(nil)

	_, err := uc.Upload(ctx, sc, dataset.UploadInput{
		FileName: "sales.csv",
		Size:     128,
		Reader:   strings.NewReader("a,b\n1,2\n"),
	})
	assert.ErrorIs(t, err, engine.ErrEngineUnavailable)
	d.repo.AssertExpectations(t)
}

func TestMarkProcessed(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	rowCount := int64(42)
	d.repo.On("UpdateStatus", ctx, sc, mock.MatchedBy(func(opts repository.UpdateStatusOptions) bool {
		return opts.Status == model.DatasetStatusReady && opts.RowCount != nil && *opts.RowCount == 42
	})).Return(model.Dataset{ID: "ds-1", UserID: "alice",
		Status: model.DatasetStatusReady, RowCount: &rowCount}, nil)

	d.publisher.On("PublishToUser", ctx, "alice", mock.MatchedBy(func(msg *notifier.Message) bool {
		return msg.Type == notifier.MessageTypeDataProcessingUpdate
	})).Return(nil)

	out, err := uc.MarkProcessed(ctx, sc, dataset.MarkProcessedInput{
		DatasetID: "ds-1",
		Status:    model.DatasetStatusReady,
		RowCount:  &rowCount,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DatasetStatusReady, out.Dataset.Status)
	d.publisher.AssertExpectations(t)
}

func TestMarkProcessedInvalidStatus(t *testing.T) {
	uc, _ := newUsecase()

	_, err := uc.MarkProcessed(context.Background(), sc, dataset.MarkProcessedInput{
		DatasetID: "ds-1",
		Status:    "sideways",
	})
	assert.ErrorIs(t, err, dataset.ErrInvalidStatus)
}

func TestDelete(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.repo.On("Detail", ctx, sc, "ds-1").
		Return(model.Dataset{ID: "ds-1", ObjectKey: "alice/ds-1.csv"}, nil)
	d.repo.On("Delete", ctx, sc, "ds-1").Return(nil)
	d.storage.On("DeleteFile", ctx, "datasets", "alice/ds-1.csv").Return(nil)

	require.NoError(t, uc.Delete(ctx, sc, "ds-1"))
	d.storage.AssertExpectations(t)
}

func TestDeleteNotFound(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.repo.On("Detail", ctx, sc, "missing").
		Return(model.Dataset{}, repository.ErrNotFound)

	err := uc.Delete(ctx, sc, "missing")
	assert.ErrorIs(t, err, dataset.ErrDatasetNotFound)
}
