package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	datasetRepo "aibi-gateway/internal/dataset/repository"
	"aibi-gateway/internal/engine"
	"aibi-gateway/internal/model"
	"aibi-gateway/internal/notifier"
	"aibi-gateway/internal/query"
	"aibi-gateway/internal/query/repository"
	"aibi-gateway/pkg/log"
	"aibi-gateway/pkg/paginator"
)

// --- mocks ---

type mockRepository struct{ mock.Mock }

func (m *mockRepository) Create(ctx context.Context, sc model.Scope, opts repository.CreateOptions) (model.Query, error) {
	args := m.Called(ctx, sc, opts)
	return args.Get(0).(model.Query), args.Error(1)
}

func (m *mockRepository) Get(ctx context.Context, sc model.Scope, opts repository.GetOptions) ([]model.Query, paginator.Paginator, error) {
	args := m.Called(ctx, sc, opts)
	return args.Get(0).([]model.Query), args.Get(1).(paginator.Paginator), args.Error(2)
}

func (m *mockRepository) Detail(ctx context.Context, sc model.Scope, id string) (model.Query, error) {
	args := m.Called(ctx, sc, id)
	return args.Get(0).(model.Query), args.Error(1)
}

func (m *mockRepository) UpdateResult(ctx context.Context, sc model.Scope, opts repository.UpdateResultOptions) (model.Query, error) {
	args := m.Called(ctx, sc, opts)
	return args.Get(0).(model.Query), args.Error(1)
}

type mockDatasetRepository struct{ mock.Mock }

func (m *mockDatasetRepository) Create(ctx context.Context, sc model.Scope, opts datasetRepo.CreateOptions) (model.Dataset, error) {
	args := m.Called(ctx, sc, opts)
	return args.Get(0).(model.Dataset), args.Error(1)
}

func (m *mockDatasetRepository) Get(ctx context.Context, sc model.Scope, opts datasetRepo.GetOptions) ([]model.Dataset, paginator.Paginator, error) {
	args := m.Called(ctx, sc, opts)
	return args.Get(0).([]model.Dataset), args.Get(1).(paginator.Paginator), args.Error(2)
}

func (m *mockDatasetRepository) Detail(ctx context.Context, sc model.Scope, id string) (model.Dataset, error) {
	args := m.Called(ctx, sc, id)
	return args.Get(0).(model.Dataset), args.Error(1)
}

func (m *mockDatasetRepository) UpdateStatus(ctx context.Context, sc model.Scope, opts datasetRepo.UpdateStatusOptions) (model.Dataset, error) {
	args := m.Called(ctx, sc, opts)
	return args.Get(0).(model.Dataset), args.Error(1)
}

func (m *mockDatasetRepository) Delete(ctx context.Context, sc model.Scope, id string) error {
	args := m.Called(ctx, sc, id)
	return args.Error(0)
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
	datasets  *mockDatasetRepository
	engine    *mockEngine
	publisher *mockPublisher
}

func newUsecase() (query.UseCase, deps) {
	d := deps{
		repo:      &mockRepository{},
		datasets:  &mockDatasetRepository{},
		engine:    &mockEngine{},
		publisher: &mockPublisher{},
	}
	uc := New(testLogger(), d.repo, d.datasets, d.engine, d.publisher)
	return uc, d
}

var sc = model.Scope{UserID: "alice"}

const datasetID = "11111111-1111-1111-1111-111111111111"

func readyDataset() model.Dataset {
	return model.Dataset{ID: datasetID, UserID: "alice", Status: model.DatasetStatusReady}
}

// --- tests ---

func TestAsk(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.datasets.On("Detail", ctx, sc, datasetID).Return(readyDataset(), nil)

	d.repo.On("Create", ctx, sc, mock.MatchedBy(func(opts repository.CreateOptions) bool {
		return opts.Query.Status == model.QueryStatusPending &&
			opts.Query.DatasetID == datasetID &&
			opts.Query.Question == "total revenue by month"
	})).Return(model.Query{ID: "22222222-2222-2222-2222-222222222222", UserID: "alice",
		DatasetID: datasetID, Question: "total revenue by month",
		Status: model.QueryStatusPending}, nil)

	d.repo.On("UpdateResult", ctx, sc, mock.MatchedBy(func(opts repository.UpdateResultOptions) bool {
		return opts.Status == model.QueryStatusRunning
	})).Return(model.Query{ID: "22222222-2222-2222-2222-222222222222", UserID: "alice",
		DatasetID: datasetID, Status: model.QueryStatusRunning}, nil)

	d.engine.On("Ask", ctx, mock.MatchedBy(func(ip engine.AskInput) bool {
		return ip.QueryID == "22222222-2222-2222-2222-222222222222" &&
			ip.DatasetID == datasetID &&
			ip.Question == "total revenue by month"
	})).Return(engine.AskOutput{Answer: "42", SQLQuery: "SELECT 42"}, nil)

	answer := "42"
	d.repo.On("UpdateResult", ctx, sc, mock.MatchedBy(func(opts repository.UpdateResultOptions) bool {
		return opts.Status == model.QueryStatusCompleted &&
			opts.Answer != nil && *opts.Answer == "42" &&
			opts.SQLQuery != nil && *opts.SQLQuery == "SELECT 42"
	})).Return(model.Query{ID: "22222222-2222-2222-2222-222222222222", UserID: "alice",
		DatasetID: datasetID, Status: model.QueryStatusCompleted, Answer: &answer}, nil)

	d.publisher.On("PublishToUser", ctx, "alice", mock.MatchedBy(func(msg *notifier.Message) bool {
		return msg.Type == notifier.MessageTypeQueryUpdate
	})).Return(nil).Twice()

	out, err := uc.Ask(ctx, sc, query.AskInput{
		DatasetID: datasetID,
		Question:  "  total revenue by month  ",
	})
	require.NoError(t, err)
	assert.Equal(t, model.QueryStatusCompleted, out.Query.Status)
	require.NotNil(t, out.Query.Answer)
	assert.Equal(t, "42", *out.Query.Answer)

	d.repo.AssertExpectations(t)
	d.engine.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
}

func TestAskEmptyQuestion(t *testing.T) {
	uc, _ := newUsecase()

	_, err := uc.Ask(context.Background(), sc, query.AskInput{
		DatasetID: datasetID,
		Question:  "   ",
	})
	assert.ErrorIs(t, err, query.ErrEmptyQuestion)
}

func TestAskDatasetNotReady(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.datasets.On("Detail", ctx, sc, datasetID).
		Return(model.Dataset{ID: datasetID, Status: model.DatasetStatusProcessing}, nil)

	_, err := uc.Ask(ctx, sc, query.AskInput{DatasetID: datasetID, Question: "anything"})
	assert.ErrorIs(t, err, query.ErrDatasetNotReady)
}

func TestAskDatasetNotFound(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.datasets.On("Detail", ctx, sc, datasetID).
		Return(model.Dataset{}, datasetRepo.ErrNotFound)

	_, err := uc.Ask(ctx, sc, query.AskInput{DatasetID: datasetID, Question: "anything"})
	assert.ErrorIs(t, err, query.ErrDatasetNotFound)
}

func TestAskEngineFails(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.datasets.On("Detail", ctx, sc, datasetID).Return(readyDataset(), nil)
	d.repo.On("Create", ctx, sc, mock.Anything).
		Return(model.Query{ID: "22222222-2222-2222-2222-222222222222", UserID: "alice",
			DatasetID: datasetID, Status: model.QueryStatusPending}, nil)
	d.repo.On("UpdateResult", ctx, sc, mock.MatchedBy(func(opts repository.UpdateResultOptions) bool {
		return opts.Status == model.QueryStatusRunning
	})).Return(model.Query{ID: "22222222-2222-2222-2222-222222222222", UserID: "alice",
		DatasetID: datasetID, Status: model.QueryStatusRunning}, nil)
	d.engine.On("Ask", ctx, mock.Anything).Return(engine.AskOutput{}, engine.ErrEngineUnavailable)

	errMsg := engine.ErrEngineUnavailable.Error()
	d.repo.On("UpdateResult", ctx, sc, mock.MatchedBy(func(opts repository.UpdateResultOptions) bool {
		return opts.Status == model.QueryStatusFailed &&
			opts.ErrorMessage != nil && *opts.ErrorMessage == errMsg
	})).Return(model.Query{ID: "22222222-2222-2222-2222-222222222222", UserID: "alice",
		DatasetID: datasetID, Status: model.QueryStatusFailed, ErrorMessage: &errMsg}, nil)

	d.publisher.On("PublishToUser", ctx, "alice", mock.MatchedBy(func(msg *notifier.Message) bool {
		return msg.Type == notifier.MessageTypeQueryUpdate
	})).Return(nil).Twice()

	_, err := uc.Ask(ctx, sc, query.AskInput{DatasetID: datasetID, Question: "anything"})
	assert.ErrorIs(t, err, engine.ErrEngineUnavailable)
	d.repo.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
}

func TestGet(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.repo.On("Get", ctx, sc, repository.GetOptions{
		PaginateQuery: paginator.PaginateQuery{Page: 1, Limit: 10},
		DatasetID:     datasetID,
	}).Return([]model.Query{{ID: "q-1"}, {ID: "q-2"}},
		paginator.Paginator{Total: 2, Count: 2, PerPage: 10, CurrentPage: 1}, nil)

	out, err := uc.Get(ctx, sc, query.GetInput{
		PaginateQuery: paginator.PaginateQuery{Page: 1, Limit: 10},
		DatasetID:     datasetID,
	})
	require.NoError(t, err)
	assert.Len(t, out.Queries, 2)
	assert.EqualValues(t, 2, out.Paginator.Total)
}

func TestDetailNotFound(t *testing.T) {
	uc, d := newUsecase()
	ctx := context.Background()

	d.repo.On("Detail", ctx, sc, "missing").Return(model.Query{}, repository.ErrNotFound)

	_, err := uc.Detail(ctx, sc, "missing")
	assert.ErrorIs(t, err, query.ErrQueryNotFound)
}
