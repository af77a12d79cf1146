package usecase

import (
	"context"
	"strings"

	datasetRepo "aibi-gateway/internal/dataset/repository"
	"aibi-gateway/internal/engine"
	"aibi-gateway/internal/model"
	"aibi-gateway/internal/notifier"
	"aibi-gateway/internal/query"
	"aibi-gateway/internal/query/repository"
	postgresPkg "aibi-gateway/pkg/postgre"
)

func (uc *usecase) Ask(ctx context.Context, sc model.Scope, ip query.AskInput) (query.QueryOutput, error) {
	question := strings.TrimSpace(ip.Question)
	if question == "" {
		return query.QueryOutput{}, query.ErrEmptyQuestion
	}

	ds, err := uc.datasets.Detail(ctx, sc, ip.DatasetID)
	if err != nil {
		if err == datasetRepo.ErrNotFound {
			return query.QueryOutput{}, query.ErrDatasetNotFound
		}
		uc.l.Errorf(ctx, "internal.query.usecase.Ask.Detail: %v", err)
		return query.QueryOutput{}, err
	}
	if ds.Status != model.DatasetStatusReady {
		return query.QueryOutput{}, query.ErrDatasetNotReady
	}

	qr, err := uc.repo.Create(ctx, sc, repository.CreateOptions{
		Query: model.Query{
			ID:        postgresPkg.NewUUID(),
			UserID:    sc.UserID,
			DatasetID: ds.ID,
			Question:  question,
			Status:    model.QueryStatusPending,
		},
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.query.usecase.Ask.Create: %v", err)
		return query.QueryOutput{}, err
	}

	qr, err = uc.repo.UpdateResult(ctx, sc, repository.UpdateResultOptions{
		ID:     qr.ID,
		Status: model.QueryStatusRunning,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.query.usecase.Ask.UpdateResult: %v", err)
		return query.QueryOutput{}, err
	}
	uc.publishQueryUpdate(ctx, sc.UserID, qr)

	out, err := uc.engine.Ask(ctx, engine.AskInput{
		QueryID:   qr.ID,
		DatasetID: ds.ID,
		UserID:    sc.UserID,
		Question:  question,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.query.usecase.Ask.Engine: %v", err)

		msg := err.Error()
		failed, updErr := uc.repo.UpdateResult(ctx, sc, repository.UpdateResultOptions{
			ID:           qr.ID,
			Status:       model.QueryStatusFailed,
			ErrorMessage: &msg,
		})
		if updErr != nil {
			uc.l.Errorf(ctx, "internal.query.usecase.Ask.UpdateResult: %v", updErr)
		} else {
			uc.publishQueryUpdate(ctx, sc.UserID, failed)
		}
		return query.QueryOutput{}, err
	}

	qr, err = uc.repo.UpdateResult(ctx, sc, repository.UpdateResultOptions{
		ID:        qr.ID,
		Status:    model.QueryStatusCompleted,
		SQLQuery:  &out.SQLQuery,
		Answer:    &out.Answer,
		ChartSpec: out.ChartSpec,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.query.usecase.Ask.UpdateResult: %v", err)
		return query.QueryOutput{}, err
	}
	uc.publishQueryUpdate(ctx, sc.UserID, qr)

	return query.QueryOutput{Query: qr}, nil
}

func (uc *usecase) Get(ctx context.Context, sc model.Scope, ip query.GetInput) (query.GetQueryOutput, error) {
	queries, pag, err := uc.repo.Get(ctx, sc, repository.GetOptions{
		PaginateQuery: ip.PaginateQuery,
		DatasetID:     ip.DatasetID,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.query.usecase.Get: %v", err)
		return query.GetQueryOutput{}, err
	}

	return query.GetQueryOutput{
		Queries:   queries,
		Paginator: pag,
	}, nil
}

func (uc *usecase) Detail(ctx context.Context, sc model.Scope, id string) (query.QueryOutput, error) {
	qr, err := uc.repo.Detail(ctx, sc, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return query.QueryOutput{}, query.ErrQueryNotFound
		}
		uc.l.Errorf(ctx, "internal.query.usecase.Detail: %v", err)
		return query.QueryOutput{}, err
	}

	return query.QueryOutput{Query: qr}, nil
}

// publishQueryUpdate emits the query's current status on the channel.
// Publish failures are logged only; the database already holds the truth.
func (uc *usecase) publishQueryUpdate(ctx context.Context, userID string, qr model.Query) {
	payload := notifier.QueryUpdatePayload{
		QueryID:   qr.ID,
		DatasetID: qr.DatasetID,
		Status:    qr.Status,
	}
	if qr.ErrorMessage != nil {
		payload.Error = *qr.ErrorMessage
	}

	msg, err := notifier.NewMessage(notifier.MessageTypeQueryUpdate, payload)
	if err != nil {
		uc.l.Errorf(ctx, "internal.query.usecase.publishQueryUpdate.NewMessage: %v", err)
		return
	}

	if err := uc.publisher.PublishToUser(ctx, userID, msg); err != nil {
		uc.l.Warnf(ctx, "internal.query.usecase.publishQueryUpdate.Publish: %v", err)
	}
}
