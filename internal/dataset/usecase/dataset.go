package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"aibi-gateway/internal/dataset"
	"aibi-gateway/internal/dataset/repository"
	"aibi-gateway/internal/engine"
	"aibi-gateway/internal/model"
	"aibi-gateway/internal/notifier"
	pkgMinio "aibi-gateway/pkg/minio"
	postgresPkg "aibi-gateway/pkg/postgre"
)

var contentTypes = map[string]string{
	"csv":  "text/csv",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xls":  "application/vnd.ms-excel",
}

func (uc *usecase) Upload(ctx context.Context, sc model.Scope, ip dataset.UploadInput) (dataset.DatasetOutput, error) {
	fileType := strings.ToLower(strings.TrimSpace(ip.FileType))
	if fileType == "" {
		fileType = strings.TrimPrefix(strings.ToLower(filepath.Ext(ip.FileName)), ".")
	}

	contentType, ok := contentTypes[fileType]
	if !ok {
		return dataset.DatasetOutput{}, dataset.ErrUnsupportedFileType
	}
	if ip.Size <= 0 || ip.Reader == nil {
		return dataset.DatasetOutput{}, dataset.ErrEmptyFile
	}
	if ip.Size > uc.maxUploadSize {
		return dataset.DatasetOutput{}, dataset.ErrFileTooLarge
	}

	id := postgresPkg.NewUUID()
	objectKey := sc.UserID + "/" + id + "." + fileType

	if _, err := uc.storage.UploadFile(ctx, &pkgMinio.UploadRequest{
		BucketName:   uc.bucket,
		ObjectName:   objectKey,
		OriginalName: ip.FileName,
		Reader:       ip.Reader,
		Size:         ip.Size,
		ContentType:  contentType,
	}); err != nil {
		uc.l.Errorf(ctx, "internal.dataset.usecase.Upload.UploadFile: %v", err)
		return dataset.DatasetOutput{}, err
	}

	ds, err := uc.repo.Create(ctx, sc, repository.CreateOptions{
		Dataset: model.Dataset{
			ID:        id,
			UserID:    sc.UserID,
			Name:      ip.FileName,
			ObjectKey: objectKey,
			FileType:  fileType,
			SizeBytes: ip.Size,
			Status:    model.DatasetStatusUploaded,
		},
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.dataset.usecase.Upload.Create: %v", err)
		return dataset.DatasetOutput{}, err
	}

	if err := uc.engine.ProcessDataset(ctx, engine.ProcessDatasetInput{
		DatasetID: ds.ID,
		UserID:    sc.UserID,
		ObjectKey: ds.ObjectKey,
		FileType:  ds.FileType,
	}); err != nil {
		uc.l.Errorf(ctx, "internal.dataset.usecase.Upload.ProcessDataset: %v", err)

		msg := err.Error()
		failed, updErr := uc.repo.UpdateStatus(ctx, sc, repository.UpdateStatusOptions{
			ID:           ds.ID,
			Status:       model.DatasetStatusFailed,
			ErrorMessage: &msg,
		})
		if updErr != nil {
			uc.l.Errorf(ctx, "internal.dataset.usecase.Upload.UpdateStatus: %v", updErr)
		} else {
			uc.publishProcessingUpdate(ctx, sc.UserID, failed)
		}
		return dataset.DatasetOutput{}, err
	}

	ds, err = uc.repo.UpdateStatus(ctx, sc, repository.UpdateStatusOptions{
		ID:     ds.ID,
		Status: model.DatasetStatusProcessing,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.dataset.usecase.Upload.UpdateStatus: %v", err)
		return dataset.DatasetOutput{}, err
	}

	uc.publishProcessingUpdate(ctx, sc.UserID, ds)

	return dataset.DatasetOutput{Dataset: ds}, nil
}

func (uc *usecase) Get(ctx context.Context, sc model.Scope, ip dataset.GetInput) (dataset.GetDatasetOutput, error) {
	datasets, pag, err := uc.repo.Get(ctx, sc, repository.GetOptions{PaginateQuery: ip.PaginateQuery})
	if err != nil {
		uc.l.Errorf(ctx, "internal.dataset.usecase.Get: %v", err)
		return dataset.GetDatasetOutput{}, err
	}

	return dataset.GetDatasetOutput{
		Datasets:  datasets,
		Paginator: pag,
	}, nil
}

func (uc *usecase) Detail(ctx context.Context, sc model.Scope, id string) (dataset.DatasetOutput, error) {
	ds, err := uc.repo.Detail(ctx, sc, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return dataset.DatasetOutput{}, dataset.ErrDatasetNotFound
		}
		uc.l.Errorf(ctx, "internal.dataset.usecase.Detail: %v", err)
		return dataset.DatasetOutput{}, err
	}

	return dataset.DatasetOutput{Dataset: ds}, nil
}

func (uc *usecase) Delete(ctx context.Context, sc model.Scope, id string) error {
	ds, err := uc.repo.Detail(ctx, sc, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return dataset.ErrDatasetNotFound
		}
		uc.l.Errorf(ctx, "internal.dataset.usecase.Delete.Detail: %v", err)
		return err
	}

	if err := uc.repo.Delete(ctx, sc, id); err != nil {
		if err == repository.ErrNotFound {
			return dataset.ErrDatasetNotFound
		}
		uc.l.Errorf(ctx, "internal.dataset.usecase.Delete: %v", err)
		return err
	}

	// The record is gone either way; a leaked object only wastes space.
	if err := uc.storage.DeleteFile(ctx, uc.bucket, ds.ObjectKey); err != nil {
		uc.l.Warnf(ctx, "internal.dataset.usecase.Delete.DeleteFile: %v", err)
	}

	return nil
}

func (uc *usecase) MarkProcessed(ctx context.Context, sc model.Scope, ip dataset.MarkProcessedInput) (dataset.DatasetOutput, error) {
	if ip.Status != model.DatasetStatusReady && ip.Status != model.DatasetStatusFailed {
		return dataset.DatasetOutput{}, dataset.ErrInvalidStatus
	}

	var errMsg *string
	if ip.ErrorMessage != "" {
		errMsg = &ip.ErrorMessage
	}

	ds, err := uc.repo.UpdateStatus(ctx, sc, repository.UpdateStatusOptions{
		ID:           ip.DatasetID,
		Status:       ip.Status,
		RowCount:     ip.RowCount,
		ColumnInfo:   ip.ColumnInfo,
		ErrorMessage: errMsg,
	})
	if err != nil {
		if err == repository.ErrNotFound {
			return dataset.DatasetOutput{}, dataset.ErrDatasetNotFound
		}
		uc.l.Errorf(ctx, "internal.dataset.usecase.MarkProcessed: %v", err)
		return dataset.DatasetOutput{}, err
	}

	uc.publishProcessingUpdate(ctx, sc.UserID, ds)

	return dataset.DatasetOutput{Dataset: ds}, nil
}

// publishProcessingUpdate emits the dataset's current status on the channel.
// Publish failures are logged only; the database already holds the truth.
func (uc *usecase) publishProcessingUpdate(ctx context.Context, userID string, ds model.Dataset) {
	payload := notifier.ProcessingUpdatePayload{
		DatasetID: ds.ID,
		Status:    ds.Status,
		RowCount:  ds.RowCount,
	}
	if ds.ErrorMessage != nil {
		payload.Error = *ds.ErrorMessage
	}

	msg, err := notifier.NewMessage(notifier.MessageTypeDataProcessingUpdate, payload)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dataset.usecase.publishProcessingUpdate.NewMessage: %v", err)
		return
	}

	if err := uc.publisher.PublishToUser(ctx, userID, msg); err != nil {
		uc.l.Warnf(ctx, "internal.dataset.usecase.publishProcessingUpdate.Publish: %v", err)
	}
}
