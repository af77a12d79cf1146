package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/aarondl/null/v8"

	"aibi-gateway/internal/dataset/repository"
	"aibi-gateway/internal/model"
	"aibi-gateway/pkg/paginator"
	postgresPkg "aibi-gateway/pkg/postgre"
)

const datasetColumns = `id, user_id, name, object_key, file_type, size_bytes,
	row_count, column_info, status, error_message, created_at, updated_at, deleted_at`

func scanDataset(row interface{ Scan(...any) error }) (model.Dataset, error) {
	var (
		ds         model.Dataset
		rowCount   null.Int64
		columnInfo null.Bytes
		errMsg     null.String
		deletedAt  null.Time
	)

	err := row.Scan(
		&ds.ID, &ds.UserID, &ds.Name, &ds.ObjectKey, &ds.FileType, &ds.SizeBytes,
		&rowCount, &columnInfo, &ds.Status, &errMsg, &ds.CreatedAt, &ds.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return model.Dataset{}, err
	}

	if rowCount.Valid {
		ds.RowCount = &rowCount.Int64
	}
	if columnInfo.Valid {
		ds.ColumnInfo = json.RawMessage(columnInfo.Bytes)
	}
	if errMsg.Valid {
		ds.ErrorMessage = &errMsg.String
	}
	if deletedAt.Valid {
		ds.DeletedAt = &deletedAt.Time
	}

	return ds, nil
}

func (r *implRepository) Create(ctx context.Context, sc model.Scope, opts repository.CreateOptions) (model.Dataset, error) {
	ds := opts.Dataset
	if err := postgresPkg.IsUUID(ds.ID); err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Create.IsUUID: %v", err)
		return model.Dataset{}, err
	}

	now := r.clock()
	ds.CreatedAt = now
	ds.UpdatedAt = now

	const q = `
		INSERT INTO datasets (id, user_id, name, object_key, file_type, size_bytes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, q,
		ds.ID, ds.UserID, ds.Name, ds.ObjectKey, ds.FileType, ds.SizeBytes, ds.Status, ds.CreatedAt, ds.UpdatedAt,
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Create.Exec: %v", err)
		return model.Dataset{}, err
	}

	return ds, nil
}

func (r *implRepository) Get(ctx context.Context, sc model.Scope, opts repository.GetOptions) ([]model.Dataset, paginator.Paginator, error) {
	pq := opts.PaginateQuery
	pq.Adjust()

	var total int64
	const countQ = `SELECT COUNT(*) FROM datasets WHERE user_id = $1 AND deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, countQ, sc.UserID).Scan(&total); err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Get.Count: %v", err)
		return nil, paginator.Paginator{}, err
	}

	q := `SELECT ` + datasetColumns + `
		FROM datasets
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, q, sc.UserID, pq.Limit, pq.Offset())
	if err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Get.Query: %v", err)
		return nil, paginator.Paginator{}, err
	}
	defer rows.Close()

	var datasets []model.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			r.l.Errorf(ctx, "internal.dataset.repository.postgres.Get.Scan: %v", err)
			return nil, paginator.Paginator{}, err
		}
		datasets = append(datasets, ds)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Get.Rows: %v", err)
		return nil, paginator.Paginator{}, err
	}

	return datasets, paginator.Paginator{
		Total:       total,
		Count:       int64(len(datasets)),
		PerPage:     pq.Limit,
		CurrentPage: pq.Page,
	}, nil
}

func (r *implRepository) Detail(ctx context.Context, sc model.Scope, id string) (model.Dataset, error) {
	if err := postgresPkg.IsUUID(id); err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Detail.IsUUID: %v", err)
		return model.Dataset{}, err
	}

	q := `SELECT ` + datasetColumns + `
		FROM datasets
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	ds, err := scanDataset(r.db.QueryRowContext(ctx, q, id, sc.UserID))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Dataset{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Detail.Scan: %v", err)
		return model.Dataset{}, err
	}

	return ds, nil
}

func (r *implRepository) UpdateStatus(ctx context.Context, sc model.Scope, opts repository.UpdateStatusOptions) (model.Dataset, error) {
	if err := postgresPkg.IsUUID(opts.ID); err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.UpdateStatus.IsUUID: %v", err)
		return model.Dataset{}, err
	}

	rowCount := null.Int64FromPtr(opts.RowCount)
	columnInfo := null.NewBytes(opts.ColumnInfo, opts.ColumnInfo != nil)
	errMsg := null.StringFromPtr(opts.ErrorMessage)

	q := `UPDATE datasets
		SET status = $1,
			row_count = COALESCE($2, row_count),
			column_info = COALESCE($3, column_info),
			error_message = $4,
			updated_at = $5
		WHERE id = $6 AND user_id = $7 AND deleted_at IS NULL
		RETURNING ` + datasetColumns

	ds, err := scanDataset(r.db.QueryRowContext(ctx, q,
		opts.Status, rowCount, columnInfo, errMsg, r.clock(), opts.ID, sc.UserID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Dataset{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.UpdateStatus.Scan: %v", err)
		return model.Dataset{}, err
	}

	return ds, nil
}

func (r *implRepository) Delete(ctx context.Context, sc model.Scope, id string) error {
	if err := postgresPkg.IsUUID(id); err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Delete.IsUUID: %v", err)
		return err
	}

	const q = `UPDATE datasets
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, q, r.clock(), id, sc.UserID)
	if err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Delete.Exec: %v", err)
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		r.l.Errorf(ctx, "internal.dataset.repository.postgres.Delete.RowsAffected: %v", err)
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
