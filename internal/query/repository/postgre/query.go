package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aarondl/null/v8"

	"aibi-gateway/internal/model"
	"aibi-gateway/internal/query/repository"
	"aibi-gateway/pkg/paginator"
	postgresPkg "aibi-gateway/pkg/postgre"
)

const queryColumns = `id, user_id, dataset_id, question, sql_query, answer,
	chart_spec, status, error_message, created_at, updated_at`

func scanQuery(row interface{ Scan(...any) error }) (model.Query, error) {
	var (
		qr        model.Query
		sqlQuery  null.String
		answer    null.String
		chartSpec null.Bytes
		errMsg    null.String
	)

	err := row.Scan(
		&qr.ID, &qr.UserID, &qr.DatasetID, &qr.Question, &sqlQuery, &answer,
		&chartSpec, &qr.Status, &errMsg, &qr.CreatedAt, &qr.UpdatedAt,
	)
	if err != nil {
		return model.Query{}, err
	}

	if sqlQuery.Valid {
		qr.SQLQuery = &sqlQuery.String
	}
	if answer.Valid {
		qr.Answer = &answer.String
	}
	if chartSpec.Valid {
		qr.ChartSpec = json.RawMessage(chartSpec.Bytes)
	}
	if errMsg.Valid {
		qr.ErrorMessage = &errMsg.String
	}

	return qr, nil
}

func (r *implRepository) Create(ctx context.Context, sc model.Scope, opts repository.CreateOptions) (model.Query, error) {
	qr := opts.Query
	if err := postgresPkg.IsUUID(qr.ID); err != nil {
		r.l.Errorf(ctx, "internal.query.repository.postgres.Create.IsUUID: %v", err)
		return model.Query{}, err
	}

	now := r.clock()
	qr.CreatedAt = now
	qr.UpdatedAt = now

	const q = `
		INSERT INTO queries (id, user_id, dataset_id, question, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, q,
		qr.ID, qr.UserID, qr.DatasetID, qr.Question, qr.Status, qr.CreatedAt, qr.UpdatedAt,
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.query.repository.postgres.Create.Exec: %v", err)
		return model.Query{}, err
	}

	return qr, nil
}

func (r *implRepository) Get(ctx context.Context, sc model.Scope, opts repository.GetOptions) ([]model.Query, paginator.Paginator, error) {
	pq := opts.PaginateQuery
	pq.Adjust()

	args := []any{sc.UserID}
	cond := `user_id = $1`
	if opts.DatasetID != "" {
		args = append(args, opts.DatasetID)
		cond += ` AND dataset_id = $2`
	}

	var total int64
	countQ := `SELECT COUNT(*) FROM queries WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "internal.query.repository.postgres.Get.Count: %v", err)
		return nil, paginator.Paginator{}, err
	}

	q := `SELECT ` + queryColumns + `
		FROM queries
		WHERE ` + cond + `
		ORDER BY created_at DESC
		LIMIT ` + fmt.Sprintf("$%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pq.Limit, pq.Offset())

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		r.l.Errorf(ctx, "internal.query.repository.postgres.Get.Query: %v", err)
		return nil, paginator.Paginator{}, err
	}
	defer rows.Close()

	var queries []model.Query
	for rows.Next() {
		qr, err := scanQuery(rows)
		if err != nil {
			r.l.Errorf(ctx, "internal.query.repository.postgres.Get.Scan: %v", err)
			return nil, paginator.Paginator{}, err
		}
		queries = append(queries, qr)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "internal.query.repository.postgres.Get.Rows: %v", err)
		return nil, paginator.Paginator{}, err
	}

	return queries, paginator.Paginator{
		Total:       total,
		Count:       int64(len(queries)),
		PerPage:     pq.Limit,
		CurrentPage: pq.Page,
	}, nil
}

func (r *implRepository) Detail(ctx context.Context, sc model.Scope, id string) (model.Query, error) {
	if err := postgresPkg.IsUUID(id); err != nil {
		r.l.Errorf(ctx, "internal.query.repository.postgres.Detail.IsUUID: %v", err)
		return model.Query{}, err
	}

	q := `SELECT ` + queryColumns + `
		FROM queries
		WHERE id = $1 AND user_id = $2`

	qr, err := scanQuery(r.db.QueryRowContext(ctx, q, id, sc.UserID))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Query{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.query.repository.postgres.Detail.Scan: %v", err)
		return model.Query{}, err
	}

	return qr, nil
}

func (r *implRepository) UpdateResult(ctx context.Context, sc model.Scope, opts repository.UpdateResultOptions) (model.Query, error) {
	if err := postgresPkg.IsUUID(opts.ID); err != nil {
		r.l.Errorf(ctx, "internal.query.repository.postgres.UpdateResult.IsUUID: %v", err)
		return model.Query{}, err
	}

	sqlQuery := null.StringFromPtr(opts.SQLQuery)
	answer := null.StringFromPtr(opts.Answer)
	chartSpec := null.NewBytes(opts.ChartSpec, opts.ChartSpec != nil)
	errMsg := null.StringFromPtr(opts.ErrorMessage)

	q := `UPDATE queries
		SET status = $1,
			sql_query = COALESCE($2, sql_query),
			answer = COALESCE($3, answer),
			chart_spec = COALESCE($4, chart_spec),
			error_message = $5,
			updated_at = $6
		WHERE id = $7 AND user_id = $8
		RETURNING ` + queryColumns

	qr, err := scanQuery(r.db.QueryRowContext(ctx, q,
		opts.Status, sqlQuery, answer, chartSpec, errMsg, r.clock(), opts.ID, sc.UserID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Query{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.query.repository.postgres.UpdateResult.Scan: %v", err)
		return model.Query{}, err
	}

	return qr, nil
}
