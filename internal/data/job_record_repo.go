package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/giraone/jobadmin/internal/data/database"
	"github.com/giraone/jobadmin/internal/domain/model"
	apperrors "github.com/giraone/jobadmin/internal/errors"
	"github.com/google/uuid"
)

// JobRecordRepo persists job records in PostgreSQL. Reads join the
// referenced process so records carry its key and name.
type JobRecordRepo struct {
	DB    *sql.DB
	newID func() string
}

// NewJobRecordRepo creates a new JobRecordRepo.
func NewJobRecordRepo(db *sql.DB) *JobRecordRepo {
	return &JobRecordRepo{DB: db, newID: uuid.NewString}
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	jobRecordTable = "job_record"
	jobRecordAlias = "j"

	jobRecordJoinedColumns = `
		j.id, j.job_accepted_timestamp, j.last_event_timestamp, j.last_record_update_timestamp,
		j.status, j.paused_bucket_key, j.process_id, p.process_key, p.name`

	jobRecordProcessJoin = `LEFT JOIN "process" "p" ON "p"."id" = "j"."process_id"`

	jobRecordGetByIDQuery = `
		SELECT ` + jobRecordJoinedColumns + `
		FROM job_record j
		LEFT JOIN process p ON p.id = j.process_id
		WHERE j.id = $1`

	jobRecordInsertQuery = `
		WITH j AS (
			INSERT INTO job_record (id, job_accepted_timestamp, last_event_timestamp,
				last_record_update_timestamp, status, paused_bucket_key, process_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT ` + jobRecordJoinedColumns + `
		FROM j
		LEFT JOIN process p ON p.id = j.process_id`

	jobRecordUpdateQuery = `
		WITH j AS (
			UPDATE job_record
			SET job_accepted_timestamp = $2, last_event_timestamp = $3,
				last_record_update_timestamp = $4, status = $5, paused_bucket_key = $6, process_id = $7
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + jobRecordJoinedColumns + `
		FROM j
		LEFT JOIN process p ON p.id = j.process_id`
)

// jobRecordSortColumns maps REST sort predicates to columns.
var jobRecordSortColumns = map[string]string{
	"id":                        "id",
	"jobAcceptedTimestamp":      "job_accepted_timestamp",
	"lastEventTimestamp":        "last_event_timestamp",
	"lastRecordUpdateTimestamp": "last_record_update_timestamp",
	"status":                    "status",
	"pausedBucketKey":           "paused_bucket_key",
	"processId":                 "process_id",
}

func jobRecordColumns() []string {
	return []string{
		"j.id",
		"j.job_accepted_timestamp",
		"j.last_event_timestamp",
		"j.last_record_update_timestamp",
		"j.status",
		"j.paused_bucket_key",
		"j.process_id",
		"p.process_key AS process_key",
		"p.name AS process_name",
	}
}

// Create inserts a job record. An id is generated when none is set.
func (r *JobRecordRepo) Create(ctx context.Context, rec *model.JobRecord) (*model.JobRecord, error) {
	if rec == nil {
		return nil, errors.New("job record is required")
	}
	id := rec.ID
	if id == "" {
		id = r.newID()
	}
	row := r.DB.QueryRowContext(ctx, jobRecordInsertQuery, jobRecordArgs(id, rec)...)
	created, err := scanJobRecord(row)
	if err != nil {
		return nil, fmt.Errorf("create job record: %w", apperrors.MapDBError(err))
	}
	return created, nil
}

// GetByID returns the job record with the given id or ErrJobRecordNotFound.
func (r *JobRecordRepo) GetByID(ctx context.Context, id string) (*model.JobRecord, error) {
	rec, err := scanJobRecord(r.DB.QueryRowContext(ctx, jobRecordGetByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobRecordNotFound
		}
		return nil, fmt.Errorf("get job record: %w", err)
	}
	return rec, nil
}

// Update replaces all mutable columns of an existing job record.
func (r *JobRecordRepo) Update(ctx context.Context, rec *model.JobRecord) (*model.JobRecord, error) {
	if rec == nil || rec.ID == "" {
		return nil, errors.New("job record id is required")
	}
	row := r.DB.QueryRowContext(ctx, jobRecordUpdateQuery, jobRecordArgs(rec.ID, rec)...)
	updated, err := scanJobRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobRecordNotFound
		}
		return nil, fmt.Errorf("update job record: %w", apperrors.MapDBError(err))
	}
	return updated, nil
}

// List returns one page of job records matching filter and the total match count.
func (r *JobRecordRepo) List(
	ctx context.Context,
	filter model.JobRecordFilter,
	req model.PageRequest,
) (model.Page[model.JobRecord], error) {
	order, err := orderTerms(req.Sort, jobRecordSortColumns, jobRecordAlias)
	if err != nil {
		return model.Page[model.JobRecord]{}, err
	}
	conds := jobRecordConditions(filter)

	total, err := r.count(ctx, conds)
	if err != nil {
		return model.Page[model.JobRecord]{}, err
	}

	queryOpts := []database.ListQueryOption{
		database.WithAlias(jobRecordAlias),
		database.WithJoin(jobRecordProcessJoin),
		database.WithColumns(jobRecordColumns()...),
		database.WithLimit(req.Size),
		database.WithOffset(req.Offset()),
	}
	for _, c := range conds {
		queryOpts = append(queryOpts, database.WithCondition(c))
	}
	for _, term := range order {
		queryOpts = append(queryOpts, database.WithOrderBy(term.Column, term.Desc))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions(jobRecordTable, queryOpts...))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return model.Page[model.JobRecord]{}, fmt.Errorf("list job records: %w", err)
	}
	defer rows.Close()

	items := make([]model.JobRecord, 0, max(req.Size, 0))
	for rows.Next() {
		rec, scanErr := scanJobRecord(rows)
		if scanErr != nil {
			return model.Page[model.JobRecord]{}, fmt.Errorf("scan job record: %w", scanErr)
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return model.Page[model.JobRecord]{}, fmt.Errorf("iterate job records: %w", err)
	}
	return model.Page[model.JobRecord]{Items: items, TotalCount: total}, nil
}

func (r *JobRecordRepo) count(ctx context.Context, conds []database.Condition) (int64, error) {
	queryOpts := []database.ListQueryOption{database.WithAlias(jobRecordAlias), database.WithCountOnly()}
	for _, c := range conds {
		queryOpts = append(queryOpts, database.WithCondition(c))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions(jobRecordTable, queryOpts...))
	var total int64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count job records: %w", err)
	}
	return total, nil
}

func jobRecordConditions(filter model.JobRecordFilter) []database.Condition {
	var conds []database.Condition
	if filter.Status != "" {
		conds = append(conds, database.WhereCond("j.status", database.Equal, string(filter.Status)))
	}
	if filter.ProcessID != "" {
		conds = append(conds, database.WhereCond("j.process_id", database.Equal, filter.ProcessID))
	}
	return conds
}

// Delete deletes a job record by id.
func (r *JobRecordRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM job_record WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete job record: %w", apperrors.MapDBError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete job record: %w", err)
	}
	return n > 0, nil
}

// DeleteAll deletes every job record and returns the number of deleted rows.
func (r *JobRecordRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM job_record`)
	if err != nil {
		return 0, fmt.Errorf("delete all job records: %w", apperrors.MapDBError(err))
	}
	return res.RowsAffected()
}

func jobRecordArgs(id string, rec *model.JobRecord) []any {
	return []any{
		id,
		rec.JobAcceptedTimestamp.UTC(),
		rec.LastEventTimestamp.UTC(),
		rec.LastRecordUpdateTimestamp.UTC(),
		string(rec.Status),
		nullString(rec.PausedBucketKey),
		rec.ProcessID(),
	}
}

func scanJobRecord(row rowScanner) (*model.JobRecord, error) {
	var (
		rec         model.JobRecord
		status      string
		bucketKey   sql.NullString
		processID   string
		processKey  sql.NullString
		processName sql.NullString
		accepted    time.Time
		lastEvent   time.Time
		lastUpdate  time.Time
	)
	if err := row.Scan(
		&rec.ID, &accepted, &lastEvent, &lastUpdate,
		&status, &bucketKey, &processID, &processKey, &processName,
	); err != nil {
		return nil, err
	}
	rec.JobAcceptedTimestamp = accepted.UTC()
	rec.LastEventTimestamp = lastEvent.UTC()
	rec.LastRecordUpdateTimestamp = lastUpdate.UTC()
	rec.Status = model.JobStatus(status)
	rec.PausedBucketKey = bucketKey.String
	rec.Process = &model.ProcessRef{ID: processID, Key: processKey.String, Name: processName.String}
	return &rec, nil
}
