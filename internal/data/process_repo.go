package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/giraone/jobadmin/internal/data/database"
	"github.com/giraone/jobadmin/internal/domain/model"
	apperrors "github.com/giraone/jobadmin/internal/errors"
	"github.com/google/uuid"
)

// ProcessRepo persists processes in PostgreSQL.
type ProcessRepo struct {
	DB    *sql.DB
	newID func() string
}

// NewProcessRepo creates a new ProcessRepo.
func NewProcessRepo(db *sql.DB) *ProcessRepo {
	return &ProcessRepo{DB: db, newID: uuid.NewString}
}

const (
	processTable = "process"

	processSelectColumns = `id, process_key, name, activation, agent_key, bucket_key_if_paused`

	processGetByIDQuery = `SELECT ` + processSelectColumns + ` FROM process WHERE id = $1`

	processInsertQuery = `
		INSERT INTO process (id, process_key, name, activation, agent_key, bucket_key_if_paused)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + processSelectColumns

	processUpdateQuery = `
		UPDATE process
		SET process_key = $2, name = $3, activation = $4, agent_key = $5, bucket_key_if_paused = $6
		WHERE id = $1
		RETURNING ` + processSelectColumns
)

// processSortColumns maps REST sort predicates to columns.
var processSortColumns = map[string]string{
	"id":                "id",
	"key":               "process_key",
	"name":              "name",
	"activation":        "activation",
	"agentKey":          "agent_key",
	"bucketKeyIfPaused": "bucket_key_if_paused",
}

func processColumns() []string {
	return []string{"id", "process_key", "name", "activation", "agent_key", "bucket_key_if_paused"}
}

// Create inserts a process. An id is generated when none is set.
func (r *ProcessRepo) Create(ctx context.Context, p *model.Process) (*model.Process, error) {
	if p == nil {
		return nil, errors.New("process is required")
	}
	id := p.ID
	if id == "" {
		id = r.newID()
	}
	row := r.DB.QueryRowContext(ctx, processInsertQuery,
		id, p.Key, p.Name, string(p.Activation), nullString(p.AgentKey), nullString(p.BucketKeyIfPaused))
	created, err := scanProcess(row)
	if err != nil {
		return nil, fmt.Errorf("create process: %w", apperrors.MapDBError(err))
	}
	return created, nil
}

// GetByID returns the process with the given id or ErrProcessNotFound.
func (r *ProcessRepo) GetByID(ctx context.Context, id string) (*model.Process, error) {
	p, err := scanProcess(r.DB.QueryRowContext(ctx, processGetByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProcessNotFound
		}
		return nil, fmt.Errorf("get process: %w", err)
	}
	return p, nil
}

// Update replaces all mutable columns of an existing process.
func (r *ProcessRepo) Update(ctx context.Context, p *model.Process) (*model.Process, error) {
	if p == nil || p.ID == "" {
		return nil, errors.New("process id is required")
	}
	row := r.DB.QueryRowContext(ctx, processUpdateQuery,
		p.ID, p.Key, p.Name, string(p.Activation), nullString(p.AgentKey), nullString(p.BucketKeyIfPaused))
	updated, err := scanProcess(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProcessNotFound
		}
		return nil, fmt.Errorf("update process: %w", apperrors.MapDBError(err))
	}
	return updated, nil
}

// List returns one page of processes and the total count.
func (r *ProcessRepo) List(ctx context.Context, req model.PageRequest) (model.Page[model.Process], error) {
	order, err := orderTerms(req.Sort, processSortColumns, "")
	if err != nil {
		return model.Page[model.Process]{}, err
	}

	total, err := r.count(ctx)
	if err != nil {
		return model.Page[model.Process]{}, err
	}

	queryOpts := []database.ListQueryOption{
		database.WithColumns(processColumns()...),
		database.WithLimit(req.Size),
		database.WithOffset(req.Offset()),
	}
	for _, term := range order {
		queryOpts = append(queryOpts, database.WithOrderBy(term.Column, term.Desc))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions(processTable, queryOpts...))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return model.Page[model.Process]{}, fmt.Errorf("list processes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Process, 0, max(req.Size, 0))
	for rows.Next() {
		p, scanErr := scanProcess(rows)
		if scanErr != nil {
			return model.Page[model.Process]{}, fmt.Errorf("scan process: %w", scanErr)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return model.Page[model.Process]{}, fmt.Errorf("iterate processes: %w", err)
	}
	return model.Page[model.Process]{Items: items, TotalCount: total}, nil
}

func (r *ProcessRepo) count(ctx context.Context) (int64, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions(processTable, database.WithCountOnly()))
	var total int64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count processes: %w", err)
	}
	return total, nil
}

// Delete deletes a process by id. Deleting a process still referenced by
// job records fails with a foreign key AppError.
func (r *ProcessRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM process WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete process: %w", apperrors.MapDBError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete process: %w", err)
	}
	return n > 0, nil
}

// DeleteAll deletes every process and returns the number of deleted rows.
func (r *ProcessRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM process`)
	if err != nil {
		return 0, fmt.Errorf("delete all processes: %w", apperrors.MapDBError(err))
	}
	return res.RowsAffected()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProcess(row rowScanner) (*model.Process, error) {
	var (
		p          model.Process
		activation string
		agentKey   sql.NullString
		bucketKey  sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Key, &p.Name, &activation, &agentKey, &bucketKey); err != nil {
		return nil, err
	}
	p.Activation = model.Activation(activation)
	p.AgentKey = agentKey.String
	p.BucketKeyIfPaused = bucketKey.String
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// orderTerms translates sort orders into ORDER BY terms. Columns are qualified
// with alias when one is given. Unknown predicates yield a validation error.
// Without any sort the listing is ordered by id ascending.
func orderTerms(sorts []model.SortOrder, columns map[string]string, alias string) ([]database.OrderTerm, error) {
	qualify := func(col string) string {
		if alias == "" {
			return col
		}
		return alias + "." + col
	}
	if len(sorts) == 0 {
		return []database.OrderTerm{{Column: qualify("id")}}, nil
	}
	terms := make([]database.OrderTerm, 0, len(sorts))
	for _, s := range sorts {
		col, ok := columns[s.Field]
		if !ok {
			return nil, apperrors.ValidationField("sort", fmt.Sprintf("unsupported sort field %q", s.Field))
		}
		terms = append(terms, database.OrderTerm{Column: qualify(col), Desc: !s.Ascending})
	}
	return terms, nil
}
