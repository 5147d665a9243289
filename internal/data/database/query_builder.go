package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
	defaultLimit                     = -1
	defaultOffset                    = -1
	// maxAliasParts is the maximum number of parts when splitting on " AS ".
	maxAliasParts = 2
)

var asRegex = regexp.MustCompile(`(?i)\s+AS\s+`)

type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// OrderTerm is one ORDER BY key.
type OrderTerm struct {
	Column string
	Desc   bool
}

type ListQueryOptions struct {
	Table      string
	Alias      string
	Joins      []string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    []OrderTerm
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithAlias sets the alias of the main table.
func WithAlias(alias string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Alias = alias
	}
}

// WithJoin appends a JOIN clause. The clause is emitted verbatim and must not contain user input.
func WithJoin(clause string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Joins = append(o.Joins, clause)
	}
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithOrderBy appends an ordering key. Later keys break ties of earlier ones.
func WithOrderBy(column string, desc bool) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = append(o.OrderBy, OrderTerm{Column: column, Desc: desc})
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly sets the query to count only.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) {
		o.CountOnly = true
	}
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// sanitizeQualifiedIdentifier sanitizes identifiers like "table.column".
func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// processColumnSpec sanitizes "column" or "column AS alias".
func processColumnSpec(columnSpec string) string {
	if asRegex.MatchString(columnSpec) {
		parts := asRegex.Split(columnSpec, maxAliasParts)
		if len(parts) == maxAliasParts {
			return fmt.Sprintf("%s AS %s",
				sanitizeQualifiedIdentifier(strings.TrimSpace(parts[0])),
				sanitizeIdentifier(strings.TrimSpace(parts[1])))
		}
	}
	return sanitizeQualifiedIdentifier(columnSpec)
}

func buildSelectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "SELECT COUNT(*) "
	}
	if len(options.Columns) == 0 {
		return "SELECT * "
	}
	processed := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		processed[i] = processColumnSpec(col)
	}
	return fmt.Sprintf("SELECT %s ", strings.Join(processed, ", "))
}

func buildFromClause(options *ListQueryOptions) string {
	var b strings.Builder
	b.WriteString("FROM ")
	b.WriteString(sanitizeIdentifier(options.Table))
	if options.Alias != "" {
		b.WriteString(" ")
		b.WriteString(sanitizeIdentifier(options.Alias))
	}
	for _, j := range options.Joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	return b.String()
}

func buildPaginationAndOrderClause(options *ListQueryOptions, paramCount int, args []any) (string, []any) {
	var clause strings.Builder

	if len(options.OrderBy) > 0 {
		terms := make([]string, len(options.OrderBy))
		for i, term := range options.OrderBy {
			dir := "ASC"
			if term.Desc {
				dir = "DESC"
			}
			terms[i] = sanitizeQualifiedIdentifier(term.Column) + " " + dir
		}
		clause.WriteString(" ORDER BY ")
		clause.WriteString(strings.Join(terms, ", "))
	}

	if options.Limit != defaultLimit {
		clause.WriteString(fmt.Sprintf(" LIMIT $%d", paramCount))
		args = append(args, options.Limit)
		paramCount++
	}
	if options.Offset != defaultOffset {
		clause.WriteString(fmt.Sprintf(" OFFSET $%d", paramCount))
		args = append(args, options.Offset)
	}

	return clause.String(), args
}

// BuildListQuery constructs a SQL query and its arguments from options, sanitizing identifiers.
//
// Example:
//
//	options := NewListQueryOptions("job_record",
//		WithAlias("j"),
//		WithJoin(`JOIN "process" "p" ON "p"."id" = "j"."process_id"`),
//		WithColumns("j.id", "p.process_key AS process_key"),
//		WithCondition(WhereCond("j.status", Equal, "PAUSED")),
//		WithOrderBy("j.status", false),
//		WithOrderBy("j.id", false),
//		WithLimit(20),
//		WithOffset(0),
//	)
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(buildSelectClause(options))
	query.WriteString(buildFromClause(options))

	whereClause, whereArgs, nextParam := buildWhereClause(options.Conditions, 1)
	if whereClause != "" {
		query.WriteString(" ")
		query.WriteString(whereClause)
	}
	if options.CountOnly {
		return query.String(), whereArgs
	}

	tail, args := buildPaginationAndOrderClause(options, nextParam, whereArgs)
	query.WriteString(tail)
	return query.String(), args
}

func processCondition(cond Condition, paramCount int) (string, []any, int) {
	if cond.Field == "" {
		return "", nil, paramCount
	}
	field := sanitizeQualifiedIdentifier(cond.Field)

	switch cond.Type {
	case In:
		rv := reflect.ValueOf(cond.Value)
		if rv.Kind() != reflect.Slice || rv.Len() == 0 {
			return "", nil, paramCount
		}
		placeholders := make([]string, rv.Len())
		args := make([]any, rv.Len())
		for i := range rv.Len() {
			placeholders[i] = fmt.Sprintf("$%d", paramCount)
			args[i] = rv.Index(i).Interface()
			paramCount++
		}
		return fmt.Sprintf("%s IN (%s)", field, strings.Join(placeholders, ", ")), args, paramCount
	case Equal, NotEqual, GreaterThan, LessThan, LessThanOrEqual, GreaterThanOrEqual, ILike:
		return fmt.Sprintf("%s %s $%d", field, cond.Type, paramCount), []any{cond.Value}, paramCount + 1
	default:
		return "", nil, paramCount
	}
}

func buildWhereClause(inputConditions []Condition, startParamIndex int) (string, []any, int) {
	conditions := make([]string, 0, len(inputConditions))
	args := []any{}
	paramCount := startParamIndex

	for _, cond := range inputConditions {
		conditionStr, newArgs, next := processCondition(cond, paramCount)
		if conditionStr != "" {
			conditions = append(conditions, conditionStr)
			args = append(args, newArgs...)
			paramCount = next
		}
	}

	if len(conditions) == 0 {
		return "", args, paramCount
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, paramCount
}
