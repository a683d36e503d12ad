package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// QueryBuilder wraps sqlx with the dialect's bind type. Queries are written
// with ? placeholders or :named parameters and rebound per driver.
type QueryBuilder struct {
	db      *sqlx.DB
	dialect Dialect
}

// NewQueryBuilder creates a QueryBuilder over an existing connection.
func NewQueryBuilder(db *sql.DB, d Dialect) *QueryBuilder {
	return &QueryBuilder{db: sqlx.NewDb(db, d.Driver()), dialect: d}
}

// DB returns the underlying sqlx handle.
func (qb *QueryBuilder) DB() *sqlx.DB {
	return qb.db
}

// Dialect returns the dialect the builder binds for.
func (qb *QueryBuilder) Dialect() Dialect {
	return qb.dialect
}

// Rebind converts ? placeholders to the dialect's bind type.
func (qb *QueryBuilder) Rebind(query string) string {
	return sqlx.Rebind(qb.dialect.BindType(), query)
}

// SelectContext runs a query and scans all rows into dest (a slice of structs).
func (qb *QueryBuilder) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return qb.db.SelectContext(ctx, dest, qb.Rebind(query), args...)
}

// GetContext runs a query expecting one row and scans it into dest.
func (qb *QueryBuilder) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return qb.db.GetContext(ctx, dest, qb.Rebind(query), args...)
}

// ExecContext runs a statement without returning rows.
func (qb *QueryBuilder) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return qb.db.ExecContext(ctx, qb.Rebind(query), args...)
}

// NamedExecContext runs a statement with :named parameters bound from arg.
func (qb *QueryBuilder) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	return qb.db.NamedExecContext(ctx, query, arg)
}

// NamedGetContext runs a :named query expecting one row, e.g. INSERT ... RETURNING.
func (qb *QueryBuilder) NamedGetContext(ctx context.Context, dest interface{}, query string, arg interface{}) error {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	return qb.GetContext(ctx, dest, q, args...)
}

// SelectBuilder builds SELECT statements fluently.
type SelectBuilder struct {
	qb       *QueryBuilder
	columns  []string
	table    string
	where    []string
	args     []interface{}
	orderBy  []string
	limit    int
	hasLimit bool
}

// NewSelect starts a SELECT of columns.
func (qb *QueryBuilder) NewSelect(columns ...string) *SelectBuilder {
	return &SelectBuilder{qb: qb, columns: columns}
}

// From sets the table.
func (sb *SelectBuilder) From(table string) *SelectBuilder {
	sb.table = table
	return sb
}

// Where adds an AND-ed condition with ? placeholders.
func (sb *SelectBuilder) Where(condition string, args ...interface{}) *SelectBuilder {
	sb.where = append(sb.where, condition)
	sb.args = append(sb.args, args...)
	return sb
}

// OrderBy appends ORDER BY terms.
func (sb *SelectBuilder) OrderBy(columns ...string) *SelectBuilder {
	sb.orderBy = append(sb.orderBy, columns...)
	return sb
}

// Limit sets LIMIT.
func (sb *SelectBuilder) Limit(limit int) *SelectBuilder {
	sb.limit = limit
	sb.hasLimit = true
	return sb
}

// ToSQL renders the statement, rebound for the dialect, with its arguments.
func (sb *SelectBuilder) ToSQL() (string, []interface{}, error) {
	if sb.table == "" {
		return "", nil, fmt.Errorf("table not specified")
	}

	var query strings.Builder
	query.WriteString("SELECT ")
	if len(sb.columns) == 0 {
		query.WriteString("*")
	} else {
		query.WriteString(strings.Join(sb.columns, ", "))
	}
	query.WriteString(" FROM ")
	query.WriteString(sb.table)

	args := append([]interface{}(nil), sb.args...)
	if len(sb.where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(sb.where, " AND "))
	}
	if len(sb.orderBy) > 0 {
		query.WriteString(" ORDER BY ")
		query.WriteString(strings.Join(sb.orderBy, ", "))
	}
	if sb.hasLimit {
		query.WriteString(" LIMIT ?")
		args = append(args, sb.limit)
	}
	return sb.qb.Rebind(query.String()), args, nil
}

// SelectContext runs the query and scans all rows into dest.
func (sb *SelectBuilder) SelectContext(ctx context.Context, dest interface{}) error {
	query, args, err := sb.ToSQL()
	if err != nil {
		return err
	}
	return sb.qb.db.SelectContext(ctx, dest, query, args...)
}

// GetContext runs the query expecting one row.
func (sb *SelectBuilder) GetContext(ctx context.Context, dest interface{}) error {
	query, args, err := sb.ToSQL()
	if err != nil {
		return err
	}
	return sb.qb.db.GetContext(ctx, dest, query, args...)
}
