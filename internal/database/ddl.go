package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed ddl/*.sql
var ddlFS embed.FS

// SchemaStatements returns the bootstrap DDL for d, one statement per entry.
func SchemaStatements(d Dialect) ([]string, error) {
	raw, err := ddlFS.ReadFile("ddl/" + d.Driver() + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no bootstrap schema for %s: %w", d.Driver(), err)
	}
	var stmts []string
	for _, stmt := range strings.Split(string(raw), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

// EnsureSchema creates the users, saved_tables and custom_themes tables
// when they do not exist. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts, err := SchemaStatements(d)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
