// Package database opens SQL connections and smooths over the differences
// between the supported drivers.
package database

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Supported driver names, as registered with database/sql.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

var placeholderPattern = regexp.MustCompile(`\$\d+`)

// Dialect describes one SQL driver. Queries are written with PostgreSQL
// placeholders ($1, $2) and converted with Rebind.
type Dialect struct {
	driver string
}

// DialectFor normalizes a driver name or alias.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pg":
		return Dialect{driver: DriverPostgres}, nil
	case "mysql", "mariadb":
		return Dialect{driver: DriverMySQL}, nil
	case "sqlite", "sqlite3":
		return Dialect{driver: DriverSQLite}, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
}

// Driver returns the database/sql driver name.
func (d Dialect) Driver() string { return d.driver }

// IsPostgres reports whether the dialect is PostgreSQL.
func (d Dialect) IsPostgres() bool { return d.driver == DriverPostgres }

// IsMySQL reports whether the dialect is MySQL/MariaDB.
func (d Dialect) IsMySQL() bool { return d.driver == DriverMySQL }

// IsSQLite reports whether the dialect is SQLite.
func (d Dialect) IsSQLite() bool { return d.driver == DriverSQLite }

// Rebind converts $n placeholders to ? for drivers that need it.
func (d Dialect) Rebind(query string) string {
	if d.IsPostgres() {
		return query
	}
	return placeholderPattern.ReplaceAllString(query, "?")
}

// SupportsReturning reports whether INSERT ... RETURNING id is used
// instead of LastInsertId.
func (d Dialect) SupportsReturning() bool {
	return d.IsPostgres()
}

// BindType is the sqlx bind type for the dialect.
func (d Dialect) BindType() int {
	return sqlx.BindType(d.driver)
}
