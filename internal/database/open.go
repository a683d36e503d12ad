package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config describes how to reach the database.
type Config struct {
	// Driver may be empty, in which case it is inferred from the URL scheme.
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DriverFromURL infers the driver from a connection URL scheme.
func DriverFromURL(raw string) (string, error) {
	scheme, _, ok := strings.Cut(raw, "://")
	if !ok {
		if strings.HasPrefix(raw, "file:") || strings.HasSuffix(raw, ".db") || raw == ":memory:" {
			return DriverSQLite, nil
		}
		return "", fmt.Errorf("cannot infer database driver from %q", Redact(raw))
	}
	d, err := DialectFor(scheme)
	if err != nil {
		return "", err
	}
	return d.Driver(), nil
}

// DSN converts a connection URL into the data source name the driver expects.
func DSN(d Dialect, raw string) (string, error) {
	switch {
	case d.IsPostgres():
		return raw, nil
	case d.IsSQLite():
		for _, prefix := range []string{"sqlite3://", "sqlite://"} {
			if strings.HasPrefix(raw, prefix) {
				return strings.TrimPrefix(raw, prefix), nil
			}
		}
		return raw, nil
	case d.IsMySQL():
		return mysqlDSN(raw)
	}
	return "", fmt.Errorf("unsupported driver %q", d.Driver())
}

// mysqlDSN accepts either a go-sql-driver DSN or a mysql:// URL.
func mysqlDSN(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		cfg, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse mysql url: %w", err)
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Host + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.ParseTime = true
	cfg.Params = map[string]string{}
	for key, values := range u.Query() {
		if len(values) > 0 {
			cfg.Params[key] = values[0]
		}
	}
	return cfg.FormatDSN(), nil
}

// Open connects and pings the database.
func Open(ctx context.Context, cfg Config) (*sql.DB, Dialect, error) {
	driver := cfg.Driver
	if driver == "" {
		var err error
		if driver, err = DriverFromURL(cfg.URL); err != nil {
			return nil, Dialect{}, err
		}
	}
	d, err := DialectFor(driver)
	if err != nil {
		return nil, Dialect{}, err
	}
	dsn, err := DSN(d, cfg.URL)
	if err != nil {
		return nil, Dialect{}, err
	}

	db, err := sql.Open(d.Driver(), dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("open %s database: %w", d.Driver(), err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if d.IsSQLite() {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, Dialect{}, fmt.Errorf("ping %s database at %s: %w", d.Driver(), Redact(cfg.URL), err)
	}
	return db, d, nil
}

// redact hides the password of a connection URL for logging.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
