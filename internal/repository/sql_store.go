package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/database"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

const (
	savedTableColumns  = "id, user_id, name, markdown_content, styles, is_public, created_at, updated_at"
	customThemeColumns = "id, user_id, name, styles, is_public, created_at"
)

// SQLStore implements Store with hand-written SQL over database/sql.
// Queries use $n placeholders and are rebound per dialect.
type SQLStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLStore wraps an open connection.
func NewSQLStore(db *sql.DB, d database.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d}
}

func (s *SQLStore) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *SQLStore) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

// insert runs an INSERT and returns the generated id, using RETURNING
// where the dialect supports it.
func (s *SQLStore) insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if s.dialect.SupportsReturning() {
		var id int64
		if err := s.queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return database.LastID(res)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSavedTable(row rowScanner) (models.SavedTable, error) {
	var (
		t      models.SavedTable
		userID sql.NullInt64
	)
	err := row.Scan(&t.ID, &userID, &t.Name, &t.MarkdownContent, &t.Styles, &t.IsPublic, &t.CreatedAt, &t.UpdatedAt)
	if userID.Valid {
		t.UserID = &userID.Int64
	}
	return t, err
}

func scanCustomTheme(row rowScanner) (models.CustomTheme, error) {
	var (
		t      models.CustomTheme
		userID sql.NullInt64
	)
	err := row.Scan(&t.ID, &userID, &t.Name, &t.Styles, &t.IsPublic, &t.CreatedAt)
	if userID.Valid {
		t.UserID = &userID.Int64
	}
	return t, err
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// GetUser retrieves a user by id.
func (s *SQLStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.queryRow(ctx, `SELECT id, username, password FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username.
func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.queryRow(ctx, `SELECT id, username, password FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// CreateUser inserts a user; the password must already be hashed.
func (s *SQLStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	id, err := s.insert(ctx, `INSERT INTO users (username, password) VALUES ($1, $2)`, user.Username, user.Password)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	out := *user
	out.ID = id
	return &out, nil
}

// GetSavedTable retrieves a saved table regardless of owner or visibility.
func (s *SQLStore) GetSavedTable(ctx context.Context, id int64) (*models.SavedTable, error) {
	t, err := scanSavedTable(s.queryRow(ctx, `SELECT `+savedTableColumns+` FROM saved_tables WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *SQLStore) listSavedTables(ctx context.Context, where string, args ...interface{}) (_ []models.SavedTable, err error) {
	rows, err := s.query(ctx, `SELECT `+savedTableColumns+` FROM saved_tables WHERE `+where+
		` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list saved tables: %w", err)
	}
	defer database.CloseRows(rows, &err)
	return database.CollectRows(rows, func(r *sql.Rows) (models.SavedTable, error) {
		return scanSavedTable(r)
	})
}

// ListUserSavedTables returns every table owned by userID, private or public.
func (s *SQLStore) ListUserSavedTables(ctx context.Context, userID int64) ([]models.SavedTable, error) {
	return s.listSavedTables(ctx, `user_id = $1`, userID)
}

// ListPublicSavedTables returns every public table.
func (s *SQLStore) ListPublicSavedTables(ctx context.Context) ([]models.SavedTable, error) {
	return s.listSavedTables(ctx, `is_public = $1`, true)
}

// CreateSavedTable inserts a table and returns the stored record.
func (s *SQLStore) CreateSavedTable(ctx context.Context, table *models.SavedTable) (*models.SavedTable, error) {
	out := *table
	out.CreatedAt = Now()
	out.UpdatedAt = out.CreatedAt
	id, err := s.insert(ctx,
		`INSERT INTO saved_tables (user_id, name, markdown_content, styles, is_public, created_at, updated_at) `+
			`VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		nullableID(out.UserID), out.Name, out.MarkdownContent, out.Styles, out.IsPublic, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert saved table: %w", err)
	}
	out.ID = id
	return &out, nil
}

// checkOwner loads the owner of a record and compares it to userID.
func (s *SQLStore) checkOwner(ctx context.Context, table string, id, userID int64) error {
	var owner sql.NullInt64
	if err := s.queryRow(ctx, `SELECT user_id FROM `+table+` WHERE id = $1`, id).Scan(&owner); err != nil {
		return notFound(err)
	}
	if !owner.Valid || owner.Int64 != userID {
		return ErrNotFound
	}
	return nil
}

// UpdateSavedTable applies patch when userID owns the table.
func (s *SQLStore) UpdateSavedTable(ctx context.Context, id, userID int64, patch models.SavedTablePatch) (*models.SavedTable, error) {
	if err := s.checkOwner(ctx, "saved_tables", id, userID); err != nil {
		return nil, err
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.MarkdownContent != nil {
		set("markdown_content", *patch.MarkdownContent)
	}
	if patch.Styles != nil {
		set("styles", *patch.Styles)
	}
	if patch.IsPublic != nil {
		set("is_public", *patch.IsPublic)
	}
	set("updated_at", Now())

	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE saved_tables SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))
	if _, err := s.exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update saved table: %w", err)
	}
	return s.GetSavedTable(ctx, id)
}

// DeleteSavedTable removes a table owned by userID.
func (s *SQLStore) DeleteSavedTable(ctx context.Context, id, userID int64) error {
	return s.deleteOwned(ctx, "saved_tables", id, userID)
}

func (s *SQLStore) deleteOwned(ctx context.Context, table string, id, userID int64) error {
	if err := s.checkOwner(ctx, table, id, userID); err != nil {
		return err
	}
	res, err := s.exec(ctx, `DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	ok, err := database.Affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// GetCustomTheme retrieves a theme regardless of owner or visibility.
func (s *SQLStore) GetCustomTheme(ctx context.Context, id int64) (*models.CustomTheme, error) {
	t, err := scanCustomTheme(s.queryRow(ctx, `SELECT `+customThemeColumns+` FROM custom_themes WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *SQLStore) listCustomThemes(ctx context.Context, where string, args ...interface{}) (_ []models.CustomTheme, err error) {
	rows, err := s.query(ctx, `SELECT `+customThemeColumns+` FROM custom_themes WHERE `+where+
		` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list custom themes: %w", err)
	}
	defer database.CloseRows(rows, &err)
	return database.CollectRows(rows, func(r *sql.Rows) (models.CustomTheme, error) {
		return scanCustomTheme(r)
	})
}

// ListUserCustomThemes returns every theme owned by userID.
func (s *SQLStore) ListUserCustomThemes(ctx context.Context, userID int64) ([]models.CustomTheme, error) {
	return s.listCustomThemes(ctx, `user_id = $1`, userID)
}

// ListPublicCustomThemes returns every public theme.
func (s *SQLStore) ListPublicCustomThemes(ctx context.Context) ([]models.CustomTheme, error) {
	return s.listCustomThemes(ctx, `is_public = $1`, true)
}

// CreateCustomTheme inserts a theme and returns the stored record.
func (s *SQLStore) CreateCustomTheme(ctx context.Context, theme *models.CustomTheme) (*models.CustomTheme, error) {
	out := *theme
	out.CreatedAt = Now()
	id, err := s.insert(ctx,
		`INSERT INTO custom_themes (user_id, name, styles, is_public, created_at) VALUES ($1, $2, $3, $4, $5)`,
		nullableID(out.UserID), out.Name, out.Styles, out.IsPublic, out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert custom theme: %w", err)
	}
	out.ID = id
	return &out, nil
}

// DeleteCustomTheme removes a theme owned by userID.
func (s *SQLStore) DeleteCustomTheme(ctx context.Context, id, userID int64) error {
	return s.deleteOwned(ctx, "custom_themes", id, userID)
}

// Ping checks the connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLStore)(nil)
