package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/database"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

// QueryBuilderStore implements Store on the sqlx query builder with
// struct scanning and named parameters.
type QueryBuilderStore struct {
	qb *database.QueryBuilder
}

// NewQueryBuilderStore wraps a query builder.
func NewQueryBuilderStore(qb *database.QueryBuilder) *QueryBuilderStore {
	return &QueryBuilderStore{qb: qb}
}

var (
	savedTableFields  = strings.Split(savedTableColumns, ", ")
	customThemeFields = strings.Split(customThemeColumns, ", ")
)

// insertNamed runs a named INSERT and returns the generated id.
func (s *QueryBuilderStore) insertNamed(ctx context.Context, query string, arg interface{}) (int64, error) {
	if s.qb.Dialect().SupportsReturning() {
		var id int64
		if err := s.qb.NamedGetContext(ctx, &id, query+" RETURNING id", arg); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := s.qb.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, err
	}
	return database.LastID(res)
}

// GetUser retrieves a user by id.
func (s *QueryBuilderStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.qb.NewSelect("id", "username", "password").From("users").Where("id = ?", id).GetContext(ctx, &u)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username.
func (s *QueryBuilderStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.qb.NewSelect("id", "username", "password").From("users").
		Where("username = ?", username).
		Limit(1).
		GetContext(ctx, &u)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// CreateUser inserts a user; the password must already be hashed.
func (s *QueryBuilderStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	id, err := s.insertNamed(ctx, `INSERT INTO users (username, password) VALUES (:username, :password)`, user)
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
func (s *QueryBuilderStore) GetSavedTable(ctx context.Context, id int64) (*models.SavedTable, error) {
	var t models.SavedTable
	if err := s.qb.NewSelect(savedTableFields...).From("saved_tables").Where("id = ?", id).GetContext(ctx, &t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// ListUserSavedTables returns every table owned by userID, private or public.
func (s *QueryBuilderStore) ListUserSavedTables(ctx context.Context, userID int64) ([]models.SavedTable, error) {
	tables := []models.SavedTable{}
	err := s.qb.NewSelect(savedTableFields...).From("saved_tables").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id DESC").
		SelectContext(ctx, &tables)
	if err != nil {
		return nil, fmt.Errorf("list saved tables: %w", err)
	}
	return tables, nil
}

// ListPublicSavedTables returns every public table.
func (s *QueryBuilderStore) ListPublicSavedTables(ctx context.Context) ([]models.SavedTable, error) {
	tables := []models.SavedTable{}
	err := s.qb.NewSelect(savedTableFields...).From("saved_tables").
		Where("is_public = ?", true).
		OrderBy("created_at DESC", "id DESC").
		SelectContext(ctx, &tables)
	if err != nil {
		return nil, fmt.Errorf("list public saved tables: %w", err)
	}
	return tables, nil
}

// CreateSavedTable inserts a table and returns the stored record.
func (s *QueryBuilderStore) CreateSavedTable(ctx context.Context, table *models.SavedTable) (*models.SavedTable, error) {
	out := *table
	out.CreatedAt = Now()
	out.UpdatedAt = out.CreatedAt
	id, err := s.insertNamed(ctx,
		`INSERT INTO saved_tables (user_id, name, markdown_content, styles, is_public, created_at, updated_at) `+
			`VALUES (:user_id, :name, :markdown_content, :styles, :is_public, :created_at, :updated_at)`, &out)
	if err != nil {
		return nil, fmt.Errorf("insert saved table: %w", err)
	}
	out.ID = id
	return &out, nil
}

func (s *QueryBuilderStore) checkOwner(ctx context.Context, table string, id, userID int64) error {
	var owner sql.NullInt64
	if err := s.qb.GetContext(ctx, &owner, `SELECT user_id FROM `+table+` WHERE id = ?`, id); err != nil {
		return notFound(err)
	}
	if !owner.Valid || owner.Int64 != userID {
		return ErrNotFound
	}
	return nil
}

// UpdateSavedTable applies patch when userID owns the table.
func (s *QueryBuilderStore) UpdateSavedTable(ctx context.Context, id, userID int64, patch models.SavedTablePatch) (*models.SavedTable, error) {
	if err := s.checkOwner(ctx, "saved_tables", id, userID); err != nil {
		return nil, err
	}

	params := map[string]interface{}{
		"id":         id,
		"user_id":    userID,
		"updated_at": Now(),
	}
	sets := []string{}
	if patch.Name != nil {
		params["name"] = *patch.Name
		sets = append(sets, "name = :name")
	}
	if patch.MarkdownContent != nil {
		params["markdown_content"] = *patch.MarkdownContent
		sets = append(sets, "markdown_content = :markdown_content")
	}
	if patch.Styles != nil {
		params["styles"] = *patch.Styles
		sets = append(sets, "styles = :styles")
	}
	if patch.IsPublic != nil {
		params["is_public"] = *patch.IsPublic
		sets = append(sets, "is_public = :is_public")
	}
	sets = append(sets, "updated_at = :updated_at")

	query := `UPDATE saved_tables SET ` + strings.Join(sets, ", ") + ` WHERE id = :id AND user_id = :user_id`
	if _, err := s.qb.NamedExecContext(ctx, query, params); err != nil {
		return nil, fmt.Errorf("update saved table: %w", err)
	}
	return s.GetSavedTable(ctx, id)
}

func (s *QueryBuilderStore) deleteOwned(ctx context.Context, table string, id, userID int64) error {
	if err := s.checkOwner(ctx, table, id, userID); err != nil {
		return err
	}
	res, err := s.qb.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ? AND user_id = ?`, id, userID)
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

// DeleteSavedTable removes a table owned by userID.
func (s *QueryBuilderStore) DeleteSavedTable(ctx context.Context, id, userID int64) error {
	return s.deleteOwned(ctx, "saved_tables", id, userID)
}

// GetCustomTheme retrieves a theme regardless of owner or visibility.
func (s *QueryBuilderStore) GetCustomTheme(ctx context.Context, id int64) (*models.CustomTheme, error) {
	var t models.CustomTheme
	if err := s.qb.NewSelect(customThemeFields...).From("custom_themes").Where("id = ?", id).GetContext(ctx, &t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// ListUserCustomThemes returns every theme owned by userID.
func (s *QueryBuilderStore) ListUserCustomThemes(ctx context.Context, userID int64) ([]models.CustomTheme, error) {
	themes := []models.CustomTheme{}
	err := s.qb.NewSelect(customThemeFields...).From("custom_themes").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id DESC").
		SelectContext(ctx, &themes)
	if err != nil {
		return nil, fmt.Errorf("list custom themes: %w", err)
	}
	return themes, nil
}

// ListPublicCustomThemes returns every public theme.
func (s *QueryBuilderStore) ListPublicCustomThemes(ctx context.Context) ([]models.CustomTheme, error) {
	themes := []models.CustomTheme{}
	err := s.qb.NewSelect(customThemeFields...).From("custom_themes").
		Where("is_public = ?", true).
		OrderBy("created_at DESC", "id DESC").
		SelectContext(ctx, &themes)
	if err != nil {
		return nil, fmt.Errorf("list public custom themes: %w", err)
	}
	return themes, nil
}

// CreateCustomTheme inserts a theme and returns the stored record.
func (s *QueryBuilderStore) CreateCustomTheme(ctx context.Context, theme *models.CustomTheme) (*models.CustomTheme, error) {
	out := *theme
	out.CreatedAt = Now()
	id, err := s.insertNamed(ctx,
		`INSERT INTO custom_themes (user_id, name, styles, is_public, created_at) `+
			`VALUES (:user_id, :name, :styles, :is_public, :created_at)`, &out)
	if err != nil {
		return nil, fmt.Errorf("insert custom theme: %w", err)
	}
	out.ID = id
	return &out, nil
}

// DeleteCustomTheme removes a theme owned by userID.
func (s *QueryBuilderStore) DeleteCustomTheme(ctx context.Context, id, userID int64) error {
	return s.deleteOwned(ctx, "custom_themes", id, userID)
}

// Ping checks the connection.
func (s *QueryBuilderStore) Ping(ctx context.Context) error {
	return s.qb.DB().PingContext(ctx)
}

// Close closes the connection pool.
func (s *QueryBuilderStore) Close() error {
	return s.qb.DB().Close()
}

var _ Store = (*QueryBuilderStore)(nil)
