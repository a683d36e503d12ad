package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

func TestSQLStore_CreateSavedTablePostgres(t *testing.T) {
	pinClock(t)
	db, d, mock := newMockDB(t, "postgres")
	store := NewSQLStore(db, d)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO saved_tables (user_id, name, markdown_content, styles, is_public, created_at, updated_at) `+
			`VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`)).
		WithArgs(int64(7), "Sales", "| a |", `{"fontSize":14}`, true, fixedNow, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	got, err := store.CreateSavedTable(context.Background(), &models.SavedTable{
		UserID:          int64Ptr(7),
		Name:            "Sales",
		MarkdownContent: "| a |",
		Styles:          models.StyleBlob(`{"fontSize":14}`),
		IsPublic:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.Equal(t, fixedNow, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_CreateSavedTableMySQLUsesLastInsertID(t *testing.T) {
	pinClock(t)
	db, d, mock := newMockDB(t, "mysql")
	store := NewSQLStore(db, d)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO saved_tables (user_id, name, markdown_content, styles, is_public, created_at, updated_at) `+
			`VALUES (?, ?, ?, ?, ?, ?, ?)`)).
		WithArgs(nil, "Anon", "| a |", "{}", false, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(12, 1))

	got, err := store.CreateSavedTable(context.Background(), &models.SavedTable{
		Name:            "Anon",
		MarkdownContent: "| a |",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.ID)
	assert.Nil(t, got.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_GetSavedTable(t *testing.T) {
	db, d, mock := newMockDB(t, "postgres")
	store := NewSQLStore(db, d)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + savedTableColumns + ` FROM saved_tables WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(savedTableRows().AddRow(3, nil, "Shared", "| x |", `{"stripedRows":false}`, true, fixedNow, fixedNow))

	got, err := store.GetSavedTable(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, got.UserID)
	assert.Equal(t, "Shared", got.Name)
	assert.JSONEq(t, `{"stripedRows":false}`, string(got.Styles))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + savedTableColumns + ` FROM saved_tables WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(savedTableRows())

	_, err = store.GetSavedTable(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_ListPublicSavedTables(t *testing.T) {
	db, d, mock := newMockDB(t, "sqlite3")
	store := NewSQLStore(db, d)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + savedTableColumns +
		` FROM saved_tables WHERE is_public = ? ORDER BY created_at DESC, id DESC`)).
		WithArgs(true).
		WillReturnRows(savedTableRows().
			AddRow(2, 7, "B", "| b |", "{}", true, fixedNow, fixedNow).
			AddRow(1, nil, "A", "| a |", "{}", true, fixedNow, fixedNow))

	tables, err := store.ListPublicSavedTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, int64(2), tables[0].ID)
	assert.Equal(t, int64(7), *tables[0].UserID)
	assert.Nil(t, tables[1].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_ListUserSavedTablesEmpty(t *testing.T) {
	db, d, mock := newMockDB(t, "postgres")
	store := NewSQLStore(db, d)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM saved_tables WHERE user_id = $1 ORDER BY created_at DESC, id DESC`)).
		WithArgs(int64(9)).
		WillReturnRows(savedTableRows())

	tables, err := store.ListUserSavedTables(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, tables)
	assert.Empty(t, tables)
}

func TestSQLStore_UpdateSavedTable(t *testing.T) {
	ownerQuery := regexp.QuoteMeta(`SELECT user_id FROM saved_tables WHERE id = $1`)

	t.Run("owner can update", func(t *testing.T) {
		pinClock(t)
		db, d, mock := newMockDB(t, "postgres")
		store := NewSQLStore(db, d)

		name := "Renamed"
		public := false
		mock.ExpectQuery(ownerQuery).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
		mock.ExpectExec(regexp.QuoteMeta(
			`UPDATE saved_tables SET name = $1, is_public = $2, updated_at = $3 WHERE id = $4 AND user_id = $5`)).
			WithArgs("Renamed", false, fixedNow, int64(5), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + savedTableColumns + ` FROM saved_tables WHERE id = $1`)).
			WithArgs(int64(5)).
			WillReturnRows(savedTableRows().AddRow(5, 7, "Renamed", "| a |", "{}", false, fixedNow, fixedNow))

		got, err := store.UpdateSavedTable(context.Background(), 5, 7, models.SavedTablePatch{Name: &name, IsPublic: &public})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.False(t, got.IsPublic)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-owner gets not found and nothing is written", func(t *testing.T) {
		db, d, mock := newMockDB(t, "postgres")
		store := NewSQLStore(db, d)

		name := "Hijacked"
		mock.ExpectQuery(ownerQuery).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

		_, err := store.UpdateSavedTable(context.Background(), 5, 8, models.SavedTablePatch{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous tables cannot be updated", func(t *testing.T) {
		db, d, mock := newMockDB(t, "postgres")
		store := NewSQLStore(db, d)

		name := "x"
		mock.ExpectQuery(ownerQuery).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(nil))

		_, err := store.UpdateSavedTable(context.Background(), 5, 7, models.SavedTablePatch{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLStore_DeleteSavedTable(t *testing.T) {
	ownerQuery := regexp.QuoteMeta(`SELECT user_id FROM saved_tables WHERE id = ?`)

	t.Run("owner deletes", func(t *testing.T) {
		db, d, mock := newMockDB(t, "mysql")
		store := NewSQLStore(db, d)

		mock.ExpectQuery(ownerQuery).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM saved_tables WHERE id = ? AND user_id = ?`)).
			WithArgs(int64(5), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.DeleteSavedTable(context.Background(), 5, 7))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record", func(t *testing.T) {
		db, d, mock := newMockDB(t, "mysql")
		store := NewSQLStore(db, d)

		mock.ExpectQuery(ownerQuery).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		assert.ErrorIs(t, store.DeleteSavedTable(context.Background(), 5, 7), ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-owner", func(t *testing.T) {
		db, d, mock := newMockDB(t, "mysql")
		store := NewSQLStore(db, d)

		mock.ExpectQuery(ownerQuery).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

		assert.ErrorIs(t, store.DeleteSavedTable(context.Background(), 5, 8), ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLStore_CreateUserConflict(t *testing.T) {
	db, d, mock := newMockDB(t, "postgres")
	store := NewSQLStore(db, d)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`)).
		WithArgs("ada", "hash").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateUser(context.Background(), &models.User{Username: "ada", Password: "hash"})
	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_CustomThemes(t *testing.T) {
	pinClock(t)
	db, d, mock := newMockDB(t, "sqlite3")
	store := NewSQLStore(db, d)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO custom_themes (user_id, name, styles, is_public, created_at) VALUES (?, ?, ?, ?, ?)`)).
		WithArgs(int64(7), "Night", `{"backgroundColor":"#000"}`, false, fixedNow).
		WillReturnResult(sqlmock.NewResult(3, 1))

	theme, err := store.CreateCustomTheme(ctx, &models.CustomTheme{
		UserID: int64Ptr(7),
		Name:   "Night",
		Styles: models.StyleBlob(`{"backgroundColor":"#000"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), theme.ID)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + customThemeColumns +
		` FROM custom_themes WHERE user_id = ? ORDER BY created_at DESC, id DESC`)).
		WithArgs(int64(7)).
		WillReturnRows(customThemeRows().AddRow(3, 7, "Night", `{"backgroundColor":"#000"}`, 0, fixedNow))

	themes, err := store.ListUserCustomThemes(ctx, 7)
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.False(t, themes[0].IsPublic)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM custom_themes WHERE id = ?`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

	assert.ErrorIs(t, store.DeleteCustomTheme(ctx, 3, 1), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
