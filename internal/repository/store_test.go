package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/database"
)

var fixedNow = time.Date(2025, 10, 16, 20, 0, 0, 0, time.UTC)

func pinClock(t *testing.T) {
	t.Helper()
	prev := Now
	Now = func() time.Time { return fixedNow }
	t.Cleanup(func() { Now = prev })
}

func newMockDB(t *testing.T, driver string) (*sql.DB, database.Dialect, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("error closing db: %v", err)
		}
	})
	d, err := database.DialectFor(driver)
	require.NoError(t, err)
	return db, d, mock
}

func savedTableRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "markdown_content", "styles", "is_public", "created_at", "updated_at",
	})
}

func customThemeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "styles", "is_public", "created_at"})
}

func int64Ptr(v int64) *int64 { return &v }
