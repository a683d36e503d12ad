package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("collects every row", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnRows(
			sqlmock.NewRows([]string{"name"}).AddRow("a").AddRow("b"))
		rows, err := db.Query("SELECT name FROM t")
		require.NoError(t, err)
		defer rows.Close()

		got, err := CollectRows(rows, func(r *sql.Rows) (string, error) {
			var s string
			return s, r.Scan(&s)
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"name"}))
		rows, err := db.Query("SELECT name FROM t")
		require.NoError(t, err)
		defer rows.Close()

		got, err := CollectRows(rows, func(r *sql.Rows) (string, error) {
			var s string
			return s, r.Scan(&s)
		})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("row error surfaces", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnRows(
			sqlmock.NewRows([]string{"name"}).AddRow("a").RowError(0, errors.New("boom")))
		rows, err := db.Query("SELECT name FROM t")
		require.NoError(t, err)
		defer rows.Close()

		_, err = CollectRows(rows, func(r *sql.Rows) (string, error) {
			var s string
			return s, r.Scan(&s)
		})
		assert.EqualError(t, err, "boom")
	})
}

func TestCloseRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"n"}).AddRow(1).CloseError(errors.New("close failed")))
	rows, err := db.Query("SELECT n FROM t")
	require.NoError(t, err)

	var scanErr error
	CloseRows(rows, &scanErr)
	assert.ErrorContains(t, scanErr, "close failed")
}

func TestAffectedAndLastID(t *testing.T) {
	ok, err := Affected(sqlmock.NewResult(0, 1))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Affected(sqlmock.NewResult(0, 0))
	require.NoError(t, err)
	assert.False(t, ok)

	id, err := LastID(sqlmock.NewResult(42, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = LastID(sqlmock.NewErrorResult(errors.New("unsupported")))
	assert.Error(t, err)
}
