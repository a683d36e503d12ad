package database

import (
	"database/sql"
	"fmt"
)

// CollectRows scans every row with scanFn and checks rows.Err afterwards.
func CollectRows[T any](rows *sql.Rows, scanFn func(rows *sql.Rows) (T, error)) ([]T, error) {
	results := []T{}
	for rows.Next() {
		item, err := scanFn(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// CloseRows closes rows and records the close error if nothing failed before.
// Use as: defer database.CloseRows(rows, &err)
func CloseRows(rows *sql.Rows, errPtr *error) {
	if closeErr := rows.Close(); closeErr != nil && *errPtr == nil {
		*errPtr = fmt.Errorf("closing rows: %w", closeErr)
	}
}

// LastID returns the generated key of an INSERT executed without RETURNING.
func LastID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read generated id: %w", err)
	}
	return id, nil
}

// Affected reports whether the statement changed at least one row.
func Affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows: %w", err)
	}
	return n > 0, nil
}
