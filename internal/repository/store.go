// Package repository persists users, saved tables and custom themes.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or is not owned
	// by the requesting user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("record already exists")
)

// Store is the persistence contract shared by every backend.
type Store interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)

	GetSavedTable(ctx context.Context, id int64) (*models.SavedTable, error)
	ListUserSavedTables(ctx context.Context, userID int64) ([]models.SavedTable, error)
	ListPublicSavedTables(ctx context.Context) ([]models.SavedTable, error)
	CreateSavedTable(ctx context.Context, table *models.SavedTable) (*models.SavedTable, error)
	UpdateSavedTable(ctx context.Context, id, userID int64, patch models.SavedTablePatch) (*models.SavedTable, error)
	DeleteSavedTable(ctx context.Context, id, userID int64) error

	GetCustomTheme(ctx context.Context, id int64) (*models.CustomTheme, error)
	ListUserCustomThemes(ctx context.Context, userID int64) ([]models.CustomTheme, error)
	ListPublicCustomThemes(ctx context.Context) ([]models.CustomTheme, error)
	CreateCustomTheme(ctx context.Context, theme *models.CustomTheme) (*models.CustomTheme, error)
	DeleteCustomTheme(ctx context.Context, id, userID int64) error

	Ping(ctx context.Context) error
	Close() error
}

// Now is the clock used for created/updated timestamps.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
