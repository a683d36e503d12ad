// Package memory provides an in-process Store used in development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository"
)

// Store keeps every record in maps guarded by one RWMutex.
// Records are copied on the way in and out so callers never share state.
type Store struct {
	mu        sync.RWMutex
	users     map[int64]models.User
	tables    map[int64]models.SavedTable
	themes    map[int64]models.CustomTheme
	nextUser  int64
	nextTable int64
	nextTheme int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:     make(map[int64]models.User),
		tables:    make(map[int64]models.SavedTable),
		themes:    make(map[int64]models.CustomTheme),
		nextUser:  1,
		nextTable: 1,
		nextTheme: 1,
	}
}

var _ repository.Store = (*Store)(nil)

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneTable(t models.SavedTable) *models.SavedTable {
	t.UserID = copyID(t.UserID)
	t.Styles = append(models.StyleBlob(nil), t.Styles...)
	return &t
}

func cloneTheme(t models.CustomTheme) *models.CustomTheme {
	t.UserID = copyID(t.UserID)
	t.Styles = append(models.StyleBlob(nil), t.Styles...)
	return &t
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// CreateUser stores a user, rejecting duplicate usernames.
func (s *Store) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, repository.ErrConflict
		}
	}
	u := *user
	u.ID = s.nextUser
	s.nextUser++
	s.users[u.ID] = u
	return &u, nil
}

// GetSavedTable retrieves a table regardless of owner or visibility.
func (s *Store) GetSavedTable(_ context.Context, id int64) (*models.SavedTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTable(t), nil
}

func (s *Store) listTables(keep func(models.SavedTable) bool) []models.SavedTable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.SavedTable{}
	for _, t := range s.tables {
		if keep(t) {
			out = append(out, *cloneTable(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// ListUserSavedTables returns every table owned by userID.
func (s *Store) ListUserSavedTables(_ context.Context, userID int64) ([]models.SavedTable, error) {
	return s.listTables(func(t models.SavedTable) bool { return t.OwnedBy(userID) }), nil
}

// ListPublicSavedTables returns every public table.
func (s *Store) ListPublicSavedTables(_ context.Context) ([]models.SavedTable, error) {
	return s.listTables(func(t models.SavedTable) bool { return t.IsPublic }), nil
}

// CreateSavedTable stores a table and assigns its id and timestamps.
func (s *Store) CreateSavedTable(_ context.Context, table *models.SavedTable) (*models.SavedTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *cloneTable(*table)
	t.ID = s.nextTable
	s.nextTable++
	t.CreatedAt = repository.Now()
	t.UpdatedAt = t.CreatedAt
	s.tables[t.ID] = t
	return cloneTable(t), nil
}

// UpdateSavedTable applies patch when userID owns the table.
func (s *Store) UpdateSavedTable(_ context.Context, id, userID int64, patch models.SavedTablePatch) (*models.SavedTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[id]
	if !ok || !t.OwnedBy(userID) {
		return nil, repository.ErrNotFound
	}
	patch.ApplyTo(&t)
	t.UpdatedAt = repository.Now()
	s.tables[id] = t
	return cloneTable(t), nil
}

// DeleteSavedTable removes a table owned by userID.
func (s *Store) DeleteSavedTable(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[id]
	if !ok || !t.OwnedBy(userID) {
		return repository.ErrNotFound
	}
	delete(s.tables, id)
	return nil
}

// GetCustomTheme retrieves a theme regardless of owner or visibility.
func (s *Store) GetCustomTheme(_ context.Context, id int64) (*models.CustomTheme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.themes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTheme(t), nil
}

func (s *Store) listThemes(keep func(models.CustomTheme) bool) []models.CustomTheme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.CustomTheme{}
	for _, t := range s.themes {
		if keep(t) {
			out = append(out, *cloneTheme(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// ListUserCustomThemes returns every theme owned by userID.
func (s *Store) ListUserCustomThemes(_ context.Context, userID int64) ([]models.CustomTheme, error) {
	return s.listThemes(func(t models.CustomTheme) bool { return t.OwnedBy(userID) }), nil
}

// ListPublicCustomThemes returns every public theme.
func (s *Store) ListPublicCustomThemes(_ context.Context) ([]models.CustomTheme, error) {
	return s.listThemes(func(t models.CustomTheme) bool { return t.IsPublic }), nil
}

// CreateCustomTheme stores a theme and assigns its id and timestamp.
func (s *Store) CreateCustomTheme(_ context.Context, theme *models.CustomTheme) (*models.CustomTheme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *cloneTheme(*theme)
	t.ID = s.nextTheme
	s.nextTheme++
	t.CreatedAt = repository.Now()
	s.themes[t.ID] = t
	return cloneTheme(t), nil
}

// DeleteCustomTheme removes a theme owned by userID.
func (s *Store) DeleteCustomTheme(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.themes[id]
	if !ok || !t.OwnedBy(userID) {
		return repository.ErrNotFound
	}
	delete(s.themes, id)
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }
