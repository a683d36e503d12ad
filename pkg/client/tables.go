package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// TablesService handles saved table operations
type TablesService struct {
	client *Client
}

// List returns the tables owned by userID.
func (s *TablesService) List(ctx context.Context, userID int64) ([]SavedTable, error) {
	var tables []SavedTable
	path := "/api/tables?userId=" + strconv.FormatInt(userID, 10)
	if _, err := s.client.do(ctx, http.MethodGet, path, nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// ListPublic returns every public table.
func (s *TablesService) ListPublic(ctx context.Context) ([]SavedTable, error) {
	var tables []SavedTable
	if _, err := s.client.do(ctx, http.MethodGet, "/api/tables?public=true", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// Get retrieves one table by id.
func (s *TablesService) Get(ctx context.Context, id int64) (*SavedTable, error) {
	var table SavedTable
	if _, err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/tables/%d", id), nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// Create stores a new table.
func (s *TablesService) Create(ctx context.Context, req CreateTableRequest) (*SavedTable, error) {
	var table SavedTable
	if _, err := s.client.do(ctx, http.MethodPost, "/api/tables", req, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// Update changes the fields set in req. The server answers 404 unless
// req.UserID owns the table.
func (s *TablesService) Update(ctx context.Context, id int64, req UpdateTableRequest) (*SavedTable, error) {
	var table SavedTable
	if _, err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/tables/%d", id), req, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// Delete removes a table owned by userID.
func (s *TablesService) Delete(ctx context.Context, id, userID int64) error {
	path := fmt.Sprintf("/api/tables/%d?%s", id, url.Values{"userId": {strconv.FormatInt(userID, 10)}}.Encode())
	_, err := s.client.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// ThemesService handles custom theme operations
type ThemesService struct {
	client *Client
}

// List returns the themes owned by userID.
func (s *ThemesService) List(ctx context.Context, userID int64) ([]CustomTheme, error) {
	var themes []CustomTheme
	path := "/api/themes?userId=" + strconv.FormatInt(userID, 10)
	if _, err := s.client.do(ctx, http.MethodGet, path, nil, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

// ListPublic returns every public theme.
func (s *ThemesService) ListPublic(ctx context.Context) ([]CustomTheme, error) {
	var themes []CustomTheme
	if _, err := s.client.do(ctx, http.MethodGet, "/api/themes?public=true", nil, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

// Get retrieves one theme by id.
func (s *ThemesService) Get(ctx context.Context, id int64) (*CustomTheme, error) {
	var theme CustomTheme
	if _, err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/themes/%d", id), nil, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// Create stores a new theme.
func (s *ThemesService) Create(ctx context.Context, req CreateThemeRequest) (*CustomTheme, error) {
	var theme CustomTheme
	if _, err := s.client.do(ctx, http.MethodPost, "/api/themes", req, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// Delete removes a theme owned by userID.
func (s *ThemesService) Delete(ctx context.Context, id, userID int64) error {
	path := fmt.Sprintf("/api/themes/%d?%s", id, url.Values{"userId": {strconv.FormatInt(userID, 10)}}.Encode())
	_, err := s.client.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}
