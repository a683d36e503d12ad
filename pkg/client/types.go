package client

import (
	"encoding/json"
	"time"
)

// TableData is a parsed table: one cell per header in every row.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// SavedTable is a stored markdown table with its style configuration.
type SavedTable struct {
	ID              int64           `json:"id"`
	UserID          *int64          `json:"userId"`
	Name            string          `json:"name"`
	MarkdownContent string          `json:"markdownContent"`
	Styles          json.RawMessage `json:"styles"`
	IsPublic        bool            `json:"isPublic"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateTableRequest is the body of POST /api/tables. Styles must be a
// JSON object.
type CreateTableRequest struct {
	UserID          *int64          `json:"userId,omitempty"`
	Name            string          `json:"name"`
	MarkdownContent string          `json:"markdownContent"`
	Styles          json.RawMessage `json:"styles"`
	IsPublic        bool            `json:"isPublic"`
}

// UpdateTableRequest is the body of PUT /api/tables/:id. Nil fields are
// left untouched.
type UpdateTableRequest struct {
	UserID          int64            `json:"userId"`
	Name            *string          `json:"name,omitempty"`
	MarkdownContent *string          `json:"markdownContent,omitempty"`
	Styles          *json.RawMessage `json:"styles,omitempty"`
	IsPublic        *bool            `json:"isPublic,omitempty"`
}

// CustomTheme is a named, reusable style configuration.
type CustomTheme struct {
	ID        int64           `json:"id"`
	UserID    *int64          `json:"userId"`
	Name      string          `json:"name"`
	Styles    json.RawMessage `json:"styles"`
	IsPublic  bool            `json:"isPublic"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CreateThemeRequest is the body of POST /api/themes.
type CreateThemeRequest struct {
	UserID   *int64          `json:"userId,omitempty"`
	Name     string          `json:"name"`
	Styles   json.RawMessage `json:"styles"`
	IsPublic bool            `json:"isPublic"`
}

// Suggestion is one styling proposal. Styles holds only the fields the
// suggestion overrides.
type Suggestion struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Reasoning   string          `json:"reasoning"`
	Styles      json.RawMessage `json:"styles"`
	Category    string          `json:"category"`
}

// Analysis describes the content of a table.
type Analysis struct {
	DataTypes       []string `json:"dataTypes"`
	Purpose         string   `json:"purpose"`
	Recommendations []string `json:"recommendations"`
}

// Preset is a named style configuration shipped with the server.
type Preset struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Styles      json.RawMessage `json:"styles"`
}

// ExportRequest is the body of POST /api/export/:format. Either TableData
// or Markdown must be set.
type ExportRequest struct {
	TableData *TableData      `json:"tableData,omitempty"`
	Markdown  string          `json:"markdown,omitempty"`
	Preset    string          `json:"preset,omitempty"`
	Styles    json.RawMessage `json:"styles,omitempty"`
	Settings  *ExportSettings `json:"settings,omitempty"`
	Filename  string          `json:"filename,omitempty"`
}

// ExportSettings select raster quality and background.
type ExportSettings struct {
	Quality          string `json:"quality"`
	Background       string `json:"background"`
	CustomBackground string `json:"customBackground,omitempty"`
	Expanded         bool   `json:"expanded,omitempty"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type suggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}
