package client

import (
	"context"
	"net/http"
	"net/url"
)

// AIService asks the server for styling suggestions and table analyses.
type AIService struct {
	client *Client
}

// Suggest returns styling suggestions for data. markdown is optional context.
func (s *AIService) Suggest(ctx context.Context, data TableData, markdown string) ([]Suggestion, error) {
	body := map[string]interface{}{"tableData": data, "markdownContent": markdown}
	var out suggestionsResponse
	if _, err := s.client.do(ctx, http.MethodPost, "/api/ai/style-suggestions", body, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// Analyze describes the data types and purpose of data.
func (s *AIService) Analyze(ctx context.Context, data TableData) (*Analysis, error) {
	var out Analysis
	body := map[string]interface{}{"tableData": data}
	if _, err := s.client.do(ctx, http.MethodPost, "/api/ai/analyze-table", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportService downloads rendered tables.
type ExportService struct {
	client *Client
}

// Download renders req in format (csv, xlsx, html, embed or png) and
// returns the file body.
func (s *ExportService) Download(ctx context.Context, format string, req ExportRequest) ([]byte, error) {
	resp, err := s.client.do(ctx, http.MethodPost, "/api/export/"+url.PathEscape(format), req, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Presets lists the built-in style presets.
func (c *Client) Presets(ctx context.Context) ([]Preset, error) {
	var presets []Preset
	if _, err := c.do(ctx, http.MethodGet, "/api/presets", nil, &presets); err != nil {
		return nil, err
	}
	return presets, nil
}
