// Package client is a Go SDK for the tablesmith REST API.
package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client represents the tablesmith API client
type Client struct {
	httpClient *resty.Client
	baseURL    string

	// Service clients
	Tables *TablesService
	Themes *ThemesService
	AI     *AIService
	Export *ExportService
}

// Config represents client configuration
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RetryCount applies to transport failures only; error answers are
	// never retried.
	RetryCount int
	Debug      bool
}

// New creates a new API client
func New(config Config) *Client {
	if config.UserAgent == "" {
		config.UserAgent = "tablesmith-go-sdk"
	}
	if config.Timeout == 0 {
		config.Timeout = 90 * time.Second
	}
	baseURL := strings.TrimRight(config.BaseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(config.RetryCount).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	if config.Debug {
		httpClient.SetDebug(true)
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
	client.Tables = &TablesService{client: client}
	client.Themes = &ThemesService{client: client}
	client.AI = &AIService{client: client}
	client.Export = &ExportService{client: client}
	return client
}

// do sends one request and converts error answers into *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) (*resty.Response, error) {
	req := c.httpClient.R().
		SetContext(ctx).
		SetError(&APIError{})
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, &NetworkError{Operation: method, URL: c.baseURL + path, Err: err}
	}
	if resp.IsError() {
		apiErr, ok := resp.Error().(*APIError)
		if !ok || apiErr == nil {
			apiErr = &APIError{}
		}
		apiErr.StatusCode = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return resp, apiErr
	}
	return resp, nil
}

// Ping checks if the API and its database are reachable
func (c *Client) Ping(ctx context.Context) error {
	var health healthResponse
	_, err := c.do(ctx, http.MethodGet, "/api/health", nil, &health)
	return err
}
