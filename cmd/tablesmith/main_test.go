package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/ai"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/api"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/export"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository/memory"
)

const sampleMarkdown = "| Item | Price | Qty |\n| --- | --- | --- |\n| Tea | 3.50 | 2 |\n| Cake | 4.00 | 1 |"

type fakeClipboard struct {
	text        string
	unsupported bool
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.unsupported {
		return export.ErrClipboardUnsupported
	}
	f.text = text
	return nil
}

func (f *fakeClipboard) WriteImage([]byte) error {
	return export.ErrClipboardUnsupported
}

type fakeRenderer struct {
	markup   string
	expanded bool
	closed   bool
}

func (f *fakeRenderer) Rasterize(_ context.Context, markup, _ string, _ models.ExportSettings) ([]byte, error) {
	f.markup = markup
	return []byte("\x89PNG-export"), nil
}

func (f *fakeRenderer) ClipboardImage(_ context.Context, markup string, expanded bool) ([]byte, error) {
	f.markup, f.expanded = markup, expanded
	return []byte("\x89PNG-clip"), nil
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CONFIG_PATH", "DATABASE_URL", "DEV_DATABASE_URL", "PROD_DATABASE_URL",
		"TABLESMITH_DATABASE_URL", "TABLESMITH_STORAGE_BACKEND", "OPENAI_API_KEY", "TABLESMITH_AI_API_KEY",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("TABLESMITH_LOGGING_LEVEL", "error")
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	isolateEnv(t)
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func useClipboard(t *testing.T, c export.Clipboard) {
	t.Helper()
	old := systemClipboard
	systemClipboard = c
	t.Cleanup(func() { systemClipboard = old })
}

func useRenderer(t *testing.T, r *fakeRenderer) {
	t.Helper()
	old := newImageRenderer
	newImageRenderer = func(export.PlaywrightOptions, *zap.Logger) imageRenderer { return r }
	t.Cleanup(func() { newImageRenderer = old })
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tablesmith "))
}

func TestRenderTable(t *testing.T) {
	out, _, err := execute(t, sampleMarkdown, "render", "--preset", "dark", "--styles", `{"hoverEffects":true}`)
	require.NoError(t, err)
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "Cake")
	assert.Contains(t, out, ":hover")
}

func TestRenderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleMarkdown), 0o644))

	out, _, err := execute(t, "", "render", path, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Item,Price,Qty\nTea,3.50,2\nCake,4.00,1\n", out)
}

func TestRenderErrors(t *testing.T) {
	_, _, err := execute(t, "just text", "render")
	assert.ErrorIs(t, err, errNoTable)

	_, _, err = execute(t, sampleMarkdown, "render", "--preset", "neon")
	assert.Error(t, err)

	_, _, err = execute(t, sampleMarkdown, "render", "--format", "pdf")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)

	_, _, err = execute(t, sampleMarkdown, "render", "--format", "xlsx")
	assert.ErrorContains(t, err, "--output")

	_, _, err = execute(t, sampleMarkdown, "render", "--format", "png", "--quality", "ultra")
	assert.Error(t, err)
}

func TestRenderXLSXToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.xlsx")
	_, stderr, err := execute(t, sampleMarkdown, "render", "--format", "xlsx", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote")

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(body[:2]))
}

func TestRenderCopy(t *testing.T) {
	clip := &fakeClipboard{}
	useClipboard(t, clip)

	out, stderr, err := execute(t, sampleMarkdown, "render", "--format", "embed", "--copy")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "Copied to clipboard")
	assert.Contains(t, clip.text, "markdown-table-embed")
}

func TestRenderCopyFallsBackToStdout(t *testing.T) {
	useClipboard(t, &fakeClipboard{unsupported: true})

	out, stderr, err := execute(t, sampleMarkdown, "render", "--format", "csv", "--copy")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Clipboard unavailable")
	assert.Contains(t, out, "Item,Price,Qty")
}

func TestRenderPNG(t *testing.T) {
	r := &fakeRenderer{}
	useRenderer(t, r)
	dir := t.TempDir()

	path := filepath.Join(dir, "table.png")
	_, _, err := execute(t, sampleMarkdown, "render", "--format", "png", "-o", path)
	require.NoError(t, err)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG-export", string(body))
	assert.Contains(t, r.markup, "<table")
	assert.True(t, r.closed)

	useClipboard(t, &fakeClipboard{})
	clipPath := filepath.Join(dir, "clip.png")
	_, stderr, err := execute(t, sampleMarkdown, "render", "--format", "png", "--copy", "--expanded", "-o", clipPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "writing file instead")
	assert.True(t, r.expanded)
	body, err = os.ReadFile(clipPath)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG-clip", string(body))
}

func TestReorder(t *testing.T) {
	out, _, err := execute(t, sampleMarkdown, "reorder", "--axis", "column", "--from", "2", "--to", "0")
	require.NoError(t, err)
	assert.Equal(t, "| Qty | Item | Price |\n| --- | --- | --- |\n| 2 | Tea | 3.50 |\n| 1 | Cake | 4.00 |\n", out)

	_, _, err = execute(t, sampleMarkdown, "reorder", "--axis", "row", "--from", "0", "--to", "5")
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	out, _, err := execute(t, "", "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "corporate")

	out, _, err = execute(t, "", "presets", "minimal")
	require.NoError(t, err)
	assert.Contains(t, out, "borderStyle: none")

	_, _, err = execute(t, "", "presets", "neon")
	assert.Error(t, err)
}

func TestSuggestUsesHeuristicsWithoutKey(t *testing.T) {
	out, _, err := execute(t, sampleMarkdown, "suggest")
	require.NoError(t, err)
	var suggestions []models.StyleSuggestion
	require.NoError(t, json.Unmarshal([]byte(out), &suggestions))
	require.Len(t, suggestions, 4)
	assert.Equal(t, "Professional Report", suggestions[0].Name)

	out, _, err = execute(t, sampleMarkdown, "suggest", "--analyze")
	require.NoError(t, err)
	var analysis models.TableAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Contains(t, analysis.DataTypes, "numeric")
}

func TestSave(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	store := memory.NewStore()
	srv := httptest.NewServer(api.NewRouter(api.Options{
		Store:  store,
		AI:     ai.NewService(nil, nil, ai.Options{}, logger),
		Logger: logger,
	}))
	defer srv.Close()

	out, _, err := execute(t, sampleMarkdown, "save", "--server", srv.URL, "--name", "Menu", "--user", "7", "--preset", "corporate")
	require.NoError(t, err)
	assert.Equal(t, "Saved table 1 (Menu)\n", out)

	saved, err := store.GetSavedTable(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, saved.OwnedBy(7))
	assert.Equal(t, sampleMarkdown, saved.MarkdownContent)
	s, err := saved.Styles.Decode()
	require.NoError(t, err)
	assert.Equal(t, mustPreset(t, "corporate"), s)

	_, _, err = execute(t, sampleMarkdown, "save", "--server", srv.URL, "--name", "Private")
	assert.ErrorContains(t, err, "--user")
}

func mustPreset(t *testing.T, key string) models.TableStyles {
	t.Helper()
	o := renderOptions{preset: key}
	s, err := o.resolveStyles()
	require.NoError(t, err)
	return s
}

func TestUserCreate(t *testing.T) {
	out, _, err := execute(t, "", "user", "create", "--username", "alice", "--password", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "Created user alice with id 1\n", out)

	_, _, err = execute(t, "", "user", "create", "--username", "bob", "--password", "short")
	assert.ErrorContains(t, err, "at least 8")
}
