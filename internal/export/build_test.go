package export

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

type recordingRasterizer struct {
	markup, hoverRule string
}

func (r *recordingRasterizer) Rasterize(_ context.Context, markup, hoverRule string, _ models.ExportSettings) ([]byte, error) {
	r.markup, r.hoverRule = markup, hoverRule
	return []byte("\x89PNG"), nil
}

func (r *recordingRasterizer) Close() error { return nil }

func TestBuild(t *testing.T) {
	ctx := context.Background()
	s := models.DefaultStyles()
	s.HoverEffects = true

	t.Run("csv from data", func(t *testing.T) {
		out, err := Build(ctx, Job{Format: FormatCSV, Data: sampleTable(), Styles: s}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Name,Score\nAda,10\nBob,7.5", string(out))
	})

	t.Run("csv ignores markup", func(t *testing.T) {
		_, err := Build(ctx, Job{Format: FormatCSV, Markup: "<table></table>", Styles: s}, nil)
		assert.ErrorIs(t, err, ErrNoTable)
	})

	t.Run("ragged rows", func(t *testing.T) {
		data := &models.TableData{Headers: []string{"a", "b"}, Rows: [][]string{{"1"}}}
		_, err := Build(ctx, Job{Format: FormatHTML, Data: data, Styles: s}, nil)
		assert.ErrorIs(t, err, models.ErrRaggedRow)
	})

	t.Run("html renders data", func(t *testing.T) {
		out, err := Build(ctx, Job{Format: FormatHTML, Data: sampleTable(), Styles: s}, nil)
		require.NoError(t, err)
		doc := string(out)
		assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
		assert.Contains(t, doc, "Ada")
		assert.Contains(t, doc, ":hover")
	})

	t.Run("embed prefers markup", func(t *testing.T) {
		markup := `<table><tbody><tr><td>captured</td></tr></tbody></table>`
		out, err := Build(ctx, Job{Format: FormatEmbed, Markup: markup, Styles: s}, nil)
		require.NoError(t, err)
		assert.Contains(t, string(out), "captured")
	})

	t.Run("png", func(t *testing.T) {
		r := &recordingRasterizer{}
		out, err := Build(ctx, Job{Format: FormatPNG, Data: sampleTable(), Styles: s}, r)
		require.NoError(t, err)
		assert.Equal(t, "\x89PNG", string(out))
		assert.Contains(t, r.markup, "<table")
		assert.NotEmpty(t, r.hoverRule)

		_, err = Build(ctx, Job{Format: FormatPNG, Data: sampleTable(), Styles: s}, nil)
		assert.ErrorIs(t, err, ErrRasterize)
	})

	t.Run("xlsx", func(t *testing.T) {
		out, err := Build(ctx, Job{Format: FormatXLSX, Data: sampleTable(), Styles: s}, nil)
		require.NoError(t, err)
		assert.Equal(t, "PK", string(out[:2]))
	})
}
