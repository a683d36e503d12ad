package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialStylesApply(t *testing.T) {
	base := DefaultStyles()
	align := AlignRight
	striped := false
	patch := PartialStyles{TextAlignment: &align, StripedRows: &striped}

	got := patch.Apply(base)

	assert.Equal(t, AlignRight, got.TextAlignment)
	assert.False(t, got.StripedRows)

	// everything else is untouched
	got.TextAlignment = base.TextAlignment
	got.StripedRows = base.StripedRows
	assert.Equal(t, base, got)
}

func TestPartialStylesOmitsAbsentFields(t *testing.T) {
	size := 18
	data, err := json.Marshal(PartialStyles{FontSize: &size})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fontSize":18}`, string(data))
}

func TestTableStylesFullRoundTrip(t *testing.T) {
	s := DefaultStyles()
	s.RoundedCorners = true
	s.FontFamily = "Arial"

	assert.Equal(t, s, s.Full().Apply(TableStyles{}))
}

func TestTableStylesValidate(t *testing.T) {
	assert.NoError(t, DefaultStyles().Validate())

	s := DefaultStyles()
	s.BorderStyle = "groove"
	assert.ErrorIs(t, s.Validate(), ErrInvalidStyles)

	s = DefaultStyles()
	s.TextAlignment = "justify"
	assert.ErrorIs(t, s.Validate(), ErrInvalidStyles)

	s = DefaultStyles()
	s.CellPadding = -1
	assert.ErrorIs(t, s.Validate(), ErrInvalidStyles)

	for _, c := range []string{"#FFF", "#1F2937", "#1F293780", "rebeccapurple", "rgb(10, 20, 30)", "hsla(120, 50%, 50%, 0.3)"} {
		s = DefaultStyles()
		s.BackgroundColor = c
		assert.NoError(t, s.Validate(), c)
	}
	for _, c := range []string{"", "red}", "red;color:blue", "url(http://x)", "#12<script>", "expression(alert(1))"} {
		s = DefaultStyles()
		s.HeaderColor = c
		assert.ErrorIs(t, s.Validate(), ErrInvalidStyles, c)
	}

	s = DefaultStyles()
	s.FontFamily = "Inter, 'Helvetica Neue', sans-serif"
	assert.NoError(t, s.Validate())
	s.FontFamily = "Inter</style>"
	assert.ErrorIs(t, s.Validate(), ErrInvalidStyles)
}

func TestStyleBlob(t *testing.T) {
	t.Run("decode overlays defaults", func(t *testing.T) {
		blob := StyleBlob(`{"fontSize":20,"borderStyle":"dashed"}`)
		s, err := blob.Decode()
		require.NoError(t, err)
		assert.Equal(t, 20, s.FontSize)
		assert.Equal(t, BorderDashed, s.BorderStyle)
		assert.Equal(t, "Inter", s.FontFamily)
	})

	t.Run("json is kept verbatim", func(t *testing.T) {
		var table SavedTable
		raw := `{"name":"t","markdownContent":"x","styles":{"custom":"kept","fontSize":9}}`
		require.NoError(t, json.Unmarshal([]byte(raw), &table))
		assert.JSONEq(t, `{"custom":"kept","fontSize":9}`, string(table.Styles))
		assert.True(t, table.Styles.IsObject())
	})

	t.Run("scan accepts text and bytes", func(t *testing.T) {
		var b StyleBlob
		require.NoError(t, b.Scan([]byte(`{"a":1}`)))
		assert.Equal(t, `{"a":1}`, string(b))
		require.NoError(t, b.Scan(`{"b":2}`))
		assert.Equal(t, `{"b":2}`, string(b))
		assert.Error(t, b.Scan(42))
	})

	t.Run("non-object blobs are detected", func(t *testing.T) {
		assert.False(t, StyleBlob(`[1,2]`).IsObject())
		assert.False(t, StyleBlob(`"x"`).IsObject())
		assert.False(t, StyleBlob(nil).IsObject())
	})
}

func TestTableDataValidateAndClone(t *testing.T) {
	data := &TableData{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	require.NoError(t, data.Validate())

	clone := data.Clone()
	clone.Rows[0][0] = "changed"
	assert.Equal(t, "1", data.Rows[0][0])

	data.Rows = append(data.Rows, []string{"only-one"})
	assert.ErrorIs(t, data.Validate(), ErrRaggedRow)
}

func TestSavedTablePatch(t *testing.T) {
	owner := int64(3)
	table := &SavedTable{ID: 1, UserID: &owner, Name: "old", MarkdownContent: "md", IsPublic: false}
	name := "new"
	public := true
	patch := SavedTablePatch{Name: &name, IsPublic: &public}

	assert.False(t, patch.IsEmpty())
	patch.ApplyTo(table)

	assert.Equal(t, "new", table.Name)
	assert.Equal(t, "md", table.MarkdownContent)
	assert.True(t, table.IsPublic)
	assert.True(t, table.OwnedBy(3))
	assert.False(t, table.OwnedBy(4))
	assert.False(t, (&SavedTable{}).OwnedBy(0))
}
