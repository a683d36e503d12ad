package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/markdown"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

func letters() *models.TableData {
	return &models.TableData{
		Headers: []string{"K"},
		Rows:    [][]string{{"A"}, {"B"}, {"C"}, {"D"}},
	}
}

func TestMoveRow(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"B", "C", "A", "D"}},
		{"backward", 3, 0, []string{"D", "A", "B", "C"}},
		{"to end", 1, 3, []string{"A", "C", "D", "B"}},
		{"same index", 2, 2, []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := letters()
			got, err := MoveRow(src, tt.from, tt.to)
			require.NoError(t, err)
			var col []string
			for _, row := range got.Rows {
				col = append(col, row[0])
			}
			assert.Equal(t, tt.want, col)
			assert.Equal(t, "A", src.Rows[0][0], "input is not mutated")
		})
	}
}

func TestMoveRowBounds(t *testing.T) {
	for _, idx := range [][2]int{{-1, 0}, {0, 4}, {4, 0}, {0, -1}} {
		_, err := MoveRow(letters(), idx[0], idx[1])
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	_, err := MoveRow(nil, 0, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMoveColumn(t *testing.T) {
	data := &models.TableData{
		Headers: []string{"h0", "h1", "h2", "h3"},
		Rows: [][]string{
			{"a0", "a1", "a2", "a3"},
			{"b0", "b1", "b2", "b3"},
		},
	}
	got, err := MoveColumn(data, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"h0", "h2", "h3", "h1"}, got.Headers)
	assert.Equal(t, []string{"a0", "a2", "a3", "a1"}, got.Rows[0])
	assert.Equal(t, []string{"b0", "b2", "b3", "b1"}, got.Rows[1])

	// header/cell pairing survives the move
	for r, row := range got.Rows {
		for c, cell := range row {
			assert.Equal(t, got.Headers[c][1:], cell[1:], "row %d col %d", r, c)
		}
	}

	_, err = MoveColumn(data, 0, 4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	data.Rows[1] = data.Rows[1][:2]
	_, err = MoveColumn(data, 0, 1)
	assert.ErrorIs(t, err, models.ErrRaggedRow)
}

func TestReorder(t *testing.T) {
	out, md, err := Reorder(letters(), AxisRow, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "| K |\n| --- |\n| B |\n| C |\n| A |\n| D |", md)
	assert.Equal(t, out, markdown.ParseTable(md))

	_, _, err = Reorder(letters(), Axis("diagonal"), 0, 1)
	assert.Error(t, err)

	_, _, err = Reorder(letters(), AxisColumn, 0, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("column")
	require.NoError(t, err)
	assert.Equal(t, AxisColumn, a)
	_, err = ParseAxis("rows")
	assert.Error(t, err)
}

func TestShouldCommit(t *testing.T) {
	// target spans 100..200, midpoint 150
	assert.False(t, ShouldCommit(1, 1, 180, 100, 200), "same element")
	assert.False(t, ShouldCommit(0, 1, 140, 100, 200), "dragging down, above midpoint")
	assert.True(t, ShouldCommit(0, 1, 160, 100, 200), "dragging down, past midpoint")
	assert.False(t, ShouldCommit(2, 1, 160, 100, 200), "dragging up, below midpoint")
	assert.True(t, ShouldCommit(2, 1, 140, 100, 200), "dragging up, above midpoint")
}
