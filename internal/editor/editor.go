// Package editor reorders the rows and columns of a parsed table.
package editor

import (
	"errors"
	"fmt"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/markdown"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

// ErrIndexOutOfRange is returned when a source or target index is outside the table.
var ErrIndexOutOfRange = errors.New("index out of range")

// Axis selects whether a move applies to rows or columns.
type Axis string

const (
	AxisRow    Axis = "row"
	AxisColumn Axis = "column"
)

// ParseAxis validates an axis name.
func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case AxisRow, AxisColumn:
		return Axis(s), nil
	}
	return "", fmt.Errorf("unknown axis %q", s)
}

// move relocates the element at from to index to by removing then inserting it.
func move[T any](items []T, from, to int) []T {
	if from == to {
		return items
	}
	item := items[from]
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}

func checkBounds(from, to, n int) error {
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d -> %d in %d items: %w", from, to, n, ErrIndexOutOfRange)
	}
	return nil
}

// MoveRow returns a copy of data with the body row at from moved to to.
func MoveRow(data *models.TableData, from, to int) (*models.TableData, error) {
	if data == nil {
		return nil, fmt.Errorf("move row: %w", ErrIndexOutOfRange)
	}
	if err := checkBounds(from, to, len(data.Rows)); err != nil {
		return nil, err
	}
	out := data.Clone()
	out.Rows = move(out.Rows, from, to)
	return out, nil
}

// MoveColumn returns a copy of data with the column at from moved to to.
// Headers and every row are permuted identically.
func MoveColumn(data *models.TableData, from, to int) (*models.TableData, error) {
	if data == nil {
		return nil, fmt.Errorf("move column: %w", ErrIndexOutOfRange)
	}
	if err := checkBounds(from, to, len(data.Headers)); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	out := data.Clone()
	out.Headers = move(out.Headers, from, to)
	for i, row := range out.Rows {
		out.Rows[i] = move(row, from, to)
	}
	return out, nil
}

// Reorder applies a move along axis and re-serializes the result to markdown.
func Reorder(data *models.TableData, axis Axis, from, to int) (*models.TableData, string, error) {
	var (
		out *models.TableData
		err error
	)
	switch axis {
	case AxisRow:
		out, err = MoveRow(data, from, to)
	case AxisColumn:
		out, err = MoveColumn(data, from, to)
	default:
		err = fmt.Errorf("unknown axis %q", axis)
	}
	if err != nil {
		return nil, "", err
	}
	return out, markdown.Serialize(out), nil
}

// ShouldCommit decides whether a drag hovering over another element should
// move it yet. Dragging downwards commits only once the pointer is past the
// target's midpoint, dragging upwards only once it is above it.
func ShouldCommit(dragIndex, hoverIndex int, pointerY, targetTop, targetBottom float64) bool {
	if dragIndex == hoverIndex {
		return false
	}
	middle := targetTop + (targetBottom-targetTop)/2
	if dragIndex < hoverIndex && pointerY < middle {
		return false
	}
	if dragIndex > hoverIndex && pointerY > middle {
		return false
	}
	return true
}
