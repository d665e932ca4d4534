// Package dataframe provides the in-memory tabular dataset consumed and
// produced by the analysis and cleaning engines.
package dataframe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/osanai/scrub/internal/series"
)

// ISeries provides a type-erased interface over typed series.
type ISeries interface {
	Name() string
	Len() int
	DataType() arrow.DataType
	IsNull(index int) bool
	String() string
	Array() arrow.Array
	Release()
}

// DataFrame represents a table of data with typed, null-aware columns.
// Column order is stable across all operations unless a column is
// explicitly dropped.
type DataFrame struct {
	columns map[string]ISeries
	order   []string
}

// New creates a new DataFrame from a slice of ISeries.
func New(seriesList ...ISeries) *DataFrame {
	columns := make(map[string]ISeries)
	order := make([]string, 0, len(seriesList))

	for _, s := range seriesList {
		name := s.Name()
		columns[name] = s
		order = append(order, name)
	}

	return &DataFrame{
		columns: columns,
		order:   order,
	}
}

// Columns returns the names of all columns in order.
func (df *DataFrame) Columns() []string {
	if len(df.order) == 0 {
		return []string{}
	}
	return append([]string(nil), df.order...)
}

// Len returns the number of rows.
func (df *DataFrame) Len() int {
	if len(df.order) > 0 {
		if s, exists := df.columns[df.order[0]]; exists {
			return s.Len()
		}
	}
	return 0
}

// Width returns the number of columns.
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Column returns the series for the given column name.
func (df *DataFrame) Column(name string) (ISeries, bool) {
	s, exists := df.columns[name]
	return s, exists
}

// HasColumn checks if a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.columns[name]
	return exists
}

// Select returns a new DataFrame with only the specified columns.
func (df *DataFrame) Select(names ...string) *DataFrame {
	newColumns := make(map[string]ISeries)
	newOrder := make([]string, 0, len(names))

	for _, name := range names {
		if s, exists := df.columns[name]; exists {
			newColumns[name] = s
			newOrder = append(newOrder, name)
		}
	}

	return &DataFrame{columns: newColumns, order: newOrder}
}

// Drop returns a new DataFrame without the specified columns.
func (df *DataFrame) Drop(names ...string) *DataFrame {
	dropSet := make(map[string]bool)
	for _, name := range names {
		dropSet[name] = true
	}

	newColumns := make(map[string]ISeries)
	newOrder := make([]string, 0, len(df.order))

	for _, name := range df.order {
		if !dropSet[name] {
			newColumns[name] = df.columns[name]
			newOrder = append(newOrder, name)
		}
	}

	return &DataFrame{columns: newColumns, order: newOrder}
}

// WithColumn returns a new DataFrame with the given series replacing the
// column of the same name, or appended at the end if no such column exists.
// Column order is preserved on replacement.
func (df *DataFrame) WithColumn(s ISeries) *DataFrame {
	newColumns := make(map[string]ISeries, len(df.columns)+1)
	for name, col := range df.columns {
		newColumns[name] = col
	}
	newColumns[s.Name()] = s

	newOrder := append([]string(nil), df.order...)
	if !df.HasColumn(s.Name()) {
		newOrder = append(newOrder, s.Name())
	}

	return &DataFrame{columns: newColumns, order: newOrder}
}

// NumericColumns returns the names of int64 and float64 columns in order.
func (df *DataFrame) NumericColumns() []string {
	var names []string
	for _, name := range df.order {
		s := df.columns[name]
		switch s.DataType().ID() {
		case arrow.INT64, arrow.FLOAT64:
			names = append(names, name)
		}
	}
	return names
}

// FloatColumn extracts a numeric column as float64 values plus a validity
// mask. Int64 columns are widened. Returns false when the column is missing
// or not numeric.
func (df *DataFrame) FloatColumn(name string) ([]float64, []bool, bool) {
	s, exists := df.columns[name]
	if !exists {
		return nil, nil, false
	}

	arr := s.Array()
	defer arr.Release()

	switch typed := arr.(type) {
	case *array.Float64:
		values := make([]float64, typed.Len())
		valid := make([]bool, typed.Len())
		for i := 0; i < typed.Len(); i++ {
			if !typed.IsNull(i) {
				values[i] = typed.Value(i)
				valid[i] = true
			}
		}
		return values, valid, true
	case *array.Int64:
		values := make([]float64, typed.Len())
		valid := make([]bool, typed.Len())
		for i := 0; i < typed.Len(); i++ {
			if !typed.IsNull(i) {
				values[i] = float64(typed.Value(i))
				valid[i] = true
			}
		}
		return values, valid, true
	default:
		return nil, nil, false
	}
}

// StringColumn extracts a string column plus a validity mask. Returns false
// when the column is missing or not a string column.
func (df *DataFrame) StringColumn(name string) ([]string, []bool, bool) {
	s, exists := df.columns[name]
	if !exists {
		return nil, nil, false
	}

	arr := s.Array()
	defer arr.Release()

	typed, ok := arr.(*array.String)
	if !ok {
		return nil, nil, false
	}

	values := make([]string, typed.Len())
	valid := make([]bool, typed.Len())
	for i := 0; i < typed.Len(); i++ {
		if !typed.IsNull(i) {
			values[i] = typed.Value(i)
			valid[i] = true
		}
	}
	return values, valid, true
}

// CellString renders the cell at (column, row) as its canonical string.
// The second return is false for null cells.
func (df *DataFrame) CellString(name string, row int) (string, bool) {
	s, exists := df.columns[name]
	if !exists || row < 0 || row >= s.Len() {
		return "", false
	}
	arr := s.Array()
	defer arr.Release()
	return FormatValue(arr, row)
}

// FormatValue renders the value at index i of an Arrow array as a canonical
// string. The second return is false for nulls and unsupported types.
func FormatValue(arr arrow.Array, i int) (string, bool) {
	if arr.IsNull(i) {
		return "", false
	}
	switch typed := arr.(type) {
	case *array.String:
		return typed.Value(i), true
	case *array.Int64:
		return strconv.FormatInt(typed.Value(i), 10), true
	case *array.Float64:
		return strconv.FormatFloat(typed.Value(i), 'g', -1, 64), true
	case *array.Boolean:
		return strconv.FormatBool(typed.Value(i)), true
	default:
		return "", false
	}
}

// FilterRows returns a new DataFrame containing only rows where keep[i] is
// true. Nulls are preserved. keep must have exactly Len() entries.
func (df *DataFrame) FilterRows(keep []bool) (*DataFrame, error) {
	if len(keep) != df.Len() {
		return nil, fmt.Errorf("filter mask length %d does not match %d rows", len(keep), df.Len())
	}

	mem := memory.NewGoAllocator()
	filtered := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		arr := df.columns[name].Array()
		s, err := filterSeries(name, arr, keep, mem)
		arr.Release()
		if err != nil {
			return nil, err
		}
		filtered = append(filtered, s)
	}

	return New(filtered...), nil
}

// DropRows returns a new DataFrame without the rows at the given indices.
// Out-of-range indices are ignored.
func (df *DataFrame) DropRows(indices []int) (*DataFrame, error) {
	keep := make([]bool, df.Len())
	for i := range keep {
		keep[i] = true
	}
	for _, idx := range indices {
		if idx >= 0 && idx < len(keep) {
			keep[idx] = false
		}
	}
	return df.FilterRows(keep)
}

// Clone returns a deep, null-preserving copy of the DataFrame.
func (df *DataFrame) Clone() *DataFrame {
	keep := make([]bool, df.Len())
	for i := range keep {
		keep[i] = true
	}
	clone, err := df.FilterRows(keep)
	if err != nil {
		// Len-matched mask cannot fail; keep the signature panic-free anyway.
		return New()
	}
	return clone
}

// filterSeries rebuilds a single column keeping only masked rows.
func filterSeries(name string, arr arrow.Array, keep []bool, mem memory.Allocator) (ISeries, error) {
	switch typed := arr.(type) {
	case *array.String:
		return filterTyped(name, typed.Len(), keep, mem, typed.IsNull, typed.Value)
	case *array.Int64:
		return filterTyped(name, typed.Len(), keep, mem, typed.IsNull, typed.Value)
	case *array.Float64:
		return filterTyped(name, typed.Len(), keep, mem, typed.IsNull, typed.Value)
	case *array.Boolean:
		return filterTyped(name, typed.Len(), keep, mem, typed.IsNull, typed.Value)
	default:
		return nil, fmt.Errorf("column %s: unsupported array type %T", name, arr)
	}
}

func filterTyped[T any](
	name string, length int, keep []bool, mem memory.Allocator,
	isNull func(int) bool, value func(int) T,
) (ISeries, error) {
	values := make([]T, 0, length)
	valid := make([]bool, 0, length)
	for i := 0; i < length; i++ {
		if !keep[i] {
			continue
		}
		if isNull(i) {
			var zero T
			values = append(values, zero)
			valid = append(valid, false)
		} else {
			values = append(values, value(i))
			valid = append(valid, true)
		}
	}
	return series.NewWithNulls(name, values, valid, mem), nil
}

// String returns a string representation of the DataFrame.
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return "DataFrame[empty]"
	}

	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}
	for _, name := range df.order {
		s := df.columns[name]
		parts = append(parts, fmt.Sprintf("  %s: %s", name, s.DataType().String()))
	}

	return strings.Join(parts, "\n")
}

// Release releases all underlying Arrow memory.
func (df *DataFrame) Release() {
	for _, s := range df.columns {
		s.Release()
	}
}
