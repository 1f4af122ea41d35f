package series

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateColumn is returned when a column name is already present.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrLengthMismatch is returned when a column length differs from the frame length.
	ErrLengthMismatch = errors.New("column length mismatch")
)

// Column is a named Series.
type Column struct {
	Name   string
	Values Series
}

// Frame is an ordered set of equally long named columns.
// Column order is insertion order.
type Frame struct {
	n       int
	columns []Column
	index   map[string]int
}

// NewFrame creates an empty frame whose columns must all have length n.
func NewFrame(n int) *Frame {
	return &Frame{
		n:     n,
		index: make(map[string]int),
	}
}

// FrameOf builds a frame from columns, sized to the first column.
func FrameOf(cols ...Column) (*Frame, error) {
	n := 0
	if len(cols) > 0 {
		n = len(cols[0].Values)
	}
	f := NewFrame(n)
	for _, c := range cols {
		if err := f.Add(c.Name, c.Values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// MustFrameOf is like FrameOf but panics on error. It is meant for columns
// built from the same aligned inputs, which always fit.
func MustFrameOf(cols ...Column) *Frame {
	f, err := FrameOf(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// Add appends a column.
func (f *Frame) Add(name string, values Series) error {
	if _, ok := f.index[name]; ok {
		return fmt.Errorf("add %q: %w", name, ErrDuplicateColumn)
	}
	if len(values) != f.n {
		return fmt.Errorf("add %q: got %d values, frame has %d: %w", name, len(values), f.n, ErrLengthMismatch)
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, Column{Name: name, Values: values})
	return nil
}

// mustAdd is used by in-package constructors whose columns are known to fit.
func (f *Frame) mustAdd(name string, values Series) {
	if err := f.Add(name, values); err != nil {
		panic(err)
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.n }

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.columns) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column's values.
func (f *Frame) Column(name string) (Series, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i].Values, true
}

// Columns returns the columns in order.
func (f *Frame) Columns() []Column {
	out := make([]Column, len(f.columns))
	copy(out, f.columns)
	return out
}

// Row returns the values at position i keyed by column name.
func (f *Frame) Row(i int) map[string]float64 {
	row := make(map[string]float64, len(f.columns))
	for _, c := range f.columns {
		row[c.Name] = c.Values[i]
	}
	return row
}

// Join returns a new frame holding f's columns followed by other's.
func (f *Frame) Join(other *Frame) (*Frame, error) {
	if other.n != f.n {
		return nil, fmt.Errorf("join: %d rows vs %d: %w", f.n, other.n, ErrLengthMismatch)
	}
	out := NewFrame(f.n)
	for _, c := range f.columns {
		out.mustAdd(c.Name, c.Values)
	}
	for _, c := range other.columns {
		if err := out.Add(c.Name, c.Values); err != nil {
			return nil, fmt.Errorf("join: %w", err)
		}
	}
	return out, nil
}

// With returns a copy of f with one more column.
func (f *Frame) With(name string, values Series) (*Frame, error) {
	extra := NewFrame(f.n)
	if err := extra.Add(name, values); err != nil {
		return nil, err
	}
	return f.Join(extra)
}
