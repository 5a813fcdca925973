package dataset

import (
	"fmt"
	"math"
)

// Column names, in file order, assigned positionally on load.
const (
	ColCut     = "cut"
	ColColor   = "color"
	ColClarity = "clarity"
	ColCarat   = "carat"
	ColDepth   = "depth"
	ColTable   = "table"
	ColPrice   = "price"
	ColWidth   = "width"
	ColHeight  = "height"
	ColLength  = "length"

	ColVolume = "volume"

	// EncodedSuffix is appended to a categorical name to form its ordinal column.
	EncodedSuffix = "_encoded"
)

// OriginalColumns is the positional naming applied to the raw file.
var OriginalColumns = []string{
	ColCut, ColColor, ColClarity, ColCarat, ColDepth, ColTable, ColPrice,
	ColWidth, ColHeight, ColLength,
}

var dimensionColumns = []string{ColWidth, ColHeight, ColLength}

// MissingOrdinal marks an encoded cell whose category was not in the vocabulary.
const MissingOrdinal = -1

// Kind is the value type held by a column.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
	KindOrdinal
)

func (k Kind) String() string {
	switch k {
	case KindCategorical:
		return "categorical"
	case KindNumeric:
		return "numeric"
	case KindOrdinal:
		return "ordinal"
	default:
		return "unknown"
	}
}

// Column is a named, typed vector. Only the slice matching Kind is populated.
type Column struct {
	Name string
	Kind Kind
	text []string
	num  []float64
	ord  []int
}

// Len returns the number of cells.
func (c *Column) Len() int {
	switch c.Kind {
	case KindCategorical:
		return len(c.text)
	case KindNumeric:
		return len(c.num)
	default:
		return len(c.ord)
	}
}

// Text returns the categorical value at row i.
func (c *Column) Text(i int) string { return c.text[i] }

// Float returns the numeric value at row i; a missing cell is NaN.
func (c *Column) Float(i int) float64 { return c.num[i] }

// Ordinal returns the encoded rank at row i; ok is false for a missing encoding.
func (c *Column) Ordinal(i int) (int, bool) {
	v := c.ord[i]
	return v, v != MissingOrdinal
}

// Value returns the cell at row i as string, float64, int, or nil for a
// missing ordinal.
func (c *Column) Value(i int) any {
	switch c.Kind {
	case KindCategorical:
		return c.text[i]
	case KindNumeric:
		return c.num[i]
	default:
		if v, ok := c.Ordinal(i); ok {
			return v
		}
		return nil
	}
}

func (c *Column) filter(keep []bool) {
	switch c.Kind {
	case KindCategorical:
		c.text = filterSlice(c.text, keep)
	case KindNumeric:
		c.num = filterSlice(c.num, keep)
	default:
		c.ord = filterSlice(c.ord, keep)
	}
}

func filterSlice[T any](in []T, keep []bool) []T {
	out := in[:0]
	for i, v := range in {
		if keep[i] {
			out = append(out, v)
		}
	}
	return out
}

// Table is an ordered set of equal-length columns. A Table returned by the
// loader is not modified afterwards.
type Table struct {
	cols     []*Column
	warnings []string
	loadID   string
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i := t.index(name)
	if i < 0 {
		return nil, false
	}
	return t.cols[i], true
}

// Float returns a numeric cell; ok is false if the column is absent or not numeric.
func (t *Table) Float(name string, row int) (float64, bool) {
	c, ok := t.Column(name)
	if !ok || c.Kind != KindNumeric {
		return math.NaN(), false
	}
	return c.Float(row), true
}

// Text returns a categorical cell; ok is false if the column is absent or not categorical.
func (t *Table) Text(name string, row int) (string, bool) {
	c, ok := t.Column(name)
	if !ok || c.Kind != KindCategorical {
		return "", false
	}
	return c.Text(row), true
}

// Ordinal returns an encoded cell; ok is false if the column is absent, not
// ordinal, or the encoding is missing.
func (t *Table) Ordinal(name string, row int) (int, bool) {
	c, ok := t.Column(name)
	if !ok || c.Kind != KindOrdinal {
		return MissingOrdinal, false
	}
	return c.Ordinal(row)
}

// Row returns row i keyed by column name.
func (t *Table) Row(i int) map[string]any {
	out := make(map[string]any, len(t.cols))
	for _, c := range t.cols {
		out[c.Name] = c.Value(i)
	}
	return out
}

// Warnings returns notes recorded while the table was prepared.
func (t *Table) Warnings() []string { return append([]string(nil), t.warnings...) }

// LoadID identifies the load that produced the table. It matches the load_id
// attribute on that load's log records.
func (t *Table) LoadID() string { return t.loadID }

func (t *Table) index(name string) int {
	for i, c := range t.cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (t *Table) add(c *Column) error {
	if t.index(c.Name) >= 0 {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.NumRows() {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.NumRows())
	}
	t.cols = append(t.cols, c)
	return nil
}

func (t *Table) drop(names ...string) {
	out := t.cols[:0]
	for _, c := range t.cols {
		if !contains(names, c.Name) {
			out = append(out, c)
		}
	}
	t.cols = out
}

// moveLast moves the named column to the end, keeping the others in order.
func (t *Table) moveLast(name string) {
	i := t.index(name)
	if i < 0 || i == len(t.cols)-1 {
		return
	}
	c := t.cols[i]
	t.cols = append(t.cols[:i], t.cols[i+1:]...)
	t.cols = append(t.cols, c)
}

func (t *Table) filterRows(keep []bool) int {
	dropped := 0
	for _, k := range keep {
		if !k {
			dropped++
		}
	}
	if dropped == 0 {
		return 0
	}
	for _, c := range t.cols {
		c.filter(keep)
	}
	return dropped
}

func (t *Table) warnf(format string, args ...any) {
	t.warnings = append(t.warnings, fmt.Sprintf(format, args...))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
