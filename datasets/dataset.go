// Package datasets implements the tabular dataset type used for training
package datasets

import (
	"fmt"

	"github.com/pkg/errors"
)

// TargetColumn is the name of the label column.
const TargetColumn = "target"

// ErrEmpty is returned when a table holds no rows.
var ErrEmpty = errors.New("datasets: empty table")

// Table is an in-memory table of numeric feature columns plus an integer target column.
type Table struct {
	names  []string
	rows   [][]float64
	target []int
}

// FeatureNames returns the sequential names feature_0..feature_{n-1}.
func FeatureNames(n int) []string {
	var names = make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("feature_%d", i)
	}
	return names
}

// NewTable builds a table. Every row must have len(names) values and there must be one target per row.
func NewTable(names []string, rows [][]float64, target []int) (*Table, error) {
	if len(rows) != len(target) {
		return nil, errors.Errorf("datasets: %d rows but %d targets", len(rows), len(target))
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == TargetColumn {
			return nil, errors.Errorf("datasets: feature name %q is reserved", name)
		}
		if _, dup := seen[name]; dup {
			return nil, errors.Errorf("datasets: duplicate feature name %q", name)
		}
		seen[name] = struct{}{}
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, errors.Errorf("datasets: row %d has %d values, want %d", i, len(row), len(names))
		}
	}
	return &Table{
		names:  append([]string(nil), names...),
		rows:   rows,
		target: target,
	}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns the feature column names followed by the target column.
func (t *Table) Columns() []string {
	return append(t.Features(), TargetColumn)
}

// Features returns a copy of the ordered feature column names.
func (t *Table) Features() []string {
	return append([]string(nil), t.names...)
}

// X returns the feature matrix. Rows are shared with the table.
func (t *Table) X() [][]float64 {
	return t.rows
}

// Y returns the target column. It is shared with the table.
func (t *Table) Y() []int {
	return t.target
}

// Row returns the features and target of row n.
func (t *Table) Row(n int) ([]float64, int) {
	return t.rows[n], t.target[n]
}

// Subset returns a table holding the rows at idx, in that order.
func (t *Table) Subset(idx []int) *Table {
	var sub = &Table{
		names:  t.names,
		rows:   make([][]float64, len(idx)),
		target: make([]int, len(idx)),
	}
	for i, j := range idx {
		sub.rows[i] = t.rows[j]
		sub.target[i] = t.target[j]
	}
	return sub
}

// ClassCounts counts the rows of every class label.
func (t *Table) ClassCounts() map[int]int {
	var counts = make(map[int]int)
	for _, y := range t.target {
		counts[y]++
	}
	return counts
}

// Classes returns the distinct class labels in ascending order.
func (t *Table) Classes() []int {
	return sortedKeys(t.ClassCounts())
}
