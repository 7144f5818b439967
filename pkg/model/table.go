// pkg/model/table.go
package model

import "sort"

// Record is one flat JSON object returned by the API: a mapping from field
// name to scalar value (string, number, or nil). No fixed schema is enforced;
// fields are whatever the upstream endpoint returns for that page.
type Record map[string]interface{}

// Table is an in-memory tabular result. Rows are Records and columns are the
// union of field names observed across all appended records. Column order is
// append order; unseen field names within a single record are added in sorted
// order so the layout is deterministic across runs.
type Table struct {
	columns []string
	colSet  map[string]bool
	rows    []Record
}

// NewTable creates an empty table with no predeclared columns.
func NewTable() *Table {
	return &Table{
		colSet: make(map[string]bool),
	}
}

// NewTableWithColumns creates an empty table with a fixed initial column
// order. Appending records with additional fields still extends the set.
func NewTableWithColumns(columns []string) *Table {
	t := NewTable()
	for _, col := range columns {
		if !t.colSet[col] {
			t.columns = append(t.columns, col)
			t.colSet[col] = true
		}
	}
	return t
}

// Append adds records to the table, extending the column set with any field
// names not seen before.
func (t *Table) Append(records ...Record) {
	for _, rec := range records {
		var unseen []string
		for name := range rec {
			if !t.colSet[name] {
				unseen = append(unseen, name)
			}
		}
		sort.Strings(unseen)
		for _, name := range unseen {
			t.columns = append(t.columns, name)
			t.colSet[name] = true
		}
		t.rows = append(t.rows, rec)
	}
}

// Columns returns the column names in table order. The returned slice is a
// copy and safe for the caller to modify.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	return t.colSet[name]
}

// Rows returns the underlying row slice. Callers that need an independent
// copy should use Clone.
func (t *Table) Rows() []Record {
	return t.rows
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Clone returns a deep copy of the table. Mutating the clone's rows or
// columns is not observable through the original.
func (t *Table) Clone() *Table {
	out := NewTableWithColumns(t.columns)
	out.rows = make([]Record, 0, len(t.rows))
	for _, rec := range t.rows {
		copied := make(Record, len(rec))
		for k, v := range rec {
			copied[k] = v
		}
		out.rows = append(out.rows, copied)
	}
	return out
}
