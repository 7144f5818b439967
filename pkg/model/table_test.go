package model

import (
	"reflect"
	"testing"
)

func TestAppendUnionsColumns(t *testing.T) {
	table := NewTable()
	table.Append(
		Record{"arrest_key": "1", "pd_cd": "101"},
		Record{"arrest_key": "2", "law_cat_cd": "F"},
	)

	if table.RowCount() != 2 {
		t.Fatalf("RowCount() = %d; expected 2", table.RowCount())
	}

	want := []string{"arrest_key", "pd_cd", "law_cat_cd"}
	if got := table.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v; expected %v", got, want)
	}

	if !table.HasColumn("law_cat_cd") {
		t.Error("expected HasColumn(law_cat_cd) to be true")
	}
	if table.HasColumn("missing") {
		t.Error("expected HasColumn(missing) to be false")
	}
}

func TestAppendAddsUnseenFieldsInSortedOrder(t *testing.T) {
	table := NewTable()
	table.Append(Record{"b_col": 1, "a_col": 2, "c_col": 3})

	want := []string{"a_col", "b_col", "c_col"}
	if got := table.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v; expected %v", got, want)
	}
}

func TestNewTableWithColumnsDeduplicates(t *testing.T) {
	table := NewTableWithColumns([]string{"a", "b", "a"})

	want := []string{"a", "b"}
	if got := table.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v; expected %v", got, want)
	}
}

func TestColumnsReturnsCopy(t *testing.T) {
	table := NewTableWithColumns([]string{"a", "b"})

	cols := table.Columns()
	cols[0] = "mutated"

	if got := table.Columns()[0]; got != "a" {
		t.Errorf("Columns()[0] = %q after caller mutation; expected %q", got, "a")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := NewTable()
	original.Append(Record{"arrest_key": "1", "pd_cd": "101"})

	clone := original.Clone()
	clone.Rows()[0]["pd_cd"] = "999"
	clone.Append(Record{"arrest_key": "2", "new_col": true})

	if got := original.Rows()[0]["pd_cd"]; got != "101" {
		t.Errorf("original row mutated through clone: pd_cd = %v", got)
	}
	if original.RowCount() != 1 {
		t.Errorf("original RowCount() = %d after appending to clone; expected 1", original.RowCount())
	}
	if original.HasColumn("new_col") {
		t.Error("original gained a column appended to the clone")
	}
}
