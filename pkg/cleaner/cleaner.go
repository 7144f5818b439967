// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/nyc-open-data/arrest-ingress/pkg/model"
)

// irrelevantColumns are geocoding artifacts the Socrata platform appends to
// the arrest resource. They carry no analytical value and are removed before
// loading.
var irrelevantColumns = []string{
	"geocoded_column",
	":@computed_region_f5dn_yrer",
	":@computed_region_yeji_bk3q",
	":@computed_region_92fq_4b7q",
	":@computed_region_sbqj_enih",
	":@computed_region_efsh_h5xi",
}

// requiredColumns are the identifier fields a row must carry to be loadable.
// Rows missing either are dropped.
var requiredColumns = []string{"pd_cd", "ky_cd"}

const (
	// lawCategoryColumn is the categorical offense-level code column.
	lawCategoryColumn = "law_cat_cd"

	// unknownLawCategory replaces raw category values that carry no
	// documented meaning.
	unknownLawCategory = "Unknown"

	// rowIDColumn identifies a row in cleaning-operation records.
	rowIDColumn = "arrest_key"
)

// invalidLawCategories are raw law_cat_cd values recoded to
// unknownLawCategory. "Unknown" itself is not among them, which keeps the
// recode idempotent.
var invalidLawCategories = map[string]bool{
	"9": true,
	"I": true,
}

// DataCleaner normalizes a raw arrest table into its warehouse-ready form
type DataCleaner struct {
	logger *zap.Logger
}

// NewDataCleaner creates a new DataCleaner instance
func NewDataCleaner(logger *zap.Logger) (*DataCleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &DataCleaner{
		logger: logger.Named("cleaner"),
	}, nil
}

// Clean applies the transform pipeline to a raw table and returns the
// cleaned table along with the cleaning operations performed. The input
// table is never mutated; all work happens on a copy.
//
// Steps, in order:
//  1. drop the irrelevant geocoding columns (absent columns are skipped
//     silently, tolerating upstream schema drift)
//  2. drop rows missing either required identifier field
//  3. recode invalid law category values to "Unknown"
//  4. uppercase every column name for warehouse compatibility
//
// Row-dropping runs before renaming so it sees original column names, and
// recoding runs before renaming for the same reason.
func (c *DataCleaner) Clean(raw *model.Table) (*model.Table, []model.CleaningOperation, error) {
	if raw == nil {
		return nil, nil, errors.New("raw table cannot be nil")
	}

	table := raw.Clone()

	table = c.dropIrrelevantColumns(table)
	table = c.dropRowsMissingRequired(table)
	table, operations := c.recodeLawCategory(table)
	table = uppercaseColumns(table)

	c.logger.Info("Cleaned table",
		zap.Int("rows_in", raw.RowCount()),
		zap.Int("rows_out", table.RowCount()),
		zap.Int("columns", len(table.Columns())),
		zap.Int("cleaning_operations", len(operations)))

	return table, operations, nil
}

// dropIrrelevantColumns removes the known geocoding columns from the column
// set and from every row.
func (c *DataCleaner) dropIrrelevantColumns(t *model.Table) *model.Table {
	dropSet := make(map[string]bool, len(irrelevantColumns))
	var absent []string
	for _, col := range irrelevantColumns {
		dropSet[col] = true
		if !t.HasColumn(col) {
			absent = append(absent, col)
		}
	}

	if len(absent) > 0 {
		c.logger.Debug("Irrelevant columns absent from input, skipping",
			zap.Strings("columns", absent))
	}

	var kept []string
	for _, col := range t.Columns() {
		if !dropSet[col] {
			kept = append(kept, col)
		}
	}

	out := model.NewTableWithColumns(kept)
	for _, row := range t.Rows() {
		for col := range dropSet {
			delete(row, col)
		}
		out.Append(row)
	}
	return out
}

// dropRowsMissingRequired removes rows where any required identifier field
// is nil or missing.
func (c *DataCleaner) dropRowsMissingRequired(t *model.Table) *model.Table {
	for _, col := range requiredColumns {
		if !t.HasColumn(col) && !t.HasColumn(strings.ToUpper(col)) {
			c.logger.Warn("Required column absent from input, all rows will be dropped",
				zap.String("column", col))
		}
	}

	out := model.NewTableWithColumns(t.Columns())
	dropped := 0
	for _, row := range t.Rows() {
		if rowMissingAny(row, requiredColumns) {
			dropped++
			continue
		}
		out.Append(row)
	}

	if dropped > 0 {
		c.logger.Info("Dropped rows missing required identifiers",
			zap.Int("rows", dropped),
			zap.Strings("required_columns", requiredColumns))
	}
	return out
}

// recodeLawCategory replaces invalid law category codes with a clear label
// and records one cleaning operation per rewrite.
func (c *DataCleaner) recodeLawCategory(t *model.Table) (*model.Table, []model.CleaningOperation) {
	var operations []model.CleaningOperation

	for _, row := range t.Rows() {
		value, ok := row[lawCategoryColumn]
		if !ok || value == nil {
			continue
		}

		strValue := toString(value)
		if !invalidLawCategories[strValue] {
			continue
		}

		row[lawCategoryColumn] = unknownLawCategory
		operations = append(operations, model.CleaningOperation{
			ColumnName:        lawCategoryColumn,
			OriginalValue:     value,
			NewValue:          unknownLawCategory,
			RowIdentifier:     rowIdentifier(row),
			CleaningOperation: "sentinel_recode",
			CleaningReason:    "invalid_law_category",
		})
	}

	return t, operations
}

// uppercaseColumns renames every column to its uppercase form. Re-applying
// the rename is a no-op.
func uppercaseColumns(t *model.Table) *model.Table {
	cols := t.Columns()
	for i, col := range cols {
		cols[i] = strings.ToUpper(col)
	}

	out := model.NewTableWithColumns(cols)
	for _, row := range t.Rows() {
		renamed := make(model.Record, len(row))
		for name, value := range row {
			renamed[strings.ToUpper(name)] = value
		}
		out.Append(renamed)
	}
	return out
}
