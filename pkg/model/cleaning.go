// pkg/model/cleaning.go
package model

// CleaningOperation represents a single data cleaning operation
type CleaningOperation struct {
	ColumnName        string      // Column that was cleaned
	OriginalValue     interface{} // Original value (may be nil)
	NewValue          string      // New value after cleaning
	RowIdentifier     string      // Value that identifies the row (arrest_key when present)
	CleaningOperation string      // Type of cleaning performed (e.g., "sentinel_recode")
	CleaningReason    string      // Reason for cleaning (e.g., "invalid_law_category")
}
