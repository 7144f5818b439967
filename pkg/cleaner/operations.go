// pkg/cleaner/operations.go
package cleaner

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nyc-open-data/arrest-ingress/pkg/model"
)

// rowMissingAny reports whether any of the named fields is absent or nil in
// the row. A field counts as present under its source name or its renamed
// uppercase form, so cleaning an already-clean table drops nothing.
func rowMissingAny(row model.Record, fields []string) bool {
	for _, field := range fields {
		value, ok := row[field]
		if !ok {
			value, ok = row[strings.ToUpper(field)]
		}
		if !ok || value == nil {
			return true
		}
	}
	return false
}

// rowIdentifier returns a stable identifier for a row in cleaning-operation
// records: the arrest key when present, otherwise a generated UUID so the
// operation can still be traced in logs.
func rowIdentifier(row model.Record) string {
	if value, ok := row[rowIDColumn]; ok && value != nil {
		return toString(value)
	}
	return uuid.New().String()
}

// toString converts an interface to string
func toString(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		// Use Sprint as a fallback
		return fmt.Sprintf("%v", val)
	}
}
