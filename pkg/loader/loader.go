// pkg/loader/loader.go
package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nyc-open-data/arrest-ingress/pkg/model"
)

// Execer is the write surface the loader needs from a warehouse session.
// The Snowflake connector satisfies it; every batch statement runs under
// the executor's per-statement timeout.
type Execer interface {
	DB() *sqlx.DB
	ExecWithTimeout(ctx context.Context, query string, timeout time.Duration, args ...interface{}) (sql.Result, error)
}

// Destination identifies the warehouse table receiving the load. The table
// is assumed to pre-exist with a compatible column set; the loader performs
// no DDL. Database and Schema are optional qualifiers.
type Destination struct {
	Table    string
	Database string
	Schema   string
}

// QualifiedName returns the quoted, fully qualified table identifier.
func (d Destination) QualifiedName() string {
	parts := make([]string, 0, 3)
	if d.Database != "" {
		parts = append(parts, quoteIdentifier(d.Database))
	}
	if d.Schema != "" {
		parts = append(parts, quoteIdentifier(d.Schema))
	}
	parts = append(parts, quoteIdentifier(d.Table))
	return strings.Join(parts, ".")
}

// Loader bulk-inserts cleaned tables into Snowflake
type Loader struct {
	exec         Execer
	batchSize    int
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewLoader creates a loader writing through the given session. A
// non-positive batch size falls back to 10000 rows per statement; a
// non-positive query timeout leaves statements unbounded.
func NewLoader(exec Execer, batchSize int, queryTimeout time.Duration, logger *zap.Logger) (*Loader, error) {
	if exec == nil {
		return nil, errors.New("executor cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if batchSize <= 0 {
		batchSize = 10000
	}

	return &Loader{
		exec:         exec,
		batchSize:    batchSize,
		queryTimeout: queryTimeout,
		logger:       logger.Named("loader"),
	}, nil
}

// Load appends every row of the table to the destination using batched
// multi-row INSERT statements rather than per-row inserts. Each statement
// runs under the configured query timeout. Fields absent from a row insert
// as NULL. Returns the number of rows written.
//
// Loading appends only; re-running a successful load duplicates rows.
func (l *Loader) Load(ctx context.Context, table *model.Table, dest Destination) (int64, error) {
	if table == nil {
		return 0, errors.New("table cannot be nil")
	}

	columns := table.Columns()
	rows := table.Rows()

	if len(rows) == 0 || len(columns) == 0 {
		l.logger.Warn("Nothing to load",
			zap.String("destination", dest.QualifiedName()),
			zap.Int("rows", len(rows)),
			zap.Int("columns", len(columns)))
		return 0, nil
	}

	var total int64
	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}

		batch := rows[start:end]
		query, args := buildInsert(dest, columns, batch)

		if _, err := l.exec.ExecWithTimeout(ctx, l.exec.DB().Rebind(query), l.queryTimeout, args...); err != nil {
			return total, fmt.Errorf("bulk insert into %s failed at row %d: %w",
				dest.QualifiedName(), start, err)
		}

		total += int64(len(batch))
		l.logger.Info("Loaded batch",
			zap.String("destination", dest.QualifiedName()),
			zap.Int("batch_rows", len(batch)),
			zap.Int64("rows_loaded", total))
	}

	return total, nil
}

// buildInsert assembles one multi-row INSERT statement and its bind
// arguments for a batch of rows.
func buildInsert(dest Destination, columns []string, rows []model.Record) (string, []interface{}) {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdentifier(col)
	}

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(dest.QualifiedName())
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(placeholders)
		for _, col := range columns {
			args = append(args, row[col]) // absent keys yield nil -> NULL
		}
	}

	return sb.String(), args
}

// quoteIdentifier wraps an identifier in double quotes, escaping embedded
// quotes, so mixed-case and punctuated column names survive the round trip.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
