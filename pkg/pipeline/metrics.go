package pipeline

import (
	"go.uber.org/zap"
)

// LogSummary emits the end-of-run summary with the metrics collected
// during the run.
func (r *RunResult) LogSummary(logger *zap.Logger) {
	fields := []zap.Field{
		zap.String("run_id", r.RunID),
		zap.Stringer("final_state", r.FinalState),
		zap.Bool("success", r.Success),
		zap.Int("rows_fetched", r.RowsFetched),
		zap.Int("rows_cleaned", r.RowsCleaned),
		zap.Int64("rows_loaded", r.RowsLoaded),
		zap.Int("cleaning_operations", r.CleaningOperations),
		zap.Duration("duration", r.Duration),
		zap.Float64("rows_per_second", r.Throughput()),
	}

	if r.HasErrors() {
		fields = append(fields, zap.Strings("errors", r.Errors))
		logger.Warn("Run finished with errors", fields...)
		return
	}

	logger.Info("Run finished", fields...)
}
