package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// RunResult represents the outcome of one pipeline run
type RunResult struct {
	RunID              string
	FinalState         State
	Success            bool
	RowsFetched        int
	RowsCleaned        int
	RowsLoaded         int64
	CleaningOperations int
	Errors             []string
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// NewRunResult initializes a result for a new run
func NewRunResult() *RunResult {
	return &RunResult{
		RunID:      uuid.New().String(),
		FinalState: StateInit,
		StartTime:  time.Now(),
		Errors:     make([]string, 0),
	}
}

// Complete marks the run as finished and calculates duration
func (r *RunResult) Complete(state State, success bool) *RunResult {
	r.FinalState = state
	r.Success = success
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	return r
}

// AddError records an error message on the result
func (r *RunResult) AddError(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
}

// HasErrors checks if any errors occurred
func (r *RunResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Throughput returns loaded rows per second, or 0 for an instantaneous or
// unfinished run.
func (r *RunResult) Throughput() float64 {
	if r.Duration.Seconds() <= 0 {
		return 0
	}
	return float64(r.RowsLoaded) / r.Duration.Seconds()
}
