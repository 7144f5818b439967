package pipeline

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nyc-open-data/arrest-ingress/pkg/model"
)

// Fetcher retrieves the raw table from the upstream API.
type Fetcher interface {
	Fetch(ctx context.Context) (*model.Table, error)
}

// Cleaner turns the raw table into its warehouse-ready form.
type Cleaner interface {
	Clean(raw *model.Table) (*model.Table, []model.CleaningOperation, error)
}

// Session is an open warehouse connection. The pipeline closes it on every
// exit path once the connect step has produced one. Writes go through
// ExecWithTimeout so each statement is bounded by the configured timeout.
type Session interface {
	DB() *sqlx.DB
	ExecWithTimeout(ctx context.Context, query string, timeout time.Duration, args ...interface{}) (sql.Result, error)
	Close() error
}

// ConnectFunc opens and verifies a warehouse session.
type ConnectFunc func(ctx context.Context) (Session, error)

// LoadFunc bulk-writes the cleaned table through an open session and
// returns the number of rows written.
type LoadFunc func(ctx context.Context, session Session, table *model.Table) (int64, error)

// Pipeline sequences one fetch -> clean -> connect -> load run. Execution
// is fully sequential; there is no parallelism within or across stages and
// no retry from a failed state.
type Pipeline struct {
	fetcher Fetcher
	cleaner Cleaner
	connect ConnectFunc
	load    LoadFunc
	logger  *zap.Logger
	state   State
}

// NewPipeline wires the pipeline stages together
func NewPipeline(
	fetcher Fetcher,
	cleaner Cleaner,
	connect ConnectFunc,
	load LoadFunc,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		cleaner: cleaner,
		connect: connect,
		load:    load,
		logger:  logger.Named("pipeline"),
		state:   StateInit,
	}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes the pipeline once and returns the run result. Warehouse
// faults (connect and load) are contained here and converted into log
// messages and result errors; only the result reports them. A fetch-level
// network fault is likewise terminal but recorded the same way, so the
// caller never distinguishes outcomes beyond the returned result.
func (p *Pipeline) Run(ctx context.Context) *RunResult {
	result := NewRunResult()
	p.logger.Info("Starting run", zap.String("run_id", result.RunID))

	p.setState(StateFetching)
	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.setState(StateFetchFailed)
		p.logger.Error("An error occurred during the API request", zap.Error(err))
		result.AddError(err)
		return result.Complete(StateFetchFailed, false)
	}
	p.setState(StateFetched)
	result.RowsFetched = raw.RowCount()

	p.setState(StateTransforming)
	clean, operations, err := p.cleaner.Clean(raw)
	if err != nil {
		p.logger.Error("Transform failed", zap.Error(err))
		result.AddError(err)
		return result.Complete(p.state, false)
	}
	p.setState(StateTransformed)
	result.RowsCleaned = clean.RowCount()
	result.CleaningOperations = len(operations)

	p.setState(StateConnecting)
	session, err := p.connect(ctx)
	if err != nil {
		p.setState(StateConnectFailed)
		p.logger.Error("Error connecting to Snowflake", zap.Error(err))
		result.AddError(err)
		return result.Complete(StateConnectFailed, false)
	}
	p.setState(StateConnected)
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			p.logger.Warn("Failed to close warehouse session", zap.Error(closeErr))
		}
	}()

	p.setState(StateLoading)
	loaded, err := p.load(ctx, session, clean)
	result.RowsLoaded = loaded
	if err != nil {
		p.logger.Error("Error writing data to Snowflake", zap.Error(err))
		result.AddError(err)
		return result.Complete(StateLoading, false)
	}

	p.setState(StateDone)
	return result.Complete(StateDone, true)
}

// setState transitions the pipeline and logs the transition.
func (p *Pipeline) setState(next State) {
	p.logger.Debug("State transition",
		zap.Stringer("from", p.state),
		zap.Stringer("to", next))
	p.state = next
}
