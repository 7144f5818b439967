// cmd/ingress/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nyc-open-data/arrest-ingress/pkg/cleaner"
	"github.com/nyc-open-data/arrest-ingress/pkg/config"
	"github.com/nyc-open-data/arrest-ingress/pkg/connector"
	"github.com/nyc-open-data/arrest-ingress/pkg/fetcher"
	"github.com/nyc-open-data/arrest-ingress/pkg/loader"
	"github.com/nyc-open-data/arrest-ingress/pkg/model"
	"github.com/nyc-open-data/arrest-ingress/pkg/pipeline"
)

// The program takes no arguments: it runs exactly one fetch-clean-load
// pass and exits. Handled pipeline failures are reported in the run summary
// and exit 0; only startup failures (configuration, logger) exit non-zero.
func main() {
	// A .env file is optional; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Run aborted before the pipeline could start", zap.Error(err))
		os.Exit(1)
	}
}

// run wires the pipeline stages from configuration and executes one run.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	client := fetcher.NewClient(cfg.API, logger)

	dataCleaner, err := cleaner.NewDataCleaner(logger)
	if err != nil {
		return err
	}

	connect := func(ctx context.Context) (pipeline.Session, error) {
		conn, err := connector.NewSnowflakeConnector(ctx, cfg.Snowflake)
		if err != nil {
			return nil, err
		}
		if err := conn.Validate(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	}

	dest := loader.Destination{
		Table:    cfg.DestinationTable,
		Database: cfg.Snowflake.Database,
		Schema:   cfg.Snowflake.Schema,
	}
	load := func(ctx context.Context, session pipeline.Session, table *model.Table) (int64, error) {
		l, err := loader.NewLoader(session, cfg.LoadBatchSize, cfg.Snowflake.QueryTimeout, logger)
		if err != nil {
			return 0, err
		}
		return l.Load(ctx, table, dest)
	}

	p := pipeline.NewPipeline(client, dataCleaner, connect, load, logger)
	result := p.Run(ctx)
	result.LogSummary(logger)

	return nil
}

// buildLogger constructs the zap logger from the configured level and
// format. Unknown levels fall back to info rather than failing the run.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
