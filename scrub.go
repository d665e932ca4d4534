// Package scrub provides data quality analysis and automated cleaning for
// tabular data: missing-data, duplicate, outlier, type, distribution, and
// correlation analysis condensed into a scored report, plus a cleaning
// pipeline that imputes, treats outliers, deduplicates, standardizes, and
// transforms the table. This package is the sole public API for the
// library.
package scrub

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/osanai/scrub/internal/analysis"
	"github.com/osanai/scrub/internal/cleaning"
	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	scrubio "github.com/osanai/scrub/internal/io"
	"github.com/osanai/scrub/internal/logging"
	"github.com/osanai/scrub/internal/series"
	"github.com/osanai/scrub/internal/version"
)

// ISeries provides a type-erased interface for Series of any type.
type ISeries interface {
	Name() string
	Len() int
	DataType() arrow.DataType
	IsNull(index int) bool
	String() string
	Array() arrow.Array
	Release()
}

// Table is the public type for a table of named columns. It wraps the
// internal frame to hide implementation details.
type Table struct {
	df *dataframe.DataFrame
}

// Config holds every tunable threshold of the engine.
type Config = config.Config

// AnalysisReport is the immutable result of one analysis run.
type AnalysisReport = analysis.Report

// CleaningReport is the step log and summaries of one cleaning run.
type CleaningReport = cleaning.Report

// FittedState is the transformation state fitted during cleaning,
// reusable on new data with the same schema.
type FittedState = cleaning.State

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return config.NewConfig()
}

// NewTable creates a Table from series.
func NewTable(seriesList ...ISeries) *Table {
	internal := make([]dataframe.ISeries, len(seriesList))
	for i, s := range seriesList {
		internal[i] = s
	}
	return &Table{df: dataframe.New(internal...)}
}

// NewSeries creates a new typed Series from values.
func NewSeries[T any](name string, values []T, mem memory.Allocator) ISeries {
	return series.New(name, values, mem)
}

// NewSeriesWithNulls creates a typed Series with a validity mask; slots
// with a false mask entry are null.
func NewSeriesWithNulls[T any](name string, values []T, valid []bool, mem memory.Allocator) ISeries {
	return series.NewWithNulls(name, values, valid, mem)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string { return t.df.Columns() }

// Len returns the number of rows.
func (t *Table) Len() int { return t.df.Len() }

// Width returns the number of columns.
func (t *Table) Width() int { return t.df.Width() }

// Column returns the named series.
func (t *Table) Column(name string) (ISeries, bool) { return t.df.Column(name) }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.df.HasColumn(name) }

// NumericColumns returns the names of numeric columns in order.
func (t *Table) NumericColumns() []string { return t.df.NumericColumns() }

// Select returns a new Table with only the named columns.
func (t *Table) Select(names ...string) *Table { return &Table{df: t.df.Select(names...)} }

// Drop returns a new Table without the named columns.
func (t *Table) Drop(names ...string) *Table { return &Table{df: t.df.Drop(names...)} }

// String renders a short human-readable description.
func (t *Table) String() string { return t.df.String() }

// Release frees the underlying column memory.
func (t *Table) Release() { t.df.Release() }

// Engine pairs the analysis and cleaning engines under one configuration.
// One Engine serves one table at a time; use one Engine per goroutine for
// concurrent datasets.
type Engine struct {
	cfg      Config
	logger   *zap.Logger
	analysis *analysis.Engine
	cleaning *cleaning.Engine
}

// NewEngine creates an engine with a logger built from the configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.VerboseLogging)
	if err != nil {
		return nil, err
	}
	return NewEngineWithLogger(cfg, logger)
}

// NewEngineWithLogger creates an engine with a caller-supplied logger.
// A nil logger disables logging.
func NewEngineWithLogger(cfg Config, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		logger:   logger,
		analysis: analysis.NewEngine(cfg, logger),
		cleaning: cleaning.NewEngine(cfg, logger),
	}, nil
}

// Analyze runs the full quality analysis and returns the report.
func (e *Engine) Analyze(ctx context.Context, t *Table) (*AnalysisReport, error) {
	return e.analysis.Analyze(ctx, t.df)
}

// Clean runs the cleaning pipeline. The analysis report is optional: with
// it, imputation reuses the analyzed missing percentages and the outlier
// rows it flagged are removed; without it, only column-local decisions
// apply.
func (e *Engine) Clean(ctx context.Context, t *Table, report *AnalysisReport) (*Table, *CleaningReport, error) {
	cleaned, cleaningReport, err := e.cleaning.Clean(ctx, t.df, report)
	if err != nil {
		return nil, nil, err
	}
	return &Table{df: cleaned}, cleaningReport, nil
}

// FittedState returns the transformation state fitted by the last Clean.
func (e *Engine) FittedState() *FittedState {
	return e.cleaning.State()
}

// Analyze runs a quality analysis with the default configuration.
func Analyze(ctx context.Context, t *Table) (*AnalysisReport, error) {
	engine, err := NewEngineWithLogger(DefaultConfig(), zap.NewNop())
	if err != nil {
		return nil, err
	}
	return engine.Analyze(ctx, t)
}

// Clean runs the cleaning pipeline with the default configuration.
func Clean(ctx context.Context, t *Table, report *AnalysisReport) (*Table, *CleaningReport, error) {
	engine, err := NewEngineWithLogger(DefaultConfig(), zap.NewNop())
	if err != nil {
		return nil, nil, err
	}
	return engine.Clean(ctx, t, report)
}

// ReadFile loads a table from a .csv, .parquet, or .xlsx file.
func ReadFile(path string) (*Table, error) {
	df, err := scrubio.ReadFile(path, memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	return &Table{df: df}, nil
}

// WriteFile saves the table to a .csv, .parquet, or .xlsx file.
func (t *Table) WriteFile(path string) error {
	return scrubio.WriteFile(t.df, path)
}

// Version returns the build version string.
func Version() string {
	return version.Info().String()
}
