package cleaning

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/osanai/scrub/internal/analysis"
	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	scruberrors "github.com/osanai/scrub/internal/errors"
)

// Engine runs the cleaning pipeline over one table. Each Engine owns its
// fitted state exclusively; concurrent runs on different tables need one
// Engine each.
type Engine struct {
	cfg    config.Config
	logger *zap.Logger
	mem    memory.Allocator
	state  *State
}

// NewEngine creates a cleaning engine. A nil logger disables logging.
func NewEngine(cfg config.Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
		mem:    memory.NewGoAllocator(),
		state:  newState(),
	}
}

// State returns the transformation state fitted by the last Clean call.
func (e *Engine) State() *State {
	return e.state
}

// Clean runs the six stages in fixed order: imputation, outlier
// treatment, deduplication, type standardization, text normalization,
// and feature transformation. The analysis report is optional; without
// it imputation percentages are computed locally and the row-removal
// phase of outlier treatment is skipped. Each stage commits its result
// by replacing the working table, so cancellation between stages leaves
// a consistent table.
func (e *Engine) Clean(ctx context.Context, df *dataframe.DataFrame, analysisReport *analysis.Report) (*dataframe.DataFrame, *Report, error) {
	if df == nil || df.Width() == 0 {
		return nil, nil, scruberrors.ErrEmptyTable
	}

	start := time.Now()
	e.state = newState()
	report := newReport(df.Len(), df.Width())
	e.logger.Info("cleaning started",
		zap.Int("rows", df.Len()),
		zap.Int("columns", df.Width()))

	var columnMissingPct map[string]float64
	var combinedIndices []int
	if analysisReport != nil {
		columnMissingPct = analysisReport.MissingData.ColumnMissingPct
		combinedIndices = analysisReport.Outliers.Combined.AllIndices
	}

	stages := []struct {
		name string
		run  func(*dataframe.DataFrame) *dataframe.DataFrame
	}{
		{"impute", func(d *dataframe.DataFrame) *dataframe.DataFrame {
			return e.imputeMissing(d, columnMissingPct, report)
		}},
		{"outliers", func(d *dataframe.DataFrame) *dataframe.DataFrame {
			return e.treatOutliers(d, combinedIndices, report)
		}},
		{"dedupe", func(d *dataframe.DataFrame) *dataframe.DataFrame {
			return e.deduplicate(d, report)
		}},
		{"types", func(d *dataframe.DataFrame) *dataframe.DataFrame {
			return e.standardizeTypes(d, report)
		}},
		{"text", func(d *dataframe.DataFrame) *dataframe.DataFrame {
			return e.normalizeText(d, report)
		}},
		{"transform", func(d *dataframe.DataFrame) *dataframe.DataFrame {
			return e.transformFeatures(d, report)
		}},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return df, report, err
		}
		next, err := e.runStage(stage.name, stage.run, df)
		if err != nil {
			if report.StageErrors == nil {
				report.StageErrors = map[string]string{}
			}
			report.StageErrors[stage.name] = err.Error()
			continue
		}
		df = next
		e.logger.Debug("stage complete",
			zap.String("stage", stage.name),
			zap.Int("rows", df.Len()),
			zap.Int("columns", df.Width()))
	}

	report.FinalShape = Shape{Rows: df.Len(), Columns: df.Width()}
	report.RowsRemoved = report.OriginalShape.Rows - report.FinalShape.Rows

	e.logger.Info("cleaning complete",
		zap.Int("rows_removed", report.RowsRemoved),
		zap.Int("steps", len(report.Steps)),
		zap.Duration("elapsed", time.Since(start)))

	return df, report, nil
}

// runStage executes one cleaning stage, converting a panic into an
// error. A failed stage leaves the last committed table in place.
func (e *Engine) runStage(name string, run func(*dataframe.DataFrame) *dataframe.DataFrame, df *dataframe.DataFrame) (out *dataframe.DataFrame, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = df
			err = scruberrors.NewInternalError("cleaning."+name, fmt.Errorf("stage panicked: %v", r))
			e.logger.Error("cleaning stage failed", zap.String("stage", name), zap.Any("panic", r))
		}
	}()
	return run(df), nil
}
