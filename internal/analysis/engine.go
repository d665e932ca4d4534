package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	scruberrors "github.com/osanai/scrub/internal/errors"
)

// sampleRowCount is how many leading rows BasicInfo captures.
const sampleRowCount = 5

// Engine runs the six analyzers over one table and assembles the report.
// An Engine is safe to reuse across tables sequentially; concurrent runs
// need one Engine per goroutine.
type Engine struct {
	cfg    config.Config
	logger *zap.Logger
}

// NewEngine creates an analysis engine. A nil logger disables logging.
func NewEngine(cfg config.Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Analyze runs every analyzer and returns an immutable report. A panic in
// one analyzer is recovered at the stage boundary and recorded in
// StageErrors; sections already computed survive. The context is checked
// between stages, so cancellation lands on a consistent partial report.
func (e *Engine) Analyze(ctx context.Context, df *dataframe.DataFrame) (*Report, error) {
	if df == nil || df.Width() == 0 {
		return nil, scruberrors.ErrEmptyTable
	}

	start := time.Now()
	report := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: start.UTC(),
		DataTypes:   map[string]ColumnTypeReport{},
	}
	e.logger.Info("analysis started",
		zap.String("report_id", report.ID),
		zap.Int("rows", df.Len()),
		zap.Int("columns", df.Width()))

	stages := []struct {
		name string
		run  func()
	}{
		{"basic_info", func() { report.BasicInfo = BuildBasicInfo(df) }},
		{"missing_data", func() { report.MissingData = AnalyzeMissing(df, e.cfg) }},
		{"duplicates", func() { report.Duplicates = AnalyzeDuplicates(df, e.cfg) }},
		{"outliers", func() { report.Outliers = AnalyzeOutliers(df, e.cfg) }},
		{"data_types", func() { report.DataTypes = AnalyzeTypes(df, e.cfg) }},
		{"distributions", func() { report.Distributions = AnalyzeDistributions(df) }},
		{"correlations", func() { report.Correlations = AnalyzeCorrelations(df, e.cfg) }},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := e.runStage(stage.name, stage.run); err != nil {
			if report.StageErrors == nil {
				report.StageErrors = map[string]string{}
			}
			report.StageErrors[stage.name] = err.Error()
		}
	}

	report.QualityScore = QualityScore(report)
	report.Recommendations = GenerateRecommendations(report)

	e.logger.Info("analysis complete",
		zap.String("report_id", report.ID),
		zap.Float64("quality_score", report.QualityScore),
		zap.Int("recommendations", len(report.Recommendations)),
		zap.Duration("elapsed", time.Since(start)))

	return report, nil
}

// runStage executes one analyzer, converting a panic into an error.
func (e *Engine) runStage(name string, run func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analyzer %s panicked: %v", name, r)
			e.logger.Error("analyzer failed", zap.String("stage", name), zap.Any("panic", r))
		}
	}()
	run()
	return nil
}

// BuildBasicInfo captures the table shape, column typing, and a small
// sample of leading rows. Null cells sample as nil.
func BuildBasicInfo(df *dataframe.DataFrame) BasicInfo {
	cols := df.Columns()
	info := BasicInfo{
		Rows:        df.Len(),
		Columns:     len(cols),
		ColumnNames: cols,
		ColumnTypes: make(map[string]string, len(cols)),
		SampleRows:  []map[string]any{},
	}

	for _, name := range cols {
		s, _ := df.Column(name)
		info.ColumnTypes[name] = s.DataType().Name()
	}

	limit := sampleRowCount
	if limit > df.Len() {
		limit = df.Len()
	}
	for i := 0; i < limit; i++ {
		row := make(map[string]any, len(cols))
		for _, name := range cols {
			if cell, present := df.CellString(name, i); present {
				row[name] = cell
			} else {
				row[name] = nil
			}
		}
		info.SampleRows = append(info.SampleRows, row)
	}
	return info
}
