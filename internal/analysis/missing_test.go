package analysis

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
)

func TestAnalyzeMissingCounts(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("age", []int64{25, 30, 35, 40, 150, 28}, mem),
		series.NewWithNulls("income",
			[]float64{52000, 0, 61000, 0, 48000, 55000},
			[]bool{true, false, true, false, true, true}, mem),
	)
	defer df.Release()

	report := AnalyzeMissing(df, config.NewConfig())

	assert.Equal(t, 12, report.TotalCells)
	assert.Equal(t, 2, report.TotalMissing)
	assert.InDelta(t, 100.0*2/12, report.MissingPercentage, 1e-9)
	assert.Equal(t, 0, report.ColumnMissing["age"])
	assert.Equal(t, 2, report.ColumnMissing["income"])
	assert.InDelta(t, 100.0/3, report.ColumnMissingPct["income"], 1e-9)
	assert.Equal(t, SeverityMedium, report.Severity)
	assert.Empty(t, report.CompletelyMissingColumns)
	assert.Zero(t, report.CompletelyMissingRows)
}

func TestAnalyzeMissingClusters(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.NewWithNulls("v",
			[]float64{1, 0, 0, 4, 0, 6},
			[]bool{true, false, false, true, false, true}, mem),
	)
	defer df.Release()

	report := AnalyzeMissing(df, config.NewConfig())

	require.Len(t, report.MissingClusters, 2)
	assert.Equal(t, MissingCluster{Column: "v", StartIndex: 1, EndIndex: 2, Length: 2}, report.MissingClusters[0])
	assert.Equal(t, MissingCluster{Column: "v", StartIndex: 4, EndIndex: 4, Length: 1}, report.MissingClusters[1])
}

func TestAnalyzeMissingTrailingCluster(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.NewWithNulls("v", []float64{1, 0, 0}, []bool{true, false, false}, mem),
	)
	defer df.Release()

	report := AnalyzeMissing(df, config.NewConfig())

	require.Len(t, report.MissingClusters, 1)
	assert.Equal(t, 2, report.MissingClusters[0].EndIndex)
}

func TestAnalyzeMissingWholeColumnAndRow(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.NewWithNulls("a", []float64{0, 0}, []bool{false, false}, mem),
		series.NewWithNulls("b", []string{"x", ""}, []bool{true, false}, mem),
	)
	defer df.Release()

	report := AnalyzeMissing(df, config.NewConfig())

	assert.Equal(t, []string{"a"}, report.CompletelyMissingColumns)
	assert.Equal(t, 1, report.CompletelyMissingRows)
	assert.Equal(t, SeverityHigh, report.Severity)
}

func TestMissingSeverityBoundaries(t *testing.T) {
	cfg := config.NewConfig()
	assert.Equal(t, SeverityLow, missingSeverity(0, cfg))
	assert.Equal(t, SeverityLow, missingSeverity(4.9, cfg))
	assert.Equal(t, SeverityMedium, missingSeverity(5, cfg))
	assert.Equal(t, SeverityMedium, missingSeverity(19.9, cfg))
	assert.Equal(t, SeverityHigh, missingSeverity(20, cfg))
}
