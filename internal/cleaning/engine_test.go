package cleaning

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanai/scrub/internal/analysis"
	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	scruberrors "github.com/osanai/scrub/internal/errors"
	"github.com/osanai/scrub/internal/series"
	"github.com/osanai/scrub/internal/testutil"
)

func dirtyFrame(mem memory.Allocator) *dataframe.DataFrame {
	// row 3's name is null; rows 1 and 2 are exact duplicates
	return dataframe.New(
		series.NewWithNulls("name",
			[]string{"alice  ", "bob", "bob", ""},
			[]bool{true, true, true, false}, mem),
		series.New("age", []int64{30, 40, 40, 50}, mem),
		series.New("income", []float64{100, 200, 200, 300}, mem),
	)
}

func TestCleanFullPipeline(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dirtyFrame(mem)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)
	cleaned, report, err := e.Clean(context.Background(), df, nil)
	require.NoError(t, err)

	assert.Equal(t, Shape{Rows: 4, Columns: 3}, report.OriginalShape)
	assert.Equal(t, Shape{Rows: 3, Columns: 3}, report.FinalShape)
	assert.Equal(t, 1, report.RowsRemoved)
	assert.NotEmpty(t, report.Steps)

	// the null name came back as the constant placeholder, then encoded
	assert.Equal(t, MethodConstant, report.Imputation.MethodsUsed["name"])
	assert.Contains(t, report.Transformations.ScaledColumns, "age")
	assert.Contains(t, report.Transformations.EncodedColumns, "name")

	state := e.State()
	require.NotNil(t, state.Scaler)
	assert.Contains(t, state.Encoders, "name")
	assert.Contains(t, state.Encoders["name"].Classes, "Unknown")

	// scaled columns center on zero
	values, _ := testutil.FloatColumnValues(t, cleaned, "age")
	var sum float64
	for _, v := range values {
		sum += v
	}
	assert.InDelta(t, 0.0, sum, 1e-9)
	assert.Empty(t, report.StageErrors)
}

func TestCleanStagePanicRecovered(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("v", []float64{1, 2, 3}, mem),
	)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)

	out, err := e.runStage("boom", func(d *dataframe.DataFrame) *dataframe.DataFrame {
		panic("stage blew up")
	}, df)
	require.Error(t, err)
	assert.True(t, scruberrors.IsKind(err, scruberrors.KindInternal))
	assert.Contains(t, err.Error(), "stage blew up")
	// the last committed table carries forward
	assert.Same(t, df, out)
}

func TestCleanWithAnalysisReport(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("v", []float64{1, 2, 3, 4, 1000}, mem),
	)
	defer df.Release()

	analysisReport := &analysis.Report{
		Outliers: analysis.OutlierReport{
			Combined: analysis.CombinedOutliers{TotalOutliers: 1, AllIndices: []int{4}},
		},
	}

	e := NewEngine(config.NewConfig(), nil)
	cleaned, report, err := e.Clean(context.Background(), df, analysisReport)
	require.NoError(t, err)

	assert.Equal(t, 4, cleaned.Len())
	assert.Equal(t, 1, report.OutlierTreatment.OutliersRemoved)
	assert.Equal(t, 1, report.RowsRemoved)
}

func TestCleanEmptyTable(t *testing.T) {
	e := NewEngine(config.NewConfig(), nil)

	_, _, err := e.Clean(context.Background(), nil, nil)
	assert.ErrorIs(t, err, scruberrors.ErrEmptyTable)
}

func TestCleanCancelledContext(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dirtyFrame(mem)
	defer df.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine(config.NewConfig(), nil)
	_, _, err := e.Clean(ctx, df, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleanResetsStateBetweenRuns(t *testing.T) {
	mem := memory.NewGoAllocator()

	first := dataframe.New(
		series.NewWithNulls("a", []float64{1, 0, 3}, []bool{true, false, true}, mem),
	)
	second := dataframe.New(
		series.New("b", []float64{1, 2, 3}, mem),
	)
	defer first.Release()
	defer second.Release()

	e := NewEngine(config.NewConfig(), nil)

	_, _, err := e.Clean(context.Background(), first, nil)
	require.NoError(t, err)
	assert.Contains(t, e.State().Imputers, "a")

	_, _, err = e.Clean(context.Background(), second, nil)
	require.NoError(t, err)
	assert.NotContains(t, e.State().Imputers, "a")
	assert.Equal(t, []string{"b"}, e.State().Scaler.Columns)
}

func TestCleanReportJSON(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dirtyFrame(mem)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)
	_, report, err := e.Clean(context.Background(), df, nil)
	require.NoError(t, err)

	data, err := report.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "cleaning_steps")
	assert.Contains(t, string(data), "original_shape")
}
