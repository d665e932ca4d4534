package analysis

import (
	"sort"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
)

func TestAnalyzeOutliersIQRFlagsExtreme(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("age", []int64{25, 30, 35, 40, 150, 28}, mem),
	)
	defer df.Release()

	report := AnalyzeOutliers(df, config.NewConfig())

	col, ok := report.Statistical["age"]
	require.True(t, ok)
	assert.Equal(t, []int{4}, col.Indices.IQR)
	assert.Equal(t, 1, col.IQROutliers)
	assert.Less(t, col.IQRBounds[0], col.IQRBounds[1])
	assert.Greater(t, 150.0, col.IQRBounds[1])

	// modified z-score also catches the extreme value
	assert.Contains(t, col.Indices.ModifiedZScore, 4)

	// combined set is the union of all methods
	assert.Contains(t, report.Combined.AllIndices, 4)
	assert.Equal(t, len(report.Combined.AllIndices), report.Combined.TotalOutliers)
}

func TestAnalyzeOutliersNoNumericColumns(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("name", []string{"a", "b"}, mem),
	)
	defer df.Release()

	report := AnalyzeOutliers(df, config.NewConfig())

	assert.NotEmpty(t, report.Message)
	assert.Nil(t, report.Statistical)
	assert.Empty(t, report.Combined.AllIndices)
}

func TestAnalyzeOutliersZeroVarianceColumn(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("flat", []float64{7, 7, 7, 7, 7}, mem),
	)
	defer df.Release()

	report := AnalyzeOutliers(df, config.NewConfig())

	col := report.Statistical["flat"]
	assert.Empty(t, col.Indices.IQR)
	assert.Empty(t, col.Indices.ZScore)
	assert.Empty(t, col.Indices.ModifiedZScore)
	assert.True(t, col.MADDegenerate)
}

func TestAnalyzeOutliersZeroMADWithSpread(t *testing.T) {
	mem := memory.NewGoAllocator()
	// median-heavy data: MAD is 0 but the spread is real
	df := dataframe.New(
		series.New("v", []float64{5, 5, 5, 5, 5, 5, 5, 100}, mem),
	)
	defer df.Release()

	report := AnalyzeOutliers(df, config.NewConfig())

	col := report.Statistical["v"]
	assert.True(t, col.MADDegenerate)
	assert.Empty(t, col.Indices.ModifiedZScore)
	// the IQR detector still reports the extreme row
	assert.Contains(t, col.Indices.IQR, 7)
}

func TestAnalyzeOutliersSkipsNulls(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.NewWithNulls("v",
			[]float64{1, 0, 2, 3, 1000, 2},
			[]bool{true, false, true, true, true, true}, mem),
	)
	defer df.Release()

	report := AnalyzeOutliers(df, config.NewConfig())

	col := report.Statistical["v"]
	// index refers to the original row, not the compacted values
	assert.Contains(t, col.Indices.IQR, 4)
	assert.NotContains(t, col.Indices.IQR, 1)
}

func TestEnsembleSkippedOnSmallTables(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("v", []float64{1, 2, 3, 4, 5}, mem),
	)
	defer df.Release()

	report := AnalyzeOutliers(df, config.NewConfig())

	assert.True(t, report.Ensemble.Skipped)
	assert.NotEmpty(t, report.Ensemble.Reason)
	assert.Nil(t, report.Ensemble.IsolationForest)
}

func TestEnsembleFlagsContaminationFraction(t *testing.T) {
	mem := memory.NewGoAllocator()

	n := 40
	a := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = float64(i % 7)
		b[i] = float64(i%7) * 2
	}
	// two far-away rows
	a[10], b[10] = 500, -500
	a[30], b[30] = -400, 900

	df := dataframe.New(
		series.New("a", a, mem),
		series.New("b", b, mem),
	)
	defer df.Release()

	cfg := config.NewConfig()
	report := AnalyzeOutliers(df, cfg)

	iso := report.Ensemble.IsolationForest
	lof := report.Ensemble.LocalOutlierFactor
	require.NotNil(t, iso)
	require.NotNil(t, lof)

	// contamination 0.1 over 40 rows flags 4 per method
	assert.Len(t, iso.OutlierIndices, 4)
	assert.Len(t, lof.OutlierIndices, 4)
	assert.Contains(t, iso.OutlierIndices, 10)
	assert.Contains(t, iso.OutlierIndices, 30)

	assert.True(t, sort.IntsAreSorted(iso.OutlierIndices))
	assert.True(t, sort.IntsAreSorted(report.Combined.AllIndices))
}

func TestEnsembleDeterministicAcrossRuns(t *testing.T) {
	mem := memory.NewGoAllocator()

	n := 25
	v := make([]float64, n)
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		v[i] = float64(i)
		w[i] = float64(i * i % 13)
	}
	df := dataframe.New(
		series.New("v", v, mem),
		series.New("w", w, mem),
	)
	defer df.Release()

	cfg := config.NewConfig()
	first := AnalyzeOutliers(df, cfg)
	second := AnalyzeOutliers(df, cfg)

	assert.Equal(t, first.Ensemble.IsolationForest.OutlierIndices,
		second.Ensemble.IsolationForest.OutlierIndices)
	assert.Equal(t, first.Combined.AllIndices, second.Combined.AllIndices)
}

func TestTopFraction(t *testing.T) {
	scores := []float64{0.1, 0.9, 0.3, 0.8, 0.2, 0.4, 0.5, 0.6, 0.7, 0.05}

	flagged := topFraction(scores, 0.2)
	assert.Equal(t, []int{1, 3}, flagged)

	// a tiny fraction still flags at least one row
	assert.Len(t, topFraction(scores, 0.001), 1)
	assert.Empty(t, topFraction(nil, 0.1))
}
