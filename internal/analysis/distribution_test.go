package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
)

func TestAnalyzeDistributionsStatistics(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("v", []float64{1, 2, 3, 4, 5, 6, 7, 8}, mem),
	)
	defer df.Release()

	report := AnalyzeDistributions(df)

	col, ok := report.Columns["v"]
	require.True(t, ok)
	st := col.Statistics
	assert.InDelta(t, 4.5, float64(st.Mean), 1e-9)
	assert.InDelta(t, 4.5, float64(st.Median), 1e-9)
	assert.InDelta(t, 1.0, float64(st.Min), 1e-9)
	assert.InDelta(t, 8.0, float64(st.Max), 1e-9)
	assert.InDelta(t, 2.75, float64(st.Q25), 1e-9)
	assert.InDelta(t, 6.25, float64(st.Q75), 1e-9)
	assert.Greater(t, float64(st.Std), 0.0)
}

func TestAnalyzeDistributionsSkipsNullsAndNonNumeric(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.NewWithNulls("v", []float64{10, 0, 30}, []bool{true, false, true}, mem),
		series.NewWithNulls("empty", []float64{0, 0, 0}, []bool{false, false, false}, mem),
		series.New("label", []string{"a", "b", "c"}, mem),
	)
	defer df.Release()

	report := AnalyzeDistributions(df)

	col, ok := report.Columns["v"]
	require.True(t, ok)
	assert.InDelta(t, 20.0, float64(col.Statistics.Mean), 1e-9)

	_, ok = report.Columns["empty"]
	assert.False(t, ok, "all-null columns are omitted")
	_, ok = report.Columns["label"]
	assert.False(t, ok)
}

func TestClassifyDistribution(t *testing.T) {
	tests := []struct {
		name string
		skew float64
		kurt float64
		want string
	}{
		{"symmetric and mesokurtic", 0.1, -0.2, DistributionNormal},
		{"strong right tail", 2.3, 6.0, DistributionRightSkewed},
		{"strong left tail", -1.8, 4.0, DistributionLeftSkewed},
		{"mild asymmetry", 0.7, 0.9, DistributionApproxNormal},
		{"heavy tails only", 0.1, 3.0, DistributionApproxNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyDistribution(tt.skew, tt.kurt))
		})
	}
}

func TestNormalityOnGaussianSample(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	values := make([]float64, 120)
	for i := range values {
		values[i] = rng.NormFloat64()*3 + 50
	}

	mem := memory.NewGoAllocator()
	df := dataframe.New(series.New("v", values, mem))
	defer df.Release()

	report := AnalyzeDistributions(df)

	normality := report.Columns["v"].Normality
	require.Empty(t, normality.Error)
	require.NotNil(t, normality.ShapiroWilk)
	require.NotNil(t, normality.AndersonDarling)
	assert.True(t, normality.ShapiroWilk.IsNormal)
	assert.Greater(t, float64(normality.ShapiroWilk.PValue), 0.05)
	assert.Len(t, normality.AndersonDarling.CriticalValues, 5)
}

func TestNormalityDegenerateSample(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(series.New("v", []float64{3, 3, 3, 3, 3, 3}, mem))
	defer df.Release()

	report := AnalyzeDistributions(df)

	normality := report.Columns["v"].Normality
	assert.NotEmpty(t, normality.Error)
	assert.Nil(t, normality.ShapiroWilk)
	assert.Nil(t, normality.AndersonDarling)

	// descriptive statistics are still reported for the constant column
	assert.InDelta(t, 3.0, float64(report.Columns["v"].Statistics.Mean), 1e-9)
	assert.True(t, math.IsNaN(float64(report.Columns["v"].Statistics.Skewness)))
}
