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

func TestAnalyzeDuplicatesExact(t *testing.T) {
	mem := memory.NewGoAllocator()
	// rows 0 and 3 are identical
	df := dataframe.New(
		series.New("name", []string{"alice", "bob", "carol", "alice", "erin"}, mem),
		series.New("age", []int64{30, 41, 27, 30, 35}, mem),
	)
	defer df.Release()

	report := AnalyzeDuplicates(df, config.NewConfig())

	assert.Equal(t, 1, report.ExactDuplicates)
	assert.Equal(t, 2, report.DuplicateRows)
	assert.InDelta(t, 20.0, report.ExactDuplicatePct, 1e-9)
	assert.Equal(t, SeverityHigh, report.Severity)
}

func TestAnalyzeDuplicatesNone(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("v", []int64{1, 2, 3}, mem),
	)
	defer df.Release()

	report := AnalyzeDuplicates(df, config.NewConfig())

	assert.Zero(t, report.ExactDuplicates)
	assert.Zero(t, report.DuplicateRows)
	assert.Equal(t, SeverityLow, report.Severity)
}

func TestRowFingerprintsNullVersusEmpty(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.NewWithNulls("v", []string{"", ""}, []bool{true, false}, mem),
	)
	defer df.Release()

	fps := RowFingerprints(df)
	require.Len(t, fps, 2)
	assert.NotEqual(t, fps[0], fps[1], "null and empty string must fingerprint differently")
}

func TestRowFingerprintsFieldBoundaries(t *testing.T) {
	mem := memory.NewGoAllocator()
	// "ab"+"" vs "a"+"b" must not collide
	left := dataframe.New(
		series.New("x", []string{"ab"}, mem),
		series.New("y", []string{""}, mem),
	)
	right := dataframe.New(
		series.New("x", []string{"a"}, mem),
		series.New("y", []string{"b"}, mem),
	)
	defer left.Release()
	defer right.Release()

	assert.NotEqual(t, RowFingerprints(left)[0], RowFingerprints(right)[0])
}

func TestFindNearDuplicates(t *testing.T) {
	mem := memory.NewGoAllocator()
	// rows 0 and 1 share an almost identical numeric profile
	df := dataframe.New(
		series.New("a", []float64{1, 1.01, 50}, mem),
		series.New("b", []float64{2, 2.01, 10}, mem),
		series.New("c", []float64{3, 3.02, 90}, mem),
	)
	defer df.Release()

	report := AnalyzeDuplicates(df, config.NewConfig())

	require.Len(t, report.NearDuplicates, 1)
	nd := report.NearDuplicates[0]
	assert.Equal(t, 0, nd.Row1)
	assert.Equal(t, 1, nd.Row2)
	assert.Greater(t, nd.Similarity, 0.95)
}

func TestFindNearDuplicatesSkipsZeroVarianceRows(t *testing.T) {
	mem := memory.NewGoAllocator()
	// row 0 is constant across columns; correlation with it is undefined
	df := dataframe.New(
		series.New("a", []float64{5, 1, 2}, mem),
		series.New("b", []float64{5, 2, 4}, mem),
		series.New("c", []float64{5, 3, 6}, mem),
	)
	defer df.Release()

	report := AnalyzeDuplicates(df, config.NewConfig())

	for _, nd := range report.NearDuplicates {
		assert.NotEqual(t, 0, nd.Row1)
	}
}

func TestNearDuplicatesNeedTwoNumericColumns(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("a", []float64{1, 1}, mem),
		series.New("label", []string{"x", "y"}, mem),
	)
	defer df.Release()

	report := AnalyzeDuplicates(df, config.NewConfig())
	assert.Empty(t, report.NearDuplicates)
}
