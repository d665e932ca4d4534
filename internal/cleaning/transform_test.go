package cleaning

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
	"github.com/osanai/scrub/internal/testutil"
)

func TestTransformScalesToZeroMeanUnitVariance(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("v", []float64{2, 4, 6}, mem),
	)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)
	report := newReport(df.Len(), df.Width())

	out := e.transformFeatures(df, report)

	values, _ := testutil.FloatColumnValues(t, out, "v")
	scale := math.Sqrt(8.0 / 3.0)
	assert.InDelta(t, -2.0/scale, values[0], 1e-9)
	assert.InDelta(t, 0.0, values[1], 1e-9)
	assert.InDelta(t, 2.0/scale, values[2], 1e-9)

	scaler := e.State().Scaler
	require.NotNil(t, scaler)
	assert.Equal(t, []string{"v"}, scaler.Columns)
	assert.InDelta(t, 4.0, scaler.Means[0], 1e-9)
	assert.InDelta(t, scale, scaler.Scales[0], 1e-9)
	assert.Equal(t, []string{"v"}, report.Transformations.ScaledColumns)
}

func TestTransformZeroVarianceColumn(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("flat", []float64{5, 5, 5}, mem),
	)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)
	report := newReport(df.Len(), df.Width())

	out := e.transformFeatures(df, report)

	values, _ := testutil.FloatColumnValues(t, out, "flat")
	// scale 1 keeps the transform defined; values center to zero
	assert.Equal(t, []float64{0, 0, 0}, values)
	assert.Equal(t, 1.0, e.State().Scaler.Scales[0])
}

func TestTransformLabelEncodesStrings(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.NewWithNulls("label",
			[]string{"b", "a", "b", ""},
			[]bool{true, true, true, false}, mem),
	)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)
	report := newReport(df.Len(), df.Width())

	out := e.transformFeatures(df, report)

	s, ok := out.Column("label")
	require.True(t, ok)
	assert.Equal(t, arrow.INT64, s.DataType().ID())

	values, valid := testutil.FloatColumnValues(t, out, "label")
	assert.Equal(t, []float64{1, 0, 1, 0}, values)
	assert.Equal(t, []bool{true, true, true, false}, valid)

	encoder := e.State().Encoders["label"]
	assert.Equal(t, []string{"a", "b"}, encoder.Classes)
	assert.Equal(t, "label_encoding", report.Transformations.EncodedColumns["label"])
}

func TestTransformEncodesBools(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("active", []bool{true, false, true}, mem),
	)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)
	report := newReport(df.Len(), df.Width())

	out := e.transformFeatures(df, report)

	values, _ := testutil.FloatColumnValues(t, out, "active")
	assert.Equal(t, []float64{1, 0, 1}, values)
	assert.Equal(t, []string{"false", "true"}, e.State().Encoders["active"].Classes)
}

func TestTransformSkipsHighCardinalityColumns(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("label", []string{"a", "b", "c"}, mem),
	)
	defer df.Release()

	cfg := config.NewConfig()
	cfg.EncoderMaxCardinality = 3
	e := NewEngine(cfg, nil)
	report := newReport(df.Len(), df.Width())

	out := e.transformFeatures(df, report)

	s, _ := out.Column("label")
	assert.Equal(t, arrow.STRING, s.DataType().ID())
	assert.Empty(t, e.State().Encoders)
	assert.Empty(t, report.Transformations.EncodedColumns)
}
