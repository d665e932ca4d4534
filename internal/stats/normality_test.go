package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scruberrors "github.com/osanai/scrub/internal/errors"
)

func TestNormalQuantileRoundTrip(t *testing.T) {
	for _, p := range []float64{0.01, 0.1, 0.25, 0.5, 0.75, 0.9, 0.99} {
		z := NormalQuantile(p)
		assert.InDelta(t, p, NormalCDF(z), 1e-6, "p=%v", p)
	}
	assert.InDelta(t, 0.0, NormalQuantile(0.5), 1e-9)
	assert.InDelta(t, 1.6449, NormalQuantile(0.95), 1e-3)
}

func TestShapiroWilkNormalSample(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	xs := make([]float64, 80)
	for i := range xs {
		xs[i] = rng.NormFloat64()*2 + 10
	}

	res, err := ShapiroWilk(xs)
	require.NoError(t, err)
	assert.Greater(t, res.Statistic, 0.9)
	assert.LessOrEqual(t, res.Statistic, 1.0)
	assert.Greater(t, res.PValue, 0.05)
}

func TestShapiroWilkSkewedSample(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	xs := make([]float64, 80)
	for i := range xs {
		xs[i] = math.Exp(rng.NormFloat64() * 1.5)
	}

	res, err := ShapiroWilk(xs)
	require.NoError(t, err)
	assert.Less(t, res.PValue, 0.05)
}

func TestShapiroWilkTooFewValues(t *testing.T) {
	_, err := ShapiroWilk([]float64{1, 2})
	require.Error(t, err)
	assert.True(t, scruberrors.IsKind(err, scruberrors.KindInsufficientData))
}

func TestShapiroWilkConstantInput(t *testing.T) {
	_, err := ShapiroWilk([]float64{4, 4, 4, 4, 4})
	require.Error(t, err)
	assert.True(t, scruberrors.IsKind(err, scruberrors.KindDegenerateStatistic))
}

func TestAndersonDarlingNormalSample(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = rng.NormFloat64()
	}

	res, err := AndersonDarling(xs)
	require.NoError(t, err)
	assert.Greater(t, res.Statistic, 0.0)
	// a clean normal sample passes at the 5% level
	assert.Less(t, res.Statistic, res.CriticalValues[2])

	require.Len(t, res.CriticalValues, 5)
	assert.Equal(t, []float64{15, 10, 5, 2.5, 1}, res.SignificanceLevels)
	// adjusted values shrink with the (1 + 4/n - 25/n^2) divisor
	assert.Less(t, res.CriticalValues[0], res.CriticalValues[4])
}

func TestAndersonDarlingExponentialSample(t *testing.T) {
	xs := make([]float64, 200)
	for i := range xs {
		u := (float64(i) + 0.5) / 200
		xs[i] = -math.Log(1 - u)
	}

	res, err := AndersonDarling(xs)
	require.NoError(t, err)
	// heavily right-tailed data fails the 1% critical value
	assert.Greater(t, res.Statistic, res.CriticalValues[4])
}
