package stats

import (
	"math"
	"sort"

	scruberrors "github.com/osanai/scrub/internal/errors"
)

// NormalCDF returns the standard normal cumulative distribution function.
func NormalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// Acklam's rational approximation coefficients for the inverse normal CDF.
var (
	invNormA = [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00,
	}
	invNormB = [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01,
	}
	invNormC = [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00,
	}
	invNormD = [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01,
		2.445134137142996e+00, 3.754408661907416e+00,
	}
)

// NormalQuantile returns the inverse of the standard normal CDF using
// Acklam's rational approximation (relative error below 1.15e-9).
func NormalQuantile(p float64) float64 {
	const pLow = 0.02425
	switch {
	case p <= 0:
		return math.Inf(-1)
	case p >= 1:
		return math.Inf(1)
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((invNormC[0]*q+invNormC[1])*q+invNormC[2])*q+invNormC[3])*q+invNormC[4])*q + invNormC[5]) /
			((((invNormD[0]*q+invNormD[1])*q+invNormD[2])*q+invNormD[3])*q + 1)
	case p > 1-pLow:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((invNormC[0]*q+invNormC[1])*q+invNormC[2])*q+invNormC[3])*q+invNormC[4])*q + invNormC[5]) /
			((((invNormD[0]*q+invNormD[1])*q+invNormD[2])*q+invNormD[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((invNormA[0]*r+invNormA[1])*r+invNormA[2])*r+invNormA[3])*r+invNormA[4])*r + invNormA[5]) * q /
			(((((invNormB[0]*r+invNormB[1])*r+invNormB[2])*r+invNormB[3])*r+invNormB[4])*r + 1)
	}
}

// ShapiroWilkResult holds the Shapiro-Wilk test outcome.
type ShapiroWilkResult struct {
	Statistic float64
	PValue    float64
}

// ShapiroWilk runs the Shapiro-Wilk normality test using Royston's
// approximation (AS R94), valid for 3 <= n <= 5000.
func ShapiroWilk(xs []float64) (ShapiroWilkResult, error) {
	n := len(xs)
	if n < 3 {
		return ShapiroWilkResult{}, scruberrors.NewInsufficientDataError(
			"ShapiroWilk", "need at least 3 values")
	}
	if n > 5000 {
		return ShapiroWilkResult{}, scruberrors.NewInvalidInputError(
			"ShapiroWilk", "approximation not valid above 5000 values")
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if sorted[n-1] == sorted[0] {
		return ShapiroWilkResult{}, scruberrors.NewDegenerateStatisticError(
			"ShapiroWilk", "", "all values identical")
	}

	// Expected normal order statistics.
	m := make([]float64, n)
	var mss float64
	for i := 0; i < n; i++ {
		m[i] = NormalQuantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		mss += m[i] * m[i]
	}

	a := make([]float64, n)
	if n == 3 {
		a[0] = -math.Sqrt(0.5)
		a[2] = math.Sqrt(0.5)
	} else {
		u := 1 / math.Sqrt(float64(n))
		cn := m[n-1] / math.Sqrt(mss)
		a[n-1] = cn + 0.221157*u - 0.147981*u*u - 2.071190*u*u*u +
			4.434685*u*u*u*u - 2.706056*u*u*u*u*u

		var phi float64
		if n > 5 {
			cn1 := m[n-2] / math.Sqrt(mss)
			a[n-2] = cn1 + 0.042981*u - 0.293762*u*u - 1.752461*u*u*u +
				5.682633*u*u*u*u - 3.582633*u*u*u*u*u
			phi = (mss - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) /
				(1 - 2*a[n-1]*a[n-1] - 2*a[n-2]*a[n-2])
			for i := 2; i < n-2; i++ {
				a[i] = m[i] / math.Sqrt(phi)
			}
			a[1] = -a[n-2]
		} else {
			phi = (mss - 2*m[n-1]*m[n-1]) / (1 - 2*a[n-1]*a[n-1])
			for i := 1; i < n-1; i++ {
				a[i] = m[i] / math.Sqrt(phi)
			}
		}
		a[0] = -a[n-1]
	}

	mean := Mean(sorted)
	var num, den float64
	for i := 0; i < n; i++ {
		num += a[i] * sorted[i]
		d := sorted[i] - mean
		den += d * d
	}
	w := num * num / den
	if w > 1 {
		w = 1
	}

	return ShapiroWilkResult{Statistic: w, PValue: shapiroWilkPValue(w, n)}, nil
}

// shapiroWilkPValue maps the W statistic to a p-value via Royston's
// normalizing transforms.
func shapiroWilkPValue(w float64, n int) float64 {
	fn := float64(n)
	switch {
	case n == 3:
		const pi6 = 6 / math.Pi
		p := pi6 * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return math.Min(1, math.Max(0, p))
	case n <= 11:
		gamma := -2.273 + 0.459*fn
		lw := -math.Log(gamma - math.Log(1-w))
		mu := 0.5440 - 0.39978*fn + 0.025054*fn*fn - 0.0006714*fn*fn*fn
		sigma := math.Exp(1.3822 - 0.77857*fn + 0.062767*fn*fn - 0.0020322*fn*fn*fn)
		return 1 - NormalCDF((lw-mu)/sigma)
	default:
		ln := math.Log(fn)
		lw := math.Log(1 - w)
		mu := -1.5861 - 0.31082*ln - 0.083751*ln*ln + 0.0038915*ln*ln*ln
		sigma := math.Exp(-0.4803 - 0.082676*ln + 0.0030302*ln*ln)
		return 1 - NormalCDF((lw-mu)/sigma)
	}
}

// AndersonDarlingResult holds the Anderson-Darling test outcome. The
// statistic is compared against CriticalValues at the matching
// SignificanceLevels (percent); exceeding a critical value rejects
// normality at that level.
type AndersonDarlingResult struct {
	Statistic          float64
	CriticalValues     []float64
	SignificanceLevels []float64
}

// Unadjusted critical values for the normal case.
var adNormCriticalValues = []float64{0.576, 0.656, 0.787, 0.918, 1.092}

// adSignificanceLevels are the matching significance levels in percent.
var adSignificanceLevels = []float64{15, 10, 5, 2.5, 1}

// AndersonDarling runs the Anderson-Darling goodness-of-fit test against
// the normal distribution, with critical values adjusted for sample size.
func AndersonDarling(xs []float64) (AndersonDarlingResult, error) {
	n := len(xs)
	if n < 3 {
		return AndersonDarlingResult{}, scruberrors.NewInsufficientDataError(
			"AndersonDarling", "need at least 3 values")
	}

	mean := Mean(xs)
	std := SampleStdDev(xs)
	if std == 0 || math.IsNaN(std) {
		return AndersonDarlingResult{}, scruberrors.NewDegenerateStatisticError(
			"AndersonDarling", "", "zero variance")
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	const eps = 1e-300
	fn := float64(n)
	var s float64
	for i := 0; i < n; i++ {
		cdfLo := math.Max(eps, math.Min(1-eps, NormalCDF((sorted[i]-mean)/std)))
		cdfHi := math.Max(eps, math.Min(1-eps, NormalCDF((sorted[n-1-i]-mean)/std)))
		s += (2*float64(i+1) - 1) / fn * (math.Log(cdfLo) + math.Log(1-cdfHi))
	}
	a2 := -fn - s

	adjust := 1 + 4/fn - 25/(fn*fn)
	critical := make([]float64, len(adNormCriticalValues))
	for i, cv := range adNormCriticalValues {
		critical[i] = cv / adjust
	}

	return AndersonDarlingResult{
		Statistic:          a2,
		CriticalValues:     critical,
		SignificanceLevels: append([]float64(nil), adSignificanceLevels...),
	}, nil
}
