package analysis

import (
	"math"

	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/stats"
)

// Distribution type labels assigned from skewness and kurtosis.
const (
	DistributionNormal       = "normal"
	DistributionRightSkewed  = "right_skewed"
	DistributionLeftSkewed   = "left_skewed"
	DistributionApproxNormal = "approximately_normal"
)

// AnalyzeDistributions computes descriptive statistics, a shape label, and
// two normality tests for every numeric column. Columns that are entirely
// null are omitted.
func AnalyzeDistributions(df *dataframe.DataFrame) DistributionReport {
	report := DistributionReport{
		Columns: make(map[string]ColumnDistribution),
	}

	for _, name := range df.NumericColumns() {
		values, valid, _ := df.FloatColumn(name)
		present := make([]float64, 0, len(values))
		for i, v := range values {
			if valid[i] {
				present = append(present, v)
			}
		}
		if len(present) == 0 {
			continue
		}

		minVal, _ := stats.Min(present)
		maxVal, _ := stats.Max(present)
		skew := stats.Skewness(present)
		kurt := stats.Kurtosis(present)

		report.Columns[name] = ColumnDistribution{
			Statistics: DescriptiveStats{
				Mean:     Float(stats.Mean(present)),
				Median:   Float(stats.Median(present)),
				Std:      Float(stats.SampleStdDev(present)),
				Skewness: Float(skew),
				Kurtosis: Float(kurt),
				Min:      Float(minVal),
				Max:      Float(maxVal),
				Q25:      Float(stats.Quantile(present, 0.25)),
				Q75:      Float(stats.Quantile(present, 0.75)),
			},
			DistributionType: classifyDistribution(skew, kurt),
			Normality:        testNormality(present),
		}
	}
	return report
}

// classifyDistribution assigns a coarse shape label. Only pronounced
// asymmetry (|skew| > 1) earns a skewed label; mild deviations stay
// approximately normal.
func classifyDistribution(skew, kurt float64) string {
	switch {
	case math.Abs(skew) < 0.5 && math.Abs(kurt) < 0.5:
		return DistributionNormal
	case skew > 1:
		return DistributionRightSkewed
	case skew < -1:
		return DistributionLeftSkewed
	default:
		return DistributionApproxNormal
	}
}

// testNormality runs Shapiro-Wilk and Anderson-Darling. A failure in
// either test reports the error and withholds both results, since a
// sample degenerate for one test is suspect for the other.
func testNormality(present []float64) NormalityReport {
	sw, err := stats.ShapiroWilk(present)
	if err != nil {
		return NormalityReport{Error: err.Error()}
	}
	ad, err := stats.AndersonDarling(present)
	if err != nil {
		return NormalityReport{Error: err.Error()}
	}

	return NormalityReport{
		ShapiroWilk: &ShapiroWilkReport{
			Statistic: Float(sw.Statistic),
			PValue:    Float(sw.PValue),
			IsNormal:  sw.PValue > 0.05,
		},
		AndersonDarling: &AndersonDarlingReport{
			Statistic:          Float(ad.Statistic),
			CriticalValues:     ad.CriticalValues,
			SignificanceLevels: ad.SignificanceLevels,
		},
	}
}
