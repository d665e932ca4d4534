package analysis

import (
	"math"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/stats"
)

// AnalyzeCorrelations builds pairwise Pearson and Spearman matrices over
// the numeric columns and lists pairs whose |Pearson r| meets the
// configured threshold. Each pair is computed over the rows present in
// both columns; a pair sharing fewer than two rows is NaN.
func AnalyzeCorrelations(df *dataframe.DataFrame, cfg config.Config) CorrelationReport {
	numeric := df.NumericColumns()
	if len(numeric) < 2 {
		return CorrelationReport{
			Insufficient:     true,
			Message:          "insufficient numeric columns for correlation analysis",
			HighCorrelations: []HighCorrelation{},
		}
	}

	values := make(map[string][]float64, len(numeric))
	valid := make(map[string][]bool, len(numeric))
	for _, name := range numeric {
		values[name], valid[name], _ = df.FloatColumn(name)
	}

	report := CorrelationReport{
		Pearson:          make(map[string]map[string]Float, len(numeric)),
		Spearman:         make(map[string]map[string]Float, len(numeric)),
		HighCorrelations: []HighCorrelation{},
	}
	for _, name := range numeric {
		report.Pearson[name] = make(map[string]Float, len(numeric))
		report.Spearman[name] = make(map[string]Float, len(numeric))
	}

	for i, a := range numeric {
		report.Pearson[a][a] = 1
		report.Spearman[a][a] = 1
		for _, b := range numeric[i+1:] {
			xs, ys := pairwiseComplete(values[a], valid[a], values[b], valid[b])
			p := stats.Pearson(xs, ys)
			s := stats.Spearman(xs, ys)
			report.Pearson[a][b] = Float(p)
			report.Pearson[b][a] = Float(p)
			report.Spearman[a][b] = Float(s)
			report.Spearman[b][a] = Float(s)

			if !math.IsNaN(p) && math.Abs(p) >= cfg.CorrelationThreshold {
				kind := "positive"
				if p < 0 {
					kind = "negative"
				}
				report.HighCorrelations = append(report.HighCorrelations, HighCorrelation{
					Column1:     a,
					Column2:     b,
					Correlation: p,
					Type:        kind,
				})
			}
		}
	}
	return report
}

// pairwiseComplete extracts the rows where both columns are present.
func pairwiseComplete(a []float64, aValid []bool, b []float64, bValid []bool) ([]float64, []float64) {
	xs := make([]float64, 0, len(a))
	ys := make([]float64, 0, len(b))
	for i := range a {
		if aValid[i] && bValid[i] {
			xs = append(xs, a[i])
			ys = append(ys, b[i])
		}
	}
	return xs, ys
}
