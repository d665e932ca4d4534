package cleaning

import (
	"fmt"

	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
	"github.com/osanai/scrub/internal/stats"
)

// treatOutliers runs the two-phase treatment. Phase one removes every row
// the analysis flagged; this is a point-in-time decision against the
// original table and is not recomputed. Phase two recomputes IQR bounds
// on the reduced data and caps, never drops, values still out of bounds.
// Without an analysis report only the capping phase runs.
func (e *Engine) treatOutliers(df *dataframe.DataFrame, combinedIndices []int, report *Report) *dataframe.DataFrame {
	if len(combinedIndices) > 0 {
		reduced, err := df.DropRows(combinedIndices)
		if err == nil {
			df = reduced
			report.OutlierTreatment.OutliersRemoved = len(combinedIndices)
			report.addStep(fmt.Sprintf("Removed %d outlier rows", len(combinedIndices)))
		}
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

		q1 := stats.Quantile(present, 0.25)
		q3 := stats.Quantile(present, 0.75)
		iqr := q3 - q1
		lower := q1 - e.cfg.IQRMultiplier*iqr
		upper := q3 + e.cfg.IQRMultiplier*iqr

		capped := 0
		clipped := append([]float64(nil), values...)
		for i, v := range clipped {
			if !valid[i] {
				continue
			}
			if v < lower {
				clipped[i] = lower
				capped++
			} else if v > upper {
				clipped[i] = upper
				capped++
			}
		}
		if capped == 0 {
			continue
		}

		df = df.WithColumn(series.NewWithNulls(name, clipped, valid, e.mem))
		report.OutlierTreatment.ColumnsProcessed = append(report.OutlierTreatment.ColumnsProcessed, name)
		report.OutlierTreatment.OutliersCapped += capped
		report.OutlierTreatment.MethodsUsed[name] = "iqr_capping"
		report.addStep(fmt.Sprintf("Capped %d outliers in '%s' using IQR method", capped, name))
	}

	return df
}
