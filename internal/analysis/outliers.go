package analysis

import (
	"sort"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/stats"
)

// AnalyzeOutliers runs three statistical detectors per numeric column and
// two ensemble detectors jointly across all numeric columns, then combines
// every flagged index into one deduplicated row set. Any single method
// flagging a row is sufficient for inclusion: the union favours recall
// over precision.
func AnalyzeOutliers(df *dataframe.DataFrame, cfg config.Config) OutlierReport {
	report := OutlierReport{
		Combined: CombinedOutliers{AllIndices: []int{}},
	}

	numeric := df.NumericColumns()
	if len(numeric) == 0 {
		report.Message = "no numeric columns found for outlier analysis"
		return report
	}

	report.Statistical = make(map[string]ColumnOutliers, len(numeric))
	flagged := make(map[int]bool)

	for _, name := range numeric {
		col := analyzeColumnOutliers(df, name, cfg)
		report.Statistical[name] = col
		for _, idx := range col.Indices.IQR {
			flagged[idx] = true
		}
		for _, idx := range col.Indices.ZScore {
			flagged[idx] = true
		}
		for _, idx := range col.Indices.ModifiedZScore {
			flagged[idx] = true
		}
	}

	report.Ensemble = analyzeEnsembleOutliers(df, numeric, cfg)
	if report.Ensemble.IsolationForest != nil {
		for _, idx := range report.Ensemble.IsolationForest.OutlierIndices {
			flagged[idx] = true
		}
	}
	if report.Ensemble.LocalOutlierFactor != nil {
		for _, idx := range report.Ensemble.LocalOutlierFactor.OutlierIndices {
			flagged[idx] = true
		}
	}

	indices := make([]int, 0, len(flagged))
	for idx := range flagged {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	report.Combined = CombinedOutliers{
		TotalOutliers: len(indices),
		AllIndices:    indices,
	}

	return report
}

// analyzeColumnOutliers applies the IQR, z-score, and modified z-score
// detectors to one numeric column. Row indices refer to the original
// table, not the null-compacted values.
func analyzeColumnOutliers(df *dataframe.DataFrame, name string, cfg config.Config) ColumnOutliers {
	values, valid, _ := df.FloatColumn(name)

	present := make([]float64, 0, len(values))
	presentRows := make([]int, 0, len(values))
	for i, v := range values {
		if valid[i] {
			present = append(present, v)
			presentRows = append(presentRows, i)
		}
	}

	col := ColumnOutliers{
		Indices: OutlierIndices{IQR: []int{}, ZScore: []int{}, ModifiedZScore: []int{}},
	}
	if len(present) == 0 {
		return col
	}

	// IQR fences
	q1 := stats.Quantile(present, 0.25)
	q3 := stats.Quantile(present, 0.75)
	iqr := q3 - q1
	lower := q1 - cfg.IQRMultiplier*iqr
	upper := q3 + cfg.IQRMultiplier*iqr
	col.IQRBounds = [2]float64{lower, upper}
	for i, v := range present {
		if v < lower || v > upper {
			col.Indices.IQR = append(col.Indices.IQR, presentRows[i])
		}
	}

	// Z-score with population mean/std. Zero variance yields no scores.
	mean := stats.Mean(present)
	std := stats.StdDev(present)
	if std > 0 {
		for i, v := range present {
			z := (v - mean) / std
			if z > cfg.ZScoreThreshold || z < -cfg.ZScoreThreshold {
				col.Indices.ZScore = append(col.Indices.ZScore, presentRows[i])
			}
		}
	}

	// Modified z-score on median/MAD. A zero MAD is a degenerate spread:
	// the column is tagged and reports no modified-z outliers.
	median := stats.Median(present)
	mad := stats.MAD(present)
	if mad > 0 {
		for i, v := range present {
			score := 0.6745 * (v - median) / mad
			if score > cfg.ModifiedZThreshold || score < -cfg.ModifiedZThreshold {
				col.Indices.ModifiedZScore = append(col.Indices.ModifiedZScore, presentRows[i])
			}
		}
	} else {
		col.MADDegenerate = true
	}

	col.IQROutliers = len(col.Indices.IQR)
	col.ZScoreOutliers = len(col.Indices.ZScore)
	col.ModifiedZOutliers = len(col.Indices.ModifiedZScore)
	return col
}

// analyzeEnsembleOutliers runs isolation forest and local outlier factor
// over all numeric columns jointly, nulls filled with the column median.
func analyzeEnsembleOutliers(df *dataframe.DataFrame, numeric []string, cfg config.Config) EnsembleOutliers {
	rows := df.Len()
	if rows < cfg.EnsembleMinRows {
		return EnsembleOutliers{
			Skipped: true,
			Reason:  "insufficient data for ensemble outlier detection",
		}
	}

	matrix := numericMatrix(df, numeric)

	forest := NewIsolationForest(cfg.IsolationTrees, cfg.IsolationSampleSize, cfg.RandomSeed)
	forest.Fit(matrix)
	isoIndices := topFraction(forest.Scores(matrix), cfg.EnsembleContamination)

	lofScores := LocalOutlierFactorScores(matrix, cfg.LOFNeighbors)
	lofIndices := topFraction(lofScores, cfg.EnsembleContamination)

	return EnsembleOutliers{
		IsolationForest: &MethodOutliers{
			OutlierCount:   len(isoIndices),
			OutlierIndices: isoIndices,
		},
		LocalOutlierFactor: &MethodOutliers{
			OutlierCount:   len(lofIndices),
			OutlierIndices: lofIndices,
		},
	}
}

// numericMatrix extracts the numeric columns row-wise with nulls replaced
// by the column median (the same fill the original analysis used).
func numericMatrix(df *dataframe.DataFrame, numeric []string) [][]float64 {
	rows := df.Len()
	matrix := make([][]float64, rows)
	for i := range matrix {
		matrix[i] = make([]float64, len(numeric))
	}

	for j, name := range numeric {
		values, valid, _ := df.FloatColumn(name)

		present := make([]float64, 0, rows)
		for i, v := range values {
			if valid[i] {
				present = append(present, v)
			}
		}
		fill := stats.Median(present)

		for i := 0; i < rows; i++ {
			if valid[i] {
				matrix[i][j] = values[i]
			} else {
				matrix[i][j] = fill
			}
		}
	}
	return matrix
}

// topFraction returns the indices of the highest-scoring fraction of rows,
// sorted ascending. Ties resolve by row order so results are deterministic.
func topFraction(scores []float64, fraction float64) []int {
	n := len(scores)
	count := int(float64(n) * fraction)
	if count < 1 && n > 0 {
		count = 1
	}
	if count > n {
		count = n
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	flagged := append([]int(nil), order[:count]...)
	sort.Ints(flagged)
	return flagged
}
