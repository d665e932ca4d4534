package cleaning

import (
	"fmt"
	"math"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
	"github.com/osanai/scrub/internal/stats"
)

// Method identifies an imputation strategy.
type Method string

const (
	MethodDropColumn  Method = "drop_column"
	MethodMean        Method = "mean"
	MethodMedian      Method = "median"
	MethodMode        Method = "mode"
	MethodKNN         Method = "knn"
	MethodConstant    Method = "constant"
	MethodForwardFill Method = "forward_fill"
)

// Placeholder fills for the constant method.
const (
	constantTextFill    = "Unknown"
	constantNumericFill = -999
)

// SelectMethod picks an imputation method from the column kind and its
// missing percentage. Columns losing more than half their values are not
// worth reconstructing and get dropped outright.
func SelectMethod(isNumeric bool, missingPct float64, cfg config.Config) Method {
	if missingPct > cfg.DropColumnMissingPct {
		return MethodDropColumn
	}
	if isNumeric {
		switch {
		case missingPct < cfg.MeanMissingPct:
			return MethodMean
		case missingPct < cfg.MedianMissingPct:
			return MethodMedian
		default:
			return MethodKNN
		}
	}
	if missingPct < cfg.ModeMissingPct {
		return MethodMode
	}
	return MethodConstant
}

// methodApplies reports whether an imputation method can run on a column
// of the given kind.
func methodApplies(m Method, isNumeric bool) bool {
	switch m {
	case MethodDropColumn, MethodConstant, MethodForwardFill:
		return true
	case MethodMean, MethodMedian, MethodKNN:
		return isNumeric
	case MethodMode:
		return !isNumeric
	}
	return false
}

// imputeMissing fills every column that has nulls, selecting the method
// per column (honoring configured per-column overrides) and recording
// each fitted imputer in the state. Numeric
// columns come back as float64 regardless of prior width, since fitted
// statistics are fractional.
func (e *Engine) imputeMissing(df *dataframe.DataFrame, columnMissingPct map[string]float64, report *Report) *dataframe.DataFrame {
	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		missing := nullCount(s)
		if missing == 0 {
			continue
		}

		pct, ok := columnMissingPct[name]
		if !ok {
			pct = float64(missing) / float64(df.Len()) * 100
		}
		isNumeric := s.DataType().ID() == arrow.INT64 || s.DataType().ID() == arrow.FLOAT64
		method := SelectMethod(isNumeric, pct, e.cfg)
		if override, ok := e.cfg.ImputeMethodOverrides[name]; ok && methodApplies(Method(override), isNumeric) {
			method = Method(override)
		}

		switch method {
		case MethodDropColumn:
			df = df.Drop(name)
			report.Imputation.DroppedColumns = append(report.Imputation.DroppedColumns, name)
			report.addStep(fmt.Sprintf("Dropped column '%s' (%.1f%% missing)", name, pct))
			continue
		case MethodForwardFill:
			df = e.imputeForwardFill(df, name)
		case MethodMean, MethodMedian, MethodKNN:
			df = e.imputeNumeric(df, name, method)
		case MethodConstant:
			if isNumeric {
				df = e.imputeNumeric(df, name, method)
			} else {
				df = e.imputeNonNumeric(df, name, method)
			}
		default:
			df = e.imputeNonNumeric(df, name, method)
		}

		report.Imputation.ColumnsImputed = append(report.Imputation.ColumnsImputed, name)
		report.Imputation.MethodsUsed[name] = e.state.Imputers[name].Method
		report.addStep(fmt.Sprintf("Imputed %d missing values in '%s' using %s",
			missing, name, e.state.Imputers[name].Method))
	}
	return df
}

// imputeNumeric fills a numeric column with its fitted mean or median,
// the constant placeholder, or by k-nearest-neighbour regression over the
// other numeric columns. KNN falls back to median when no other numeric
// column exists.
func (e *Engine) imputeNumeric(df *dataframe.DataFrame, name string, method Method) *dataframe.DataFrame {
	values, valid, _ := df.FloatColumn(name)

	present := make([]float64, 0, len(values))
	for i, v := range values {
		if valid[i] {
			present = append(present, v)
		}
	}

	filled := append([]float64(nil), values...)
	switch method {
	case MethodMean:
		fill := stats.Mean(present)
		fillConstant(filled, valid, fill)
		e.state.Imputers[name] = ImputerState{Method: MethodMean, FillValue: fill}
	case MethodMedian:
		fill := stats.Median(present)
		fillConstant(filled, valid, fill)
		e.state.Imputers[name] = ImputerState{Method: MethodMedian, FillValue: fill}
	case MethodConstant:
		fillConstant(filled, valid, constantNumericFill)
		e.state.Imputers[name] = ImputerState{Method: MethodConstant, FillValue: constantNumericFill}
	case MethodKNN:
		k := e.cfg.KNNNeighbors
		if df.Len() < k {
			k = df.Len()
		}
		if ok := knnFill(df, name, filled, valid, k); ok {
			e.state.Imputers[name] = ImputerState{Method: MethodKNN, Neighbors: k}
		} else {
			fill := stats.Median(present)
			fillConstant(filled, valid, fill)
			e.state.Imputers[name] = ImputerState{Method: MethodMedian, FillValue: fill}
		}
	}

	return df.WithColumn(series.New(name, filled, e.mem))
}

// imputeNonNumeric fills a text or boolean column with its mode or a
// fixed placeholder. Boolean columns always use the mode; a placeholder
// has no boolean representation.
func (e *Engine) imputeNonNumeric(df *dataframe.DataFrame, name string, method Method) *dataframe.DataFrame {
	s, _ := df.Column(name)
	if s.DataType().ID() == arrow.BOOL {
		return e.imputeBool(df, name)
	}

	values, valid, _ := df.StringColumn(name)
	filled := append([]string(nil), values...)

	var fill string
	switch method {
	case MethodMode:
		fill = mode(values, valid)
		e.state.Imputers[name] = ImputerState{Method: MethodMode, FillText: fill}
	default:
		fill = constantTextFill
		e.state.Imputers[name] = ImputerState{Method: MethodConstant, FillText: fill}
	}
	for i := range filled {
		if !valid[i] {
			filled[i] = fill
		}
	}

	return df.WithColumn(series.New(name, filled, e.mem))
}

// imputeBool fills a boolean column with its most frequent value.
func (e *Engine) imputeBool(df *dataframe.DataFrame, name string) *dataframe.DataFrame {
	s, _ := df.Column(name)
	n := s.Len()

	trues, falses := 0, 0
	values := make([]bool, n)
	for i := 0; i < n; i++ {
		if s.IsNull(i) {
			continue
		}
		cell, _ := df.CellString(name, i)
		values[i] = cell == "true"
		if values[i] {
			trues++
		} else {
			falses++
		}
	}

	fill := trues >= falses
	for i := 0; i < n; i++ {
		if s.IsNull(i) {
			values[i] = fill
		}
	}
	e.state.Imputers[name] = ImputerState{Method: MethodMode, FillText: fmt.Sprintf("%t", fill)}

	return df.WithColumn(series.New(name, values, e.mem))
}

// imputeForwardFill propagates the previous present value forward, then
// fills any leading nulls backward from the first present value.
func (e *Engine) imputeForwardFill(df *dataframe.DataFrame, name string) *dataframe.DataFrame {
	s, _ := df.Column(name)
	if s.DataType().ID() == arrow.INT64 || s.DataType().ID() == arrow.FLOAT64 {
		values, valid, _ := df.FloatColumn(name)
		filled, filledValid := forwardFill(values, valid)
		e.state.Imputers[name] = ImputerState{Method: MethodForwardFill}
		return df.WithColumn(series.NewWithNulls(name, filled, filledValid, e.mem))
	}

	values, valid, _ := df.StringColumn(name)
	filled, filledValid := forwardFill(values, valid)
	e.state.Imputers[name] = ImputerState{Method: MethodForwardFill}
	return df.WithColumn(series.NewWithNulls(name, filled, filledValid, e.mem))
}

// forwardFill fills nulls from the nearest preceding present value, then
// backward for a leading run. A fully null column stays null.
func forwardFill[T any](values []T, valid []bool) ([]T, []bool) {
	filled := append([]T(nil), values...)
	filledValid := append([]bool(nil), valid...)

	var last T
	have := false
	for i := range filled {
		if filledValid[i] {
			last = filled[i]
			have = true
		} else if have {
			filled[i] = last
			filledValid[i] = true
		}
	}
	for i := len(filled) - 1; i >= 0; i-- {
		if filledValid[i] {
			last = filled[i]
			have = true
		} else if have {
			filled[i] = last
			filledValid[i] = true
		}
	}
	return filled, filledValid
}

func fillConstant(values []float64, valid []bool, fill float64) {
	for i := range values {
		if !valid[i] {
			values[i] = fill
		}
	}
}

// mode returns the most frequent present value; frequency ties resolve to
// the lexicographically smallest value so refits are deterministic.
func mode(values []string, valid []bool) string {
	counts := map[string]int{}
	for i, v := range values {
		if valid[i] {
			counts[v]++
		}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// knnFill estimates each missing value as the mean of the target values
// of the k nearest rows, with distance measured over the other numeric
// columns and scaled for coordinates missing on either side. Returns
// false when there is no other numeric column to measure distance on.
func knnFill(df *dataframe.DataFrame, target string, filled []float64, valid []bool, k int) bool {
	features := []string{}
	for _, name := range df.NumericColumns() {
		if name != target {
			features = append(features, name)
		}
	}
	if len(features) == 0 || k < 1 {
		return false
	}

	rows := df.Len()
	matrix := make([][]float64, rows)
	mask := make([][]bool, rows)
	for i := range matrix {
		matrix[i] = make([]float64, len(features))
		mask[i] = make([]bool, len(features))
	}
	for j, name := range features {
		colValues, colValid, _ := df.FloatColumn(name)
		for i := 0; i < rows; i++ {
			matrix[i][j] = colValues[i]
			mask[i][j] = colValid[i]
		}
	}

	donors := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		if valid[i] {
			donors = append(donors, i)
		}
	}
	if len(donors) == 0 {
		return false
	}

	for i := range filled {
		if valid[i] {
			continue
		}

		type candidate struct {
			row  int
			dist float64
		}
		candidates := make([]candidate, 0, len(donors))
		for _, d := range donors {
			dist, ok := nanEuclidean(matrix[i], mask[i], matrix[d], mask[d])
			if ok {
				candidates = append(candidates, candidate{row: d, dist: dist})
			}
		}
		if len(candidates) == 0 {
			return false
		}

		sort.SliceStable(candidates, func(a, b int) bool { return candidates[a].dist < candidates[b].dist })
		limit := k
		if limit > len(candidates) {
			limit = len(candidates)
		}
		var sum float64
		for _, c := range candidates[:limit] {
			sum += filled[c.row]
		}
		filled[i] = sum / float64(limit)
	}
	return true
}

// nanEuclidean is the euclidean distance over the coordinates present in
// both rows, scaled up for the absent ones. Returns false when the rows
// share no coordinate.
func nanEuclidean(a []float64, aMask []bool, b []float64, bMask []bool) (float64, bool) {
	var ss float64
	shared := 0
	for j := range a {
		if aMask[j] && bMask[j] {
			d := a[j] - b[j]
			ss += d * d
			shared++
		}
	}
	if shared == 0 {
		return 0, false
	}
	return math.Sqrt(ss * float64(len(a)) / float64(shared)), true
}

func nullCount(s dataframe.ISeries) int {
	count := 0
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			count++
		}
	}
	return count
}
