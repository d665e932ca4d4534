package analysis

import (
	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
)

// AnalyzeMissing quantifies and localizes absent values. It is a pure
// function of the table; no state is kept between runs.
func AnalyzeMissing(df *dataframe.DataFrame, cfg config.Config) MissingDataReport {
	rows := df.Len()
	cols := df.Columns()

	report := MissingDataReport{
		TotalCells:       rows * len(cols),
		ColumnMissing:    make(map[string]int, len(cols)),
		ColumnMissingPct: make(map[string]float64, len(cols)),
		MissingClusters:  []MissingCluster{},
	}

	rowMissing := make([]int, rows)

	for _, name := range cols {
		s, _ := df.Column(name)

		missing := 0
		runStart := -1
		for i := 0; i < rows; i++ {
			if s.IsNull(i) {
				missing++
				rowMissing[i]++
				if runStart < 0 {
					runStart = i
				}
				continue
			}
			if runStart >= 0 {
				report.MissingClusters = append(report.MissingClusters, MissingCluster{
					Column:     name,
					StartIndex: runStart,
					EndIndex:   i - 1,
					Length:     i - runStart,
				})
				runStart = -1
			}
		}
		if runStart >= 0 {
			report.MissingClusters = append(report.MissingClusters, MissingCluster{
				Column:     name,
				StartIndex: runStart,
				EndIndex:   rows - 1,
				Length:     rows - runStart,
			})
		}

		report.TotalMissing += missing
		report.ColumnMissing[name] = missing
		if rows > 0 {
			report.ColumnMissingPct[name] = float64(missing) / float64(rows) * 100
		} else {
			report.ColumnMissingPct[name] = 0
		}
		if rows > 0 && missing == rows {
			report.CompletelyMissingColumns = append(report.CompletelyMissingColumns, name)
		}
	}

	for _, count := range rowMissing {
		if len(cols) > 0 && count == len(cols) {
			report.CompletelyMissingRows++
		}
	}

	if report.TotalCells > 0 {
		report.MissingPercentage = float64(report.TotalMissing) / float64(report.TotalCells) * 100
	}
	report.Severity = missingSeverity(report.MissingPercentage, cfg)

	return report
}

func missingSeverity(pct float64, cfg config.Config) Severity {
	switch {
	case pct < cfg.MissingSeverityLowPct:
		return SeverityLow
	case pct < cfg.MissingSeverityMediumPct:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}
