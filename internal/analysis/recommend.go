package analysis

import "fmt"

// Recommendation type tags.
const (
	RecMissingData         = "missing_data"
	RecDuplicates          = "duplicates"
	RecOutliers            = "outliers"
	RecTypeStandardization = "type_standardization"
)

// thresholdRule is one declarative entry of the recommendation table: a
// metric over the report, the value that triggers the recommendation, and
// the value that escalates it from medium to high. Rules are evaluated
// independently so multiple recommendations can co-occur.
type thresholdRule struct {
	recType     string
	metric      func(*Report) float64
	trigger     float64
	highAbove   float64
	message     func(v float64) string
	suggestions []string
}

var thresholdRules = []thresholdRule{
	{
		recType:   RecMissingData,
		metric:    func(r *Report) float64 { return r.MissingData.MissingPercentage },
		trigger:   5,
		highAbove: 20,
		message: func(v float64) string {
			return fmt.Sprintf("High missing data (%.1f%%). Consider imputation strategies or data collection improvements.", v)
		},
		suggestions: []string{
			"Impute missing values with a method suited to each column",
			"Drop columns that are mostly empty",
			"Review the collection process for systematically absent fields",
		},
	},
	{
		recType:   RecDuplicates,
		metric:    func(r *Report) float64 { return r.Duplicates.ExactDuplicatePct },
		trigger:   1,
		highAbove: 10,
		message: func(v float64) string {
			return fmt.Sprintf("Duplicate data detected (%.1f%%). Remove duplicates to improve data quality.", v)
		},
		suggestions: []string{
			"Deduplicate keeping the first occurrence of each row",
			"Check upstream joins and loads for repeated ingestion",
		},
	},
}

// GenerateRecommendations maps findings to actionable, severity-tagged
// guidance. The output order is stable: threshold rules first, then the
// outlier rule, then one type-standardization entry per offending column
// in column order.
func GenerateRecommendations(report *Report) []Recommendation {
	recs := []Recommendation{}

	for _, rule := range thresholdRules {
		v := rule.metric(report)
		if v <= rule.trigger {
			continue
		}
		severity := SeverityMedium
		if v > rule.highAbove {
			severity = SeverityHigh
		}
		recs = append(recs, Recommendation{
			Type:        rule.recType,
			Severity:    severity,
			Message:     rule.message(v),
			Suggestions: rule.suggestions,
		})
	}

	if total := report.Outliers.Combined.TotalOutliers; total > 0 {
		recs = append(recs, Recommendation{
			Type:     RecOutliers,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("Outliers detected (%d points). Review and handle outliers appropriately.", total),
			Suggestions: []string{
				"Inspect flagged rows before removing them",
				"Cap extreme values instead of dropping rows where the signal matters",
			},
		})
	}

	for _, name := range report.BasicInfo.ColumnNames {
		colReport, ok := report.DataTypes[name]
		if !ok || len(colReport.MixedTypes) == 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Type:     RecTypeStandardization,
			Severity: SeverityMedium,
			Column:   name,
			Message:  fmt.Sprintf("Column '%s' has mixed data types. Standardize data format.", name),
			Suggestions: []string{
				"Convert the column to its dominant type",
				"Normalize date representations to a single format",
			},
		})
	}

	return recs
}
