package analysis

// Penalty weights per percentage point of each defect class. Missing data
// weighs heaviest; outliers are legitimate observations more often than
// duplicates are, so they cost the least.
const (
	missingPenalty   = 2.0
	duplicatePenalty = 1.5
	outlierPenalty   = 0.5
)

// QualityScore condenses the analysis into a single bounded number in
// [0, 100]. The score is deliberately simple so that runs are comparable
// across datasets and configuration changes.
func QualityScore(report *Report) float64 {
	score := 100.0

	score -= report.MissingData.MissingPercentage * missingPenalty
	score -= report.Duplicates.ExactDuplicatePct * duplicatePenalty

	if rows := report.BasicInfo.Rows; rows > 0 {
		outlierPct := float64(report.Outliers.Combined.TotalOutliers) / float64(rows) * 100
		score -= outlierPct * outlierPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
