package cleaning

import (
	"fmt"

	"github.com/osanai/scrub/internal/analysis"
	"github.com/osanai/scrub/internal/dataframe"
)

// deduplicate drops exact duplicate rows, keeping the first occurrence of
// each. Running it on an already deduplicated table is a no-op.
func (e *Engine) deduplicate(df *dataframe.DataFrame, report *Report) *dataframe.DataFrame {
	fingerprints := analysis.RowFingerprints(df)

	keep := make([]bool, len(fingerprints))
	seen := make(map[uint64]bool, len(fingerprints))
	removed := 0
	for i, fp := range fingerprints {
		if seen[fp] {
			removed++
			continue
		}
		seen[fp] = true
		keep[i] = true
	}
	if removed == 0 {
		return df
	}

	filtered, err := df.FilterRows(keep)
	if err != nil {
		return df
	}
	report.addStep(fmt.Sprintf("Removed %d duplicate rows", removed))
	return filtered
}
