package analysis

import (
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/stats"
)

// Field and null markers keep row fingerprints unambiguous: "a,," and
// ",,a" must hash differently, and null must differ from empty string.
const (
	fingerprintSeparator = "\x1f"
	fingerprintNull      = "\x00"
)

// AnalyzeDuplicates detects exact and approximate row repetition. The
// near-duplicate pass is quadratic in row count and is the dominant cost
// centre of analysis on wide tables; callers cancel at the orchestration
// layer, not here.
func AnalyzeDuplicates(df *dataframe.DataFrame, cfg config.Config) DuplicateReport {
	report := DuplicateReport{
		NearDuplicates: []NearDuplicate{},
	}

	rows := df.Len()
	if rows == 0 {
		report.Severity = SeverityLow
		return report
	}

	fingerprints := rowFingerprints(df)
	seen := make(map[uint64]int, rows)
	duplicated := make(map[uint64]bool)
	for _, fp := range fingerprints {
		seen[fp]++
	}
	for _, fp := range fingerprints {
		if seen[fp] > 1 {
			duplicated[fp] = true
		}
	}
	for _, count := range seen {
		if count > 1 {
			report.ExactDuplicates += count - 1
		}
	}
	for _, fp := range fingerprints {
		if duplicated[fp] {
			report.DuplicateRows++
		}
	}

	report.ExactDuplicatePct = float64(report.ExactDuplicates) / float64(rows) * 100
	report.NearDuplicates = findNearDuplicates(df, cfg)
	report.Severity = duplicateSeverity(report.ExactDuplicatePct, cfg)

	return report
}

// RowFingerprints hashes every row over all columns; byte-for-byte equal
// rows share a fingerprint. Exported for reuse by the deduplication stage.
func RowFingerprints(df *dataframe.DataFrame) []uint64 {
	return rowFingerprints(df)
}

func rowFingerprints(df *dataframe.DataFrame) []uint64 {
	rows := df.Len()
	cols := df.Columns()
	fingerprints := make([]uint64, rows)

	for i := 0; i < rows; i++ {
		digest := xxhash.New()
		for _, name := range cols {
			cell, present := df.CellString(name, i)
			if present {
				_, _ = digest.WriteString(cell)
			} else {
				_, _ = digest.WriteString(fingerprintNull)
			}
			_, _ = digest.WriteString(fingerprintSeparator)
		}
		fingerprints[i] = digest.Sum64()
	}
	return fingerprints
}

// findNearDuplicates compares every unordered pair of rows by Pearson
// correlation across numeric columns, nulls replaced by 0. Pairs where
// either row has zero variance are skipped: correlation is undefined
// there, so they carry no similarity evidence.
func findNearDuplicates(df *dataframe.DataFrame, cfg config.Config) []NearDuplicate {
	near := []NearDuplicate{}

	numeric := df.NumericColumns()
	if len(numeric) < 2 {
		return near
	}

	rows := df.Len()
	profiles := make([][]float64, rows)
	for i := range profiles {
		profiles[i] = make([]float64, len(numeric))
	}
	for j, name := range numeric {
		values, valid, _ := df.FloatColumn(name)
		for i := 0; i < rows; i++ {
			if valid[i] {
				profiles[i][j] = values[i]
			}
		}
	}

	for i := 0; i < rows; i++ {
		for j := i + 1; j < rows; j++ {
			similarity := stats.Pearson(profiles[i], profiles[j])
			if math.IsNaN(similarity) {
				continue
			}
			if similarity > cfg.NearDuplicateThreshold {
				near = append(near, NearDuplicate{Row1: i, Row2: j, Similarity: similarity})
			}
		}
	}
	return near
}

func duplicateSeverity(pct float64, cfg config.Config) Severity {
	switch {
	case pct < cfg.DuplicateSeverityLowPct:
		return SeverityLow
	case pct < cfg.DuplicateSeverityMediumPct:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}
