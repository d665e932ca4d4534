package analysis

import (
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/stats"
)

// Mixed-type and format issue tags.
const (
	IssueMixedNumericString   = "mixed_numeric_string"
	IssueMixedDateFormats     = "mixed_date_formats"
	IssueInconsistentLengths  = "inconsistent_string_lengths"
	IssueInconsistentCurrency = "inconsistent_currency_formats"
)

// Semantic type names used in suggestions and reports.
const (
	TypeNumeric     = "numeric"
	TypeDatetime    = "datetime"
	TypeCategorical = "categorical"
	TypeText        = "text"
	TypeBoolean     = "boolean"
)

// dateLayouts are the formats the analyzer recognizes; detecting more
// than one layout inside a column flags mixed date formats.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var currencyRunes = "$€£¥"

// AnalyzeTypes infers intended column semantics and flags representation
// inconsistencies per column.
func AnalyzeTypes(df *dataframe.DataFrame, cfg config.Config) map[string]ColumnTypeReport {
	reports := make(map[string]ColumnTypeReport, df.Width())

	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		cells := nonNullCells(df, name)

		report := ColumnTypeReport{
			DeclaredType: declaredType(s.DataType()),
			MixedTypes:   []string{},
			FormatIssues: []string{},
		}

		if s.DataType().ID() == arrow.STRING {
			report.MixedTypes = checkMixedTypes(cells)
			report.FormatIssues = checkFormatIssues(cells)
		}
		report.SuggestedType = SuggestType(cells, df.Len(), cfg)

		reports[name] = report
	}
	return reports
}

// declaredType maps the storage type to its semantic name.
func declaredType(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.INT64, arrow.FLOAT64:
		return TypeNumeric
	case arrow.BOOL:
		return TypeBoolean
	default:
		return TypeText
	}
}

// nonNullCells renders the present cells of a column as canonical strings.
func nonNullCells(df *dataframe.DataFrame, name string) []string {
	cells := make([]string, 0, df.Len())
	for i := 0; i < df.Len(); i++ {
		if cell, present := df.CellString(name, i); present {
			cells = append(cells, cell)
		}
	}
	return cells
}

// checkMixedTypes flags columns mixing numeric-convertible and plain text
// values, and columns mixing multiple date layouts.
func checkMixedTypes(cells []string) []string {
	issues := []string{}

	numericCount := 0
	layouts := make(map[string]bool)
	for _, cell := range cells {
		if looksNumeric(cell) {
			numericCount++
		}
		if layout, ok := parseDate(cell); ok {
			layouts[layout] = true
		}
	}

	if numericCount > 0 && numericCount < len(cells) {
		issues = append(issues, IssueMixedNumericString)
	}
	if len(layouts) > 1 {
		issues = append(issues, IssueMixedDateFormats)
	}
	return issues
}

// checkFormatIssues flags erratic string lengths and partially applied
// currency formatting.
func checkFormatIssues(cells []string) []string {
	issues := []string{}
	if len(cells) == 0 {
		return issues
	}

	lengths := make([]float64, len(cells))
	currency := 0
	for i, cell := range cells {
		lengths[i] = float64(len(cell))
		if strings.ContainsAny(cell, currencyRunes) {
			currency++
		}
	}

	if stats.StdDev(lengths) > stats.Mean(lengths)*0.5 {
		issues = append(issues, IssueInconsistentLengths)
	}
	if currency > 0 && currency < len(cells) {
		issues = append(issues, IssueInconsistentCurrency)
	}
	return issues
}

// SuggestType picks the optimal semantic type for a column. Decision
// order: numeric when enough values convert cleanly, datetime when every
// value parses as a date, categorical on low distinct ratio, else text.
// rowCount is the full column length including nulls (the distinct ratio
// denominator).
func SuggestType(cells []string, rowCount int, cfg config.Config) string {
	if len(cells) == 0 || rowCount == 0 {
		return TypeText
	}

	numericCount := 0
	dateCount := 0
	distinct := make(map[string]bool, len(cells))
	for _, cell := range cells {
		if looksNumeric(cell) {
			numericCount++
		}
		if _, ok := parseDate(cell); ok {
			dateCount++
		}
		distinct[cell] = true
	}

	if float64(numericCount)/float64(len(cells)) >= cfg.NumericTypeRatio {
		return TypeNumeric
	}
	if dateCount == len(cells) {
		return TypeDatetime
	}
	if float64(len(distinct))/float64(rowCount) < cfg.CategoricalUniqueRatio {
		return TypeCategorical
	}
	return TypeText
}

// looksNumeric reports whether the cell converts cleanly to a number.
func looksNumeric(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return false
	}
	_, err := strconv.ParseFloat(trimmed, 64)
	return err == nil
}

// ParseDate parses the cell against the recognized date layouts.
func ParseDate(cell string) (time.Time, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDate reports the first recognized date layout the cell matches.
func parseDate(cell string) (string, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return layout, true
		}
	}
	return "", false
}
