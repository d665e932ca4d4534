package cleaning

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/osanai/scrub/internal/analysis"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
)

// Canonical layouts for standardized datetime strings.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// standardizeTypes re-applies the type suggestion to the post-cleaning
// data and converts columns best effort. Conversion is coercing: values
// that resist the target type become null rather than failing the column.
// A column whose conversion cannot proceed keeps its prior type silently.
func (e *Engine) standardizeTypes(df *dataframe.DataFrame, report *Report) *dataframe.DataFrame {
	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		if s.DataType().ID() != arrow.STRING {
			continue
		}

		cells := make([]string, 0, df.Len())
		for i := 0; i < df.Len(); i++ {
			if cell, present := df.CellString(name, i); present {
				cells = append(cells, cell)
			}
		}
		suggested := analysis.SuggestType(cells, df.Len(), e.cfg)

		from := s.DataType().Name()
		switch suggested {
		case analysis.TypeNumeric:
			df = e.coerceNumeric(df, name)
		case analysis.TypeDatetime:
			df = e.coerceDatetime(df, name)
		case analysis.TypeCategorical:
			// Tagged for the encoder; storage stays string.
		default:
			continue
		}

		report.Transformations.TypeConversions[name] = TypeConversion{From: from, To: suggested}
		report.addStep(fmt.Sprintf("Converted '%s' from %s to %s", name, from, suggested))
	}
	return df
}

// coerceNumeric converts a string column to float64, nulling values that
// do not parse.
func (e *Engine) coerceNumeric(df *dataframe.DataFrame, name string) *dataframe.DataFrame {
	values, valid, _ := df.StringColumn(name)

	converted := make([]float64, len(values))
	convertedValid := make([]bool, len(values))
	for i, v := range values {
		if !valid[i] {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			continue
		}
		converted[i] = f
		convertedValid[i] = true
	}
	return df.WithColumn(series.NewWithNulls(name, converted, convertedValid, e.mem))
}

// coerceDatetime rewrites a string column's values in one canonical
// layout, nulling values that do not parse as dates.
func (e *Engine) coerceDatetime(df *dataframe.DataFrame, name string) *dataframe.DataFrame {
	values, valid, _ := df.StringColumn(name)

	converted := make([]string, len(values))
	convertedValid := make([]bool, len(values))
	for i, v := range values {
		if !valid[i] {
			continue
		}
		t, ok := analysis.ParseDate(v)
		if !ok {
			continue
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			converted[i] = t.Format(dateLayout)
		} else {
			converted[i] = t.Format(dateTimeLayout)
		}
		convertedValid[i] = true
	}
	return df.WithColumn(series.NewWithNulls(name, converted, convertedValid, e.mem))
}
