package cleaning

import (
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
	"github.com/osanai/scrub/internal/stats"
)

// transformFeatures is the final stage: all numeric columns standardized
// to zero mean and unit variance through one jointly fitted scaler, and
// every low-cardinality string column integer-encoded with a per-column
// label encoder. Both fits are retained in the state for reuse.
func (e *Engine) transformFeatures(df *dataframe.DataFrame, report *Report) *dataframe.DataFrame {
	numeric := df.NumericColumns()
	if len(numeric) > 0 {
		scaler := &ScalerState{
			Columns: numeric,
			Means:   make([]float64, len(numeric)),
			Scales:  make([]float64, len(numeric)),
		}

		for j, name := range numeric {
			values, valid, _ := df.FloatColumn(name)

			present := make([]float64, 0, len(values))
			for i, v := range values {
				if valid[i] {
					present = append(present, v)
				}
			}

			mean := stats.Mean(present)
			scale := stats.StdDev(present)
			if scale == 0 || len(present) == 0 {
				scale = 1
			}
			scaler.Means[j] = mean
			scaler.Scales[j] = scale

			scaled := make([]float64, len(values))
			for i, v := range values {
				if valid[i] {
					scaled[i] = (v - mean) / scale
				}
			}
			df = df.WithColumn(series.NewWithNulls(name, scaled, valid, e.mem))
		}

		e.state.Scaler = scaler
		report.Transformations.ScaledColumns = numeric
		report.addStep(fmt.Sprintf("Scaled %d numeric columns", len(numeric)))
	}

	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		if s.DataType().ID() != arrow.STRING && s.DataType().ID() != arrow.BOOL {
			continue
		}

		values := make([]string, df.Len())
		valid := make([]bool, df.Len())
		distinct := map[string]bool{}
		for i := 0; i < df.Len(); i++ {
			if cell, present := df.CellString(name, i); present {
				values[i] = cell
				valid[i] = true
				distinct[cell] = true
			}
		}
		if len(distinct) == 0 || len(distinct) >= e.cfg.EncoderMaxCardinality {
			continue
		}

		classes := make([]string, 0, len(distinct))
		for v := range distinct {
			classes = append(classes, v)
		}
		sort.Strings(classes)
		encoder := EncoderState{Classes: classes}

		encoded := make([]int64, len(values))
		for i, v := range values {
			if valid[i] {
				encoded[i], _ = encoder.Encode(v)
			}
		}

		df = df.WithColumn(series.NewWithNulls(name, encoded, valid, e.mem))
		e.state.Encoders[name] = encoder
		report.Transformations.EncodedColumns[name] = "label_encoding"
		report.addStep(fmt.Sprintf("Label encoded '%s'", name))
	}

	return df
}
