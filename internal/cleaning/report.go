// Package cleaning implements the data cleaning pipeline: imputation,
// outlier treatment, deduplication, type standardization, text
// normalization, and feature transformation, run in a fixed order by the
// cleaning engine.
package cleaning

import "encoding/json"

// Shape is a table's row and column count.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Report is the append-only record of what one cleaning run did. Steps
// accumulate in execution order; summaries hold per-stage counts.
type Report struct {
	OriginalShape Shape `json:"original_shape"`
	FinalShape    Shape `json:"final_shape"`
	RowsRemoved   int   `json:"rows_removed"`

	Steps []string `json:"cleaning_steps"`

	// StageErrors records stages that failed and were skipped; the
	// table from the last committed stage carries forward.
	StageErrors map[string]string `json:"stage_errors,omitempty"`

	Imputation       ImputationSummary       `json:"imputation_summary"`
	OutlierTreatment OutlierTreatmentSummary `json:"outlier_treatment"`
	Transformations  TransformationSummary   `json:"transformation_summary"`
}

// ImputationSummary records which columns were filled and how.
type ImputationSummary struct {
	ColumnsImputed []string          `json:"columns_imputed"`
	MethodsUsed    map[string]Method `json:"methods_used"`
	DroppedColumns []string          `json:"dropped_columns,omitempty"`
}

// OutlierTreatmentSummary records the two treatment phases: row removal
// from the point-in-time analysis, then per-column capping.
type OutlierTreatmentSummary struct {
	ColumnsProcessed []string          `json:"columns_processed"`
	OutliersRemoved  int               `json:"outliers_removed"`
	OutliersCapped   int               `json:"outliers_capped"`
	MethodsUsed      map[string]string `json:"methods_used"`
}

// TypeConversion is one column's dtype change.
type TypeConversion struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TransformationSummary records type conversions, scaling, and encoding.
type TransformationSummary struct {
	TypeConversions map[string]TypeConversion `json:"type_conversions"`
	ScaledColumns   []string                  `json:"scaled_columns"`
	EncodedColumns  map[string]string         `json:"encoded_columns"`
}

func newReport(rows, cols int) *Report {
	return &Report{
		OriginalShape: Shape{Rows: rows, Columns: cols},
		Steps:         []string{},
		Imputation: ImputationSummary{
			ColumnsImputed: []string{},
			MethodsUsed:    map[string]Method{},
		},
		OutlierTreatment: OutlierTreatmentSummary{
			ColumnsProcessed: []string{},
			MethodsUsed:      map[string]string{},
		},
		Transformations: TransformationSummary{
			TypeConversions: map[string]TypeConversion{},
			ScaledColumns:   []string{},
			EncodedColumns:  map[string]string{},
		},
	}
}

func (r *Report) addStep(step string) {
	r.Steps = append(r.Steps, step)
}

// JSON renders the report for persistence or transport.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
