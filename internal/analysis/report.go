// Package analysis implements the data quality analysis engine: missing
// data, duplicates, outliers, type and format issues, distributions and
// correlations, a bounded quality score, and actionable recommendations.
package analysis

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// Severity classifies findings by fixed percentage thresholds.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Float is a float64 that marshals NaN and infinities as JSON null, so
// reports serialize cleanly to wire formats without special numeric
// wrappers on the consumer side.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler; null becomes NaN.
func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Report is the immutable snapshot produced by one analysis run. It is
// created once per invocation and never mutated afterward.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	BasicInfo       BasicInfo                   `json:"basic_info"`
	MissingData     MissingDataReport           `json:"missing_data"`
	Duplicates      DuplicateReport             `json:"duplicates"`
	Outliers        OutlierReport               `json:"outliers"`
	DataTypes       map[string]ColumnTypeReport `json:"data_types"`
	Distributions   DistributionReport          `json:"distributions"`
	Correlations    CorrelationReport           `json:"correlations"`
	QualityScore    float64                     `json:"quality_score"`
	Recommendations []Recommendation            `json:"recommendations"`

	// StageErrors records analyzers that failed and were recovered at the
	// stage boundary. Sections already computed are preserved.
	StageErrors map[string]string `json:"stage_errors,omitempty"`
}

// BasicInfo describes the table shape and a small sample of rows.
type BasicInfo struct {
	Rows        int               `json:"rows"`
	Columns     int               `json:"columns"`
	ColumnNames []string          `json:"column_names"`
	ColumnTypes map[string]string `json:"column_types"`
	SampleRows  []map[string]any  `json:"sample_rows"`
}

// MissingDataReport quantifies and localizes absent values.
type MissingDataReport struct {
	TotalMissing             int                `json:"total_missing"`
	TotalCells               int                `json:"total_cells"`
	MissingPercentage        float64            `json:"missing_percentage"`
	ColumnMissing            map[string]int     `json:"column_missing"`
	ColumnMissingPct         map[string]float64 `json:"column_missing_pct"`
	CompletelyMissingColumns []string           `json:"completely_missing_columns"`
	CompletelyMissingRows    int                `json:"completely_missing_rows"`
	MissingClusters          []MissingCluster   `json:"missing_clusters"`
	Severity                 Severity           `json:"severity"`
}

// MissingCluster is a maximal run of consecutive nulls within one column.
type MissingCluster struct {
	Column     string `json:"column"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	Length     int    `json:"length"`
}

// DuplicateReport covers exact and approximate row repetition.
type DuplicateReport struct {
	ExactDuplicates   int             `json:"exact_duplicates"`
	ExactDuplicatePct float64         `json:"exact_duplicate_pct"`
	DuplicateRows     int             `json:"duplicate_rows"`
	NearDuplicates    []NearDuplicate `json:"near_duplicates"`
	Severity          Severity        `json:"severity"`
}

// NearDuplicate is a pair of rows whose numeric profiles correlate above
// the configured threshold.
type NearDuplicate struct {
	Row1       int     `json:"row1"`
	Row2       int     `json:"row2"`
	Similarity float64 `json:"similarity"`
}

// OutlierReport aggregates statistical and ensemble detection results.
type OutlierReport struct {
	Statistical map[string]ColumnOutliers `json:"statistical,omitempty"`
	Ensemble    EnsembleOutliers          `json:"ensemble"`
	Combined    CombinedOutliers          `json:"combined"`
	Message     string                    `json:"message,omitempty"`
}

// ColumnOutliers holds per-column statistical detection results.
type ColumnOutliers struct {
	IQROutliers       int            `json:"iqr_outliers"`
	ZScoreOutliers    int            `json:"zscore_outliers"`
	ModifiedZOutliers int            `json:"modified_zscore_outliers"`
	IQRBounds         [2]float64     `json:"iqr_bounds"`
	Indices           OutlierIndices `json:"outlier_indices"`
	MADDegenerate     bool           `json:"mad_degenerate,omitempty"`
}

// OutlierIndices lists the flagged row indices per statistical method.
type OutlierIndices struct {
	IQR            []int `json:"iqr"`
	ZScore         []int `json:"zscore"`
	ModifiedZScore []int `json:"modified_zscore"`
}

// EnsembleOutliers holds the joint, row-wise detection results.
type EnsembleOutliers struct {
	Skipped            bool            `json:"skipped,omitempty"`
	Reason             string          `json:"reason,omitempty"`
	IsolationForest    *MethodOutliers `json:"isolation_forest,omitempty"`
	LocalOutlierFactor *MethodOutliers `json:"local_outlier_factor,omitempty"`
}

// MethodOutliers lists one detector's flagged rows.
type MethodOutliers struct {
	OutlierCount   int   `json:"outlier_count"`
	OutlierIndices []int `json:"outlier_indices"`
}

// CombinedOutliers is the union of every method's flagged indices. Any
// single method flagging a row is sufficient for inclusion.
type CombinedOutliers struct {
	TotalOutliers int   `json:"total_outliers"`
	AllIndices    []int `json:"all_outlier_indices"`
}

// ColumnTypeReport flags representation inconsistencies per column.
type ColumnTypeReport struct {
	DeclaredType  string   `json:"dtype"`
	MixedTypes    []string `json:"mixed_types"`
	FormatIssues  []string `json:"format_issues"`
	SuggestedType string   `json:"suggested_dtype"`
}

// DistributionReport holds per-numeric-column shape analysis.
type DistributionReport struct {
	Columns map[string]ColumnDistribution `json:"columns"`
}

// ColumnDistribution is the shape analysis of one numeric column.
type ColumnDistribution struct {
	Statistics       DescriptiveStats `json:"statistics"`
	DistributionType string           `json:"distribution_type"`
	Normality        NormalityReport  `json:"is_normal"`
}

// DescriptiveStats holds the standard descriptive statistics.
type DescriptiveStats struct {
	Mean     Float `json:"mean"`
	Median   Float `json:"median"`
	Std      Float `json:"std"`
	Skewness Float `json:"skewness"`
	Kurtosis Float `json:"kurtosis"`
	Min      Float `json:"min"`
	Max      Float `json:"max"`
	Q25      Float `json:"q25"`
	Q75      Float `json:"q75"`
}

// NormalityReport carries two independent goodness-of-fit tests.
type NormalityReport struct {
	ShapiroWilk     *ShapiroWilkReport     `json:"shapiro_wilk,omitempty"`
	AndersonDarling *AndersonDarlingReport `json:"anderson_darling,omitempty"`
	Error           string                 `json:"error,omitempty"`
}

// ShapiroWilkReport holds the Shapiro-Wilk statistic and p-value.
type ShapiroWilkReport struct {
	Statistic Float `json:"statistic"`
	PValue    Float `json:"p_value"`
	IsNormal  bool  `json:"is_normal"`
}

// AndersonDarlingReport holds the Anderson-Darling statistic and the
// critical values it is compared against.
type AndersonDarlingReport struct {
	Statistic          Float     `json:"statistic"`
	CriticalValues     []float64 `json:"critical_values"`
	SignificanceLevels []float64 `json:"significance_levels"`
}

// CorrelationReport holds pairwise association over numeric columns.
type CorrelationReport struct {
	Insufficient     bool                        `json:"insufficient,omitempty"`
	Message          string                      `json:"message,omitempty"`
	Pearson          map[string]map[string]Float `json:"pearson_correlation,omitempty"`
	Spearman         map[string]map[string]Float `json:"spearman_correlation,omitempty"`
	HighCorrelations []HighCorrelation           `json:"high_correlations"`
}

// HighCorrelation is a column pair whose |Pearson r| meets the threshold.
type HighCorrelation struct {
	Column1     string  `json:"variable1"`
	Column2     string  `json:"variable2"`
	Correlation float64 `json:"correlation"`
	Type        string  `json:"type"` // positive or negative
}

// Recommendation is one actionable, severity-tagged finding.
type Recommendation struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Column      string   `json:"column,omitempty"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// MarshalJSON renders the report; all maps serialize key-sorted through
// encoding/json and NaN values become explicit nulls via Float.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
