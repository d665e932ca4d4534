// Package config provides configuration management for scrub analysis and
// cleaning runs. Every threshold the engines branch on lives here so the
// constants stay auditable and overridable per run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the tunable thresholds for analysis and cleaning.
type Config struct {
	// Missing-data severity cutoffs (percent of total cells)
	MissingSeverityLowPct    float64 `json:"missing_severity_low_pct" yaml:"missing_severity_low_pct"`       // below: low
	MissingSeverityMediumPct float64 `json:"missing_severity_medium_pct" yaml:"missing_severity_medium_pct"` // below: medium, else high

	// Duplicate severity cutoffs (percent of rows)
	DuplicateSeverityLowPct    float64 `json:"duplicate_severity_low_pct" yaml:"duplicate_severity_low_pct"`
	DuplicateSeverityMediumPct float64 `json:"duplicate_severity_medium_pct" yaml:"duplicate_severity_medium_pct"`
	NearDuplicateThreshold     float64 `json:"near_duplicate_threshold" yaml:"near_duplicate_threshold"` // pairwise row correlation cutoff

	// Outlier detection
	IQRMultiplier         float64 `json:"iqr_multiplier" yaml:"iqr_multiplier"`
	ZScoreThreshold       float64 `json:"zscore_threshold" yaml:"zscore_threshold"`
	ModifiedZThreshold    float64 `json:"modified_zscore_threshold" yaml:"modified_zscore_threshold"`
	EnsembleContamination float64 `json:"ensemble_contamination" yaml:"ensemble_contamination"` // target anomaly fraction
	EnsembleMinRows       int     `json:"ensemble_min_rows" yaml:"ensemble_min_rows"`           // below: ensemble detection skipped
	IsolationTrees        int     `json:"isolation_trees" yaml:"isolation_trees"`
	IsolationSampleSize   int     `json:"isolation_sample_size" yaml:"isolation_sample_size"`
	LOFNeighbors          int     `json:"lof_neighbors" yaml:"lof_neighbors"`
	RandomSeed            int64   `json:"random_seed" yaml:"random_seed"`

	// Type & format analysis
	NumericTypeRatio       float64 `json:"numeric_type_ratio" yaml:"numeric_type_ratio"`             // convertible fraction for numeric suggestion
	CategoricalUniqueRatio float64 `json:"categorical_unique_ratio" yaml:"categorical_unique_ratio"` // distinct ratio below: categorical

	// Distribution & correlation
	CorrelationThreshold float64 `json:"correlation_threshold" yaml:"correlation_threshold"` // |r| at or above: highly correlated

	// Imputation policy cutoffs (percent of column values missing)
	DropColumnMissingPct float64 `json:"drop_column_missing_pct" yaml:"drop_column_missing_pct"`
	MeanMissingPct       float64 `json:"mean_missing_pct" yaml:"mean_missing_pct"`
	MedianMissingPct     float64 `json:"median_missing_pct" yaml:"median_missing_pct"`
	ModeMissingPct       float64 `json:"mode_missing_pct" yaml:"mode_missing_pct"`
	KNNNeighbors         int     `json:"knn_neighbors" yaml:"knn_neighbors"`

	// Per-column imputation method overrides, bypassing the policy above.
	// Values are method names: drop_column, mean, median, mode, knn,
	// constant, forward_fill. Overrides incompatible with the column kind
	// are ignored.
	ImputeMethodOverrides map[string]string `json:"impute_method_overrides,omitempty" yaml:"impute_method_overrides,omitempty"`

	// Feature transformation
	EncoderMaxCardinality int `json:"encoder_max_cardinality" yaml:"encoder_max_cardinality"` // distinct values below: label encoded

	// Debugging
	VerboseLogging bool `json:"verbose_logging" yaml:"verbose_logging"`
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultMissingSeverityLowPct    = 5.0
	DefaultMissingSeverityMediumPct = 20.0
	DefaultDuplicateLowPct          = 1.0
	DefaultDuplicateMediumPct       = 10.0
	DefaultNearDuplicateThreshold   = 0.95
	DefaultIQRMultiplier            = 1.5
	DefaultZScoreThreshold          = 3.0
	DefaultModifiedZThreshold       = 3.5
	DefaultEnsembleContamination    = 0.1
	DefaultEnsembleMinRows          = 10
	DefaultIsolationTrees           = 100
	DefaultIsolationSampleSize      = 256
	DefaultLOFNeighbors             = 20
	DefaultRandomSeed               = 42
	DefaultNumericTypeRatio         = 0.8
	DefaultCategoricalUniqueRatio   = 0.5
	DefaultCorrelationThreshold     = 0.8
	DefaultDropColumnMissingPct     = 50.0
	DefaultMeanMissingPct           = 5.0
	DefaultMedianMissingPct         = 20.0
	DefaultModeMissingPct           = 10.0
	DefaultKNNNeighbors             = 5
	DefaultEncoderMaxCardinality    = 50
)

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values.
func NewConfig() Config {
	return Config{
		MissingSeverityLowPct:    DefaultMissingSeverityLowPct,
		MissingSeverityMediumPct: DefaultMissingSeverityMediumPct,

		DuplicateSeverityLowPct:    DefaultDuplicateLowPct,
		DuplicateSeverityMediumPct: DefaultDuplicateMediumPct,
		NearDuplicateThreshold:     DefaultNearDuplicateThreshold,

		IQRMultiplier:         DefaultIQRMultiplier,
		ZScoreThreshold:       DefaultZScoreThreshold,
		ModifiedZThreshold:    DefaultModifiedZThreshold,
		EnsembleContamination: DefaultEnsembleContamination,
		EnsembleMinRows:       DefaultEnsembleMinRows,
		IsolationTrees:        DefaultIsolationTrees,
		IsolationSampleSize:   DefaultIsolationSampleSize,
		LOFNeighbors:          DefaultLOFNeighbors,
		RandomSeed:            DefaultRandomSeed,

		NumericTypeRatio:       DefaultNumericTypeRatio,
		CategoricalUniqueRatio: DefaultCategoricalUniqueRatio,

		CorrelationThreshold: DefaultCorrelationThreshold,

		DropColumnMissingPct: DefaultDropColumnMissingPct,
		MeanMissingPct:       DefaultMeanMissingPct,
		MedianMissingPct:     DefaultMedianMissingPct,
		ModeMissingPct:       DefaultModeMissingPct,
		KNNNeighbors:         DefaultKNNNeighbors,

		EncoderMaxCardinality: DefaultEncoderMaxCardinality,

		VerboseLogging: false,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.MissingSeverityLowPct < 0 || c.MissingSeverityLowPct > c.MissingSeverityMediumPct {
		return fmt.Errorf("missing severity cutoffs must satisfy 0 <= low <= medium, got %f and %f",
			c.MissingSeverityLowPct, c.MissingSeverityMediumPct)
	}

	if c.DuplicateSeverityLowPct < 0 || c.DuplicateSeverityLowPct > c.DuplicateSeverityMediumPct {
		return fmt.Errorf("duplicate severity cutoffs must satisfy 0 <= low <= medium, got %f and %f",
			c.DuplicateSeverityLowPct, c.DuplicateSeverityMediumPct)
	}

	if c.NearDuplicateThreshold <= 0 || c.NearDuplicateThreshold > 1 {
		return fmt.Errorf("NearDuplicateThreshold must be in (0, 1], got %f", c.NearDuplicateThreshold)
	}

	if c.IQRMultiplier <= 0 {
		return fmt.Errorf("IQRMultiplier must be positive, got %f", c.IQRMultiplier)
	}

	if c.ZScoreThreshold <= 0 || c.ModifiedZThreshold <= 0 {
		return fmt.Errorf("z-score thresholds must be positive, got %f and %f",
			c.ZScoreThreshold, c.ModifiedZThreshold)
	}

	if c.EnsembleContamination <= 0 || c.EnsembleContamination >= 0.5 {
		return fmt.Errorf("EnsembleContamination must be in (0, 0.5), got %f", c.EnsembleContamination)
	}

	if c.EnsembleMinRows < 2 {
		return fmt.Errorf("EnsembleMinRows must be at least 2, got %d", c.EnsembleMinRows)
	}

	if c.IsolationTrees <= 0 || c.IsolationSampleSize <= 1 {
		return fmt.Errorf("isolation forest needs positive trees and sample size > 1, got %d and %d",
			c.IsolationTrees, c.IsolationSampleSize)
	}

	if c.LOFNeighbors <= 0 {
		return fmt.Errorf("LOFNeighbors must be positive, got %d", c.LOFNeighbors)
	}

	if c.NumericTypeRatio <= 0 || c.NumericTypeRatio > 1 {
		return fmt.Errorf("NumericTypeRatio must be in (0, 1], got %f", c.NumericTypeRatio)
	}

	if c.CategoricalUniqueRatio <= 0 || c.CategoricalUniqueRatio > 1 {
		return fmt.Errorf("CategoricalUniqueRatio must be in (0, 1], got %f", c.CategoricalUniqueRatio)
	}

	if c.CorrelationThreshold <= 0 || c.CorrelationThreshold > 1 {
		return fmt.Errorf("CorrelationThreshold must be in (0, 1], got %f", c.CorrelationThreshold)
	}

	if c.DropColumnMissingPct <= 0 || c.DropColumnMissingPct > 100 {
		return fmt.Errorf("DropColumnMissingPct must be in (0, 100], got %f", c.DropColumnMissingPct)
	}

	if c.MeanMissingPct <= 0 || c.MeanMissingPct > c.MedianMissingPct {
		return fmt.Errorf("imputation cutoffs must satisfy 0 < mean <= median, got %f and %f",
			c.MeanMissingPct, c.MedianMissingPct)
	}

	if c.KNNNeighbors <= 0 {
		return fmt.Errorf("KNNNeighbors must be positive, got %d", c.KNNNeighbors)
	}

	for column, method := range c.ImputeMethodOverrides {
		switch method {
		case "drop_column", "mean", "median", "mode", "knn", "constant", "forward_fill":
		default:
			return fmt.Errorf("unknown imputation method %q for column %q", method, column)
		}
	}

	if c.EncoderMaxCardinality <= 0 {
		return fmt.Errorf("EncoderMaxCardinality must be positive, got %d", c.EncoderMaxCardinality)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in
// for zero values.
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.MissingSeverityLowPct == 0 {
		c.MissingSeverityLowPct = defaults.MissingSeverityLowPct
	}
	if c.MissingSeverityMediumPct == 0 {
		c.MissingSeverityMediumPct = defaults.MissingSeverityMediumPct
	}
	if c.DuplicateSeverityLowPct == 0 {
		c.DuplicateSeverityLowPct = defaults.DuplicateSeverityLowPct
	}
	if c.DuplicateSeverityMediumPct == 0 {
		c.DuplicateSeverityMediumPct = defaults.DuplicateSeverityMediumPct
	}
	if c.NearDuplicateThreshold == 0 {
		c.NearDuplicateThreshold = defaults.NearDuplicateThreshold
	}
	if c.IQRMultiplier == 0 {
		c.IQRMultiplier = defaults.IQRMultiplier
	}
	if c.ZScoreThreshold == 0 {
		c.ZScoreThreshold = defaults.ZScoreThreshold
	}
	if c.ModifiedZThreshold == 0 {
		c.ModifiedZThreshold = defaults.ModifiedZThreshold
	}
	if c.EnsembleContamination == 0 {
		c.EnsembleContamination = defaults.EnsembleContamination
	}
	if c.EnsembleMinRows == 0 {
		c.EnsembleMinRows = defaults.EnsembleMinRows
	}
	if c.IsolationTrees == 0 {
		c.IsolationTrees = defaults.IsolationTrees
	}
	if c.IsolationSampleSize == 0 {
		c.IsolationSampleSize = defaults.IsolationSampleSize
	}
	if c.LOFNeighbors == 0 {
		c.LOFNeighbors = defaults.LOFNeighbors
	}
	if c.RandomSeed == 0 {
		c.RandomSeed = defaults.RandomSeed
	}
	if c.NumericTypeRatio == 0 {
		c.NumericTypeRatio = defaults.NumericTypeRatio
	}
	if c.CategoricalUniqueRatio == 0 {
		c.CategoricalUniqueRatio = defaults.CategoricalUniqueRatio
	}
	if c.CorrelationThreshold == 0 {
		c.CorrelationThreshold = defaults.CorrelationThreshold
	}
	if c.DropColumnMissingPct == 0 {
		c.DropColumnMissingPct = defaults.DropColumnMissingPct
	}
	if c.MeanMissingPct == 0 {
		c.MeanMissingPct = defaults.MeanMissingPct
	}
	if c.MedianMissingPct == 0 {
		c.MedianMissingPct = defaults.MedianMissingPct
	}
	if c.ModeMissingPct == 0 {
		c.ModeMissingPct = defaults.ModeMissingPct
	}
	if c.KNNNeighbors == 0 {
		c.KNNNeighbors = defaults.KNNNeighbors
	}
	if c.EncoderMaxCardinality == 0 {
		c.EncoderMaxCardinality = defaults.EncoderMaxCardinality
	}

	return c
}

// SetGlobalConfig sets the global configuration.
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration.
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data.
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a JSON or YAML file.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("SCRUB_NEAR_DUPLICATE_THRESHOLD"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.NearDuplicateThreshold = parsed
		}
	}

	if val := os.Getenv("SCRUB_ENSEMBLE_CONTAMINATION"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.EnsembleContamination = parsed
		}
	}

	if val := os.Getenv("SCRUB_CORRELATION_THRESHOLD"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.CorrelationThreshold = parsed
		}
	}

	if val := os.Getenv("SCRUB_DROP_COLUMN_MISSING_PCT"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.DropColumnMissingPct = parsed
		}
	}

	if val := os.Getenv("SCRUB_KNN_NEIGHBORS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.KNNNeighbors = parsed
		}
	}

	if val := os.Getenv("SCRUB_ENCODER_MAX_CARDINALITY"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.EncoderMaxCardinality = parsed
		}
	}

	if val := os.Getenv("SCRUB_RANDOM_SEED"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.RandomSeed = parsed
		}
	}

	if val := os.Getenv("SCRUB_VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	return config
}
