package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineErrorMessage(t *testing.T) {
	err := NewDegenerateStatisticError("AnalyzeOutliers", "score", "zero MAD")
	assert.Contains(t, err.Error(), "AnalyzeOutliers")
	assert.Contains(t, err.Error(), "score")
	assert.Contains(t, err.Error(), "degenerate_statistic")

	noColumn := NewInsufficientDataError("ShapiroWilk", "need at least 3 values")
	assert.NotContains(t, noColumn.Error(), "column")
}

func TestEngineErrorUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewInternalError("Analyze", cause)
	assert.ErrorIs(t, err, cause)
}

func TestIsKind(t *testing.T) {
	err := NewUnsupportedFormatError("io.read", ".tsv")
	assert.True(t, IsKind(err, KindUnsupportedFormat))
	assert.False(t, IsKind(err, KindInternal))
	assert.False(t, IsKind(stderrors.New("plain"), KindUnsupportedFormat))
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindInternal:            "internal",
		KindUnsupportedFormat:   "unsupported_format",
		KindInsufficientData:    "insufficient_data",
		KindDegenerateStatistic: "degenerate_statistic",
		KindConversionFailure:   "conversion_failure",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestConversionFailureCarriesCause(t *testing.T) {
	cause := stderrors.New("parse float")
	err := NewConversionFailureError("standardize", "amount", cause)
	require.True(t, IsKind(err, KindConversionFailure))
	assert.Equal(t, "amount", err.Column)
	assert.ErrorIs(t, err, cause)
}
