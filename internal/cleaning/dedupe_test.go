package cleaning

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
)

func TestDeduplicateKeepsFirst(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("name", []string{"a", "b", "a", "c", "b"}, mem),
		series.New("v", []int64{1, 2, 1, 3, 2}, mem),
	)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)
	report := newReport(df.Len(), df.Width())

	out := e.deduplicate(df, report)

	require.Equal(t, 3, out.Len())
	cell, _ := out.CellString("name", 0)
	assert.Equal(t, "a", cell)
	cell, _ = out.CellString("name", 2)
	assert.Equal(t, "c", cell)
	assert.Contains(t, report.Steps, "Removed 2 duplicate rows")
}

func TestDeduplicateIdempotent(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("v", []int64{1, 1, 2}, mem),
	)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)
	report := newReport(df.Len(), df.Width())

	once := e.deduplicate(df, report)
	twice := e.deduplicate(once, report)

	assert.Equal(t, 2, twice.Len())
	// the second pass found nothing and recorded nothing
	assert.Len(t, report.Steps, 1)
}

func TestDeduplicateDistinguishesNullFromValue(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.NewWithNulls("v", []string{"", ""}, []bool{true, false}, mem),
	)
	defer df.Release()

	e := NewEngine(config.NewConfig(), nil)
	report := newReport(df.Len(), df.Width())

	out := e.deduplicate(df, report)
	assert.Equal(t, 2, out.Len())
}
