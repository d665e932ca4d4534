// Package testutil provides common testing utilities shared across the
// engine's test files: allocator setup, standard test tables, and small
// assertion helpers.
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
)

const defaultRowCount = 5

// TestMemoryContext provides a memory allocator with automatic cleanup.
type TestMemoryContext struct {
	Allocator memory.Allocator
	cleanup   func()
}

// Release performs cleanup of the memory context.
func (tmc *TestMemoryContext) Release() {
	if tmc.cleanup != nil {
		tmc.cleanup()
	}
}

// SetupMemoryTest creates a memory allocator for tests. Release with
// defer.
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewGoAllocator(),
		cleanup:   func() {},
	}
}

// TestTableOption configures test table creation.
type TestTableOption func(*testTableConfig)

type testTableConfig struct {
	includeNulls bool
	rowCount     int
}

// WithNulls includes null values in the test data.
func WithNulls() TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in the test data.
func WithRowCount(count int) TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.rowCount = count
	}
}

// CreateTestTable builds a table with a name, age, and income column,
// cycling fixed values up to the requested row count. With WithNulls,
// every third row's income and every fourth row's name are null.
func CreateTestTable(tb testing.TB, mem memory.Allocator, opts ...TestTableOption) *dataframe.DataFrame {
	tb.Helper()

	cfg := testTableConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	require.Positive(tb, cfg.rowCount)

	names := make([]string, cfg.rowCount)
	ages := make([]int64, cfg.rowCount)
	incomes := make([]float64, cfg.rowCount)
	nameValid := make([]bool, cfg.rowCount)
	incomeValid := make([]bool, cfg.rowCount)

	baseNames := []string{"alice", "bob", "carol", "dan", "erin"}
	for i := 0; i < cfg.rowCount; i++ {
		names[i] = baseNames[i%len(baseNames)]
		ages[i] = int64(25 + i%40)
		incomes[i] = 40000 + float64(i%10)*2500
		nameValid[i] = true
		incomeValid[i] = true
		if cfg.includeNulls {
			if i%3 == 2 {
				incomeValid[i] = false
			}
			if i%4 == 3 {
				nameValid[i] = false
			}
		}
	}

	return dataframe.New(
		series.NewWithNulls("name", names, nameValid, mem),
		series.New("age", ages, mem),
		series.NewWithNulls("income", incomes, incomeValid, mem),
	)
}

// FloatColumnValues extracts a numeric column, failing the test when the
// column is missing or non-numeric.
func FloatColumnValues(tb testing.TB, df *dataframe.DataFrame, name string) ([]float64, []bool) {
	tb.Helper()
	values, valid, ok := df.FloatColumn(name)
	require.True(tb, ok, "column %s is not numeric", name)
	return values, valid
}
