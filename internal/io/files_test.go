package io

import (
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanai/scrub/internal/dataframe"
	scruberrors "github.com/osanai/scrub/internal/errors"
	"github.com/osanai/scrub/internal/series"
)

func TestReadWriteFileDispatch(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("name", []string{"alice", "bob"}, mem),
		series.New("age", []int64{30, 41}, mem),
	)
	defer df.Release()

	dir := t.TempDir()
	for _, ext := range []string{".csv", ".parquet", ".xlsx"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "table"+ext)
			require.NoError(t, WriteFile(df, path))

			back, err := ReadFile(path, mem)
			require.NoError(t, err)
			defer back.Release()

			assert.Equal(t, []string{"name", "age"}, back.Columns())
			assert.Equal(t, 2, back.Len())
		})
	}
}

func TestReadFileUnsupportedExtension(t *testing.T) {
	mem := memory.NewGoAllocator()
	_, err := ReadFile(filepath.Join(t.TempDir(), "table.json"), mem)
	assert.Error(t, err)
}

func TestWriteFileUnsupportedExtension(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(series.New("v", []int64{1}, mem))
	defer df.Release()

	err := WriteFile(df, "table.json")
	assert.True(t, scruberrors.IsKind(err, scruberrors.KindUnsupportedFormat))
}

func TestReadFileMissing(t *testing.T) {
	mem := memory.NewGoAllocator()
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"), mem)
	assert.Error(t, err)
}
