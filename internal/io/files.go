package io

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/osanai/scrub/internal/dataframe"
	scruberrors "github.com/osanai/scrub/internal/errors"
)

// ReadFile loads a table from a file, dispatching on the extension.
// Supported: .csv, .parquet, .xlsx.
func ReadFile(path string, mem memory.Allocator) (*dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader DataReader
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		reader = NewCSVReader(f, DefaultCSVOptions(), mem)
	case ".parquet":
		reader = NewParquetReader(f, DefaultParquetOptions(), mem)
	case ".xlsx":
		reader = NewExcelReader(f, DefaultExcelOptions(), mem)
	default:
		return nil, scruberrors.NewUnsupportedFormatError("io.read", ext)
	}
	return reader.Read()
}

// WriteFile saves a table to a file, dispatching on the extension.
// Supported: .csv, .parquet, .xlsx.
func WriteFile(df *dataframe.DataFrame, path string) error {
	var write func(*os.File) DataWriter
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		write = func(f *os.File) DataWriter { return NewCSVWriter(f, DefaultCSVOptions()) }
	case ".parquet":
		write = func(f *os.File) DataWriter { return NewParquetWriter(f, DefaultParquetOptions()) }
	case ".xlsx":
		write = func(f *os.File) DataWriter { return NewExcelWriter(f, DefaultExcelOptions()) }
	default:
		return scruberrors.NewUnsupportedFormatError("io.write", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f).Write(df); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
