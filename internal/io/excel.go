package io

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/xuri/excelize/v2"

	"github.com/osanai/scrub/internal/dataframe"
	scruberrors "github.com/osanai/scrub/internal/errors"
)

// ExcelReader reads .xlsx data and converts it to DataFrames using the
// same type inference as the CSV reader.
type ExcelReader struct {
	reader  io.Reader
	options ExcelOptions
	mem     memory.Allocator
}

// NewExcelReader creates a new Excel reader with the specified options.
func NewExcelReader(reader io.Reader, options ExcelOptions, mem memory.Allocator) *ExcelReader {
	return &ExcelReader{reader: reader, options: options, mem: mem}
}

// ExcelWriter writes DataFrames to .xlsx format.
type ExcelWriter struct {
	writer  io.Writer
	options ExcelOptions
}

// NewExcelWriter creates a new Excel writer with the specified options.
func NewExcelWriter(writer io.Writer, options ExcelOptions) *ExcelWriter {
	return &ExcelWriter{writer: writer, options: options}
}

// Read reads one worksheet and returns a DataFrame. Empty cells become
// nulls.
func (r *ExcelReader) Read() (*dataframe.DataFrame, error) {
	f, err := excelize.OpenReader(r.reader)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := r.options.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.New(), nil
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(records) == 0 {
		return dataframe.New(), nil
	}

	var headers []string
	var dataRows [][]string
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		numCols := len(records[0])
		headers = make([]string, numCols)
		for i := 0; i < numCols; i++ {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = records
	}

	numCols := len(headers)
	columns := make([][]string, numCols)
	for i := 0; i < numCols; i++ {
		columns[i] = make([]string, len(dataRows))
		for j, row := range dataRows {
			if i < len(row) {
				columns[i][j] = row[i]
			}
		}
	}

	seriesList := make([]dataframe.ISeries, 0, numCols)
	for i, header := range headers {
		s, err := seriesFromStrings(header, columns[i], r.mem)
		if err != nil {
			return nil, fmt.Errorf("creating series for column %s: %w", header, err)
		}
		seriesList = append(seriesList, s)
	}
	return dataframe.New(seriesList...), nil
}

// Write writes the DataFrame to one worksheet. Nulls stay empty cells.
func (w *ExcelWriter) Write(df *dataframe.DataFrame) error {
	sheet := w.options.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("removing default sheet: %w", err)
		}
	}

	rowOffset := 0
	cols := df.Columns()
	if w.options.Header {
		for j, name := range cols {
			cell, err := excelize.CoordinatesToCellName(j+1, 1)
			if err != nil {
				return scruberrors.NewInternalError("io.excel.write", err)
			}
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return fmt.Errorf("writing header %s: %w", name, err)
			}
		}
		rowOffset = 1
	}

	for i := 0; i < df.Len(); i++ {
		for j, name := range cols {
			value, present := df.CellString(name, i)
			if !present {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1+rowOffset)
			if err != nil {
				return scruberrors.NewInternalError("io.excel.write", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("writing row %d: %w", i, err)
			}
		}
	}

	if _, err := f.WriteTo(w.writer); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
