package ingestion

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Ramsey-B/magnolia/internal/platform/database"
	"github.com/Ramsey-B/magnolia/pkg/models"
)

// Preview is the column/sample-rows shape returned for a newly uploaded
// file, before the caller has chosen or confirmed a column mapping.
type Preview struct {
	Columns    []string            `json:"columns"`
	SampleRows []map[string]string `json:"sample_rows"`
	TotalRows  int                 `json:"total_rows"`
}

// DefaultPreviewRows is the number of sample rows returned by PreviewFile
// when the caller doesn't ask for a specific count.
const DefaultPreviewRows = 5

// SupportedExt reports whether path's extension is one this core parses.
// Only .csv is supported; every other extension, XLSX/XLS included,
// reports false (no parsing library for either format was found in the
// retrieved corpus).
func SupportedExt(path string) (ext string, supported bool) {
	ext = strings.ToLower(filepath.Ext(path))
	return ext, ext == ".csv"
}

// PreviewFile reads a file's header and up to maxRows data rows. Only CSV
// is supported; any other extension surfaces ErrUnsupportedFileType.
func PreviewFile(path string, maxRows int) (*Preview, error) {
	if maxRows <= 0 {
		maxRows = DefaultPreviewRows
	}

	ext, ok := SupportedExt(path)
	if !ok {
		return nil, ErrUnsupportedFileType(ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return &Preview{Columns: []string{}, SampleRows: []map[string]string{}}, nil
	}
	if err != nil {
		return nil, err
	}

	preview := &Preview{Columns: header, SampleRows: make([]map[string]string, 0, maxRows)}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		preview.TotalRows++
		if len(preview.SampleRows) < maxRows {
			preview.SampleRows = append(preview.SampleRows, rowToMap(header, row))
		}
	}

	return preview, nil
}

// ImportResult carries every CustomerRecord materialized from one import
// run, ready for a repository's CreateBatch.
type ImportResult struct {
	Records []*models.CustomerRecord
}

// ImportFile parses a CSV file and applies column_mapping (source column ->
// Standard Field) to build one CustomerRecord per data row, 1-indexed by
// row order. Every non-empty cell, mapped or not, is kept in the row's
// raw_data with surrounding whitespace trimmed; empty cells are left out.
func ImportFile(path, sourceID string, mapping map[string]string) (*ImportResult, error) {
	ext, ok := SupportedExt(path)
	if !ok {
		return nil, ErrUnsupportedFileType(ext)
	}
	if err := ValidateMapping(mapping); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return &ImportResult{Records: []*models.CustomerRecord{}}, nil
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Records: make([]*models.CustomerRecord, 0)}
	rowNumber := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rowNumber++

		rowMap := rowToMap(header, row)
		rawData := make(map[string]string, len(rowMap))
		record := &models.CustomerRecord{
			ID:              uuid.New().String(),
			SourceID:        sourceID,
			SourceRowNumber: rowNumber,
		}

		for col, value := range rowMap {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				continue
			}
			rawData[col] = trimmed
			if field, mapped := mapping[col]; mapped {
				record.SetField(field, &trimmed)
			}
		}
		record.RawData = database.JSONB[map[string]string]{Data: rawData}

		result.Records = append(result.Records, record)
	}

	return result, nil
}

func rowToMap(header, row []string) map[string]string {
	out := make(map[string]string, len(header))
	for i, col := range header {
		if i < len(row) {
			out[col] = row[i]
		} else {
			out[col] = ""
		}
	}
	return out
}
