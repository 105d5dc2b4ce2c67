package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvRow gives header-based access to one parsed CSV record. Missing
// columns read as empty strings.
type csvRow map[string]string

func (r csvRow) get(column string) string {
	return strings.TrimSpace(r[column])
}

func (r csvRow) has(column string) bool {
	v, ok := r[column]
	return ok && strings.TrimSpace(v) != ""
}

// parseCSVRows parses the uploaded CSV into header-keyed rows. The
// first record is the header; ragged rows are tolerated, with missing
// trailing cells left empty.
func parseCSVRows(csvBytes []byte) ([]csvRow, error) {
	data := bytes.TrimPrefix(csvBytes, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}

		row := make(csvRow, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
