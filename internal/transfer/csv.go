package transfer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

func decodeCSV(data []byte) ([]Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parse error: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := normalizeHeaders(rows[0])

	var records []Record
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				fields[h] = strings.TrimSpace(row[i])
			}
		}
		if r, ok := recordFromFields(fields); ok {
			records = append(records, r)
		}
	}

	return records, nil
}

func encodeCSV(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := writer.Write(exportValues(r)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeHeaders lower-cases and trims column names so that files from
// other tools ("Title", " URL ") match the expected keys.
func normalizeHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return headers
}
