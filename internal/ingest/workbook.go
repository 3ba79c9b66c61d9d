// Package ingest loads per-blood-group frequency distributions from Excel
// workbooks and memoizes the parsed tables by content hash.
package ingest

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bloodsim/internal/distribution"

	"github.com/xuri/excelize/v2"
)

// Canonical workbook headers. Matching is case- and space-insensitive,
// so trailing whitespace in hand-edited sheets is tolerated.
const (
	headerSequence      = "no"
	headerInterval      = "class interval"
	headerFrequency     = "frequency"
	headerProbability   = "probability"
	headerCumulative    = "cumulative probability"
	headerCumulativePct = "cumulative probability x 100"
	// alias for the multiplied column as some sheets write it
	headerCumulativePctAlt = "cumulative probability * 100"
)

// LoadWorkbook reads one distribution workbook from disk.
func LoadWorkbook(path string) ([]distribution.ClassRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the first sheet of an xlsx workbook into class rows. Rows
// with an empty interval or probability cell are skipped; that filtering
// belongs here, not in the distribution builder. Decimal commas are
// accepted in the numeric columns.
func Parse(r io.Reader) ([]distribution.ClassRow, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook: %w", err)
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	raw, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ingest: read sheet %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("ingest: sheet %q is empty", sheet)
	}

	cols, err := mapHeaders(raw[0])
	if err != nil {
		return nil, err
	}

	rows := make([]distribution.ClassRow, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		label := strings.TrimSpace(cell(cells, colIdx(cols, headerInterval)))
		probStr := strings.TrimSpace(cell(cells, colIdx(cols, headerProbability)))
		if label == "" || probStr == "" {
			continue
		}

		prob, err := parseDecimal(probStr)
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d: probability %q: %w", i+2, probStr, err)
		}
		cum, err := parseDecimal(cell(cells, colIdx(cols, headerCumulative)))
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d: cumulative probability: %w", i+2, err)
		}
		cumPct, err := parseDecimal(cell(cells, colIdx(cols, headerCumulativePct)))
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d: cumulative probability x 100: %w", i+2, err)
		}

		rows = append(rows, distribution.ClassRow{
			Sequence:      parseIntCell(cell(cells, colIdx(cols, headerSequence))),
			IntervalLabel: label,
			Frequency:     parseIntCell(cell(cells, colIdx(cols, headerFrequency))),
			Probability:   prob,
			Cumulative:    cum,
			CumulativePct: cumPct,
		})
	}

	return rows, nil
}

func mapHeaders(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if name == headerCumulativePctAlt {
			name = headerCumulativePct
		}
		cols[name] = i
	}

	for _, required := range []string{
		headerInterval, headerProbability, headerCumulative, headerCumulativePct,
	} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("ingest: missing column %q", required)
		}
	}
	return cols, nil
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// colIdx returns the column index for a header or -1 when the sheet does
// not carry it (the sequence and frequency columns are optional).
func colIdx(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

// cell returns the value at idx or "" when the row is ragged or the
// column is absent.
func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// parseDecimal parses a float that may use a decimal comma.
func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}

// parseIntCell parses a lenient integer cell; unparseable content counts
// as zero since the sequence and frequency columns are informational.
func parseIntCell(s string) int {
	v, err := parseDecimal(s)
	if err != nil {
		return 0
	}
	return int(v)
}
