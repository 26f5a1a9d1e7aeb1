package extractor

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type csvExtractor struct {
	previewRows int
}

func (e *csvExtractor) Extract(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading csv: %w", err)
	}
	return summarizeTable("CSV Data Summary", rows, e.previewRows), nil
}

type xlsxExtractor struct {
	previewRows int
}

func (e *xlsxExtractor) Extract(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return summarizeTable("Excel Data Summary (sheet "+sheets[0]+")", rows, e.previewRows), nil
}

type columnStats struct {
	count    int
	sum      float64
	min, max float64
}

// summarizeTable renders row/column counts, numeric column statistics and the
// first previewRows data rows. rows[0] is treated as the header.
func summarizeTable(title string, rows [][]string, previewRows int) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString(":\n")

	if len(rows) == 0 {
		b.WriteString("(empty)\n")
		return b.String()
	}

	header := rows[0]
	data := rows[1:]
	fmt.Fprintf(&b, "Rows: %d, Columns: %d\n", len(data), len(header))

	stats := make([]*columnStats, len(header))
	for _, row := range data {
		for i := range header {
			v, ok := numericCell(row, i)
			if !ok {
				continue
			}
			s := stats[i]
			if s == nil {
				s = &columnStats{min: math.Inf(1), max: math.Inf(-1)}
				stats[i] = s
			}
			s.count++
			s.sum += v
			s.min = math.Min(s.min, v)
			s.max = math.Max(s.max, v)
		}
	}

	wroteStats := false
	for i, s := range stats {
		if s == nil {
			continue
		}
		if !wroteStats {
			b.WriteString("\nNumeric columns:\n")
			wroteStats = true
		}
		fmt.Fprintf(&b, "  %s: count=%d mean=%.2f min=%.2f max=%.2f\n",
			header[i], s.count, s.sum/float64(s.count), s.min, s.max)
	}

	n := previewRows
	if n > len(data) {
		n = len(data)
	}
	fmt.Fprintf(&b, "\nFirst %d rows:\n", n)
	b.WriteString(strings.Join(header, " | "))
	b.WriteByte('\n')
	for _, row := range data[:n] {
		b.WriteString(strings.Join(row, " | "))
		b.WriteByte('\n')
	}
	return b.String()
}

func numericCell(row []string, i int) (float64, bool) {
	if i >= len(row) {
		return 0, false
	}
	s := strings.TrimSpace(row[i])
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
