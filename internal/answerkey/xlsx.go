package answerkey

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook layout for the file-based exchange between the generating and
// the checking side: one sheet, a header row, one row per variant.
const (
	keySheet      = "Keys"
	headerVariant = "Variant"
	headerAnswers = "Answers"
	headerWeights = "Weights"
)

// WriteWorkbook renders entries as an xlsx workbook, ascending by variant.
func WriteWorkbook(w io.Writer, entries []Entry) error {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VariantNumber < sorted[j].VariantNumber })

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), keySheet); err != nil {
		return err
	}
	for col, h := range []string{headerVariant, headerAnswers, headerWeights} {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(keySheet, cell, h); err != nil {
			return err
		}
	}
	for i, e := range sorted {
		row := i + 2
		for col, v := range []interface{}{e.VariantNumber, e.Answers, e.Weights} {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(keySheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// ReadWorkbook parses a key workbook back into entries. Rows must decode
// cleanly and variant numbers must be unique; failures name the row.
func ReadWorkbook(r io.Reader) ([]Entry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open key workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("key workbook has no data rows")
	}

	var out []Entry
	seen := map[int]int{} // variant number -> sheet row
	for i, row := range rows[1:] {
		sheetRow := i + 2
		if blankRow(row) {
			continue
		}
		vn, err := strconv.Atoi(strings.TrimSpace(cell(row, 0)))
		if err != nil || vn <= 0 {
			return nil, fmt.Errorf("row %d: variant number %q is not a positive integer", sheetRow, cell(row, 0))
		}
		if prev, dup := seen[vn]; dup {
			return nil, fmt.Errorf("row %d: variant %d already defined on row %d", sheetRow, vn, prev)
		}
		seen[vn] = sheetRow

		e := Entry{VariantNumber: vn, Answers: cell(row, 1), Weights: cell(row, 2)}
		if _, err := Decode(e); err != nil {
			return nil, fmt.Errorf("row %d: %w", sheetRow, err)
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("key workbook has no data rows")
	}
	return out, nil
}

// cell is bounds-safe: GetRows trims trailing empty cells.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
