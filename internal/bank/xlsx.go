package bank

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/HalatsynZakhar/TeacherTest/internal/letters"
)

// Workbook layout: one sheet, header row, one question per row. Rows
// sharing a number are alternative versions of that question. Headers are
// matched case-insensitively and in any column order.
const (
	bankSheet      = "Questions"
	headerNumber   = "Number"
	headerQuestion = "Question"
	headerCorrect  = "Correct"
	headerWeight   = "Weight"
	headerType     = "Type"

	// MaxOptions is the number of option columns a bank sheet may carry,
	// one per letter of the shipped alphabets.
	MaxOptions = 9
)

type columnMap struct {
	number   int
	question int
	correct  int
	weight   int
	qtype    int
	options  []int // column index per option position, -1 when absent
}

// LoadWorkbook reads a question bank from the first sheet of an xlsx file.
// Blank rows and blank option cells are skipped, a missing weight defaults
// to 1 and a missing type is inferred from the shape of the correct cell.
// Every parsed row is validated and failures name the sheet row.
func LoadWorkbook(r io.Reader, alpha letters.Alphabet) ([]Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open bank workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("bank workbook has no data rows")
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var out []Question
	for i, row := range rows[1:] {
		sheetRow := i + 2
		if blankBankRow(row) {
			continue
		}
		q, err := parseRow(row, cols, alpha)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", sheetRow, err)
		}
		if err := q.Validate(alpha); err != nil {
			return nil, fmt.Errorf("row %d: %w", sheetRow, err)
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("bank workbook has no data rows")
	}
	return out, nil
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{number: -1, question: -1, correct: -1, weight: -1, qtype: -1,
		options: make([]int, MaxOptions)}
	for i := range cols.options {
		cols.options[i] = -1
	}
	for i, h := range header {
		switch key := normalizeHeader(h); key {
		case "number", "no", "question number":
			cols.number = i
		case "question", "text", "question text":
			cols.question = i
		case "correct", "answer", "correct answer":
			cols.correct = i
		case "weight", "points":
			cols.weight = i
		case "type":
			cols.qtype = i
		default:
			if n, ok := optionIndex(key); ok {
				if n >= 1 && n <= MaxOptions {
					cols.options[n-1] = i
				}
			}
		}
	}
	for _, miss := range []struct {
		col  int
		name string
	}{
		{cols.number, headerNumber},
		{cols.question, headerQuestion},
		{cols.correct, headerCorrect},
	} {
		if miss.col < 0 {
			return cols, fmt.Errorf("bank workbook is missing the %q column", miss.name)
		}
	}
	return cols, nil
}

// normalizeHeader folds case and collapses underscores so "Option_1" and
// "option 1" name the same column.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

func optionIndex(key string) (int, bool) {
	for _, prefix := range []string{"option ", "option", "variant ", "variant"} {
		rest, found := strings.CutPrefix(key, prefix)
		if !found || rest == "" {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil {
			return n, true
		}
	}
	return 0, false
}

func parseRow(row []string, cols columnMap, alpha letters.Alphabet) (Question, error) {
	var q Question

	numText := strings.TrimSpace(bankCell(row, cols.number))
	n, err := strconv.Atoi(numText)
	if err != nil {
		return q, fmt.Errorf("question number %q is not an integer", numText)
	}
	q.Number = n
	q.Text = strings.TrimSpace(bankCell(row, cols.question))
	q.Correct = strings.TrimSpace(bankCell(row, cols.correct))

	q.Weight = 1
	if w := strings.TrimSpace(bankCell(row, cols.weight)); w != "" {
		q.Weight, err = strconv.ParseFloat(strings.ReplaceAll(w, ",", "."), 64)
		if err != nil {
			return q, fmt.Errorf("weight %q is not a number", w)
		}
	}

	// Blank cells are dropped so the list is contiguous; correct letters
	// refer to positions among the options that remain.
	for _, col := range cols.options {
		if col < 0 {
			continue
		}
		if v := strings.TrimSpace(bankCell(row, col)); v != "" {
			q.Options = append(q.Options, v)
		}
	}

	q.Type, err = resolveType(bankCell(row, cols.qtype), q, alpha)
	if err != nil {
		return q, err
	}
	if q.Type == OpenEnded {
		q.Options = nil
	} else {
		// Letter answers are stored canonical; open answers stay verbatim.
		q.Correct = alpha.Canonical(q.Correct)
	}
	return q, nil
}

// resolveType maps the type cell to a question type. A blank cell infers
// the type from the correct cell the way hand-maintained banks expect: a
// single table letter is single choice, several are multi choice, anything
// else is an open answer.
func resolveType(raw string, q Question, alpha letters.Alphabet) (string, error) {
	switch normalizeHeader(raw) {
	case "single", "single choice":
		return SingleChoice, nil
	case "multi", "multi choice", "multiple", "multiple choice":
		return MultiChoice, nil
	case "open", "open ended", "text":
		return OpenEnded, nil
	case "":
		canon := alpha.Canonical(q.Correct)
		if !alpha.IsLetters(canon) || len(q.Options) == 0 {
			return OpenEnded, nil
		}
		if len(alpha.Set(canon)) == 1 {
			return SingleChoice, nil
		}
		return MultiChoice, nil
	default:
		return "", fmt.Errorf("unknown question type %q", raw)
	}
}

func bankCell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func blankBankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteTemplate emits a starter workbook: the header row plus two example
// rows, one single-choice and one open-ended.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), bankSheet); err != nil {
		return err
	}

	header := []interface{}{headerNumber, headerQuestion, headerCorrect, headerWeight, headerType}
	for i := 1; i <= MaxOptions; i++ {
		header = append(header, fmt.Sprintf("Option %d", i))
	}
	rows := [][]interface{}{
		header,
		{1, "Which planet is closest to the sun?", "B", 1, "single", "Venus", "Mercury", "Mars", "Earth"},
		{2, "Name the process plants use to turn light into energy.", "Photosynthesis", 2, "open"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(bankSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
