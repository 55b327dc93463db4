// Package excel reads draw history spreadsheets and writes result sheets.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"luckystat/domain/lotto"
	"luckystat/internal/errors"

	"github.com/xuri/excelize/v2"
)

// HistoryReader reads past draws from an .xlsx or .csv file. The first row is a
// header naming the columns round, date, n1..n6 and bonus (any order, any case);
// date and bonus are optional.
type HistoryReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewHistoryReader picks the format from the file extension
func NewHistoryReader(filePath string) *HistoryReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &HistoryReader{filePath: filePath, fileType: fileType}
}

// ReadDraws returns every draw in file order
func (r *HistoryReader) ReadDraws() ([]lotto.Draw, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

func (r *HistoryReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err))
	}
	return rows, nil
}

func (r *HistoryReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
	}
	return rows, nil
}

type columns struct {
	round, date, bonus int
	numbers           [lotto.SetSize]int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{round: -1, date: -1, bonus: -1}
	for i := range cols.numbers {
		cols.numbers[i] = -1
	}
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "round":
			cols.round = i
		case "date":
			cols.date = i
		case "bonus":
			cols.bonus = i
		default:
			if strings.HasPrefix(name, "n") {
				if k, err := strconv.Atoi(name[1:]); err == nil && k >= 1 && k <= lotto.SetSize {
					cols.numbers[k-1] = i
				}
			}
		}
	}
	if cols.round < 0 {
		return cols, errors.InvalidInput("header is missing the round column")
	}
	for k, idx := range cols.numbers {
		if idx < 0 {
			return cols, errors.InvalidInput(fmt.Sprintf("header is missing the n%d column", k+1))
		}
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseRows(rows [][]string) ([]lotto.Draw, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("history must have a header row and at least one draw")
	}
	cols, err := locateColumns(rows[0])
	if err != nil {
		return nil, err
	}

	draws := make([]lotto.Draw, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if cell(row, cols.round) == "" {
			continue
		}
		d, err := parseDraw(row, cols)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", line)
		}
		draws = append(draws, d)
	}
	if len(draws) == 0 {
		return nil, errors.InvalidInput("history lists no draws")
	}
	return draws, nil
}

func parseDraw(row []string, cols columns) (lotto.Draw, error) {
	round, err := strconv.Atoi(cell(row, cols.round))
	if err != nil {
		return lotto.Draw{}, errors.InvalidInput(fmt.Sprintf("invalid round %q", cell(row, cols.round)))
	}

	numbers := make([]int, lotto.SetSize)
	for k, idx := range cols.numbers {
		n, err := strconv.Atoi(cell(row, idx))
		if err != nil {
			return lotto.Draw{}, errors.InvalidInput(fmt.Sprintf("invalid number %q", cell(row, idx)))
		}
		numbers[k] = n
	}
	set := lotto.NewCandidateSet(numbers, "")
	if err := set.Validate(); err != nil {
		return lotto.Draw{}, errors.WithCode(errors.CodeInvalidInput, err)
	}

	d := lotto.Draw{Round: round, Date: cell(row, cols.date), Numbers: set.Numbers}
	if raw := cell(row, cols.bonus); raw != "" {
		if d.Bonus, err = strconv.Atoi(raw); err != nil {
			return lotto.Draw{}, errors.InvalidInput(fmt.Sprintf("invalid bonus %q", raw))
		}
		if err := d.Validate(); err != nil {
			return lotto.Draw{}, errors.WithCode(errors.CodeInvalidInput, err)
		}
	}
	return d, nil
}
