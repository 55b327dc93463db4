package excel

import (
	"fmt"

	"luckystat/domain/week"
	"luckystat/internal/errors"
	"luckystat/models"

	"github.com/xuri/excelize/v2"
)

const resultsSheet = "Results"

// WriteResults saves a published generation as a one-sheet workbook:
// a title row, a header row and one row per set.
func WriteResults(path string, record models.ResultRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}

	title := fmt.Sprintf("LuckyStat %s (%s, seed %d)", record.Week.Key(), week.FormatBoundary(record.Week.Boundary), record.Seed)
	if err := f.SetCellValue(resultsSheet, "A1", title); err != nil {
		return errors.Wrap(err, "write title")
	}

	header := []interface{}{"#", "Strategy", "N1", "N2", "N3", "N4", "N5", "N6"}
	if record.Bonuses != nil {
		header = append(header, "Bonus")
	}
	if err := f.SetSheetRow(resultsSheet, "A2", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, set := range record.Sets {
		row := []interface{}{i + 1, string(set.Strategy)}
		for _, n := range set.Numbers {
			row = append(row, n)
		}
		if record.Bonuses != nil && i < len(record.Bonuses) {
			row = append(row, record.Bonuses[i])
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return errors.Wrap(err, "address row")
		}
		if err := f.SetSheetRow(resultsSheet, cellRef, &row); err != nil {
			return errors.Wrapf(err, "write set %d", i+1)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save workbook %s", path)
	}
	return nil
}
