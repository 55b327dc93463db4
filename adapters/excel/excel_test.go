package excel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/internal/errors"
	"luckystat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadCSVHistory(t *testing.T) {
	path := writeCSV(t, "Round,Date,N1,N2,N3,N4,N5,N6,Bonus\n"+
		"1197,2025.11.08,43,5,7,26,28,1,30\n"+
		"1198,2025.11.15,26,30,33,38,39,41,21\n"+
		",,,,,,,,\n")

	draws, err := NewHistoryReader(path).ReadDraws()
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.Equal(t, lotto.DefaultDraws[0], draws[0])
	assert.Equal(t, lotto.DefaultDraws[1], draws[1])
}

func TestReadCSVWithoutOptionalColumns(t *testing.T) {
	path := writeCSV(t, "n6,n5,n4,n3,n2,n1,round\n45,44,43,42,41,40,7\n")

	draws, err := NewHistoryReader(path).ReadDraws()
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, []int{40, 41, 42, 43, 44, 45}, draws[0].Numbers)
	assert.Zero(t, draws[0].Bonus)
}

func TestReadXLSXHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"round", "date", "n1", "n2", "n3", "n4", "n5", "n6", "bonus"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1198, "2025.11.15", 26, 30, 33, 38, 39, 41, 21}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	draws, err := NewHistoryReader(path).ReadDraws()
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, lotto.DefaultDraws[1], draws[0])
}

func TestReadHistoryErrors(t *testing.T) {
	cases := map[string]string{
		"header only":    "round,n1,n2,n3,n4,n5,n6\n",
		"missing column": "round,n1,n2,n3,n4,n5\n1,1,2,3,4,5\n",
		"duplicate":      "round,n1,n2,n3,n4,n5,n6\n1,1,1,3,4,5,6\n",
		"out of range":   "round,n1,n2,n3,n4,n5,n6\n1,1,2,3,4,5,46\n",
		"text":           "round,n1,n2,n3,n4,n5,n6\n1,a,2,3,4,5,6\n",
		"bonus repeats":  "round,n1,n2,n3,n4,n5,n6,bonus\n1,1,2,3,4,5,6,6\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewHistoryReader(writeCSV(t, body)).ReadDraws()
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		})
	}

	_, err := NewHistoryReader(filepath.Join(t.TempDir(), "absent.xlsx")).ReadDraws()
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestWriteResults(t *testing.T) {
	at := time.Date(2025, 1, 2, 16, 30, 0, 0, week.Zone)
	id := week.Current(at)
	rec := models.NewResultRecord(id, week.SeedFor(id), lotto.ResultSet{
		lotto.NewCandidateSet([]int{7, 9, 16, 17, 19, 30}, lotto.StrategyWeightedConsecutive),
		lotto.NewCandidateSet([]int{8, 21, 22, 30, 31, 40}, lotto.StrategyRandom),
	}, []int{1, 2}, at)

	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteResults(path, rec))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "LuckyStat 2025-W2870 (2025.01.02 16:30, seed 1965770581)", rows[0][0])
	assert.Equal(t, []string{"#", "Strategy", "N1", "N2", "N3", "N4", "N5", "N6", "Bonus"}, rows[1])
	assert.Equal(t, []string{"1", "weighted_consecutive", "7", "9", "16", "17", "19", "30", "1"}, rows[2])
	assert.Equal(t, []string{"2", "random", "8", "21", "22", "30", "31", "40", "2"}, rows[3])
}
