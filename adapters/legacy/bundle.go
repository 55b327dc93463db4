// Package legacy reads and writes the export bundle of the LuckyStat web client.
//
// The bundle is a JSON document of the form
//
//	{
//	  "data": {"numberStats": {"1": 3, ...}, "rangeStats": {...}, "missingNumbers": {...}, "lastUpdated": "..."},
//	  "currentResults": {"results": [...], "generatedAt": "...", "weekInfo": {"weekNumber": 2870, "year": 2025, "thursday": "..."}},
//	  "lastWeekResults": {"results": [...], "savedAt": "..."},
//	  "exportedAt": "..."
//	}
//
// Every section except data.numberStats may be absent or null.
package legacy

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/internal/errors"
	"luckystat/models"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Bundle is the decoded content of an export
type Bundle struct {
	Stats      models.StatsSnapshot
	Current    *models.ResultRecord
	LastWeek   *models.ResultRecord
	ExportedAt time.Time
}

// Decode parses an export bundle. Result sections without week information are
// placed by their timestamps: current results in the week they were generated,
// last-week results in the week before they were saved.
func Decode(raw []byte) (Bundle, error) {
	if !gjson.ValidBytes(raw) {
		return Bundle{}, errors.InvalidInput("bundle is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)

	var b Bundle
	statsNode := doc.Get("data.numberStats")
	if !statsNode.IsObject() {
		return Bundle{}, errors.InvalidInput("bundle has no data.numberStats object")
	}
	counts := make(map[int]int, lotto.MaxNumber)
	var parseErr error
	statsNode.ForEach(func(key, value gjson.Result) bool {
		n, err := strconv.Atoi(key.String())
		if err != nil {
			parseErr = fmt.Errorf("invalid number key %q", key.String())
			return false
		}
		if value.Type != gjson.Number {
			parseErr = fmt.Errorf("count of %d is not a number", n)
			return false
		}
		if value.Num != math.Trunc(value.Num) {
			parseErr = fmt.Errorf("count of %d is not a whole number: %s", n, value.Raw)
			return false
		}
		counts[n] = int(value.Int())
		return true
	})
	if parseErr != nil {
		return Bundle{}, errors.WithCode(errors.CodeInvalidInput, parseErr)
	}
	stats, err := lotto.StatsFromMap(counts)
	if err != nil {
		return Bundle{}, errors.WithCode(errors.CodeInvalidInput, err)
	}
	b.Stats = models.StatsSnapshot{Stats: stats, LastUpdated: parseTime(doc.Get("data.lastUpdated"))}
	b.ExportedAt = parseTime(doc.Get("exportedAt"))

	if node := doc.Get("currentResults"); node.IsObject() {
		rec, err := decodeResults(node, "generatedAt", 0)
		if err != nil {
			return Bundle{}, errors.Wrap(err, "currentResults")
		}
		b.Current = rec
	}
	if node := doc.Get("lastWeekResults"); node.IsObject() {
		rec, err := decodeResults(node, "savedAt", -week.Length)
		if err != nil {
			return Bundle{}, errors.Wrap(err, "lastWeekResults")
		}
		b.LastWeek = rec
	}
	return b, nil
}

func parseTime(node gjson.Result) time.Time {
	if !node.Exists() {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, node.String())
	if err != nil {
		return time.Time{}
	}
	return t
}

func decodeResults(node gjson.Result, stampField string, shift time.Duration) (*models.ResultRecord, error) {
	results := node.Get("results")
	if !results.IsArray() {
		return nil, errors.InvalidInput("results is not an array")
	}

	sets := lotto.ResultSet{}
	for i, item := range results.Array() {
		numbers := make([]int, 0, lotto.SetSize)
		for _, n := range item.Get("numbers").Array() {
			numbers = append(numbers, int(n.Int()))
		}
		set := lotto.NewCandidateSet(numbers, lotto.Strategy(item.Get("type").String()))
		if err := set.Validate(); err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("set %d: %w", i+1, err))
		}
		if !set.Strategy.Valid() {
			return nil, errors.InvalidInput(fmt.Sprintf("set %d: unknown type %q", i+1, set.Strategy))
		}
		sets = append(sets, set)
	}

	stamp := parseTime(node.Get(stampField))
	var id week.Identifier
	if info := node.Get("weekInfo"); info.IsObject() && info.Get("weekNumber").Exists() {
		id = week.Identifier{
			Year:     int(info.Get("year").Int()),
			Number:   int(info.Get("weekNumber").Int()),
			Boundary: week.Epoch.Add(time.Duration(info.Get("weekNumber").Int()) * week.Length),
		}
	} else if !stamp.IsZero() {
		id = week.Current(stamp.Add(shift))
	} else {
		return nil, errors.InvalidInput("results carry neither weekInfo nor a timestamp")
	}

	return &models.ResultRecord{
		ID:          uuid.New(),
		Week:        id,
		Seed:        week.SeedFor(id),
		Sets:        sets,
		GeneratedAt: stamp,
	}, nil
}

type exportRange struct {
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
}

type exportData struct {
	NumberStats    map[int]int            `json:"numberStats"`
	RangeStats     map[string]exportRange `json:"rangeStats"`
	MissingNumbers map[string][]int       `json:"missingNumbers"`
	LastUpdated    string                 `json:"lastUpdated"`
}

type exportWeekInfo struct {
	WeekNumber int    `json:"weekNumber"`
	Year       int    `json:"year"`
	Thursday   string `json:"thursday"`
}

type exportCurrent struct {
	Results     lotto.ResultSet `json:"results"`
	GeneratedAt string          `json:"generatedAt"`
	WeekInfo    exportWeekInfo  `json:"weekInfo"`
}

type exportLastWeek struct {
	Results lotto.ResultSet `json:"results"`
	SavedAt string          `json:"savedAt"`
}

type exportBundle struct {
	Data            exportData      `json:"data"`
	CurrentResults  *exportCurrent  `json:"currentResults"`
	LastWeekResults *exportLastWeek `json:"lastWeekResults"`
	ExportedAt      string          `json:"exportedAt"`
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Encode renders b in the web client's export layout. The last-week section is
// stamped with the boundary that retired it.
func Encode(b Bundle) ([]byte, error) {
	out := exportBundle{
		Data: exportData{
			NumberStats:    b.Stats.Stats.Map(),
			RangeStats:     map[string]exportRange{},
			MissingNumbers: b.Stats.Stats.MissingNumbers(),
			LastUpdated:    isoTime(b.Stats.LastUpdated),
		},
		ExportedAt: isoTime(b.ExportedAt),
	}
	for _, r := range b.Stats.Stats.RangeStats() {
		out.Data.RangeStats[r.Range] = exportRange{Percent: r.Percent, Count: r.Count}
	}
	if b.Current != nil {
		out.CurrentResults = &exportCurrent{
			Results:     b.Current.Sets,
			GeneratedAt: isoTime(b.Current.GeneratedAt),
			WeekInfo: exportWeekInfo{
				WeekNumber: b.Current.Week.Number,
				Year:       b.Current.Week.Year,
				Thursday:   isoTime(b.Current.Week.Boundary),
			},
		}
	}
	if b.LastWeek != nil {
		out.LastWeekResults = &exportLastWeek{
			Results: b.LastWeek.Sets,
			SavedAt: isoTime(b.LastWeek.Week.Boundary.Add(week.Length)),
		}
	}

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode bundle")
	}
	return raw, nil
}
