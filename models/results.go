package models

import (
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"

	"github.com/google/uuid"
)

// ResultRecord is a published generation as it is stored and served
type ResultRecord struct {
	ID          uuid.UUID       `json:"id"`
	Week        week.Identifier `json:"week"`
	Seed        week.Seed       `json:"seed"`
	Sets        lotto.ResultSet `json:"results"`
	Bonuses     []int           `json:"bonuses,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// NewResultRecord stamps a fresh record for a generated week
func NewResultRecord(id week.Identifier, seed week.Seed, sets lotto.ResultSet, bonuses []int, at time.Time) ResultRecord {
	return ResultRecord{
		ID:          uuid.New(),
		Week:        id,
		Seed:        seed,
		Sets:        sets.Clone(),
		Bonuses:     append([]int(nil), bonuses...),
		GeneratedAt: at,
	}
}

// BelongsTo reports whether the record was generated for the given week
func (r ResultRecord) BelongsTo(id week.Identifier) bool {
	return r.Week.Year == id.Year && r.Week.Number == id.Number
}

// Clone deep-copies the record
func (r ResultRecord) Clone() ResultRecord {
	out := r
	out.Sets = r.Sets.Clone()
	if r.Bonuses != nil {
		out.Bonuses = append([]int(nil), r.Bonuses...)
	}
	return out
}

// StatsSnapshot is the stored frequency table with its last modification time
type StatsSnapshot struct {
	Stats       lotto.NumberStats `json:"numberStats"`
	LastUpdated time.Time         `json:"lastUpdated"`
}
