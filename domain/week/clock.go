// Package week partitions wall-clock time into generation weeks.
//
// A generation week starts at the boundary instant, Thursday 16:30 in UTC+9, and
// lasts until the next one. Every instant inside the same week maps to the same
// Identifier and therefore to the same Seed.
package week

import (
	"fmt"
	"time"
)

// Zone is the fixed reference zone of the weekly boundary
var Zone = time.FixedZone("KST", 9*60*60)

// Boundary time-of-day and weekday in Zone
const (
	BoundaryWeekday = time.Thursday
	BoundaryHour    = 16
	BoundaryMinute  = 30
)

// Length of a generation week
const Length = 7 * 24 * time.Hour

// lengthSeconds is Length in Unix seconds; week numbers are counted on Unix
// time so instants past the Duration range stay distinct
const lengthSeconds = int64(Length / time.Second)

// Epoch is the boundary instant that week 0 starts at: 1970-01-01 16:30 UTC+9,
// which falls on a Thursday.
var Epoch = time.Date(1970, time.January, 1, BoundaryHour, BoundaryMinute, 0, 0, Zone)

// SeedModulus bounds every seed from above
const SeedModulus = 2147483647

// Seed drives all pseudo-random draws of one generation week
type Seed int64

// Identifier names a generation week
type Identifier struct {
	Year     int       `json:"year"`
	Number   int       `json:"week_number"`
	Boundary time.Time `json:"boundary"`
}

// Key is the storage key of the week
func (id Identifier) Key() string {
	return fmt.Sprintf("%d-W%d", id.Year, id.Number)
}

// String mirrors Key
func (id Identifier) String() string {
	return id.Key()
}

// Current returns the week containing now
func Current(now time.Time) Identifier {
	boundary := LastBoundary(now)
	return Identifier{
		Year:     boundary.Year(),
		Number:   int((boundary.Unix() - Epoch.Unix()) / lengthSeconds),
		Boundary: boundary,
	}
}

// LastBoundary returns the most recent boundary instant at or before now, in Zone
func LastBoundary(now time.Time) time.Time {
	local := now.In(Zone)
	weekday := local.Weekday()

	var daysBack int
	switch {
	case weekday == BoundaryWeekday:
		if beforeBoundaryTime(local) {
			daysBack = 7
		}
	case weekday < BoundaryWeekday:
		daysBack = int(weekday) + (7 - int(BoundaryWeekday))
	default:
		daysBack = int(weekday - BoundaryWeekday)
	}

	y, m, d := local.Date()
	return time.Date(y, m, d-daysBack, BoundaryHour, BoundaryMinute, 0, 0, Zone)
}

// NextBoundary returns the first boundary instant strictly after now
func NextBoundary(now time.Time) time.Time {
	return LastBoundary(now).AddDate(0, 0, 7)
}

func beforeBoundaryTime(local time.Time) bool {
	h, m, _ := local.Clock()
	return h < BoundaryHour || (h == BoundaryHour && m < BoundaryMinute)
}

// SeedFor derives the seed of a week. The week is rendered as
// "LuckyStat<year>_week<number>" and folded with the 31-multiplier string hash in
// 32-bit wraparound arithmetic.
func SeedFor(id Identifier) Seed {
	return Seed(hashString(fmt.Sprintf("LuckyStat%d_week%d", id.Year, id.Number)))
}

// SeedAt is SeedFor(Current(now))
func SeedAt(now time.Time) Seed {
	return SeedFor(Current(now))
}

func hashString(s string) int64 {
	var h int32
	for _, c := range s {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v % SeedModulus
}
