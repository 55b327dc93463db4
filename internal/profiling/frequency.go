// Package profiling summarizes the shape of the number frequency table.
package profiling

import (
	"sort"

	"luckystat/domain/lotto"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// NumberCount pairs a number with its occurrence count
type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// Summary holds descriptive statistics over the 45 counts
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Uniformity is a chi-square goodness-of-fit test of the counts against a
// uniform draw. PValue is 1 when there is nothing to test.
type Uniformity struct {
	ChiSquare        float64 `json:"chi_square"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
}

// Profile is the analysis of one frequency table
type Profile struct {
	Total      int           `json:"total"`
	Summary    Summary       `json:"summary"`
	Uniformity Uniformity    `json:"uniformity"`
	Hot        []NumberCount `json:"hot"`
	Cold       []NumberCount `json:"cold"`
}

// HotColdSize is how many numbers Profile lists at each end
const HotColdSize = 5

// Analyze profiles the counts of numbers 1..45
func Analyze(numberStats lotto.NumberStats) (Profile, error) {
	data := make(stats.Float64Data, 0, lotto.MaxNumber)
	for n := lotto.MinNumber; n <= lotto.MaxNumber; n++ {
		data = append(data, float64(numberStats[n]))
	}

	p := Profile{Total: numberStats.Total()}
	var err error
	if p.Summary.Mean, err = stats.Mean(data); err != nil {
		return p, err
	}
	if p.Summary.StdDev, err = stats.StandardDeviation(data); err != nil {
		return p, err
	}
	if p.Summary.Min, err = stats.Min(data); err != nil {
		return p, err
	}
	if p.Summary.Max, err = stats.Max(data); err != nil {
		return p, err
	}
	if p.Summary.Median, err = stats.Median(data); err != nil {
		return p, err
	}
	quartiles, err := stats.Quartile(data)
	if err != nil {
		return p, err
	}
	p.Summary.Q1, p.Summary.Q3 = quartiles.Q1, quartiles.Q3

	p.Uniformity = uniformity(data, p.Summary.Mean)
	p.Hot = extremes(numberStats, true)
	p.Cold = extremes(numberStats, false)
	return p, nil
}

func uniformity(observed stats.Float64Data, expected float64) Uniformity {
	u := Uniformity{DegreesOfFreedom: len(observed) - 1, PValue: 1}
	if expected <= 0 {
		return u
	}
	for _, o := range observed {
		d := o - expected
		u.ChiSquare += d * d / expected
	}
	u.PValue = distuv.ChiSquared{K: float64(u.DegreesOfFreedom)}.Survival(u.ChiSquare)
	return u
}

// extremes lists the HotColdSize most (hot) or least frequent numbers; ties keep
// the lower number first
func extremes(numberStats lotto.NumberStats, hot bool) []NumberCount {
	all := make([]NumberCount, 0, lotto.MaxNumber)
	for n := lotto.MinNumber; n <= lotto.MaxNumber; n++ {
		all = append(all, NumberCount{Number: n, Count: numberStats[n]})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if hot {
			return all[i].Count > all[j].Count
		}
		return all[i].Count < all[j].Count
	})
	return all[:HotColdSize]
}
