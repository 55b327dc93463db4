package models

import (
	"testing"
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sampleSets() lotto.ResultSet {
	return lotto.ResultSet{
		lotto.NewCandidateSet([]int{1, 2, 10, 20, 30, 40}, lotto.StrategyRandom),
		lotto.NewCandidateSet([]int{5, 6, 11, 22, 33, 44}, lotto.StrategyWeighted),
	}
}

func TestNewResultRecordCopiesInputs(t *testing.T) {
	at := time.Date(2025, 1, 2, 16, 30, 0, 0, week.Zone)
	id := week.Current(at)
	sets := sampleSets()
	bonuses := []int{7, 8}

	rec := NewResultRecord(id, week.SeedFor(id), sets, bonuses, at)
	sets[0].Numbers[0] = 45
	bonuses[0] = 45

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, 1, rec.Sets[0].Numbers[0])
	assert.Equal(t, []int{7, 8}, rec.Bonuses)
	assert.True(t, rec.BelongsTo(id))
	assert.False(t, rec.BelongsTo(week.Current(at.Add(week.Length))))
}

func TestResultRecordClone(t *testing.T) {
	rec := ResultRecord{Sets: sampleSets()}
	clone := rec.Clone()
	clone.Sets[1].Numbers[0] = 9

	assert.Equal(t, 5, rec.Sets[1].Numbers[0])
	assert.Nil(t, clone.Bonuses)
}
