package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"luckystat/domain/week"
	"luckystat/internal/config"
	"luckystat/internal/errors"
	"luckystat/internal/logging"
	"luckystat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRotator struct {
	mock.Mock
}

func (m *mockRotator) Rotate(ctx context.Context, trigger string) (*models.ResultRecord, error) {
	args := m.Called(ctx, trigger)
	rec, _ := args.Get(0).(*models.ResultRecord)
	return rec, args.Error(1)
}

func sampleRecord(t *testing.T) *models.ResultRecord {
	id := week.Current(referenceInstant(t))
	rec := models.NewResultRecord(id, week.SeedFor(id), nil, nil, referenceInstant(t))
	return &rec
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(&mockRotator{}, "every thursday", logging.Discard())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestSchedulerStartPublishesAndSchedules(t *testing.T) {
	rotator := &mockRotator{}
	rotator.On("Rotate", mock.Anything, TriggerStartup).Return(sampleRecord(t), nil).Once()

	s, err := NewScheduler(rotator, config.DefaultScheduleSpec, logging.Discard())
	require.NoError(t, err)
	assert.True(t, s.NextRun().IsZero())

	s.Start(context.Background())
	s.Start(context.Background())
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	next := s.NextRun().In(week.Zone)
	assert.Equal(t, time.Thursday, next.Weekday())
	assert.Equal(t, week.BoundaryHour, next.Hour())
	assert.Equal(t, week.BoundaryMinute, next.Minute())
	assert.True(t, next.After(time.Now()))
	rotator.AssertExpectations(t)
}

func TestSchedulerRunOnce(t *testing.T) {
	rotator := &mockRotator{}
	rotator.On("Rotate", mock.Anything, TriggerSchedule).Return(sampleRecord(t), nil).Once()
	rotator.On("Rotate", mock.Anything, TriggerSchedule).Return(nil, fmt.Errorf("database is down")).Once()

	s, err := NewScheduler(rotator, config.DefaultScheduleSpec, logging.Discard())
	require.NoError(t, err)

	assert.NoError(t, s.RunOnce(TriggerSchedule))
	assert.EqualError(t, s.RunOnce(TriggerSchedule), "database is down")

	ctx := rotator.Calls[0].Arguments.Get(0).(context.Context)
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
	rotator.AssertExpectations(t)
}

func TestSchedulerStopBeforeStart(t *testing.T) {
	s, err := NewScheduler(&mockRotator{}, config.DefaultScheduleSpec, logging.Discard())
	require.NoError(t, err)
	assert.NoError(t, s.Stop(context.Background()))
}
