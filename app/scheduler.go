package app

import (
	"context"
	"sync"
	"time"

	"luckystat/domain/week"
	"luckystat/internal/errors"
	"luckystat/internal/metrics"
	"luckystat/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Rotator publishes the week containing the current instant
type Rotator interface {
	Rotate(ctx context.Context, trigger string) (*models.ResultRecord, error)
}

// rotationTimeout bounds one scheduled publish
const rotationTimeout = time.Minute

// Scheduler publishes each week's results at the weekly boundary. Schedules are
// evaluated in KST.
type Scheduler struct {
	rotator Rotator
	cron    *cron.Cron
	entry   cron.EntryID
	log     logrus.FieldLogger

	mu      sync.Mutex
	base    context.Context
	cancel  context.CancelFunc
	started bool
}

// NewScheduler registers the weekly publish job under a standard five-field
// cron spec
func NewScheduler(rotator Rotator, spec string, log logrus.FieldLogger) (*Scheduler, error) {
	log = log.WithField("component", "scheduler")
	s := &Scheduler{
		rotator: rotator,
		log:     log,
		cron: cron.New(
			cron.WithLocation(week.Zone),
			cron.WithChain(cron.Recover(cron.PrintfLogger(log)), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
	id, err := s.cron.AddFunc(spec, func() { _ = s.RunOnce(TriggerSchedule) })
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "invalid schedule %q", spec)
	}
	s.entry = id
	return s, nil
}

// Start publishes the current week if it is missing, then starts the timer.
// A failed startup publish is logged; the on-demand path retries it.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.base, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.started = true
	s.mu.Unlock()

	_ = s.RunOnce(TriggerStartup)
	s.cron.Start()
	s.log.WithField("next_run", s.NextRun().Format(time.RFC3339)).Info("scheduler started")
}

// Stop halts the timer and waits for a running publish until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.cancel()
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// NextRun is the time of the next scheduled publish; zero before Start
func (s *Scheduler) NextRun() time.Time {
	return s.cron.Entry(s.entry).Next
}

// RunOnce performs one publish with the given trigger label
func (s *Scheduler) RunOnce(trigger string) error {
	s.mu.Lock()
	base := s.base
	s.mu.Unlock()
	if base == nil {
		base = context.Background()
	}

	ctx, cancel := context.WithTimeout(base, rotationTimeout)
	defer cancel()

	rec, err := s.rotator.Rotate(ctx, trigger)
	if trigger == TriggerSchedule {
		metrics.RecordScheduledRun(err == nil)
	}
	if err != nil {
		s.log.WithError(err).WithField("trigger", trigger).Error("weekly publish failed")
		return err
	}
	s.log.WithFields(logrus.Fields{"trigger": trigger, "week": rec.Week.Key()}).Info("weekly results ready")
	return nil
}
