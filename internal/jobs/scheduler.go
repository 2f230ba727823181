package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// DefaultSchedule runs daily, early enough on Monday to fall inside the grace window.
const DefaultSchedule = "30 2 * * *"

// Scheduler triggers the weekly job on a cron schedule in the platform timezone.
type Scheduler struct {
	cron    *cron.Cron
	job     *WeeklyJob
	timeout time.Duration
}

func NewScheduler(job *WeeklyJob, schedule string, loc *time.Location, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		job:     job,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(schedule, s.trigger); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Infof("weekly job scheduled, next run at %s", s.cron.Entries()[0].Next)
}

// Stop prevents new runs and waits for a running one to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) trigger() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	summaries, err := s.job.Run(ctx, nil)
	if errors.Is(err, ErrAlreadyRunning) {
		log.Warnln("scheduled weekly job skipped, previous run still in progress")
		return
	}
	if err != nil {
		log.Errorf("scheduled weekly job failed after %d weeks: %s", len(summaries), err)
		return
	}
	for _, summary := range summaries {
		log.Infof("scheduled weekly job %s: %s, users updated %d", summary.RunID, summary.WeekID, summary.Aggregation.UsersUpdated)
	}
}
