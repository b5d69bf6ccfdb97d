package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// BackupRunner writes one scheduled backup and returns its path.
type BackupRunner interface {
	RunScheduled(ctx context.Context) (string, error)
}

// Scheduler runs periodic maintenance jobs. Specs use six fields, seconds first.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds())}
}

// AddBackup registers runner under spec.
func (s *Scheduler) AddBackup(spec string, runner BackupRunner) error {
	_, err := s.cron.AddFunc(spec, func() {
		path, err := runner.RunScheduled(context.Background())
		if err != nil {
			log.WithError(err).Error("scheduled backup failed")
			return
		}
		log.WithField("path", path).Info("scheduled backup written")
	})
	if err != nil {
		return fmt.Errorf("add backup job %q: %w", spec, err)
	}
	log.WithField("schedule", spec).Info("backup job scheduled")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn("scheduler stop timed out with jobs still running")
	}
}
