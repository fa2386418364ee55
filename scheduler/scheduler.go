package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = time.Minute

// TokenPurger removes refresh tokens that can no longer be used.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()), // specs com segundos
		logger: logger,
	}
}

// AddTokenPurge schedules purger with a six field cron spec.
func (s *Scheduler) AddTokenPurge(spec string, purger TokenPurger) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		removed, err := purger.PurgeExpired(ctx)
		if err != nil {
			s.logger.Error("token purge failed", zap.Error(err))
			return
		}
		s.logger.Info("token purge finished", zap.Int64("removed", removed))
	})
	return err
}

// Run starts the jobs and blocks until ctx is done. Running jobs are waited for.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
	return nil
}
