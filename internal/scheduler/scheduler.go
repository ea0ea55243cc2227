package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/kmazurov/order_service/internal/logging"
)

// Job is a recurring action. Errors and panics stop at the scheduler
// boundary; a job can never take the process down.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

func New(log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

func (s *Scheduler) Register(spec, name string, job Job) error {
	l := s.log.With("job", name)
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				l.Error("job_panic", "panic", r)
			}
		}()

		ctx := logging.IntoContext(context.Background(), l)
		if err := job(ctx); err != nil {
			l.Error("job_failed", "error", err)
			return
		}
		l.Info("job_completed")
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
