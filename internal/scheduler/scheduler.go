package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Runner is a job the scheduler triggers. Run must tolerate overlapping
// triggers; the dashboard service skips a run while one is in progress.
type Runner interface {
	Run(ctx context.Context)
}

type Scheduler struct {
	cron    *cron.Cron
	service Runner
	spec    string
}

// New returns a scheduler for spec. An empty spec yields a scheduler whose
// Start and Stop do nothing, so reloads stay manual.
func New(spec string, service Runner) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		spec:    spec,
	}
}

func (s *Scheduler) Enabled() bool {
	return s.spec != ""
}

func (s *Scheduler) Start() error {
	if !s.Enabled() {
		log.Printf("[scheduler] DATA_REFRESH_CRON not set; scheduled reload disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		log.Printf("[scheduler] scheduled reload triggered")
		go s.service.Run(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("[scheduler] reloading on %q", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
