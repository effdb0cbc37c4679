// Package scheduler runs the periodic recomputation jobs: demand analysis,
// price refresh, occupancy and revenue analysis, performance monitoring and
// reporting. Jobs are table-driven, idempotent and individually retryable;
// re-running one early or late changes only freshness, never correctness.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Job struct {
	Name string
	// Spec is a robfig/cron schedule ("@every 5m" or a cron expression).
	Spec string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	jobs   []Job
	logger *logrus.Logger
	Tracer trace.Tracer
}

func New(logger *logrus.Logger, tracer trace.Tracer) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		Tracer: tracer,
	}
}

func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() {
		s.runJob(job)
	})
	if err != nil {
		return err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// runJob isolates one run: a failing or panicking job is logged and retried
// at its next natural interval, never escalated to the scheduler process.
func (s *Scheduler) runJob(job Job) {
	ctx, span := s.Tracer.Start(context.Background(), "Scheduler."+job.Name)
	defer span.End()

	defer func() {
		if recovered := recover(); recovered != nil {
			span.SetStatus(codes.Error, "job panicked")
			s.logger.WithFields(logrus.Fields{"path": "scheduler/run", "job": job.Name}).
				Errorf("job panicked: %v", recovered)
		}
	}()

	started := time.Now()
	if err := job.Run(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.WithFields(logrus.Fields{"path": "scheduler/run", "job": job.Name}).
			Error("job failed: ", err)
		return
	}
	s.logger.WithFields(logrus.Fields{"path": "scheduler/run", "job": job.Name, "took": time.Since(started).String()}).
		Debug("job finished")
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.WithFields(logrus.Fields{"path": "scheduler/start"}).
		Infof("scheduler started with %d jobs", len(s.jobs))
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
