package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func TestRegisterRejectsInvalidSpec(t *testing.T) {
	s := New(testLogger(), testTracer())

	err := s.Register(Job{Name: "broken", Spec: "not a schedule", Run: func(ctx context.Context) error { return nil }})
	if err == nil {
		t.Error("Register() accepted an invalid cron spec")
	}

	if err := s.Register(Job{Name: "ok", Spec: "@every 5m", Run: func(ctx context.Context) error { return nil }}); err != nil {
		t.Errorf("Register() = %v for a valid spec", err)
	}
	if err := s.Register(Job{Name: "daily", Spec: "0 6 * * *", Run: func(ctx context.Context) error { return nil }}); err != nil {
		t.Errorf("Register() = %v for a cron expression", err)
	}
}

func TestRunJobIsolatesPanics(t *testing.T) {
	s := New(testLogger(), testTracer())

	defer func() {
		if recovered := recover(); recovered != nil {
			t.Errorf("panic escaped runJob: %v", recovered)
		}
	}()

	s.runJob(Job{Name: "panicky", Run: func(ctx context.Context) error { panic("boom") }})
}

func TestRunJobLogsErrorsWithoutEscalating(t *testing.T) {
	s := New(testLogger(), testTracer())

	ran := false
	s.runJob(Job{Name: "failing", Run: func(ctx context.Context) error {
		ran = true
		return errors.New("upstream down")
	}})
	if !ran {
		t.Error("job body did not run")
	}
}
