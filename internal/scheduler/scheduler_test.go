package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"nexa-crm/internal/observability"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	name     string
	interval time.Duration
	runs     atomic.Int64
	err      error
}

func (j *countingJob) Name() string            { return j.name }
func (j *countingJob) Schedule() time.Duration { return j.interval }
func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

type alignedCountingJob struct {
	countingJob
	delay time.Duration
}

func (j *alignedCountingJob) FirstRunAt(now time.Time) time.Time {
	return now.Add(j.delay)
}

func TestSchedulerRunsJobImmediatelyAndOnTicks(t *testing.T) {
	s := New(observability.NewLogger())
	job := &countingJob{name: "counter", interval: 20 * time.Millisecond}
	s.Register(job)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSchedulerKeepsTickingAfterFailure(t *testing.T) {
	s := New(observability.NewLogger())
	job := &countingJob{name: "flaky", interval: 20 * time.Millisecond, err: errors.New("boom")}
	s.Register(job)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerDelaysAlignedJobFirstRun(t *testing.T) {
	s := New(observability.NewLogger())
	job := &alignedCountingJob{
		countingJob: countingJob{name: "aligned", interval: time.Hour},
		delay:       50 * time.Millisecond,
	}
	s.Register(job)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), job.runs.Load(), "aligned job must not run before its first run time")

	assert.Eventually(t, func() bool {
		return job.runs.Load() == 1
	}, time.Second, 5*time.Millisecond)
}
