package cron

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zetabot-lab/backend/config"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

type countingJob struct {
	mutex sync.Mutex
	runs  int32
	next  time.Time
}

func (j *countingJob) Do(ctx context.Context) {
	atomic.AddInt32(&j.runs, 1)

	j.mutex.Lock()
	j.next = time.Now().Add(time.Hour)
	j.mutex.Unlock()
}

func (j *countingJob) RunNow(ctx context.Context) bool {
	return !j.Next(ctx).After(time.Now())
}

func (j *countingJob) Next(ctx context.Context) time.Time {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.next
}

func newCronTestContext() context.Context {
	cfg := config.Default()
	cfg.Scheduler.MaxWait = 20 * time.Millisecond
	cfg.Scheduler.MinWait = 5 * time.Millisecond
	return xcontext.WithConfigs(context.Background(), cfg)
}

func Test_CronJobManager_BoundedSleepWakesJob(t *testing.T) {
	ctx := newCronTestContext()

	// The job is due well beyond one bounded sleep, so the manager has
	// to wake early, notice it is not due yet, and go back to sleep.
	job := &countingJob{next: time.Now().Add(60 * time.Millisecond)}
	manager := NewCronJobManager()
	manager.Register(job)

	done := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&job.runs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	manager.Cancel(ctx)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop after cancel")
	}
}

func Test_CronJobManager_RunsOverdueJobImmediately(t *testing.T) {
	ctx := newCronTestContext()

	// An instant in the past means catch-up: the job runs right at
	// start instead of waiting for the next weekly slot.
	job := &countingJob{next: time.Now().Add(-time.Hour)}
	manager := NewCronJobManager()
	manager.Register(job)

	go manager.Start(ctx)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&job.runs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	manager.Cancel(ctx)
}

type panickyJob struct {
	calls int32
}

func (j *panickyJob) Do(ctx context.Context) {
	atomic.AddInt32(&j.calls, 1)
	panic("draw went sideways")
}

func (j *panickyJob) RunNow(ctx context.Context) bool { return true }

func (j *panickyJob) Next(ctx context.Context) time.Time {
	return time.Now().Add(10 * time.Millisecond)
}

func Test_CronJobManager_SurvivesPanickingJob(t *testing.T) {
	ctx := newCronTestContext()

	job := &panickyJob{}
	manager := NewCronJobManager()
	manager.Register(job)

	go manager.Start(ctx)

	// The loop keeps rescheduling the job in spite of the panics.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&job.calls) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	manager.Cancel(ctx)
}
