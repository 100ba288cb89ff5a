package cron

import (
	"context"
	"sync"
	"time"

	"github.com/zetabot-lab/backend/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)
	RunNow(context.Context) bool
	Next(context.Context) time.Time
}

// CronJobManager drives registered jobs off wall-clock timers. Sleeps are
// bounded by the configured maximum wait, so a job whose next instant is
// far away is still re-evaluated periodically and picks up a rescheduled
// instant without a cancellation signal.
type CronJobManager struct {
	mutex sync.Mutex
	wait  sync.WaitGroup
	jobs  map[CronJob]*time.Timer
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{jobs: make(map[CronJob]*time.Timer)}
}

func (m *CronJobManager) Register(job CronJob) {
	m.jobs[job] = nil
}

func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started")

	for job := range m.jobs {
		if job.RunNow(ctx) {
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}

		m.wait.Add(1)
	}

	m.wait.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

func (m *CronJobManager) Cancel(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for job, timer := range m.jobs {
		if timer == nil {
			xcontext.Logger(ctx).Warnf("Stop a job that hasn't started: %T", job)
			continue
		}

		timer.Stop()
		m.wait.Done()
	}

	// Clear all jobs to not schedule them again.
	m.jobs = make(map[CronJob]*time.Timer)
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	xcontext.Logger(ctx).Infof("%T is running...", job)
	m.doSafely(ctx, job)
	xcontext.Logger(ctx).Infof("%T ok", job)

	m.schedule(ctx, job)
}

// doSafely fences a single run. A panicking job must not take the
// manager loop down with it.
func (m *CronJobManager) doSafely(ctx context.Context, job CronJob) {
	defer func() {
		if r := recover(); r != nil {
			xcontext.Logger(ctx).Errorf("%T panicked: %v", job, r)
		}
	}()

	job.Do(ctx)
}

// tick fires when a timer expires. A bounded sleep can wake before the
// job's next instant; in that case the job goes back to sleep untouched.
func (m *CronJobManager) tick(ctx context.Context, job CronJob) {
	if time.Now().Before(job.Next(ctx)) {
		m.schedule(ctx, job)
		return
	}

	m.run(ctx, job)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Only schedule jobs which existed in job list.
	if _, ok := m.jobs[job]; ok {
		cfg := xcontext.Configs(ctx).Scheduler
		wait := time.Until(job.Next(ctx))
		if wait > cfg.MaxWait {
			wait = cfg.MaxWait
		}

		// The floor doubles as the backoff after a run that left the
		// next instant in the past, e.g. a failed resolution.
		if wait < cfg.MinWait {
			wait = cfg.MinWait
		}

		m.jobs[job] = time.AfterFunc(wait, func() { m.tick(ctx, job) })
	}
}
