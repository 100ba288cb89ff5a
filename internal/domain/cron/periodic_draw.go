package cron

import (
	"context"
	"time"

	"github.com/zetabot-lab/backend/internal/domain"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/dateutil"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

// PeriodicDrawCronJob resolves the lottery round whenever the persisted
// next-draw instant is due. The instant comes from the database, so a
// draw missed while the process was down fires immediately on restart.
type PeriodicDrawCronJob struct {
	lotteryDomain domain.LotteryDomain
	lotteryRepo   repository.LotteryRepository
}

func NewPeriodicDrawCronJob(
	lotteryDomain domain.LotteryDomain,
	lotteryRepo repository.LotteryRepository,
) *PeriodicDrawCronJob {
	return &PeriodicDrawCronJob{
		lotteryDomain: lotteryDomain,
		lotteryRepo:   lotteryRepo,
	}
}

func (job *PeriodicDrawCronJob) Do(ctx context.Context) {
	if err := job.lotteryDomain.ResolveCurrentRound(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve the current round: %v", err)
	}
}

func (job *PeriodicDrawCronJob) RunNow(ctx context.Context) bool {
	return !job.Next(ctx).After(time.Now())
}

func (job *PeriodicDrawCronJob) Next(ctx context.Context) time.Time {
	round, err := job.lotteryRepo.GetCurrentRound(ctx)
	if err == nil {
		return round.NextDraw
	}

	cfg := xcontext.Configs(ctx).Lottery
	now := time.Now().In(cfg.Location())
	return dateutil.NextOccurrence(now, time.Weekday(cfg.DrawWeekday), cfg.DrawHour, cfg.DrawMinute)
}
