package cron

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"github.com/zetabot-lab/backend/internal/domain"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/testutil"
)

func Test_PeriodicDrawCronJob_CatchUp(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryRepo := repository.NewLotteryRepository()

	idNode, err := snowflake.NewNode(1)
	require.NoError(t, err)

	lotteryDomain := domain.NewLotteryDomain(
		lotteryRepo,
		repository.NewBalanceRepository(),
		repository.NewCommunityRepository(),
		repository.NewTransactionRepository(idNode),
		&testutil.MockPublisher{},
	)
	job := NewPeriodicDrawCronJob(lotteryDomain, lotteryRepo)

	// Without a persisted round the next draw is the configured weekly
	// slot, which is always in the future.
	require.False(t, job.RunNow(ctx))

	// A draw missed while the process was down is due immediately.
	_, err = lotteryRepo.GetOrCreateCurrentRound(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.True(t, job.RunNow(ctx))

	job.Do(ctx)

	round, err := lotteryRepo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), round.Round)
	require.True(t, round.NextDraw.After(time.Now()))
	require.False(t, job.RunNow(ctx))
}
