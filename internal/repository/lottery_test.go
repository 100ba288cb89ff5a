package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/testutil"
	"gorm.io/gorm"
)

func Test_lotteryRepository_RoundLifecycle(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryRepo := repository.NewLotteryRepository()

	firstDraw := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	round, err := lotteryRepo.GetOrCreateCurrentRound(ctx, firstDraw)
	require.NoError(t, err)
	require.Equal(t, int64(1), round.Round)

	// Seeding again keeps the existing row.
	again, err := lotteryRepo.GetOrCreateCurrentRound(ctx, firstDraw.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, round.Round, again.Round)
	require.WithinDuration(t, firstDraw, again.NextDraw, time.Second)

	// The advance is guarded by the round it read.
	nextDraw := firstDraw.AddDate(0, 0, 7)
	require.NoError(t, lotteryRepo.AdvanceRound(ctx, 1, nextDraw))

	round, err = lotteryRepo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), round.Round)

	// A stale advance against round 1 is a no-op.
	err = lotteryRepo.AdvanceRound(ctx, 1, nextDraw.AddDate(0, 0, 7))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	round, err = lotteryRepo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), round.Round)
}

func Test_lotteryRepository_Tickets(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryRepo := repository.NewLotteryRepository()

	tickets := []*entity.LotteryTicket{
		{
			Base:        entity.Base{ID: uuid.NewString()},
			Round:       1,
			Serial:      "10-123456",
			UserID:      testutil.User1.ID,
			CommunityID: testutil.Community1.ID,
		},
		{
			Base:        entity.Base{ID: uuid.NewString()},
			Round:       1,
			Serial:      "22-654456",
			UserID:      testutil.User2.ID,
			CommunityID: testutil.Community1.ID,
		},
	}
	require.NoError(t, lotteryRepo.CreateTickets(ctx, tickets))

	count, err := lotteryRepo.CountByRoundAndUser(ctx, 1, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	all, err := lotteryRepo.GetByRound(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Other rounds see nothing.
	none, err := lotteryRepo.GetByRound(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, none)
}

func Test_lotteryRepository_Results(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryRepo := repository.NewLotteryRepository()

	for round := int64(1); round <= 3; round++ {
		err := lotteryRepo.CreateResult(ctx, &entity.LotteryResult{
			Base:         entity.Base{ID: uuid.NewString()},
			Round:        round,
			Tier1Serials: entity.Array[string]{"10-123456", "22-654456", "31-000456"},
			DrawnAt:      time.Now(),
			TicketCount:  int(round),
		})
		require.NoError(t, err)
	}

	result, err := lotteryRepo.GetResultByRound(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 2, result.TicketCount)

	latest, err := lotteryRepo.GetLatestResults(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	require.Equal(t, int64(3), latest[0].Round)
	require.Equal(t, int64(2), latest[1].Round)
}
