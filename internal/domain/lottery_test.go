package domain

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/internal/model"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/testutil"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

func newTestLotteryDomain(publisher *testutil.MockPublisher) *lotteryDomain {
	return &lotteryDomain{
		lotteryRepo:     repository.NewLotteryRepository(),
		balanceRepo:     repository.NewBalanceRepository(),
		communityRepo:   repository.NewCommunityRepository(),
		transactionRepo: newTestTransactionRepo(),
		publisher:       publisher,
	}
}

func Test_lotteryDomain_BuyTickets(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryDomain := newTestLotteryDomain(&testutil.MockPublisher{})

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := lotteryDomain.BuyTickets(ctxUser1, &model.BuyLotteryTicketsRequest{
		CommunityHandle: testutil.Community1.Handle,
		NumberTickets:   2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Round)
	require.Len(t, resp.Serials, 2)
	require.Equal(t, int64(2*TicketPrice), resp.Spent)
	require.Equal(t, int64(100_000-2*TicketPrice), resp.Wallet)

	serialForm := regexp.MustCompile(`^\d{2}-\d{6}$`)
	for _, serial := range resp.Serials {
		require.Regexp(t, serialForm, serial)
	}

	// The tickets are readable back in purchase order.
	myTickets, err := lotteryDomain.GetMyTickets(ctxUser1, &model.GetMyLotteryTicketsRequest{})
	require.NoError(t, err)
	require.Len(t, myTickets.Tickets, 2)
	require.Equal(t, resp.Serials[0], myTickets.Tickets[0].Serial)

	// Zero tickets is not a purchase.
	_, err = lotteryDomain.BuyTickets(ctxUser1, &model.BuyLotteryTicketsRequest{
		CommunityHandle: testutil.Community1.Handle,
		NumberTickets:   0,
	})
	require.Error(t, err)
}

func Test_lotteryDomain_BuyTickets_PerRoundCap(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryDomain := newTestLotteryDomain(&testutil.MockPublisher{})

	// Make the wallet deep enough for a full cap purchase.
	balanceRepo := repository.NewBalanceRepository()
	require.NoError(t, balanceRepo.AddWallet(
		ctx, testutil.User1.ID, testutil.Community1.ID, 10_000_000))

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := lotteryDomain.BuyTickets(ctxUser1, &model.BuyLotteryTicketsRequest{
		CommunityHandle: testutil.Community1.Handle,
		NumberTickets:   MaxTicketsPerRound,
	})
	require.NoError(t, err)

	// The cap counts what the user already holds this round.
	_, err = lotteryDomain.BuyTickets(ctxUser1, &model.BuyLotteryTicketsRequest{
		CommunityHandle: testutil.Community1.Handle,
		NumberTickets:   1,
	})
	require.Error(t, err)
}

func Test_lotteryDomain_BuyTickets_InsufficientWallet(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryDomain := newTestLotteryDomain(&testutil.MockPublisher{})

	// A fresh account in community2 holds nothing.
	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := lotteryDomain.BuyTickets(ctxUser1, &model.BuyLotteryTicketsRequest{
		CommunityHandle: testutil.Community2.Handle,
		NumberTickets:   1,
	})
	require.Error(t, err)

	// The failed purchase left no tickets behind.
	round, err := repository.NewLotteryRepository().GetCurrentRound(ctx)
	require.NoError(t, err)
	count, err := repository.NewLotteryRepository().CountByRoundAndUser(
		ctx, round.Round, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func Test_ticketPrize_TierPrecedence(t *testing.T) {
	winners := []string{"10-123456", "22-654456", "31-000456"}

	// Exact serial match takes tier 1 and nothing else.
	require.Equal(t, int64(Tier1Prize), ticketPrize("10-123456", winners))

	// Last three digits of the suffix take tier 2.
	require.Equal(t, int64(Tier2Prize), ticketPrize("77-888456", winners))

	// Last digit takes tier 3.
	require.Equal(t, int64(Tier3Prize), ticketPrize("77-888886", winners))

	// No digit matches, no prize.
	require.Equal(t, int64(0), ticketPrize("44-999001", winners))
}

func Test_lotteryDomain_ResolveCurrentRound(t *testing.T) {
	ctx := testutil.MockContext()
	publisher := &testutil.MockPublisher{}
	lotteryDomain := newTestLotteryDomain(publisher)
	lotteryRepo := repository.NewLotteryRepository()
	balanceRepo := repository.NewBalanceRepository()

	round, err := lotteryDomain.currentRound(ctx)
	require.NoError(t, err)

	// Three tickets or fewer means every ticket wins tier 1.
	owners := []string{testutil.User1.ID, testutil.User2.ID, testutil.User3.ID}
	serials := []string{"10-123456", "22-654456", "31-000456"}
	for i, owner := range owners {
		err := lotteryRepo.CreateTickets(ctx, []*entity.LotteryTicket{{
			Base:        entity.Base{ID: uuid.NewString()},
			Round:       round.Round,
			Serial:      serials[i],
			UserID:      owner,
			CommunityID: testutil.Community1.ID,
		}})
		require.NoError(t, err)
	}

	require.NoError(t, lotteryDomain.ResolveCurrentRound(ctx))

	// Every owner was credited exactly one tier-1 prize.
	for _, owner := range owners {
		account, err := balanceRepo.Get(ctx, owner, testutil.Community1.ID)
		require.NoError(t, err)
		require.Equal(t, int64(100_000+Tier1Prize), account.Wallet)
	}

	// The result is immutable history.
	result, err := lotteryRepo.GetResultByRound(ctx, round.Round)
	require.NoError(t, err)
	require.ElementsMatch(t, serials, []string(result.Tier1Serials))
	require.Equal(t, 3, result.TicketCount)

	// The counter advanced by exactly one and the next draw moved.
	after, err := lotteryRepo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, round.Round+1, after.Round)
	require.True(t, after.NextDraw.After(round.NextDraw) || after.NextDraw.Equal(round.NextDraw))

	// One notification per notifiable community.
	topic := xcontext.Configs(ctx).Notify.Topic
	require.Equal(t, 1, publisher.Published(topic))
}

func Test_lotteryDomain_ResolveCurrentRound_NoTickets(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryDomain := newTestLotteryDomain(&testutil.MockPublisher{})
	lotteryRepo := repository.NewLotteryRepository()
	balanceRepo := repository.NewBalanceRepository()

	round, err := lotteryDomain.currentRound(ctx)
	require.NoError(t, err)
	require.NoError(t, lotteryDomain.ResolveCurrentRound(ctx))

	// The draw still produced a cosmetic result and kept the counter
	// moving.
	result, err := lotteryRepo.GetResultByRound(ctx, round.Round)
	require.NoError(t, err)
	require.Len(t, []string(result.Tier1Serials), 3)
	require.Equal(t, 0, result.TicketCount)

	after, err := lotteryRepo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, round.Round+1, after.Round)

	// No balance was touched.
	account, err := balanceRepo.Get(ctx, testutil.User1.ID, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100_000), account.Wallet)
}

func Test_lotteryDomain_RoundsAdvanceWithoutGaps(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryDomain := newTestLotteryDomain(&testutil.MockPublisher{})
	lotteryRepo := repository.NewLotteryRepository()

	for i := 0; i < 3; i++ {
		require.NoError(t, lotteryDomain.ResolveCurrentRound(ctx))
	}

	round, err := lotteryRepo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), round.Round)

	for expected := int64(1); expected <= 3; expected++ {
		result, err := lotteryRepo.GetResultByRound(ctx, expected)
		require.NoError(t, err)
		require.Equal(t, expected, result.Round)
	}
}

func Test_lotteryDomain_GetLotteryResults_LimitClamp(t *testing.T) {
	ctx := testutil.MockContext()
	lotteryDomain := newTestLotteryDomain(&testutil.MockPublisher{})

	for round := int64(1); round <= 12; round++ {
		require.NoError(t, lotteryDomain.lotteryRepo.CreateResult(ctx, &entity.LotteryResult{
			Base:         entity.Base{ID: uuid.NewString()},
			Round:        round,
			Tier1Serials: entity.Array[string]{"10-123456"},
			TicketCount:  int(round),
		}))
	}

	// No limit falls back to the default page.
	resp, err := lotteryDomain.GetLotteryResults(ctx, &model.GetLotteryResultsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Results, 10)

	// An oversized limit is clamped to the cap instead of resetting to the
	// default page.
	resp, err = lotteryDomain.GetLotteryResults(ctx, &model.GetLotteryResultsRequest{Limit: 500})
	require.NoError(t, err)
	require.Len(t, resp.Results, 12)
	require.Equal(t, int64(12), resp.Results[0].Round)
}
