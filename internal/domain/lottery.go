package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/internal/model"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/crypto"
	"github.com/zetabot-lab/backend/pkg/dateutil"
	"github.com/zetabot-lab/backend/pkg/errorx"
	"github.com/zetabot-lab/backend/pkg/pubsub"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	TicketPrice        = 1000
	MaxTicketsPerRound = 50

	Tier1Prize = 1_000_000
	Tier2Prize = 10_000
	Tier3Prize = 500

	tier1WinnerCount = 3
)

type LotteryDomain interface {
	BuyTickets(context.Context, *model.BuyLotteryTicketsRequest) (*model.BuyLotteryTicketsResponse, error)
	GetMyTickets(context.Context, *model.GetMyLotteryTicketsRequest) (*model.GetMyLotteryTicketsResponse, error)
	GetLotteryRound(context.Context, *model.GetLotteryRoundRequest) (*model.GetLotteryRoundResponse, error)
	GetLotteryResults(context.Context, *model.GetLotteryResultsRequest) (*model.GetLotteryResultsResponse, error)
	DrawNow(context.Context, *model.DrawLotteryNowRequest) (*model.DrawLotteryNowResponse, error)

	ResolveCurrentRound(ctx context.Context) error
}

type lotteryDomain struct {
	lotteryRepo     repository.LotteryRepository
	balanceRepo     repository.BalanceRepository
	communityRepo   repository.CommunityRepository
	transactionRepo repository.TransactionRepository
	publisher       pubsub.Publisher
}

func NewLotteryDomain(
	lotteryRepo repository.LotteryRepository,
	balanceRepo repository.BalanceRepository,
	communityRepo repository.CommunityRepository,
	transactionRepo repository.TransactionRepository,
	publisher pubsub.Publisher,
) *lotteryDomain {
	return &lotteryDomain{
		lotteryRepo:     lotteryRepo,
		balanceRepo:     balanceRepo,
		communityRepo:   communityRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// currentRound loads the singleton round, seeding round 1 with the next
// configured draw instant on first call.
func (d *lotteryDomain) currentRound(ctx context.Context) (*entity.LotteryRound, error) {
	cfg := xcontext.Configs(ctx).Lottery
	now := time.Now().In(cfg.Location())
	firstDraw := dateutil.NextOccurrence(now, time.Weekday(cfg.DrawWeekday), cfg.DrawHour, cfg.DrawMinute)

	return d.lotteryRepo.GetOrCreateCurrentRound(ctx, firstDraw)
}

func randomSerial() string {
	group := crypto.RandRange(1, 100)
	suffix := crypto.RandIntn(1_000_000)
	return fmt.Sprintf("%02d-%06d", group, suffix)
}

func (d *lotteryDomain) BuyTickets(
	ctx context.Context, req *model.BuyLotteryTicketsRequest,
) (*model.BuyLotteryTicketsResponse, error) {
	if req.NumberTickets < 1 {
		return nil, errorx.New(errorx.BadRequest, "The number of tickets must be a positive number")
	}

	userID := xcontext.RequestUserID(ctx)
	community, err := d.communityRepo.GetByHandle(ctx, req.CommunityHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	round, err := d.currentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	owned, err := d.lotteryRepo.CountByRoundAndUser(ctx, round.Round, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count tickets: %v", err)
		return nil, errorx.Unknown
	}

	if owned+int64(req.NumberTickets) > MaxTicketsPerRound {
		return nil, errorx.New(errorx.Unavailable,
			"You can hold at most %d tickets per round, you already have %d",
			MaxTicketsPerRound, owned)
	}

	if _, err := d.balanceRepo.GetOrCreate(ctx, userID, community.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance account: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	spent := int64(req.NumberTickets) * TicketPrice
	if err := d.balanceRepo.SubtractWallet(ctx, userID, community.ID, spent); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientBalance,
				"Not enough funds in wallet, need %d", spent)
		}

		xcontext.Logger(ctx).Errorf("Cannot take the ticket price: %v", err)
		return nil, errorx.Unknown
	}

	serials := make([]string, 0, req.NumberTickets)
	tickets := make([]*entity.LotteryTicket, 0, req.NumberTickets)
	for i := 0; i < req.NumberTickets; i++ {
		serial := randomSerial()
		serials = append(serials, serial)
		tickets = append(tickets, &entity.LotteryTicket{
			Base:        entity.Base{ID: uuid.NewString()},
			Round:       round.Round,
			Serial:      serial,
			UserID:      userID,
			CommunityID: community.ID,
		})
	}

	if err := d.lotteryRepo.CreateTickets(ctx, tickets); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create tickets: %v", err)
		return nil, errorx.Unknown
	}

	err = d.transactionRepo.Create(ctx, &entity.Transaction{
		CommunityID: community.ID,
		ActorID:     userID,
		TargetID:    userID,
		Amount:      -spent,
		Note:        fmt.Sprintf("Bought %d lottery tickets for round %d", req.NumberTickets, round.Round),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record ticket purchase: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	account, err := d.balanceRepo.Get(ctx, userID, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read back balance: %v", err)
		return nil, errorx.Unknown
	}

	return &model.BuyLotteryTicketsResponse{
		Round:   round.Round,
		Serials: serials,
		Spent:   spent,
		Wallet:  account.Wallet,
	}, nil
}

func (d *lotteryDomain) GetMyTickets(
	ctx context.Context, req *model.GetMyLotteryTicketsRequest,
) (*model.GetMyLotteryTicketsResponse, error) {
	round, err := d.currentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	tickets, err := d.lotteryRepo.GetByRoundAndUser(ctx, round.Round, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
		return nil, errorx.Unknown
	}

	handleByID := map[string]string{}
	modelTickets := make([]model.LotteryTicket, 0, len(tickets))
	for _, ticket := range tickets {
		handle, ok := handleByID[ticket.CommunityID]
		if !ok {
			community, err := d.communityRepo.GetByID(ctx, ticket.CommunityID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get community of ticket: %v", err)
				return nil, errorx.Unknown
			}

			handle = community.Handle
			handleByID[ticket.CommunityID] = handle
		}

		modelTickets = append(modelTickets, model.ConvertLotteryTicket(&ticket, handle))
	}

	return &model.GetMyLotteryTicketsResponse{
		Round:    round.Round,
		NextDraw: round.NextDraw.Format(model.DefaultTimeLayout),
		Tickets:  modelTickets,
	}, nil
}

func (d *lotteryDomain) GetLotteryRound(
	ctx context.Context, req *model.GetLotteryRoundRequest,
) (*model.GetLotteryRoundResponse, error) {
	round, err := d.currentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetLotteryRoundResponse{
		Round:    round.Round,
		NextDraw: round.NextDraw.Format(model.DefaultTimeLayout),
	}, nil
}

func (d *lotteryDomain) GetLotteryResults(
	ctx context.Context, req *model.GetLotteryResultsRequest,
) (*model.GetLotteryResultsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	results, err := d.lotteryRepo.GetLatestResults(ctx, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get results: %v", err)
		return nil, errorx.Unknown
	}

	modelResults := make([]model.LotteryResult, 0, len(results))
	for i := range results {
		modelResults = append(modelResults, model.ConvertLotteryResult(&results[i]))
	}

	return &model.GetLotteryResultsResponse{Results: modelResults}, nil
}

func (d *lotteryDomain) DrawNow(
	ctx context.Context, req *model.DrawLotteryNowRequest,
) (*model.DrawLotteryNowResponse, error) {
	round, err := d.currentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.ResolveCurrentRound(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve round: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DrawLotteryNowResponse{Round: round.Round}, nil
}

type payoutKey struct {
	userID      string
	communityID string
}

// pickWinningSerials draws the tier-1 set for a round. With no tickets it
// synthesizes cosmetic serials, with at most three tickets everyone wins,
// otherwise it samples three distinct tickets without replacement.
func pickWinningSerials(tickets []entity.LotteryTicket) []string {
	if len(tickets) == 0 {
		return []string{randomSerial(), randomSerial(), randomSerial()}
	}

	if len(tickets) <= tier1WinnerCount {
		serials := make([]string, 0, len(tickets))
		for _, ticket := range tickets {
			serials = append(serials, ticket.Serial)
		}

		return serials
	}

	chosen := map[int]bool{}
	serials := make([]string, 0, tier1WinnerCount)
	for len(serials) < tier1WinnerCount {
		i := crypto.RandIntn(len(tickets))
		if chosen[i] {
			continue
		}

		chosen[i] = true
		serials = append(serials, tickets[i].Serial)
	}

	return serials
}

// ticketPrize applies the tier precedence to one ticket. The first match
// wins; a ticket never takes more than one tier.
func ticketPrize(serial string, winningSerials []string) int64 {
	if slices.Contains(winningSerials, serial) {
		return Tier1Prize
	}

	last3 := serial[len(serial)-3:]
	for _, winner := range winningSerials {
		if winner[len(winner)-3:] == last3 {
			return Tier2Prize
		}
	}

	last1 := serial[len(serial)-1:]
	for _, winner := range winningSerials {
		if winner[len(winner)-1:] == last1 {
			return Tier3Prize
		}
	}

	return 0
}

// ResolveCurrentRound resolves the current round end to end: tier-1
// selection, per-owner payout aggregation, an immutable result row, and
// the guarded round advance, all in one database transaction. It runs
// even when no tickets were sold so the counter and schedule keep moving.
func (d *lotteryDomain) ResolveCurrentRound(ctx context.Context) error {
	round, err := d.currentRound(ctx)
	if err != nil {
		return err
	}

	tickets, err := d.lotteryRepo.GetByRound(ctx, round.Round)
	if err != nil {
		return err
	}

	winningSerials := pickWinningSerials(tickets)

	payouts := map[payoutKey]int64{}
	for _, ticket := range tickets {
		if prize := ticketPrize(ticket.Serial, winningSerials); prize > 0 {
			payouts[payoutKey{ticket.UserID, ticket.CommunityID}] += prize
		}
	}

	cfg := xcontext.Configs(ctx).Lottery
	now := time.Now().In(cfg.Location())
	nextDraw := dateutil.NextOccurrence(now, time.Weekday(cfg.DrawWeekday), cfg.DrawHour, cfg.DrawMinute)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The guarded advance doubles as the claim step: if another owner
	// already resolved this round, nothing else must be applied.
	if err := d.lotteryRepo.AdvanceRound(ctx, round.Round, nextDraw); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("Round %d was already resolved, skipping", round.Round)
			return nil
		}

		return err
	}

	for key, amount := range payouts {
		if err := d.balanceRepo.AddWallet(ctx, key.userID, key.communityID, amount); err != nil {
			// The owner may be gone since buying the ticket. Skip the
			// credit rather than aborting the whole draw.
			xcontext.Logger(ctx).Warnf(
				"Cannot credit prize of %d to user %s: %v", amount, key.userID, err)
			continue
		}

		err := d.transactionRepo.Create(ctx, &entity.Transaction{
			CommunityID: key.communityID,
			ActorID:     key.userID,
			TargetID:    key.userID,
			Amount:      amount,
			Note:        fmt.Sprintf("Lottery round %d prize", round.Round),
		})
		if err != nil {
			return err
		}
	}

	result := &entity.LotteryResult{
		Base:         entity.Base{ID: uuid.NewString()},
		Round:        round.Round,
		Tier1Serials: winningSerials,
		DrawnAt:      now,
		TicketCount:  len(tickets),
	}
	if err := d.lotteryRepo.CreateResult(ctx, result); err != nil {
		return err
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.notifyDrawResult(ctx, round.Round, winningSerials, payouts, len(tickets), now)
	return nil
}

func (d *lotteryDomain) notifyDrawResult(
	ctx context.Context,
	round int64,
	winningSerials []string,
	payouts map[payoutKey]int64,
	ticketCount int,
	drawnAt time.Time,
) {
	communities, err := d.communityRepo.GetNotifiable(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot list notifiable communities: %v", err)
		return
	}

	handleByID := map[string]string{}
	for _, community := range communities {
		handleByID[community.ID] = community.Handle
	}

	winners := make([]drawWinner, 0, len(payouts))
	for key, amount := range payouts {
		winners = append(winners, drawWinner{
			UserID:          key.userID,
			CommunityHandle: handleByID[key.communityID],
			Amount:          amount,
		})
	}

	event := drawResultEvent{
		Type:           "lottery_draw",
		Round:          round,
		WinningSerials: winningSerials,
		TicketCount:    ticketCount,
		Winners:        winners,
		DrawnAt:        drawnAt.Format(model.DefaultTimeLayout),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, community := range communities {
		target := community.NotifyTarget
		eg.Go(func() error {
			publishEvent(egCtx, d.publisher, target, event)
			return nil
		})
	}

	// Publishers never return an error through the group; Wait only
	// fences the fan-out before the caller moves on.
	_ = eg.Wait()
}
