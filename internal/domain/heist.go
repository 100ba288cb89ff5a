package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/zetabot-lab/backend/internal/common"
	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/internal/model"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/errorx"
	"github.com/pkg/math"
	"github.com/zetabot-lab/backend/pkg/pubsub"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	heistOutcomeInsufficient = "insufficient"
	heistOutcomeReported     = "reported"
	heistOutcomeSuccess      = "success"

	// Each crew member adds five percent to the steal rate, capped at
	// the whole bank.
	heistStealPercentPerCrew = 5

	// A reported crew member forfeits a tenth of their own bank.
	heistReportFineDivisor = 10
)

type heistState int

const (
	heistRecruiting heistState = iota
	heistResolving
	heistClosed
)

// heistSession is in-process only. A crash during recruitment drops the
// session entirely; no funds have moved yet at that point.
type heistSession struct {
	mutex sync.Mutex

	communityID     string
	communityHandle string
	notifyTarget    string
	initiatorID     string
	targetID        string
	crew            []string
	reported        bool
	state           heistState
	endsAt          time.Time
}

type HeistDomain interface {
	StartHeist(context.Context, *model.StartHeistRequest) (*model.StartHeistResponse, error)
	JoinHeist(context.Context, *model.JoinHeistRequest) (*model.JoinHeistResponse, error)
	ReportHeist(context.Context, *model.ReportHeistRequest) (*model.ReportHeistResponse, error)
	GetHeist(context.Context, *model.GetHeistRequest) (*model.GetHeistResponse, error)
}

type heistDomain struct {
	// rootCtx outlives any request so session timers keep running after
	// the starting request returns.
	rootCtx context.Context

	sessions *xsync.MapOf[string, *heistSession]

	communityRepo   repository.CommunityRepository
	userRepo        repository.UserRepository
	balanceRepo     repository.BalanceRepository
	transactionRepo repository.TransactionRepository
	cooldownGate    *common.CooldownGate
	publisher       pubsub.Publisher
}

func NewHeistDomain(
	rootCtx context.Context,
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	balanceRepo repository.BalanceRepository,
	transactionRepo repository.TransactionRepository,
	cooldownGate *common.CooldownGate,
	publisher pubsub.Publisher,
) *heistDomain {
	return &heistDomain{
		rootCtx:         rootCtx,
		sessions:        xsync.NewMapOf[*heistSession](),
		communityRepo:   communityRepo,
		userRepo:        userRepo,
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		cooldownGate:    cooldownGate,
		publisher:       publisher,
	}
}

func (d *heistDomain) StartHeist(
	ctx context.Context, req *model.StartHeistRequest,
) (*model.StartHeistResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if req.TargetUserID == userID {
		return nil, errorx.New(errorx.BadRequest, "You cannot rob yourself")
	}

	community, err := d.communityRepo.GetByHandle(ctx, req.CommunityHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.userRepo.GetByID(ctx, req.TargetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found target user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get target user: %v", err)
		return nil, errorx.Unknown
	}

	robbedRemaining, err := d.cooldownGate.Check(ctx, req.TargetUserID, community.ID, entity.CooldownRobbed)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check robbed cooldown: %v", err)
		return nil, errorx.Unknown
	}

	if robbedRemaining > 0 {
		return nil, errorx.New(errorx.Unavailable,
			"This target was robbed recently, try again in %s", robbedRemaining.Round(time.Second))
	}

	cfg := xcontext.Configs(ctx).Heist
	initiator, err := d.balanceRepo.GetOrCreate(ctx, userID, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get initiator account: %v", err)
		return nil, errorx.Unknown
	}

	if initiator.Bank < cfg.InitiatorMinBank {
		return nil, errorx.New(errorx.InsufficientBalance,
			"You need at least %d in the bank to start a heist", cfg.InitiatorMinBank)
	}

	target, err := d.balanceRepo.GetOrCreate(ctx, req.TargetUserID, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get target account: %v", err)
		return nil, errorx.Unknown
	}

	if target.Bank < cfg.TargetMinBank {
		return nil, errorx.New(errorx.Unavailable, "This target is not worth robbing")
	}

	remaining, err := d.cooldownGate.Check(ctx, userID, community.ID, entity.CooldownBankRob)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check cooldown: %v", err)
		return nil, errorx.Unknown
	}

	if remaining > 0 {
		return nil, errorx.New(errorx.OnCooldown,
			"You can start the next heist in %s", remaining.Round(time.Second))
	}

	session := &heistSession{
		communityID:     community.ID,
		communityHandle: community.Handle,
		notifyTarget:    community.NotifyTarget,
		initiatorID:     userID,
		targetID:        req.TargetUserID,
		crew:            []string{userID},
		state:           heistRecruiting,
		endsAt:          time.Now().Add(cfg.RecruitWindow),
	}

	if _, loaded := d.sessions.LoadOrStore(community.ID, session); loaded {
		return nil, errorx.New(errorx.AlreadyExists, "A heist is already underway in this community")
	}

	if err := d.cooldownGate.Stamp(ctx, userID, community.ID, entity.CooldownBankRob); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot stamp cooldown: %v", err)
		d.sessions.Delete(community.ID)
		return nil, errorx.Unknown
	}

	go d.runSession(session)

	publishEvent(ctx, d.publisher, session.notifyTarget, heistStartedEvent{
		Type:            "heist_started",
		CommunityHandle: community.Handle,
		InitiatorID:     userID,
		TargetID:        req.TargetUserID,
		EndsAt:          session.endsAt.Format(model.DefaultTimeLayout),
	})

	return &model.StartHeistResponse{
		EndsAt: session.endsAt.Format(model.DefaultTimeLayout),
	}, nil
}

func (d *heistDomain) JoinHeist(
	ctx context.Context, req *model.JoinHeistRequest,
) (*model.JoinHeistResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	community, err := d.communityRepo.GetByHandle(ctx, req.CommunityHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	session, ok := d.sessions.Load(community.ID)
	if !ok {
		return nil, errorx.New(errorx.NotFound, "No heist is recruiting in this community")
	}

	session.mutex.Lock()
	defer session.mutex.Unlock()

	if session.state != heistRecruiting {
		return nil, errorx.New(errorx.Unavailable, "The recruitment window has closed")
	}

	if userID == session.targetID {
		return nil, errorx.New(errorx.PermissionDenied, "The target cannot join the crew")
	}

	if slices.Contains(session.crew, userID) {
		return &model.JoinHeistResponse{CrewSize: len(session.crew)}, nil
	}

	cfg := xcontext.Configs(ctx).Heist
	account, err := d.balanceRepo.GetOrCreate(ctx, userID, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get account: %v", err)
		return nil, errorx.Unknown
	}

	if account.Bank < cfg.JoinMinBank {
		if account.Wallet < cfg.JoinMinBank {
			return nil, errorx.New(errorx.InsufficientBalance,
				"You need at least %d in the bank to join", cfg.JoinMinBank)
		}

		// Cover the stake by moving it from the wallet.
		if err := d.balanceRepo.WalletToBank(ctx, userID, community.ID, cfg.JoinMinBank); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot move join stake to bank: %v", err)
			return nil, errorx.Unknown
		}
	}

	session.crew = append(session.crew, userID)
	return &model.JoinHeistResponse{CrewSize: len(session.crew)}, nil
}

func (d *heistDomain) ReportHeist(
	ctx context.Context, req *model.ReportHeistRequest,
) (*model.ReportHeistResponse, error) {
	community, err := d.communityRepo.GetByHandle(ctx, req.CommunityHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	session, ok := d.sessions.Load(community.ID)
	if !ok {
		return nil, errorx.New(errorx.NotFound, "No heist is recruiting in this community")
	}

	session.mutex.Lock()
	defer session.mutex.Unlock()

	if session.state != heistRecruiting {
		return nil, errorx.New(errorx.Unavailable, "The recruitment window has closed")
	}

	if xcontext.RequestUserID(ctx) != session.targetID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the target can report the heist")
	}

	session.reported = true
	return &model.ReportHeistResponse{}, nil
}

func (d *heistDomain) GetHeist(
	ctx context.Context, req *model.GetHeistRequest,
) (*model.GetHeistResponse, error) {
	community, err := d.communityRepo.GetByHandle(ctx, req.CommunityHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	session, ok := d.sessions.Load(community.ID)
	if !ok {
		return &model.GetHeistResponse{Active: false}, nil
	}

	session.mutex.Lock()
	defer session.mutex.Unlock()

	return &model.GetHeistResponse{
		Active:      true,
		InitiatorID: session.initiatorID,
		TargetID:    session.targetID,
		CrewIDs:     append([]string{}, session.crew...),
		Reported:    session.reported,
		EndsAt:      session.endsAt.Format(model.DefaultTimeLayout),
	}, nil
}

// runSession waits the recruitment window out, freezes the crew, waits a
// short settle delay, then resolves. The session entry is removed in all
// paths.
func (d *heistDomain) runSession(session *heistSession) {
	ctx := d.rootCtx
	cfg := xcontext.Configs(ctx).Heist
	defer d.sessions.Delete(session.communityID)

	select {
	case <-ctx.Done():
		return
	case <-time.After(cfg.RecruitWindow):
	}

	session.mutex.Lock()
	session.state = heistResolving
	crew := append([]string{}, session.crew...)
	reported := session.reported
	session.mutex.Unlock()

	select {
	case <-ctx.Done():
		return
	case <-time.After(cfg.SettleDelay):
	}

	d.resolve(ctx, session, crew, reported)

	session.mutex.Lock()
	session.state = heistClosed
	session.mutex.Unlock()
}

func (d *heistDomain) resolve(
	ctx context.Context, session *heistSession, crew []string, reported bool,
) {
	switch {
	case len(crew) <= 1:
		d.resolveInsufficient(ctx, session, crew)
	case reported:
		d.resolveReported(ctx, session, crew)
	default:
		d.resolveSuccess(ctx, session, crew)
	}
}

func (d *heistDomain) resolveInsufficient(
	ctx context.Context, session *heistSession, crew []string,
) {
	d.stampRobbed(ctx, session)
	d.notifyResult(ctx, session, heistOutcomeInsufficient, len(crew), 0, 0)
}

// resolveReported fines every crew member a fixed fraction of their own
// bank in favor of the target. Each fine is its own atomic transfer; a
// failed one is logged and the rest still apply. The target keeps their
// robbed protection unstamped so another attempt is possible right away.
func (d *heistDomain) resolveReported(
	ctx context.Context, session *heistSession, crew []string,
) {
	var total int64
	for _, userID := range crew {
		account, err := d.balanceRepo.Get(ctx, userID, session.communityID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get account of %s: %v", userID, err)
			continue
		}

		fine := account.Bank / heistReportFineDivisor
		if fine <= 0 {
			continue
		}

		txCtx := xcontext.WithDBTransaction(ctx)
		err = d.balanceRepo.TransferBank(txCtx, userID, session.targetID, session.communityID, fine)
		if err == nil {
			err = d.transactionRepo.Create(txCtx, &entity.Transaction{
				CommunityID: session.communityID,
				ActorID:     userID,
				TargetID:    session.targetID,
				Amount:      fine,
				Note:        "Heist reported, fine paid to the target",
			})
		}

		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot apply fine of %s: %v", userID, err)
			xcontext.WithRollbackDBTransaction(txCtx)
			continue
		}

		xcontext.WithCommitDBTransaction(txCtx)
		total += fine
	}

	d.notifyResult(ctx, session, heistOutcomeReported, len(crew), total, 0)
}

// resolveSuccess moves the stolen total from the target to the crew in a
// single database transaction. The target's bank is re-read inside the
// transaction so the debit guard cannot trip on a stale amount.
func (d *heistDomain) resolveSuccess(
	ctx context.Context, session *heistSession, crew []string,
) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	target, err := d.balanceRepo.Get(ctx, session.targetID, session.communityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get target account: %v", err)
		return
	}

	percent := int64(math.Min(len(crew)*heistStealPercentPerCrew, 100))
	stolenTotal := target.Bank * percent / 100
	perParticipant := stolenTotal / int64(len(crew))

	if stolenTotal > 0 {
		if err := d.balanceRepo.SubtractBank(ctx, session.targetID, session.communityID, stolenTotal); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot debit target: %v", err)
			return
		}

		for _, userID := range crew {
			if err := d.balanceRepo.AddBank(ctx, userID, session.communityID, perParticipant); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot credit crew member %s: %v", userID, err)
				return
			}

			err := d.transactionRepo.Create(ctx, &entity.Transaction{
				CommunityID: session.communityID,
				ActorID:     userID,
				TargetID:    session.targetID,
				Amount:      perParticipant,
				Note:        fmt.Sprintf("Heist share, crew of %d", len(crew)),
			})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot record heist share: %v", err)
				return
			}
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.stampRobbed(ctx, session)
	d.notifyResult(ctx, session, heistOutcomeSuccess, len(crew), stolenTotal, perParticipant)
}

func (d *heistDomain) stampRobbed(ctx context.Context, session *heistSession) {
	cfg := xcontext.Configs(ctx).Heist
	err := d.cooldownGate.StampFor(
		ctx, session.targetID, session.communityID, entity.CooldownRobbed, cfg.RobbedCooldown)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot stamp robbed cooldown: %v", err)
	}
}

func (d *heistDomain) notifyResult(
	ctx context.Context,
	session *heistSession,
	outcome string,
	crewSize int,
	stolenTotal, perParticipant int64,
) {
	publishEvent(ctx, d.publisher, session.notifyTarget, heistResultEvent{
		Type:            "heist_result",
		CommunityHandle: session.communityHandle,
		Outcome:         outcome,
		InitiatorID:     session.initiatorID,
		TargetID:        session.targetID,
		CrewSize:        crewSize,
		StolenTotal:     stolenTotal,
		PerParticipant:  perParticipant,
	})
}
