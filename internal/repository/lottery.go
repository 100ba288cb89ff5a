package repository

import (
	"context"
	"time"

	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LotteryRepository interface {
	GetOrCreateCurrentRound(ctx context.Context, firstDraw time.Time) (*entity.LotteryRound, error)
	GetCurrentRound(ctx context.Context) (*entity.LotteryRound, error)
	AdvanceRound(ctx context.Context, fromRound int64, nextDraw time.Time) error
	UpdateNextDraw(ctx context.Context, nextDraw time.Time) error
	CreateTickets(ctx context.Context, tickets []*entity.LotteryTicket) error
	CountByRoundAndUser(ctx context.Context, round int64, userID string) (int64, error)
	GetByRoundAndUser(ctx context.Context, round int64, userID string) ([]entity.LotteryTicket, error)
	GetByRound(ctx context.Context, round int64) ([]entity.LotteryTicket, error)
	CreateResult(ctx context.Context, result *entity.LotteryResult) error
	GetResultByRound(ctx context.Context, round int64) (*entity.LotteryResult, error)
	GetLatestResults(ctx context.Context, limit int) ([]entity.LotteryResult, error)
}

type lotteryRepository struct{}

func NewLotteryRepository() *lotteryRepository {
	return &lotteryRepository{}
}

// GetOrCreateCurrentRound seeds the singleton round row on first use. A
// concurrent seed loses the insert race and reads the winner's row back.
func (r *lotteryRepository) GetOrCreateCurrentRound(
	ctx context.Context, firstDraw time.Time,
) (*entity.LotteryRound, error) {
	round := entity.LotteryRound{
		ID:       entity.CurrentRoundID,
		Round:    1,
		NextDraw: firstDraw,
	}
	err := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&round).Error
	if err != nil {
		return nil, err
	}

	return r.GetCurrentRound(ctx)
}

func (r *lotteryRepository) GetCurrentRound(ctx context.Context) (*entity.LotteryRound, error) {
	var result entity.LotteryRound
	err := xcontext.DB(ctx).Take(&result, "id=?", entity.CurrentRoundID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// AdvanceRound bumps the counter only when it still holds fromRound, so a
// stale scheduler replaying an old draw cannot advance twice.
func (r *lotteryRepository) AdvanceRound(
	ctx context.Context, fromRound int64, nextDraw time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.LotteryRound{}).
		Where("id=? AND round=?", entity.CurrentRoundID, fromRound).
		Updates(map[string]any{
			"round":     fromRound + 1,
			"next_draw": nextDraw,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) UpdateNextDraw(ctx context.Context, nextDraw time.Time) error {
	tx := xcontext.DB(ctx).
		Model(&entity.LotteryRound{}).
		Where("id=?", entity.CurrentRoundID).
		Update("next_draw", nextDraw)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) CreateTickets(
	ctx context.Context, tickets []*entity.LotteryTicket,
) error {
	return xcontext.DB(ctx).Create(tickets).Error
}

func (r *lotteryRepository) CountByRoundAndUser(
	ctx context.Context, round int64, userID string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.LotteryTicket{}).
		Where("round=? AND user_id=?", round, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *lotteryRepository) GetByRoundAndUser(
	ctx context.Context, round int64, userID string,
) ([]entity.LotteryTicket, error) {
	var result []entity.LotteryTicket
	err := xcontext.DB(ctx).
		Order("created_at ASC").
		Find(&result, "round=? AND user_id=?", round, userID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) GetByRound(
	ctx context.Context, round int64,
) ([]entity.LotteryTicket, error) {
	var result []entity.LotteryTicket
	err := xcontext.DB(ctx).Find(&result, "round=?", round).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) CreateResult(
	ctx context.Context, result *entity.LotteryResult,
) error {
	return xcontext.DB(ctx).Create(result).Error
}

func (r *lotteryRepository) GetResultByRound(
	ctx context.Context, round int64,
) (*entity.LotteryResult, error) {
	var result entity.LotteryResult
	if err := xcontext.DB(ctx).Take(&result, "round=?", round).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRepository) GetLatestResults(
	ctx context.Context, limit int,
) ([]entity.LotteryResult, error) {
	var result []entity.LotteryResult
	err := xcontext.DB(ctx).
		Order("round DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
