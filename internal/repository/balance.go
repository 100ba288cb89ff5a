package repository

import (
	"context"

	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepository interface {
	Get(ctx context.Context, userID, communityID string) (*entity.BalanceAccount, error)
	GetOrCreate(ctx context.Context, userID, communityID string) (*entity.BalanceAccount, error)
	AddWallet(ctx context.Context, userID, communityID string, amount int64) error
	SubtractWallet(ctx context.Context, userID, communityID string, amount int64) error
	AddBank(ctx context.Context, userID, communityID string, amount int64) error
	SubtractBank(ctx context.Context, userID, communityID string, amount int64) error
	WalletToBank(ctx context.Context, userID, communityID string, amount int64) error
	TransferBank(ctx context.Context, fromUserID, toUserID, communityID string, amount int64) error
}

type balanceRepository struct{}

func NewBalanceRepository() *balanceRepository {
	return &balanceRepository{}
}

func (r *balanceRepository) Get(
	ctx context.Context, userID, communityID string,
) (*entity.BalanceAccount, error) {
	var result entity.BalanceAccount
	err := xcontext.DB(ctx).
		Take(&result, "user_id=? AND community_id=?", userID, communityID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *balanceRepository) GetOrCreate(
	ctx context.Context, userID, communityID string,
) (*entity.BalanceAccount, error) {
	account := entity.BalanceAccount{UserID: userID, CommunityID: communityID}
	err := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&account).Error
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, userID, communityID)
}

// AddWallet credits the wallet. The amount must not be negative; use
// SubtractWallet for debits so the non-negative guard applies.
func (r *balanceRepository) AddWallet(
	ctx context.Context, userID, communityID string, amount int64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.BalanceAccount{}).
		Where("user_id=? AND community_id=?", userID, communityID).
		Update("wallet", gorm.Expr("wallet+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SubtractWallet debits the wallet only when the balance covers the amount.
// It returns gorm.ErrRecordNotFound when the account is missing or short.
func (r *balanceRepository) SubtractWallet(
	ctx context.Context, userID, communityID string, amount int64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.BalanceAccount{}).
		Where("user_id=? AND community_id=? AND wallet >= ?", userID, communityID, amount).
		Update("wallet", gorm.Expr("wallet-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *balanceRepository) AddBank(
	ctx context.Context, userID, communityID string, amount int64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.BalanceAccount{}).
		Where("user_id=? AND community_id=?", userID, communityID).
		Update("bank", gorm.Expr("bank+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *balanceRepository) SubtractBank(
	ctx context.Context, userID, communityID string, amount int64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.BalanceAccount{}).
		Where("user_id=? AND community_id=? AND bank >= ?", userID, communityID, amount).
		Update("bank", gorm.Expr("bank-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// WalletToBank moves funds within one account as a single guarded update.
// Both columns change in one statement or neither does; it returns
// gorm.ErrRecordNotFound when the account is missing or the wallet is short.
func (r *balanceRepository) WalletToBank(
	ctx context.Context, userID, communityID string, amount int64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.BalanceAccount{}).
		Where("user_id=? AND community_id=? AND wallet >= ?", userID, communityID, amount).
		Updates(map[string]any{
			"wallet": gorm.Expr("wallet-?", amount),
			"bank":   gorm.Expr("bank+?", amount),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// TransferBank moves bank funds between two accounts of the same community.
// The caller must run it inside a database transaction so a failed credit
// rolls the debit back.
func (r *balanceRepository) TransferBank(
	ctx context.Context, fromUserID, toUserID, communityID string, amount int64,
) error {
	if err := r.SubtractBank(ctx, fromUserID, communityID, amount); err != nil {
		return err
	}

	return r.AddBank(ctx, toUserID, communityID, amount)
}
