package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByUser(ctx context.Context, userID, communityID string, limit int) ([]entity.Transaction, error)
}

type transactionRepository struct {
	idNode *snowflake.Node
}

func NewTransactionRepository(idNode *snowflake.Node) *transactionRepository {
	return &transactionRepository{idNode: idNode}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == 0 {
		tx.ID = r.idNode.Generate().Int64()
	}

	return xcontext.DB(ctx).Create(tx).Error
}

func (r *transactionRepository) GetByUser(
	ctx context.Context, userID, communityID string, limit int,
) ([]entity.Transaction, error) {
	var result []entity.Transaction
	err := xcontext.DB(ctx).
		Where("community_id=? AND (actor_id=? OR target_id=?)", communityID, userID, userID).
		Order("id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
