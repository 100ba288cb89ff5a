package repository

import (
	"context"

	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CommunityRepository interface {
	Create(ctx context.Context, community *entity.Community) error
	GetByID(ctx context.Context, id string) (*entity.Community, error)
	GetByHandle(ctx context.Context, handle string) (*entity.Community, error)
	UpdateNotifyTarget(ctx context.Context, id, target string) error
	GetNotifiable(ctx context.Context) ([]entity.Community, error)
}

type communityRepository struct{}

func NewCommunityRepository() *communityRepository {
	return &communityRepository{}
}

func (r *communityRepository) Create(ctx context.Context, community *entity.Community) error {
	return xcontext.DB(ctx).Create(community).Error
}

func (r *communityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	var result entity.Community
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *communityRepository) GetByHandle(ctx context.Context, handle string) (*entity.Community, error) {
	var result entity.Community
	if err := xcontext.DB(ctx).Take(&result, "handle=?", handle).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *communityRepository) UpdateNotifyTarget(ctx context.Context, id, target string) error {
	tx := xcontext.DB(ctx).Model(&entity.Community{}).
		Where("id=?", id).
		Update("notify_target", target)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *communityRepository) GetNotifiable(ctx context.Context) ([]entity.Community, error) {
	var result []entity.Community
	if err := xcontext.DB(ctx).Find(&result, "notify_target <> ''").Error; err != nil {
		return nil, err
	}

	return result, nil
}
