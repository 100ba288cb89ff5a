package repository

import (
	"context"
	"time"

	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type CooldownRepository interface {
	GetRecord(ctx context.Context, userID, communityID string, category entity.CooldownCategory) (*entity.CooldownRecord, error)
	GetRecordsByUser(ctx context.Context, userID, communityID string) ([]entity.CooldownRecord, error)
	UpsertRecord(ctx context.Context, record *entity.CooldownRecord) error
	DeleteRecord(ctx context.Context, userID, communityID string, category entity.CooldownCategory) error
	GetSetting(ctx context.Context, communityID string) (*entity.CooldownSetting, error)
	UpsertSetting(ctx context.Context, communityID string, category entity.CooldownCategory, seconds int64) error
}

type cooldownRepository struct{}

func NewCooldownRepository() *cooldownRepository {
	return &cooldownRepository{}
}

func (r *cooldownRepository) GetRecord(
	ctx context.Context, userID, communityID string, category entity.CooldownCategory,
) (*entity.CooldownRecord, error) {
	var result entity.CooldownRecord
	err := xcontext.DB(ctx).
		Take(&result, "user_id=? AND community_id=? AND category=?",
			userID, communityID, category).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *cooldownRepository) GetRecordsByUser(
	ctx context.Context, userID, communityID string,
) ([]entity.CooldownRecord, error) {
	var result []entity.CooldownRecord
	err := xcontext.DB(ctx).
		Find(&result, "user_id=? AND community_id=? AND expires_at > ?",
			userID, communityID, time.Now()).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpsertRecord stamps an expiry but never shortens one already on record, so
// concurrent stampers keep the latest instant.
func (r *cooldownRepository) UpsertRecord(
	ctx context.Context, record *entity.CooldownRecord,
) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "community_id"}, {Name: "category"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"expires_at": record.ExpiresAt,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Lt{
					Column: clause.Column{Name: "expires_at"},
					Value:  record.ExpiresAt,
				},
			}},
		}).
		Create(record).Error
}

func (r *cooldownRepository) DeleteRecord(
	ctx context.Context, userID, communityID string, category entity.CooldownCategory,
) error {
	return xcontext.DB(ctx).
		Where("user_id=? AND community_id=? AND category=?", userID, communityID, category).
		Delete(&entity.CooldownRecord{}).Error
}

func (r *cooldownRepository) GetSetting(
	ctx context.Context, communityID string,
) (*entity.CooldownSetting, error) {
	var result entity.CooldownSetting
	err := xcontext.DB(ctx).Take(&result, "community_id=?", communityID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *cooldownRepository) UpsertSetting(
	ctx context.Context, communityID string, category entity.CooldownCategory, seconds int64,
) error {
	setting, err := r.GetSetting(ctx, communityID)
	if err != nil {
		setting = &entity.CooldownSetting{
			CommunityID: communityID,
			Cooldowns:   entity.Map{},
		}
	}

	if setting.Cooldowns == nil {
		setting.Cooldowns = entity.Map{}
	}
	setting.Cooldowns[string(category)] = seconds

	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"cooldowns"}),
		}).
		Create(setting).Error
}
