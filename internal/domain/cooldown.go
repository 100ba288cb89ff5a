package domain

import (
	"context"
	"errors"

	"github.com/zetabot-lab/backend/internal/common"
	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/internal/model"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/enum"
	"github.com/zetabot-lab/backend/pkg/errorx"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CooldownDomain interface {
	SetCooldown(context.Context, *model.SetCooldownRequest) (*model.SetCooldownResponse, error)
	GetCooldownSettings(context.Context, *model.GetCooldownSettingsRequest) (*model.GetCooldownSettingsResponse, error)
	GetMyCooldowns(context.Context, *model.GetMyCooldownsRequest) (*model.GetMyCooldownsResponse, error)
	ClearCooldown(context.Context, *model.ClearCooldownRequest) (*model.ClearCooldownResponse, error)
}

type cooldownDomain struct {
	cooldownRepo  repository.CooldownRepository
	communityRepo repository.CommunityRepository
	cooldownGate  *common.CooldownGate
}

func NewCooldownDomain(
	cooldownRepo repository.CooldownRepository,
	communityRepo repository.CommunityRepository,
	cooldownGate *common.CooldownGate,
) *cooldownDomain {
	return &cooldownDomain{
		cooldownRepo:  cooldownRepo,
		communityRepo: communityRepo,
		cooldownGate:  cooldownGate,
	}
}

func (d *cooldownDomain) getCommunity(
	ctx context.Context, handle string,
) (*entity.Community, error) {
	community, err := d.communityRepo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	return community, nil
}

func (d *cooldownDomain) SetCooldown(
	ctx context.Context, req *model.SetCooldownRequest,
) (*model.SetCooldownResponse, error) {
	category, err := enum.ToEnum[entity.CooldownCategory](req.Category)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid cooldown category %s", req.Category)
	}

	if req.Seconds < 0 {
		return nil, errorx.New(errorx.BadRequest, "The duration must not be negative")
	}

	community, err := d.getCommunity(ctx, req.CommunityHandle)
	if err != nil {
		return nil, err
	}

	if err := d.cooldownRepo.UpsertSetting(ctx, community.ID, category, req.Seconds); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert cooldown setting: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SetCooldownResponse{}, nil
}

func (d *cooldownDomain) GetCooldownSettings(
	ctx context.Context, req *model.GetCooldownSettingsRequest,
) (*model.GetCooldownSettingsResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityHandle)
	if err != nil {
		return nil, err
	}

	cooldowns := map[string]int64{}
	for _, category := range entity.CooldownCategories {
		duration := d.cooldownGate.Duration(ctx, community.ID, category)
		cooldowns[string(category)] = int64(duration.Seconds())
	}

	return &model.GetCooldownSettingsResponse{Cooldowns: cooldowns}, nil
}

func (d *cooldownDomain) GetMyCooldowns(
	ctx context.Context, req *model.GetMyCooldownsRequest,
) (*model.GetMyCooldownsResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityHandle)
	if err != nil {
		return nil, err
	}

	records, err := d.cooldownRepo.GetRecordsByUser(ctx, xcontext.RequestUserID(ctx), community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get cooldown records: %v", err)
		return nil, errorx.Unknown
	}

	cooldowns := make([]model.Cooldown, 0, len(records))
	for _, record := range records {
		cooldowns = append(cooldowns, model.Cooldown{
			Category:  string(record.Category),
			ExpiresAt: record.ExpiresAt.Format(model.DefaultTimeLayout),
		})
	}

	return &model.GetMyCooldownsResponse{Cooldowns: cooldowns}, nil
}

func (d *cooldownDomain) ClearCooldown(
	ctx context.Context, req *model.ClearCooldownRequest,
) (*model.ClearCooldownResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityHandle)
	if err != nil {
		return nil, err
	}

	// The cast is deliberate: clearing accepts any category, including the
	// unregistered robbed stamp. Deleting a missing record does nothing.
	category := entity.CooldownCategory(req.Category)
	if err := d.cooldownRepo.DeleteRecord(ctx, req.UserID, community.ID, category); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete cooldown record: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClearCooldownResponse{}, nil
}
