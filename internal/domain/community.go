package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/internal/model"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/errorx"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CommunityDomain interface {
	CreateCommunity(context.Context, *model.CreateCommunityRequest) (*model.CreateCommunityResponse, error)
	SetNotifyTarget(context.Context, *model.SetNotifyTargetRequest) (*model.SetNotifyTargetResponse, error)
}

type communityDomain struct {
	communityRepo repository.CommunityRepository
}

func NewCommunityDomain(communityRepo repository.CommunityRepository) *communityDomain {
	return &communityDomain{communityRepo: communityRepo}
}

func (d *communityDomain) CreateCommunity(
	ctx context.Context, req *model.CreateCommunityRequest,
) (*model.CreateCommunityResponse, error) {
	if req.Handle == "" {
		return nil, errorx.New(errorx.BadRequest, "The handle must not be empty")
	}

	_, err := d.communityRepo.GetByHandle(ctx, req.Handle)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get community by handle: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.AlreadyExists, "Duplicated handle")
	}

	community := &entity.Community{
		Base:        entity.Base{ID: uuid.NewString()},
		Handle:      req.Handle,
		DisplayName: req.DisplayName,
	}

	if err := d.communityRepo.Create(ctx, community); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create community: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCommunityResponse{
		Community: model.ConvertCommunity(community),
	}, nil
}

func (d *communityDomain) SetNotifyTarget(
	ctx context.Context, req *model.SetNotifyTargetRequest,
) (*model.SetNotifyTargetResponse, error) {
	community, err := d.communityRepo.GetByHandle(ctx, req.CommunityHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.communityRepo.UpdateNotifyTarget(ctx, community.ID, req.NotifyTarget); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update notify target: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SetNotifyTargetResponse{}, nil
}
