package common

import (
	"context"
	"errors"
	"time"

	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// CooldownGate answers whether a rate-limited action is ready for a user
// and stamps a new expiry when the action is taken. Durations come from
// the community override map with the configured defaults as fallback; a
// duration of zero disables the category entirely.
type CooldownGate struct {
	cooldownRepo repository.CooldownRepository
}

func NewCooldownGate(cooldownRepo repository.CooldownRepository) *CooldownGate {
	return &CooldownGate{cooldownRepo: cooldownRepo}
}

func (g *CooldownGate) Duration(
	ctx context.Context, communityID string, category entity.CooldownCategory,
) time.Duration {
	seconds, ok := xcontext.Configs(ctx).Cooldown.Defaults[string(category)]

	setting, err := g.cooldownRepo.GetSetting(ctx, communityID)
	if err == nil {
		if override, found := asSeconds(setting.Cooldowns[string(category)]); found {
			seconds, ok = override, true
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot get cooldown setting: %v", err)
	}

	if !ok {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

// Check returns the remaining wait of (user, community, category). Zero
// means the action is ready. A failed check never mutates anything.
func (g *CooldownGate) Check(
	ctx context.Context, userID, communityID string, category entity.CooldownCategory,
) (time.Duration, error) {
	record, err := g.cooldownRepo.GetRecord(ctx, userID, communityID, category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		return 0, err
	}

	remaining := time.Until(record.ExpiresAt)
	if remaining < 0 {
		return 0, nil
	}

	return remaining, nil
}

// Stamp sets the expiry of (user, community, category) to now plus the
// configured duration. A disabled category is a no-op.
func (g *CooldownGate) Stamp(
	ctx context.Context, userID, communityID string, category entity.CooldownCategory,
) error {
	duration := g.Duration(ctx, communityID, category)
	if duration == 0 {
		return nil
	}

	return g.StampFor(ctx, userID, communityID, category, duration)
}

// StampFor is Stamp with an explicit duration, used for categories whose
// duration is fixed rather than configured, like the robbed stamp.
func (g *CooldownGate) StampFor(
	ctx context.Context, userID, communityID string,
	category entity.CooldownCategory, duration time.Duration,
) error {
	return g.cooldownRepo.UpsertRecord(ctx, &entity.CooldownRecord{
		UserID:      userID,
		CommunityID: communityID,
		Category:    category,
		ExpiresAt:   time.Now().Add(duration),
	})
}

func asSeconds(value any) (int64, bool) {
	switch t := value.(type) {
	case int64:
		return t, true
	case float64:
		// JSON round trip of entity.Map turns numbers into float64.
		return int64(t), true
	case int:
		return int64(t), true
	default:
		return 0, false
	}
}
