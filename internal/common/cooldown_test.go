package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/testutil"
)

func Test_CooldownGate_CheckAndStamp(t *testing.T) {
	ctx := testutil.MockContext()
	gate := NewCooldownGate(repository.NewCooldownRepository())

	// A category never stamped is ready.
	remaining, err := gate.Check(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownWork)
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), remaining)

	require.NoError(t, gate.Stamp(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownWork))

	// Now the remaining wait is positive and bounded by the configured
	// duration.
	remaining, err = gate.Check(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownWork)
	require.NoError(t, err)
	require.Greater(t, remaining, time.Duration(0))
	require.LessOrEqual(t, remaining, time.Hour)

	// Another user and another category are unaffected.
	remaining, err = gate.Check(ctx, testutil.User2.ID, testutil.Community1.ID, entity.CooldownWork)
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), remaining)

	remaining, err = gate.Check(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownFish)
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), remaining)
}

func Test_CooldownGate_MonotonicExpiry(t *testing.T) {
	ctx := testutil.MockContext()
	gate := NewCooldownGate(repository.NewCooldownRepository())

	require.NoError(t, gate.StampFor(
		ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownWork, time.Hour))

	before, err := gate.Check(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownWork)
	require.NoError(t, err)

	// A shorter stamp never pulls an expiry backward.
	require.NoError(t, gate.StampFor(
		ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownWork, time.Second))

	after, err := gate.Check(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownWork)
	require.NoError(t, err)
	require.Greater(t, after, 55*time.Minute)
	require.LessOrEqual(t, after, before)

	// A longer stamp extends it.
	require.NoError(t, gate.StampFor(
		ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownWork, 2*time.Hour))

	extended, err := gate.Check(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownWork)
	require.NoError(t, err)
	require.Greater(t, extended, time.Hour)
}

func Test_CooldownGate_ExpiredIsReady(t *testing.T) {
	ctx := testutil.MockContext()
	gate := NewCooldownGate(repository.NewCooldownRepository())

	require.NoError(t, gate.StampFor(
		ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownBeg, -time.Second))

	remaining, err := gate.Check(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownBeg)
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), remaining)
}

func Test_CooldownGate_CommunityOverrides(t *testing.T) {
	ctx := testutil.MockContext()
	cooldownRepo := repository.NewCooldownRepository()
	gate := NewCooldownGate(cooldownRepo)

	// The default applies when the community holds no override.
	require.Equal(t, time.Hour,
		gate.Duration(ctx, testutil.Community1.ID, entity.CooldownWork))

	require.NoError(t, cooldownRepo.UpsertSetting(
		ctx, testutil.Community1.ID, entity.CooldownWork, 120))
	require.Equal(t, 2*time.Minute,
		gate.Duration(ctx, testutil.Community1.ID, entity.CooldownWork))

	// Another community still sees the default.
	require.Equal(t, time.Hour,
		gate.Duration(ctx, testutil.Community2.ID, entity.CooldownWork))

	// A zero override disables the category: stamping becomes a no-op.
	require.NoError(t, cooldownRepo.UpsertSetting(
		ctx, testutil.Community1.ID, entity.CooldownFish, 0))
	require.Equal(t, time.Duration(0),
		gate.Duration(ctx, testutil.Community1.ID, entity.CooldownFish))

	require.NoError(t, gate.Stamp(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownFish))
	remaining, err := gate.Check(ctx, testutil.User1.ID, testutil.Community1.ID, entity.CooldownFish)
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), remaining)
}
