package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zetabot-lab/backend/internal/model"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/testutil"
)

func Test_communityDomain_CreateAndNotifyTarget(t *testing.T) {
	ctx := testutil.MockContext()
	communityRepo := repository.NewCommunityRepository()
	communityDomain := NewCommunityDomain(communityRepo)

	resp, err := communityDomain.CreateCommunity(ctx, &model.CreateCommunityRequest{
		Handle:      "community3",
		DisplayName: "Community Three",
	})
	require.NoError(t, err)
	require.Equal(t, "community3", resp.Community.Handle)

	_, err = communityDomain.CreateCommunity(ctx, &model.CreateCommunityRequest{
		Handle: "",
	})
	require.Error(t, err)

	_, err = communityDomain.CreateCommunity(ctx, &model.CreateCommunityRequest{
		Handle: "community3",
	})
	require.ErrorContains(t, err, "Duplicated handle")

	_, err = communityDomain.SetNotifyTarget(ctx, &model.SetNotifyTargetRequest{
		CommunityHandle: "community3",
		NotifyTarget:    "channel3",
	})
	require.NoError(t, err)

	community, err := communityRepo.GetByHandle(ctx, "community3")
	require.NoError(t, err)
	require.Equal(t, "channel3", community.NotifyTarget)

	notifiable, err := communityRepo.GetNotifiable(ctx)
	require.NoError(t, err)
	require.Len(t, notifiable, 2)
}
