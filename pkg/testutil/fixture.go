package testutil

import (
	"context"

	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

var (
	Community1 = entity.Community{
		Base:         entity.Base{ID: "community1"},
		Handle:       "community1",
		DisplayName:  "Community One",
		NotifyTarget: "channel1",
	}

	Community2 = entity.Community{
		Base:        entity.Base{ID: "community2"},
		Handle:      "community2",
		DisplayName: "Community Two",
	}

	User1 = entity.User{Base: entity.Base{ID: "user1"}, Name: "alice"}
	User2 = entity.User{Base: entity.Base{ID: "user2"}, Name: "bob"}
	User3 = entity.User{Base: entity.Base{ID: "user3"}, Name: "carol"}
	User4 = entity.User{Base: entity.Base{ID: "user4"}, Name: "dave"}
)

func CreateFixture(ctx context.Context) {
	insertCommunities(ctx)
	insertUsers(ctx)
	insertBalances(ctx)
}

func insertCommunities(ctx context.Context) {
	communityRepo := repository.NewCommunityRepository()
	for _, community := range []entity.Community{Community1, Community2} {
		community := community
		if err := communityRepo.Create(ctx, &community); err != nil {
			panic(err)
		}
	}
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{User1, User2, User3, User4} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

// insertBalances funds every user in Community1 with a wallet of 100_000
// and a bank of 50_000.
func insertBalances(ctx context.Context) {
	for _, user := range []entity.User{User1, User2, User3, User4} {
		account := entity.BalanceAccount{
			UserID:      user.ID,
			CommunityID: Community1.ID,
			Wallet:      100_000,
			Bank:        50_000,
		}
		if err := xcontext.DB(ctx).Create(&account).Error; err != nil {
			panic(err)
		}
	}
}
