package entity

import (
	"context"

	"github.com/zetabot-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Community{},
		&BalanceAccount{},
		&CooldownRecord{},
		&CooldownSetting{},
		&LotteryRound{},
		&LotteryTicket{},
		&LotteryResult{},
		&Transaction{},
	)
}
