package model

import (
	"time"

	"github.com/zetabot-lab/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertLotteryTicket(ticket *entity.LotteryTicket, communityHandle string) LotteryTicket {
	if ticket == nil {
		return LotteryTicket{}
	}

	return LotteryTicket{
		Serial:          ticket.Serial,
		Round:           ticket.Round,
		CommunityHandle: communityHandle,
		BoughtAt:        ticket.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertLotteryResult(result *entity.LotteryResult) LotteryResult {
	if result == nil {
		return LotteryResult{}
	}

	return LotteryResult{
		Round:          result.Round,
		WinningSerials: result.Tier1Serials,
		DrawnAt:        result.DrawnAt.Format(DefaultTimeLayout),
		TicketCount:    result.TicketCount,
	}
}

func ConvertCommunity(community *entity.Community) Community {
	if community == nil {
		return Community{}
	}

	return Community{
		Handle:       community.Handle,
		DisplayName:  community.DisplayName,
		NotifyTarget: community.NotifyTarget,
	}
}
