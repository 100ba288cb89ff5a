package domain

import (
	"context"
	"encoding/json"

	"github.com/fatih/structs"
	"github.com/zetabot-lab/backend/pkg/pubsub"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

type drawWinner struct {
	UserID          string `structs:"user_id"`
	CommunityHandle string `structs:"community_handle"`
	Amount          int64  `structs:"amount"`
}

type drawResultEvent struct {
	Type           string       `structs:"type"`
	Round          int64        `structs:"round"`
	WinningSerials []string     `structs:"winning_serials"`
	TicketCount    int          `structs:"ticket_count"`
	Winners        []drawWinner `structs:"winners"`
	DrawnAt        string       `structs:"drawn_at"`
}

type heistStartedEvent struct {
	Type            string `structs:"type"`
	CommunityHandle string `structs:"community_handle"`
	InitiatorID     string `structs:"initiator_id"`
	TargetID        string `structs:"target_id"`
	EndsAt          string `structs:"ends_at"`
}

type heistResultEvent struct {
	Type            string `structs:"type"`
	CommunityHandle string `structs:"community_handle"`
	Outcome         string `structs:"outcome"`
	InitiatorID     string `structs:"initiator_id"`
	TargetID        string `structs:"target_id"`
	CrewSize        int    `structs:"crew_size"`
	StolenTotal     int64  `structs:"stolen_total"`
	PerParticipant  int64  `structs:"per_participant"`
}

// publishEvent fans an event out on a best-effort basis. Delivery failures
// are logged and swallowed; they never propagate to the caller.
func publishEvent(ctx context.Context, publisher pubsub.Publisher, key string, event any) {
	if publisher == nil {
		return
	}

	msg, err := json.Marshal(structs.Map(event))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Notify.Topic
	pack := &pubsub.Pack{Key: []byte(key), Msg: msg}
	if err := publisher.Publish(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish event: %v", err)
	}
}
