package xredis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/zetabot-lab/backend/pkg/pubsub"
)

// publisher sends packs over redis pub/sub. Delivery is best effort, which
// is all the notification path asks for.
type publisher struct {
	redisClient *redis.Client
}

func NewPublisher(redisClient *redis.Client) pubsub.Publisher {
	return &publisher{redisClient: redisClient}
}

func (p *publisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	return p.redisClient.Publish(ctx, topic, pack.Msg).Err()
}

func (p *publisher) Stop(ctx context.Context) error {
	return p.redisClient.Close()
}
