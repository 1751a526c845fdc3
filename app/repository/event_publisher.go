package repository

import (
	"context"

	"complaint-tracker-backend/app/model"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// EventPublisher menyiarkan event lifecycle ke Redis Pub/Sub
// (misal untuk notifikasi realtime ke dashboard warden).
type EventPublisher interface {
	Publish(ctx context.Context, ev model.ComplaintEvent) error
}

type redisEventPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewEventPublisher: rdb nil => publisher no-op.
func NewEventPublisher(rdb *redis.Client, channel string) EventPublisher {
	if rdb == nil {
		return noopEventPublisher{}
	}
	return &redisEventPublisher{rdb: rdb, channel: channel}
}

func (p *redisEventPublisher) Publish(ctx context.Context, ev model.ComplaintEvent) error {
	payload, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}

func encodeEvent(ev model.ComplaintEvent) (string, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, model.ComplaintEvent) error {
	return nil
}
