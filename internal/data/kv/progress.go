package kv

import (
	"context"
	"encoding/json"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/batch"
)

// RedisProgress fans batch progress out over a pub/sub channel.
type RedisProgress struct {
	rdb     goredis.UniversalClient
	channel string
}

func NewRedisProgress(rdb goredis.UniversalClient, channel string) *RedisProgress {
	if channel == "" {
		channel = "curriculum:batch-progress"
	}
	return &RedisProgress{rdb: rdb, channel: channel}
}

func (p *RedisProgress) Publish(ctx context.Context, progress batch.Progress) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, raw).Err()
}
