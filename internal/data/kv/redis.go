package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	Channel  string `yaml:"channel"`
}

// NewRedisClient dials and pings.
func NewRedisClient(cfg RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type Redis struct {
	rdb    goredis.UniversalClient
	prefix string
	log    *logger.Logger
}

func NewRedis(rdb goredis.UniversalClient, prefix string, log *logger.Logger) *Redis {
	if prefix == "" {
		prefix = "curriculum:"
	}
	return &Redis{rdb: rdb, prefix: prefix, log: log.With("service", "RedisKV")}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.prefix+key).Err()
}
