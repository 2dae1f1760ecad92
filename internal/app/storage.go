package app

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/kv"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/services"
)

func wireStagingKV(cfg Config, reposet repos.Repos, rdb goredis.UniversalClient, log *logger.Logger) (kv.Store, error) {
	switch strings.ToLower(cfg.Staging.Backend) {
	case StagingMemory:
		log.Warn("Staging is in memory; documents are lost on restart")
		return kv.NewMemory(), nil
	case StagingFile:
		return kv.NewFile(cfg.Staging.Dir)
	case StagingDB:
		return kv.NewDB(reposet.KVEntry), nil
	case StagingRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis staging backend without a redis client")
		}
		return kv.NewRedis(rdb, cfg.Redis.Prefix, log), nil
	default:
		return nil, fmt.Errorf("unknown staging backend %q", cfg.Staging.Backend)
	}
}

func wireProgressSink(cfg Config, rdb goredis.UniversalClient, log *logger.Logger) services.ProgressSink {
	logSink := services.NewLogProgressSink(log)
	if strings.EqualFold(cfg.Batch.ProgressSink, ProgressRedis) && rdb != nil {
		return services.NewMultiProgressSink(logSink, kv.NewRedisProgress(rdb, cfg.Redis.Channel))
	}
	return logSink
}
