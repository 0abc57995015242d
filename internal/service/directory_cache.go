package service

import (
	"context"
	"encoding/json"
	"time"

	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Directory resolves person ids to display names in one batched call
type Directory interface {
	LookupNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.PersonName, error)
}

// Redis key prefix for cached directory entries
const RedisDirectoryKeyPrefix = "directory:person:"

// CachedDirectory is a read-through Redis cache in front of the directory.
// A Redis failure falls back to the upstream directory.
type CachedDirectory struct {
	upstream    Directory
	redisClient *redis.Client
	ttl         time.Duration
	log         *logrus.Logger
}

func NewCachedDirectory(upstream Directory, redisClient *redis.Client, ttl time.Duration, log *logrus.Logger) *CachedDirectory {
	return &CachedDirectory{
		upstream:    upstream,
		redisClient: redisClient,
		ttl:         ttl,
		log:         log,
	}
}

func (d *CachedDirectory) LookupNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.PersonName, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]entity.PersonName{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = RedisDirectoryKeyPrefix + id.String()
	}

	cached, err := d.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		d.log.Warnf("Directory cache unavailable, querying upstream: %+v", err)
		return d.upstream.LookupNames(ctx, ids)
	}

	names := make(map[uuid.UUID]entity.PersonName, len(ids))
	var missing []uuid.UUID
	for i, value := range cached {
		raw, ok := value.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var name entity.PersonName
		if err := json.Unmarshal([]byte(raw), &name); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		names[ids[i]] = name
	}

	if len(missing) == 0 {
		return names, nil
	}

	fetched, lookupErr := d.upstream.LookupNames(ctx, missing)
	if len(fetched) > 0 {
		pipe := d.redisClient.TxPipeline()
		for id, name := range fetched {
			payload, err := json.Marshal(name)
			if err != nil {
				continue
			}
			pipe.Set(ctx, RedisDirectoryKeyPrefix+id.String(), payload, d.ttl)
			names[id] = name
		}
		if _, err := pipe.Exec(ctx); err != nil {
			d.log.Warnf("Failed to cache %d directory entries: %+v", len(fetched), err)
		}
	}

	return names, lookupErr
}
