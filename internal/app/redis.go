package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ridehail/internal/config"
)

// NewRedisClient connects to the Redis that backs verification codes, the
// driver cache and idempotent responses. Commands are traced as New Relic
// datastore segments when nrApp is set.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.CallTimeout,
		WriteTimeout: cfg.CallTimeout,
	})
	if nrApp != nil {
		client.AddHook(datastoreHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// keyspace names the store a command touches by the first two segments of
// its key, e.g. "auth:code" or "cache:driver".
func keyspace(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return "redis"
	}
	key, ok := args[1].(string)
	if !ok {
		return "redis"
	}
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return "redis"
	}
	return parts[0] + ":" + parts[1]
}

// datastoreHook records each command against the request's transaction.
type datastoreHook struct{}

func (datastoreHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (datastoreHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			seg := &newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  cmd.Name(),
				Collection: keyspace(cmd),
			}
			defer seg.End()
		}
		return next(ctx, cmd)
	}
}

func (datastoreHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil && len(cmds) > 0 {
			seg := &newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  "pipeline",
				Collection: keyspace(cmds[0]),
			}
			defer seg.End()
		}
		return next(ctx, cmds)
	}
}
