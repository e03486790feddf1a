package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures ConnectRedis.
type RedisConfig struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // ConnectionURL is in the format "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`             // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`            // RetryInterval is the pause between attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`          // ConnectTimeout bounds the whole connection procedure.
}

// ConnectRedis connects to Redis, retrying up to cfg.RetryAttempts times.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}

// setMembership is the subset of redis.Cmdable RedisSet needs.
type setMembership interface {
	SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd
}

// RedisSet checks membership in a Redis set, e.g. "usernames".
type RedisSet struct {
	client setMembership
	key    string
}

// NewRedisSet returns a checker over the set stored at key.
func NewRedisSet(client setMembership, key string) *RedisSet {
	return &RedisSet{client: client, key: key}
}

func (s *RedisSet) Exists(ctx context.Context, value string) (bool, error) {
	return s.client.SIsMember(ctx, s.key, value).Result()
}

// RedisHealthcheck returns a probe for client.
func RedisHealthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
