package calcstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/risk"
)

const keyPrefix = "tradejournal:calc_state:"

// Redis stores entries as JSON with a one hour key TTL. The entry
// timestamp is checked on load as well.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

// Dial connects and pings before returning the store.
func Dial(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedis(client), nil
}

func (r *Redis) Save(ctx context.Context, key string, in risk.SizingInput) error {
	data, err := json.Marshal(NewEntry(in, r.now()))
	if err != nil {
		return fmt.Errorf("marshal calc state: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, TTL).Err(); err != nil {
		return fmt.Errorf("save calc state: %w", err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, key string) (risk.SizingInput, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCache("miss")
		return risk.SizingInput{}, false, nil
	}
	if err != nil {
		metrics.RecordCache("error")
		return risk.SizingInput{}, false, fmt.Errorf("load calc state: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// unreadable entries are dropped like expired ones
		_ = r.client.Del(ctx, keyPrefix+key).Err()
		metrics.RecordCache("error")
		return risk.SizingInput{}, false, nil
	}
	if e.Expired(r.now()) {
		if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
			return risk.SizingInput{}, false, fmt.Errorf("drop expired calc state: %w", err)
		}
		metrics.RecordCache("expired")
		return risk.SizingInput{}, false, nil
	}

	metrics.RecordCache("hit")
	return e.Data, true, nil
}

func (r *Redis) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("clear calc state: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
