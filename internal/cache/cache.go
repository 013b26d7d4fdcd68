// Package cache stores equity results in Redis, keyed by the canonical form
// of the query that produced them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lox/pokermath/equity"
	"github.com/lox/pokermath/poker"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pokermath:equity:v1:"

// Redis caches equity results.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an existing client. A zero ttl keeps entries forever.
func New(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return New(client, ttl), nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get returns a cached result. ok is false on a miss.
func (r *Redis) Get(ctx context.Context, key string) (equity.Result, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return equity.Result{}, false, nil
	}
	if err != nil {
		return equity.Result{}, false, fmt.Errorf("cache get: %w", err)
	}
	var res equity.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return equity.Result{}, false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return res, true, nil
}

// Set stores a result.
func (r *Redis) Set(ctx context.Context, key string, res equity.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Key builds the cache key for a calculation. Card order within a group
// and the order of villains do not change the result, so both are
// normalised.
func Key(p equity.Parsed, cfg equity.Config) string {
	villains := make([]string, len(p.Villains))
	for i, v := range p.Villains {
		villains[i] = canonical(v)
	}
	slices.Sort(villains)

	var sb strings.Builder
	sb.WriteString(keyPrefix)
	sb.WriteString(canonical(p.Hero))
	sb.WriteByte('|')
	sb.WriteString(strings.Join(villains, ","))
	sb.WriteByte('|')
	sb.WriteString(canonical(p.Board))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(cfg.Trials))
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatFloat(cfg.ConvergenceThreshold, 'g', -1, 64))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(cfg.CheckInterval))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(cfg.Workers))
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatInt(cfg.Seed, 10))
	return sb.String()
}

// canonical renders cards in ascending dense index order.
func canonical(cards []poker.Card) string {
	sorted := slices.Clone(cards)
	slices.SortFunc(sorted, func(a, b poker.Card) int {
		return int(a.Index()) - int(b.Index())
	})
	return poker.FormatCards(sorted)
}
