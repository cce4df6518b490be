package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"phoneprice/internal/model"
)

const (
	keyPrefix  = "phoneprice:price:"
	DefaultTTL = 30 * 24 * time.Hour
)

// PriceChange is a model whose price differs from the previous run.
type PriceChange struct {
	Model string
	Old   string
	New   string
}

// PriceHistory remembers the last price seen for each model.
type PriceHistory struct {
	Client *redis.Client
	TTL    time.Duration
}

// Record stores the prices of recs and returns the ones that changed.
func (h *PriceHistory) Record(ctx context.Context, recs []model.NormalizedRecord) ([]PriceChange, error) {
	ttl := h.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	var changes []PriceChange
	for _, rec := range recs {
		key := keyPrefix + rec.Model

		old, err := h.Client.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return changes, fmt.Errorf("failed to read price of %q: %w", rec.Model, err)
		case old != rec.Price:
			changes = append(changes, PriceChange{Model: rec.Model, Old: old, New: rec.Price})
		}

		if err := h.Client.Set(ctx, key, rec.Price, ttl).Err(); err != nil {
			return changes, fmt.Errorf("failed to store price of %q: %w", rec.Model, err)
		}
	}
	return changes, nil
}

// Last returns the stored price for modelName, or "" when none is known.
func (h *PriceHistory) Last(ctx context.Context, modelName string) (string, error) {
	v, err := h.Client.Get(ctx, keyPrefix+modelName).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}
