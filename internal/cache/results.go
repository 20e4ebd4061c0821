package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proplab/proplab/internal/domain"
)

const resultKeyPrefix = "backtest:result:"

// ResultCache stores finished backtest results keyed by request fingerprint.
type ResultCache struct {
	cache Cache
	ttl   time.Duration
}

// NewResultCache wraps a byte cache with result marshalling and a fixed TTL.
func NewResultCache(c Cache, ttl time.Duration) *ResultCache {
	return &ResultCache{cache: c, ttl: ttl}
}

// Get returns the cached result for a fingerprint, if present and decodable.
func (rc *ResultCache) Get(ctx context.Context, fingerprint string) (domain.BacktestResult, bool) {
	raw, ok := rc.cache.Get(ctx, resultKeyPrefix+fingerprint)
	if !ok {
		return domain.BacktestResult{}, false
	}

	var res domain.BacktestResult
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Debug().Err(err).Str("fingerprint", fingerprint).Msg("cached result corrupt, ignoring")
		return domain.BacktestResult{}, false
	}
	return res, true
}

// Put stores a result under its fingerprint.
func (rc *ResultCache) Put(ctx context.Context, fingerprint string, res domain.BacktestResult) {
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	rc.cache.Set(ctx, resultKeyPrefix+fingerprint, raw, rc.ttl)
}
