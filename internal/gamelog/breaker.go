package gamelog

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/proplab/proplab/internal/domain"
)

// BreakerProvider shields a flaky backing provider with a circuit breaker so
// repeated failures return fast instead of piling up timeouts.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps inner with a breaker that opens after five
// consecutive failures and probes again after a minute.
func NewBreakerProvider(inner Provider) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        "gamelog-provider",
		MaxRequests: 1,
		Interval:    2 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit state change")
		},
	}
	return &BreakerProvider{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (p *BreakerProvider) FetchGameLogs(ctx context.Context, sport string, seasons []string) ([]domain.EnrichedGameLog, error) {
	out, err := p.cb.Execute(func() (interface{}, error) {
		return p.inner.FetchGameLogs(ctx, sport, seasons)
	})
	if err != nil {
		return nil, err
	}
	return out.([]domain.EnrichedGameLog), nil
}

func (p *BreakerProvider) Seasons(ctx context.Context, sport string) ([]string, error) {
	out, err := p.cb.Execute(func() (interface{}, error) {
		return p.inner.Seasons(ctx, sport)
	})
	if err != nil {
		return nil, err
	}
	return out.([]string), nil
}
