package gamelog

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplab/proplab/internal/domain"
)

type stubProvider struct {
	calls int
	err   error
	logs  []domain.EnrichedGameLog
}

func (s *stubProvider) FetchGameLogs(context.Context, string, []string) ([]domain.EnrichedGameLog, error) {
	s.calls++
	return s.logs, s.err
}

func (s *stubProvider) Seasons(context.Context, string) ([]string, error) {
	s.calls++
	return []string{"2023-24"}, s.err
}

func TestBreakerProviderPassesThrough(t *testing.T) {
	stub := &stubProvider{logs: []domain.EnrichedGameLog{{PlayerName: "Jalen Carter"}}}
	p := NewBreakerProvider(stub)

	logs, err := p.FetchGameLogs(context.Background(), "nba", nil)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Jalen Carter", logs[0].PlayerName)

	seasons, err := p.Seasons(context.Background(), "nba")
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-24"}, seasons)
	assert.Equal(t, 2, stub.calls)
}

func TestBreakerProviderOpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("connection refused")
	stub := &stubProvider{err: boom}
	p := NewBreakerProvider(stub)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := p.FetchGameLogs(ctx, "nba", nil)
		require.ErrorIs(t, err, boom, "failure %d reaches the caller", i+1)
	}
	assert.Equal(t, 5, stub.calls)

	_, err := p.FetchGameLogs(ctx, "nba", nil)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, stub.calls, "open breaker stops calling the backing provider")
}
