// Package gamelog loads enriched historical game logs from local files or
// Postgres.
package gamelog

import (
	"context"

	"github.com/proplab/proplab/internal/domain"
)

// Provider supplies historical game logs for a sport and season set.
type Provider interface {
	// FetchGameLogs returns logs for the sport, limited to the given
	// seasons when any are supplied.
	FetchGameLogs(ctx context.Context, sport string, seasons []string) ([]domain.EnrichedGameLog, error)
	// Seasons lists the distinct season labels available for the sport.
	Seasons(ctx context.Context, sport string) ([]string, error)
}
