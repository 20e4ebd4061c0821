package gamelog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/proplab/proplab/internal/domain"
)

// queryTimeout bounds each database round trip.
const queryTimeout = 10 * time.Second

type gameLogRow struct {
	Date           time.Time      `db:"game_date"`
	PlayerName     string         `db:"player_name"`
	PrimaryStatKey string         `db:"primary_stat_key"`
	Stats          types.JSONText `db:"stats"`
	PropLines      types.JSONText `db:"prop_lines"`
	Context        types.JSONText `db:"context"`
}

func (r gameLogRow) toDomain() (domain.EnrichedGameLog, error) {
	gl := domain.EnrichedGameLog{
		Date:           r.Date,
		PlayerName:     r.PlayerName,
		PrimaryStatKey: r.PrimaryStatKey,
	}
	if err := json.Unmarshal(r.Stats, &gl.Stats); err != nil {
		return domain.EnrichedGameLog{}, fmt.Errorf("decode stats for %s: %w", r.PlayerName, err)
	}
	if err := json.Unmarshal(r.PropLines, &gl.PropLines); err != nil {
		return domain.EnrichedGameLog{}, fmt.Errorf("decode prop lines for %s: %w", r.PlayerName, err)
	}
	if len(r.Context) > 0 {
		if err := json.Unmarshal(r.Context, &gl.Context); err != nil {
			return domain.EnrichedGameLog{}, fmt.Errorf("decode context for %s: %w", r.PlayerName, err)
		}
	}
	return gl, nil
}

// PostgresProvider reads game logs from the game_logs table.
type PostgresProvider struct {
	db *sqlx.DB
}

// NewPostgresProvider wraps an open connection pool.
func NewPostgresProvider(db *sqlx.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

// OpenPostgres connects to the given DSN and verifies the connection.
func OpenPostgres(dsn string) (*PostgresProvider, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return NewPostgresProvider(db), nil
}

// FetchGameLogs returns logs for the sport in ascending date order, limited
// to the given seasons when any are supplied.
func (p *PostgresProvider) FetchGameLogs(ctx context.Context, sport string, seasons []string) ([]domain.EnrichedGameLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const base = `
		SELECT game_date, player_name, primary_stat_key,
		       stats, prop_lines, COALESCE(context, '{}'::jsonb) AS context
		FROM game_logs
		WHERE sport = $1`

	var rows []gameLogRow
	var err error
	if len(seasons) > 0 {
		err = p.db.SelectContext(ctx, &rows, base+` AND season = ANY($2) ORDER BY game_date`, sport, pq.Array(seasons))
	} else {
		err = p.db.SelectContext(ctx, &rows, base+` ORDER BY game_date`, sport)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch game logs: %w", err)
	}

	logs := make([]domain.EnrichedGameLog, 0, len(rows))
	for _, row := range rows {
		gl, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		logs = append(logs, gl)
	}
	return logs, nil
}

// Seasons lists the distinct season labels stored for a sport.
func (p *PostgresProvider) Seasons(ctx context.Context, sport string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var seasons []string
	err := p.db.SelectContext(ctx, &seasons,
		`SELECT DISTINCT season FROM game_logs WHERE sport = $1 ORDER BY season`, sport)
	if err != nil {
		return nil, fmt.Errorf("fetch seasons: %w", err)
	}
	return seasons, nil
}
