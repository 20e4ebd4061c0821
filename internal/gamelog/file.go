package gamelog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proplab/proplab/internal/domain"
)

type fileRecord struct {
	Date           string                 `json:"date"`
	PlayerName     string                 `json:"player_name"`
	Sport          string                 `json:"sport"`
	Season         string                 `json:"season"`
	PrimaryStatKey string                 `json:"primary_stat_key"`
	Stats          map[string]float64     `json:"stats"`
	PropLines      map[string]float64     `json:"prop_lines"`
	Context        map[string]interface{} `json:"context"`
}

// FileProvider reads game logs from a JSON array on disk. It suits local
// experiments and fixtures, not large data sets: every call re-reads the
// whole file.
type FileProvider struct {
	path string
}

// NewFileProvider returns a provider backed by the given JSON file.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) load() ([]fileRecord, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read game logs: %w", err)
	}
	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse game logs: %w", err)
	}
	return records, nil
}

// FetchGameLogs filters the file's records by sport (case-insensitive) and,
// when seasons are given, by season label. Records with unparseable dates are
// skipped with a warning rather than failing the whole load.
func (p *FileProvider) FetchGameLogs(_ context.Context, sport string, seasons []string) ([]domain.EnrichedGameLog, error) {
	records, err := p.load()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(seasons))
	for _, s := range seasons {
		wanted[s] = true
	}

	logs := make([]domain.EnrichedGameLog, 0, len(records))
	for _, rec := range records {
		if sport != "" && !strings.EqualFold(rec.Sport, sport) {
			continue
		}
		if len(wanted) > 0 && !wanted[rec.Season] {
			continue
		}
		date, err := parseDate(rec.Date)
		if err != nil {
			log.Warn().
				Str("date", rec.Date).
				Str("player", rec.PlayerName).
				Msg("skipping record with unparseable date")
			continue
		}
		logs = append(logs, domain.EnrichedGameLog{
			Date:           date,
			PlayerName:     rec.PlayerName,
			PrimaryStatKey: rec.PrimaryStatKey,
			Stats:          rec.Stats,
			PropLines:      rec.PropLines,
			Context:        rec.Context,
		})
	}
	return logs, nil
}

// Seasons returns the distinct season labels for a sport, sorted.
func (p *FileProvider) Seasons(_ context.Context, sport string) ([]string, error) {
	records, err := p.load()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	seasons := []string{}
	for _, rec := range records {
		if sport != "" && !strings.EqualFold(rec.Sport, sport) {
			continue
		}
		if rec.Season == "" || seen[rec.Season] {
			continue
		}
		seen[rec.Season] = true
		seasons = append(seasons, rec.Season)
	}
	sort.Strings(seasons)
	return seasons, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
