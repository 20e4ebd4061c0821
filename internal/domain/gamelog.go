package domain

import "time"

// EnrichedGameLog is one player-game record: box-score stats keyed by stat
// name, the prop lines posted for that game (which may omit the primary
// stat), and any derived context the field registry can read. Logs are
// supplied externally and treated as read-only.
type EnrichedGameLog struct {
	Date           time.Time              `json:"date"`
	PlayerName     string                 `json:"player_name"`
	PrimaryStatKey string                 `json:"primary_stat_key"`
	Stats          map[string]float64     `json:"stats"`
	PropLines      map[string]float64     `json:"prop_lines"`
	Context        map[string]interface{} `json:"context,omitempty"`
}

// Stat returns a box-score value by name.
func (gl EnrichedGameLog) Stat(name string) (float64, bool) {
	v, ok := gl.Stats[name]
	return v, ok
}

// PropLine returns a posted line by stat name.
func (gl EnrichedGameLog) PropLine(name string) (float64, bool) {
	v, ok := gl.PropLines[name]
	return v, ok
}
