package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/proplab/proplab/internal/domain"
)

func fpFilter() domain.CustomFilter {
	return domain.CustomFilter{
		Name:      "volume-scorer",
		Sport:     "nba",
		Direction: domain.DirectionOver,
		Conditions: []domain.FilterCondition{
			{Field: "stat.points", Operator: domain.OpGte, Value: domain.NumberValue(20)},
		},
	}
}

func fpLogs() []domain.EnrichedGameLog {
	return []domain.EnrichedGameLog{
		{
			Date:           time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			PlayerName:     "Jalen Carter",
			PrimaryStatKey: "points",
			Stats:          map[string]float64{"points": 27},
			PropLines:      map[string]float64{"points": 22.5},
		},
		{
			Date:           time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			PlayerName:     "Jalen Carter",
			PrimaryStatKey: "points",
			Stats:          map[string]float64{"points": 18},
			PropLines:      map[string]float64{"points": 22.5},
		},
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint(fpFilter(), fpLogs(), []string{"2023-24"}, -110)
	b := Fingerprint(fpFilter(), fpLogs(), []string{"2023-24"}, -110)

	assert.Equal(t, a, b, "identical requests share one slot")
	assert.Len(t, a, 64)
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint(fpFilter(), fpLogs(), []string{"2023-24"}, -110)

	assert.NotEqual(t, base, Fingerprint(fpFilter(), fpLogs(), []string{"2023-24"}, -115))
	assert.NotEqual(t, base, Fingerprint(fpFilter(), fpLogs(), []string{"2024-25"}, -110))

	f := fpFilter()
	f.Direction = domain.DirectionUnder
	assert.NotEqual(t, base, Fingerprint(f, fpLogs(), []string{"2023-24"}, -110))

	logs := fpLogs()
	logs[0].Stats["points"] = 99
	assert.NotEqual(t, base, Fingerprint(fpFilter(), logs, []string{"2023-24"}, -110))

	reordered := []domain.EnrichedGameLog{fpLogs()[1], fpLogs()[0]}
	assert.NotEqual(t, base, Fingerprint(fpFilter(), reordered, []string{"2023-24"}, -110), "log order is part of the identity")
}
