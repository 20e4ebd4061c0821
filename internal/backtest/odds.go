// Package backtest replays prop filters over historical game logs and scores
// the resulting flat-stake betting record.
package backtest

import "math"

// DefaultOdds is the assumed American price when the caller does not pick one.
const DefaultOdds = -110

// PayoutMultiplier converts American odds to profit per 1-unit stake on a
// winning bet: -110 pays about 0.909, +150 pays 1.5.
func PayoutMultiplier(odds int) float64 {
	switch {
	case odds < 0:
		return 100 / math.Abs(float64(odds))
	case odds > 0:
		return float64(odds) / 100
	default:
		return 0
	}
}
