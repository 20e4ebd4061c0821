package backtest

import (
	"math"

	"github.com/proplab/proplab/internal/domain"
)

// annualization assumes roughly 250 betting opportunities per year.
const annualization = 250

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the sample standard deviation (n-1 denominator).
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// sharpeRatio annualizes the per-bet profit series. Fewer than two bets or a
// flat series scores 0 rather than dividing by zero.
func sharpeRatio(profits []float64) float64 {
	if len(profits) < 2 {
		return 0
	}
	sd := stdDev(profits)
	if sd == 0 {
		return 0
	}
	return mean(profits) / sd * math.Sqrt(annualization)
}

// kellyFraction sizes the optimal stake for the observed hit rate and payout,
// floored at 0 for a negative edge and capped at a quarter unit.
func kellyFraction(hitRate, payout float64) float64 {
	if payout <= 0 {
		return 0
	}
	f := (payout*hitRate - (1 - hitRate)) / payout
	if f < 0 {
		return 0
	}
	if f > 0.25 {
		return 0.25
	}
	return f
}

// sampleBucket grades the settled-bet count. The two thin buckets carry an
// advisory warning, which never suppresses the result itself.
func sampleBucket(n int) (domain.SampleBucket, string) {
	switch {
	case n < 30:
		return domain.SampleInsufficient, "insufficient sample (fewer than 30 settled bets), treat results as noise"
	case n < 100:
		return domain.SampleLow, "low sample (fewer than 100 settled bets), results may not generalize"
	case n < 500:
		return domain.SampleModerate, ""
	default:
		return domain.SampleHigh, ""
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
