package backtest

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proplab/proplab/internal/domain"
	"github.com/proplab/proplab/internal/filter"
)

// settledBet is one wager that cleared both the filter and the settle gate.
type settledBet struct {
	date   time.Time
	player string
	stat   string
	line   float64
	actual float64
	hit    bool
}

// Simulator replays filters over historical game logs.
type Simulator struct {
	evaluator *filter.Evaluator
}

// NewSimulator returns a Simulator using the given evaluator.
func NewSimulator(ev *filter.Evaluator) *Simulator {
	return &Simulator{evaluator: ev}
}

// Run backtests one filter over the supplied logs with a flat 1-unit stake
// per settled bet. A zero assumedOdds selects DefaultOdds. Logs are settled
// in ascending date order regardless of input order, and the inputs are never
// modified. Aside from the cosmetic ExecutionTimeMs field the result is a
// pure function of its inputs.
//
// Data-shape problems never abort a run: a log without a prop line for its
// primary stat is skipped, and a missing primary stat scores as 0. The only
// error surfaced is a field registry failure, which validation should have
// caught beforehand.
func (s *Simulator) Run(f domain.CustomFilter, logs []domain.EnrichedGameLog, seasons []string, assumedOdds int) (domain.BacktestResult, error) {
	start := time.Now()
	if assumedOdds == 0 {
		assumedOdds = DefaultOdds
	}
	direction := f.BetDirection()
	payout := PayoutMultiplier(assumedOdds)

	bets := make([]settledBet, 0, len(logs))
	for _, gl := range logs {
		ok, _, err := s.evaluator.EvaluateFilter(f, gl)
		if err != nil {
			return domain.BacktestResult{}, fmt.Errorf("backtest %q: %w", f.Name, err)
		}
		if !ok {
			continue
		}
		line, settleable := gl.PropLines[gl.PrimaryStatKey]
		if !settleable {
			continue
		}
		actual := gl.Stats[gl.PrimaryStatKey]
		// Strict inequality both ways, so a push settles as a miss.
		hit := actual > line
		if direction == domain.DirectionUnder {
			hit = actual < line
		}
		bets = append(bets, settledBet{
			date:   gl.Date,
			player: gl.PlayerName,
			stat:   gl.PrimaryStatKey,
			line:   line,
			actual: actual,
			hit:    hit,
		})
	}

	sort.SliceStable(bets, func(i, j int) bool { return bets[i].date.Before(bets[j].date) })

	res := domain.BacktestResult{
		FilterName:       f.Name,
		Direction:        direction,
		AssumedOdds:      assumedOdds,
		PayoutMultiplier: payout,
		TotalBets:        len(bets),
		EquityCurve:      []domain.EquityCurvePoint{},
	}

	var cum, hwm, maxDD float64
	var winRun, lossRun int
	profits := make([]float64, 0, len(bets))
	monthly := newBucketGroup()
	seasonal := newBucketGroup()

	for i, b := range bets {
		profit := -1.0
		result := domain.BetMiss
		if b.hit {
			profit = payout
			result = domain.BetHit
			res.Hits++
			winRun++
			lossRun = 0
			if winRun > res.LongestWinStreak {
				res.LongestWinStreak = winRun
			}
		} else {
			res.Misses++
			lossRun++
			winRun = 0
			if lossRun > res.LongestLossStreak {
				res.LongestLossStreak = lossRun
			}
		}

		cum += profit
		if cum > hwm {
			hwm = cum
		}
		if dd := hwm - cum; dd > maxDD {
			maxDD = dd
		}
		profits = append(profits, profit)

		res.EquityCurve = append(res.EquityCurve, domain.EquityCurvePoint{
			Date:             b.date,
			GameNumber:       i + 1,
			CumulativeProfit: cum,
			ROI:              cum / float64(i+1),
			Result:           result,
			PlayerName:       b.player,
			Stat:             b.stat,
			Line:             b.line,
			Actual:           b.actual,
		})

		monthly.add(b.date.Format("2006-01"), b.hit, profit)
		seasonal.add(seasonLabel(b.date, seasons), b.hit, profit)
	}

	if res.TotalBets > 0 {
		res.HitRate = float64(res.Hits) / float64(res.TotalBets)
		res.TotalProfit = cum
		res.ROI = cum / float64(res.TotalBets)
	}
	res.MaxDrawdown = maxDD
	res.SharpeRatio = sharpeRatio(profits)
	res.KellyFraction = kellyFraction(res.HitRate, payout)
	res.SampleBucket, res.ConfidenceWarning = sampleBucket(res.TotalBets)
	res.MonthlyBreakdown = monthly.periods()
	res.SeasonBreakdown = seasonal.seasons()
	res.ExecutionTimeMs = time.Since(start).Milliseconds()

	log.Debug().
		Str("filter", f.Name).
		Int("logs", len(logs)).
		Int("bets", res.TotalBets).
		Int("hits", res.Hits).
		Float64("roi", res.ROI).
		Msg("backtest complete")

	return res, nil
}
