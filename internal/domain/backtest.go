package domain

import "time"

// BetResult is the settled outcome of one simulated wager.
type BetResult string

const (
	BetHit  BetResult = "hit"
	BetMiss BetResult = "miss"
)

// SampleBucket is the coarse confidence label derived from settled-bet count.
type SampleBucket string

const (
	SampleInsufficient SampleBucket = "insufficient"
	SampleLow          SampleBucket = "low"
	SampleModerate     SampleBucket = "moderate"
	SampleHigh         SampleBucket = "high"
)

// EquityCurvePoint is one settled bet on the chronological equity curve.
// ROI is the rolling cumulative ROI through this bet, not the final figure.
type EquityCurvePoint struct {
	Date             time.Time `json:"date"`
	GameNumber       int       `json:"game_number"`
	CumulativeProfit float64   `json:"cumulative_profit"`
	ROI              float64   `json:"roi"`
	Result           BetResult `json:"result"`
	PlayerName       string    `json:"player_name"`
	Stat             string    `json:"stat"`
	Line             float64   `json:"line"`
	Actual           float64   `json:"actual"`
}

// PeriodBreakdown aggregates settled bets for one calendar month (YYYY-MM).
type PeriodBreakdown struct {
	Period  string  `json:"period"`
	Games   int     `json:"games"`
	Hits    int     `json:"hits"`
	HitRate float64 `json:"hit_rate"`
	Profit  float64 `json:"profit"`
}

// SeasonBreakdown aggregates settled bets for one season label.
type SeasonBreakdown struct {
	Season  string  `json:"season"`
	Games   int     `json:"games"`
	Hits    int     `json:"hits"`
	HitRate float64 `json:"hit_rate"`
	Profit  float64 `json:"profit"`
	ROI     float64 `json:"roi"`
}

// BacktestResult bundles everything one simulation run produces. It is
// computed once, never mutated, and safe to cache by its inputs' identity.
// ExecutionTimeMs is cosmetic and excluded from reproducibility guarantees.
type BacktestResult struct {
	FilterName       string    `json:"filter_name"`
	Direction        Direction `json:"direction"`
	AssumedOdds      int       `json:"assumed_odds"`
	PayoutMultiplier float64   `json:"payout_multiplier"`

	TotalBets int `json:"total_bets"`
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`

	HitRate     float64 `json:"hit_rate"`
	TotalProfit float64 `json:"total_profit"`
	ROI         float64 `json:"roi"`

	MaxDrawdown       float64 `json:"max_drawdown"`
	LongestWinStreak  int     `json:"longest_win_streak"`
	LongestLossStreak int     `json:"longest_loss_streak"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	KellyFraction     float64 `json:"kelly_fraction"`

	SampleBucket      SampleBucket `json:"sample_bucket"`
	ConfidenceWarning string       `json:"confidence_warning,omitempty"`

	EquityCurve      []EquityCurvePoint `json:"equity_curve"`
	MonthlyBreakdown []PeriodBreakdown  `json:"monthly_breakdown"`
	SeasonBreakdown  []SeasonBreakdown  `json:"season_breakdown"`

	ExecutionTimeMs int64 `json:"execution_time_ms"`
}
