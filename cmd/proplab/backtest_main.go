package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/proplab/proplab/internal/backtest"
	"github.com/proplab/proplab/internal/cache"
	"github.com/proplab/proplab/internal/domain"
	"github.com/proplab/proplab/internal/fields"
	"github.com/proplab/proplab/internal/filter"
)

// backtestArtifact is the JSON envelope written by --out.
type backtestArtifact struct {
	RunID       string                `json:"run_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Filter      domain.CustomFilter   `json:"filter"`
	Result      domain.BacktestResult `json:"result"`
}

// runBacktest loads the filter and game logs, runs the simulation (through
// the result cache when enabled), and renders the metric tables.
func runBacktest(cmd *cobra.Command, args []string) error {
	filterPath, _ := cmd.Flags().GetString("filter")
	sport, _ := cmd.Flags().GetString("sport")
	seasons, _ := cmd.Flags().GetStringSlice("seasons")
	logsPath, _ := cmd.Flags().GetString("logs")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	outPath, _ := cmd.Flags().GetString("out")

	if filterPath == "" {
		return fmt.Errorf("--filter is required")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	odds := cfg.Backtest.AssumedOdds
	if cmd.Flags().Changed("odds") {
		odds, _ = cmd.Flags().GetInt("odds")
	}

	f, err := filter.LoadFile(filterPath)
	if err != nil {
		return err
	}

	ev := filter.NewEvaluator(fields.NewStandardRegistry())
	if problems := ev.ValidateFilter(f); len(problems) > 0 {
		fmt.Printf("❌ %s has %d problem(s):\n", filterPath, len(problems))
		printProblems(problems)
		return fmt.Errorf("filter %q failed validation", f.Name)
	}

	provider, err := buildProvider(cfg, logsPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.Info().Str("filter", f.Name).Str("sport", sport).Strs("seasons", seasons).Msg("Loading game logs")

	logs, err := provider.FetchGameLogs(ctx, sport, seasons)
	if err != nil {
		return fmt.Errorf("fetch game logs: %w", err)
	}

	var results *cache.ResultCache
	if cfg.Backtest.CacheEnabled && !noCache {
		results = cache.NewResultCache(cache.NewAuto(), cfg.Backtest.CacheTTL())
	}

	fingerprint := cache.Fingerprint(f, logs, seasons, odds)

	var res domain.BacktestResult
	cached := false
	if results != nil {
		res, cached = results.Get(ctx, fingerprint)
	}
	if !cached {
		res, err = backtest.NewSimulator(ev).Run(f, logs, seasons, odds)
		if err != nil {
			return err
		}
		if results != nil {
			results.Put(ctx, fingerprint, res)
		}
	}

	renderBacktest(ev.Summarize(f), res, len(logs), cached)

	if outPath != "" {
		if err := writeArtifact(outPath, f, res); err != nil {
			return err
		}
		fmt.Printf("Result artifact written to %s\n", outPath)
	}

	return nil
}

func renderBacktest(summary string, res domain.BacktestResult, loaded int, cached bool) {
	fmt.Printf("\n%s\n", summary)
	fmt.Printf("Settled %d of %d game logs at %+d odds", res.TotalBets, loaded, res.AssumedOdds)
	if cached {
		fmt.Printf(" (cached result)")
	}
	fmt.Printf("\n\n")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Bets", "Hits", "Misses", "Hit rate", "Profit", "ROI", "Max DD", "Sharpe", "Kelly")
	table.Append(
		strconv.Itoa(res.TotalBets),
		strconv.Itoa(res.Hits),
		strconv.Itoa(res.Misses),
		fmt.Sprintf("%.1f%%", res.HitRate*100),
		fmt.Sprintf("%+.2fu", res.TotalProfit),
		fmt.Sprintf("%+.1f%%", res.ROI*100),
		fmt.Sprintf("%.2fu", res.MaxDrawdown),
		fmt.Sprintf("%.2f", res.SharpeRatio),
		fmt.Sprintf("%.1f%%", res.KellyFraction*100),
	)
	table.Render()

	fmt.Printf("Longest streaks: %d wins / %d losses\n", res.LongestWinStreak, res.LongestLossStreak)
	if res.ConfidenceWarning != "" {
		fmt.Printf("⚠ %s\n", res.ConfidenceWarning)
	}

	if len(res.MonthlyBreakdown) > 0 {
		fmt.Println("\nBy month:")
		mt := tablewriter.NewWriter(os.Stdout)
		mt.Header("Month", "Bets", "Hits", "Hit rate", "Profit")
		for _, p := range res.MonthlyBreakdown {
			mt.Append(
				p.Period,
				strconv.Itoa(p.Games),
				strconv.Itoa(p.Hits),
				fmt.Sprintf("%.0f%%", p.HitRate*100),
				fmt.Sprintf("%+.2fu", p.Profit),
			)
		}
		mt.Render()
	}

	if len(res.SeasonBreakdown) > 0 {
		fmt.Println("\nBy season:")
		st := tablewriter.NewWriter(os.Stdout)
		st.Header("Season", "Bets", "Hits", "Hit rate", "Profit", "ROI")
		for _, s := range res.SeasonBreakdown {
			st.Append(
				s.Season,
				strconv.Itoa(s.Games),
				strconv.Itoa(s.Hits),
				fmt.Sprintf("%.0f%%", s.HitRate*100),
				fmt.Sprintf("%+.2fu", s.Profit),
				fmt.Sprintf("%+.1f%%", s.ROI*100),
			)
		}
		st.Render()
	}

	fmt.Printf("\nCompleted in %dms\n", res.ExecutionTimeMs)
}

func writeArtifact(path string, f domain.CustomFilter, res domain.BacktestResult) error {
	artifact := backtestArtifact{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Filter:      f,
		Result:      res,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
