package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/proplab/proplab/internal/domain"
	"github.com/proplab/proplab/internal/fields"
	"github.com/proplab/proplab/internal/filter"
)

const maxEvaluateRows = 20

// runEvaluate partitions the loaded game logs by a filter and lists matches.
func runEvaluate(cmd *cobra.Command, args []string) error {
	filterPath, _ := cmd.Flags().GetString("filter")
	sport, _ := cmd.Flags().GetString("sport")
	seasons, _ := cmd.Flags().GetStringSlice("seasons")
	logsPath, _ := cmd.Flags().GetString("logs")

	if filterPath == "" {
		return fmt.Errorf("--filter is required")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
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

	logs, err := provider.FetchGameLogs(ctx, sport, seasons)
	if err != nil {
		return fmt.Errorf("fetch game logs: %w", err)
	}

	matched, unmatched, err := ev.EvaluateBatch(f, logs)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", ev.Summarize(f))
	fmt.Printf("%d of %d game logs match (%d filtered out)\n", len(matched), len(logs), len(unmatched))

	if len(matched) == 0 {
		return nil
	}
	fmt.Println()

	shown := matched
	if len(shown) > maxEvaluateRows {
		shown = shown[:maxEvaluateRows]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Date", "Player", "Stat", "Actual", "Line")
	for _, gl := range shown {
		line := "-"
		if v, ok := gl.PropLines[gl.PrimaryStatKey]; ok {
			line = domain.FormatValue(v)
		}
		table.Append(
			gl.Date.Format("2006-01-02"),
			gl.PlayerName,
			gl.PrimaryStatKey,
			domain.FormatValue(gl.Stats[gl.PrimaryStatKey]),
			line,
		)
	}
	table.Render()

	if len(matched) > len(shown) {
		fmt.Printf("... and %d more\n", len(matched)-len(shown))
	}
	return nil
}
