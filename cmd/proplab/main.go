package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/proplab/proplab/internal/backtest"
	"github.com/proplab/proplab/internal/config"
	"github.com/proplab/proplab/internal/gamelog"
)

const (
	appName = "PropLab"
	version = "v1.4.2"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	// .env backs REDIS_ADDR / DATABASE_URL style overrides in development.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "proplab",
		Short:   "Prop filter evaluation and historical backtesting",
		Version: version,
		Long: appName + ` evaluates player-prop filters against historical game logs
and backtests them with a flat-stake bankroll simulation.

Filter definitions are YAML files; see config/filters/ for examples.`,
	}

	rootCmd.PersistentFlags().String("config", "config/proplab.yaml", "Path to config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (debug|info|warn|error)")

	backtestCmd := &cobra.Command{
		Use:   "backtest",
		Short: "Backtest a filter against historical game logs",
		Long:  "Runs the flat-stake simulation for a filter over the configured game-log source and prints the full metric set",
		RunE:  runBacktest,
	}

	backtestCmd.Flags().String("filter", "", "Path to the filter definition YAML (required)")
	backtestCmd.Flags().String("sport", "nba", "Sport to load game logs for")
	backtestCmd.Flags().StringSlice("seasons", nil, "Season labels to include (e.g. 2023-24,2024-25)")
	backtestCmd.Flags().Int("odds", backtest.DefaultOdds, "Assumed American odds for every bet")
	backtestCmd.Flags().String("logs", "", "Game-log JSON file overriding the configured source")
	backtestCmd.Flags().Bool("no-cache", false, "Skip the result cache")
	backtestCmd.Flags().String("out", "", "Write the result JSON artifact to this path")

	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Partition game logs by a filter",
		Long:  "Evaluates every loaded game log against a filter and lists the matches without settling any bets",
		RunE:  runEvaluate,
	}

	evaluateCmd.Flags().String("filter", "", "Path to the filter definition YAML (required)")
	evaluateCmd.Flags().String("sport", "nba", "Sport to load game logs for")
	evaluateCmd.Flags().StringSlice("seasons", nil, "Season labels to include")
	evaluateCmd.Flags().String("logs", "", "Game-log JSON file overriding the configured source")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a filter definition for structural problems",
		Long:  "Validates a filter definition against the field registry and reports every problem found",
		RunE:  runValidate,
	}

	validateCmd.Flags().String("filter", "", "Path to the filter definition YAML (required)")

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "List the fields filters can reference",
		Long:  "Prints the registered field definitions and the dynamic key families the registry resolves",
		RunE:  runFields,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		Long:  "Serves the validate/evaluate/backtest operations over HTTP with /health and Prometheus /metrics",
		RunE:  runServe,
	}

	serveCmd.Flags().String("host", "0.0.0.0", "Listen host (overrides config)")
	serveCmd.Flags().Int("port", 8080, "Listen port (overrides config)")

	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadConfig reads the file named by --config and applies the --log-level
// override before anything else logs.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	applyLogLevel(cfg.Log.Level)
	return cfg, nil
}

func applyLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("unknown log level, keeping info")
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// buildProvider assembles the configured game-log source. A non-empty
// override path short-circuits to a file provider regardless of config.
func buildProvider(cfg config.Config, override string) (gamelog.Provider, error) {
	if override != "" {
		return gamelog.NewFileProvider(override), nil
	}

	var provider gamelog.Provider
	switch cfg.Data.Source {
	case "file":
		provider = gamelog.NewFileProvider(cfg.Data.LogsFile)
	case "postgres":
		pg, err := gamelog.OpenPostgres(cfg.Data.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		provider = pg
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}

	if cfg.Data.UseBreaker {
		provider = gamelog.NewBreakerProvider(provider)
	}
	return provider, nil
}

func printProblems(problems []string) {
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
}
