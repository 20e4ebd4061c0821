package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"github.com/proplab/proplab/internal/backtest"
	"github.com/proplab/proplab/internal/cache"
	"github.com/proplab/proplab/internal/fields"
	"github.com/proplab/proplab/internal/filter"
	httpapi "github.com/proplab/proplab/internal/interfaces/http"
)

// runServe starts the JSON API server and blocks until a shutdown signal.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	serverCfg := httpapi.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.RequestTimeout = cfg.Server.RequestTimeout()
	serverCfg.RateLimit = rate.Limit(cfg.Server.RateLimitPerSec)
	serverCfg.RateBurst = cfg.Server.RateLimitBurst

	applyServeFlags(&serverCfg, cmd.Flags())

	provider, err := buildProvider(cfg, "")
	if err != nil {
		return err
	}

	registry := fields.NewStandardRegistry()
	ev := filter.NewEvaluator(registry)

	var results *cache.ResultCache
	if cfg.Backtest.CacheEnabled {
		results = cache.NewResultCache(cache.NewAuto(), cfg.Backtest.CacheTTL())
	}

	server, err := httpapi.NewServer(serverCfg, httpapi.Deps{
		Registry:  registry,
		Evaluator: ev,
		Simulator: backtest.NewSimulator(ev),
		Provider:  provider,
		Results:   results,
		Version:   version,
	})
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("health", fmt.Sprintf("http://%s/health", server.Addr())).
			Str("metrics", fmt.Sprintf("http://%s/metrics", server.Addr())).
			Str("api", fmt.Sprintf("http://%s/api/v1", server.Addr())).
			Msg("API endpoints available")

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
		return err
	}

	log.Info().Msg("Server shutdown complete")
	return nil
}

// applyServeFlags lets explicit --host and --port flags win over the config file.
func applyServeFlags(cfg *httpapi.ServerConfig, flags *pflag.FlagSet) {
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
}
