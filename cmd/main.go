// Command marketcore runs the market analytics service. For each
// configured pair it builds session and composite volume profiles,
// enhanced volume metrics, an indicator snapshot and a reward score,
// and journals the result to a write-ahead log.
//
// Usage:
//
//	marketcore --config config.yaml
//	marketcore (launches the setup wizard)
//
// Optional environment variables:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
//	For Hyperliquid: HYPERLIQUID_PRIVATE_KEY, HYPERLIQUID_BASE_URL
//	Journal location: ANALYSIS_JOURNAL_DIR
//	Reward weights: REW_* overrides, REWARD_CAP
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bytedance/gopkg/util/gopool"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/avolkhov/marketcore/config"
	"github.com/avolkhov/marketcore/internal"
	"github.com/avolkhov/marketcore/internal/clients"
	"github.com/avolkhov/marketcore/internal/services/marketdata"
	"github.com/avolkhov/marketcore/internal/services/reward"
	"github.com/avolkhov/marketcore/internal/setup"
	"github.com/avolkhov/marketcore/internal/storage/analysis"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	path := *configPath
	if path == "" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		path = "config.gen.yaml"
	}

	configs, err := config.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	journal, err := analysis.NewWALStore(env.JournalDir)
	if err != nil {
		logger.Fatal("failed to open analysis journal", zap.Error(err))
	}
	defer journal.Close()

	weights := reward.WeightsFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for _, cfg := range configs {
		provider, err := newProvider(cfg.Platform, env)
		if err != nil {
			logger.Fatal("failed to create kline provider",
				zap.String("platform", cfg.Platform), zap.Error(err))
		}

		collector := marketdata.NewCollector(provider, cfg.Pair, cfg.Interval, cfg.CandleLimit)
		analyzer := internal.NewAnalyzer(collector, cfg.BinCount, cfg.TimeRange, weights, journal, logger)

		wg.Add(1)
		cfg := cfg
		gopool.Go(func() {
			defer wg.Done()
			runAnalyzer(ctx, analyzer, cfg, logger)
		})
	}

	wg.Wait()
}

// runAnalyzer performs one pass immediately, then keeps repeating on
// the poll interval until the context is cancelled. A zero interval
// means a single pass.
func runAnalyzer(ctx context.Context, analyzer *internal.Analyzer, cfg config.Config, logger *zap.Logger) {
	runOnce := func() {
		if _, err := analyzer.Run(ctx); err != nil {
			logger.Error("analysis pass failed",
				zap.String("pair", cfg.Pair.String()), zap.Error(err))
		}
	}

	runOnce()
	if cfg.PollInterval <= 0 {
		return
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func newProvider(platform string, env config.Env) (marketdata.KlineProvider, error) {
	switch platform {
	case "binance":
		return marketdata.NewBinanceKlineProvider(clients.NewBinanceClient(env.BinanceAPIKey, env.BinanceAPISecret)), nil
	case "bybit":
		return marketdata.NewBybitKlineProvider(clients.NewBybitClient(env.BybitAPIKey, env.BybitAPISecret)), nil
	case "hyperliquid":
		client, err := clients.NewHyperliquidClient(env.HyperliquidKey, env.HyperliquidBaseURL)
		if err != nil {
			return nil, err
		}
		return marketdata.NewHyperliquidKlineProvider(client.Info()), nil
	}
	return nil, errors.Errorf("unsupported platform: %s", platform)
}
