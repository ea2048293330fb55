package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/calcstate"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/logger"
	"github.com/rustyeddy/tradejournal/market"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "Position-size calculator and trading journal",
	Long: `Tradejournal sizes positions from account risk and keeps a per-user
journal of closed trades.

It provides tools for:
  - Risk-based position sizing (percent or fixed amount)
  - FX-correct P/L for forex pairs, gold and oil
  - A trade journal backed by SQLite or MongoDB
  - An HTTP API for the calculator and the journal
  - CSV and Org-mode exports with summary stats`,
	SilenceUsage: true,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); TRADEJOURNAL_* env vars override it")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if err := logger.Init(cfg.Log.Level, cfg.Log.Env); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger.Get(), nil
}

func openStore(ctx context.Context, cfg *config.Config) (journal.Store, error) {
	switch cfg.Store.Type {
	case "mongo":
		return journal.NewMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	default:
		j, err := journal.NewSQLite(cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}
}

// openCalcState returns the calculator state store and a closer for it.
func openCalcState(ctx context.Context, cfg *config.Config) (calcstate.Store, func() error, error) {
	if cfg.Cache.Type == "redis" {
		r, err := calcstate.Dial(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	}
	return calcstate.NewMemory(nil), func() error { return nil }, nil
}

// allowPair resolves pair for a CLI user identified only by email. Pairs
// outside that user's instrument set are refused.
func allowPair(cfg *config.Config, email, pair string) (market.Instrument, error) {
	symbol := market.Normalize(pair)
	catalog := market.NewCatalog(cfg.Instruments.PrivilegedEmail)
	if !catalog.Allows(auth.Identity{ID: "cli", Email: email}, symbol) {
		return market.Instrument{}, fmt.Errorf("instrument %s is not available", pair)
	}
	return market.Resolve(symbol), nil
}

func money(x float64) string {
	if x < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -x)
	}
	return "$" + humanize.FormatFloat("#,###.##", x)
}
