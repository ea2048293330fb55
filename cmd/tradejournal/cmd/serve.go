package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/api"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/market"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the calculator and journal API until interrupted.

Example:
  TRADEJOURNAL_AUTH_JWT_SECRET=... tradejournal serve -c tradejournal.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr         string
	serveSecureCookie bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.address)")
	serveCmd.Flags().BoolVar(&serveSecureCookie, "secure-cookie", false, "mark the session cookie Secure")
}

func newTokens(cfg *config.Config) (*auth.Tokens, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is not set (TRADEJOURNAL_AUTH_JWT_SECRET)")
	}
	ttl, err := cfg.Auth.TTL()
	if err != nil {
		return nil, fmt.Errorf("auth.token_ttl: %w", err)
	}
	return auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, ttl), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tokens, err := newTokens(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	calc, closeCalc, err := openCalcState(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeCalc() }()

	catalog := market.NewCatalog(cfg.Instruments.PrivilegedEmail)
	svc := journal.NewService(store, catalog, log)
	srv := api.NewServer(svc, catalog, calc, tokens, log, api.Options{
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
		CORSOrigins:  cfg.Server.CORSOrigins,
		SecureCookie: serveSecureCookie,
	})

	addr := cfg.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}
	log.Info("starting tradejournal",
		zap.String("version", version),
		zap.String("store", cfg.Store.Type),
		zap.String("cache", cfg.Cache.Type),
	)
	return srv.Run(ctx, addr)
}
