package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/rustyeddy/tradejournal/risk"
)

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Compute the P/L of a closed trade",
	Long: `Compute profit or loss in account currency for a closed trade.

Example:
  tradejournal pnl --pair USD/JPY --type SELL --size 1 --entry 150 --exit 149.5`,
	Args: cobra.NoArgs,
	RunE: runPnL,
}

var (
	pnlPair  string
	pnlType  string
	pnlSize  float64
	pnlEntry float64
	pnlExit  float64
	pnlStop  float64
	pnlEmail string
)

func init() {
	rootCmd.AddCommand(pnlCmd)

	f := pnlCmd.Flags()
	f.StringVarP(&pnlPair, "pair", "p", "EUR/USD", "instrument")
	f.StringVarP(&pnlType, "type", "t", "BUY", "BUY or SELL")
	f.Float64Var(&pnlSize, "size", 0, "size in lots")
	f.Float64Var(&pnlEntry, "entry", 0, "entry price")
	f.Float64Var(&pnlExit, "exit", 0, "exit price")
	f.Float64Var(&pnlStop, "stop", 0, "stop loss price, for the R multiple")
	f.StringVar(&pnlEmail, "email", "", "email used to unlock extended instruments")
}

func runPnL(cmd *cobra.Command, args []string) error {
	dir, err := market.ParseDirection(pnlType)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inst, err := allowPair(cfg, pnlEmail, pnlPair)
	if err != nil {
		return err
	}
	return writePnL(cmd.OutOrStdout(), dir, inst, pnlSize, pnlEntry, pnlExit, pnlStop)
}

func writePnL(w io.Writer, dir market.Direction, inst market.Instrument, size, entry, exit, stop float64) error {
	pnl, ok := risk.ComputePnL(dir, size, entry, exit, inst)
	if !ok {
		return fmt.Errorf("P/L is undefined: size, entry and exit must all be positive")
	}

	fmt.Fprintf(w, "%s %s %.2f lots %g -> %g\n", dir, inst.Symbol, size, entry, exit)
	fmt.Fprintf(w, "P/L:   %s\n", money(pnl))
	if stop > 0 {
		if planned, ok := risk.PlannedRisk(size, entry, stop, inst); ok && planned > 0 {
			fmt.Fprintf(w, "Risk:  %s\n", money(planned))
			fmt.Fprintf(w, "R:     %.2f\n", risk.RMultiple(pnl, planned))
		}
	}
	return nil
}
