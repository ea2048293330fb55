package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/risk"
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Compute a position size from account risk",
	Long: `Size a position so that hitting the stop loses the chosen risk.

Examples:
  tradejournal size --balance 10000 --risk 1 --stop 20 --pair EUR/USD
  tradejournal size --balance 10000 --mode fixed --amount 150 --stop 35 --pair GBP/JPY`,
	Args: cobra.NoArgs,
	RunE: runSize,
}

var (
	sizeIn    = risk.DefaultSizingInput()
	sizeMode  string
	sizeEmail string
)

func init() {
	rootCmd.AddCommand(sizeCmd)

	f := sizeCmd.Flags()
	f.Float64VarP(&sizeIn.Balance, "balance", "b", 0, "account balance")
	f.StringVarP(&sizeMode, "mode", "m", string(risk.ModePercent), "risk mode: percent or fixed")
	f.Float64VarP(&sizeIn.RiskPercent, "risk", "r", sizeIn.RiskPercent, "risk per trade in percent of balance")
	f.Float64Var(&sizeIn.RiskAmount, "amount", 0, "fixed risk amount (fixed mode)")
	f.Float64VarP(&sizeIn.StopLossPips, "stop", "s", 0, "stop loss distance in pips")
	f.StringVarP(&sizeIn.Pair, "pair", "p", sizeIn.Pair, "instrument, e.g. EUR/USD")
	f.Float64Var(&sizeIn.RewardRatio, "reward", sizeIn.RewardRatio, "reward:risk multiple for the target")
	f.StringVar(&sizeEmail, "email", "", "email used to unlock extended instruments")
}

func runSize(cmd *cobra.Command, args []string) error {
	mode, err := risk.ParseMode(sizeMode)
	if err != nil {
		return err
	}
	in := sizeIn
	in.Mode = mode

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inst, err := allowPair(cfg, sizeEmail, in.Pair)
	if err != nil {
		return err
	}
	in.Pair = inst.Symbol

	writeSizing(cmd.OutOrStdout(), in, risk.ComputeSizing(in))
	return nil
}

func writeSizing(w io.Writer, in risk.SizingInput, res risk.SizingResult) {
	fmt.Fprintf(w, "Pair:            %s\n", in.Pair)
	if in.Mode == risk.ModeFixed {
		fmt.Fprintf(w, "Risk:            %s (fixed)\n", money(res.RiskAmount))
	} else {
		fmt.Fprintf(w, "Risk:            %s (%s%% of %s)\n", money(res.RiskAmount), humanize.Ftoa(in.RiskPercent), money(in.Balance))
	}
	fmt.Fprintf(w, "Stop:            %s pips\n", humanize.Ftoa(in.StopLossPips))
	fmt.Fprintf(w, "Position:        %.2f lots (%s)\n", res.Lots, res.LotClass)
	fmt.Fprintf(w, "Units:           %s\n", humanize.Comma(int64(math.Round(res.Units))))
	fmt.Fprintf(w, "Pip value:       %s per lot\n", money(res.PipValue))
	fmt.Fprintf(w, "Take profit:     %s pips (1:%s)\n", humanize.Ftoa(res.TakeProfitPips), humanize.Ftoa(in.RewardRatio))
	fmt.Fprintf(w, "Potential gain:  %s\n", money(res.PotentialProfit))
}
