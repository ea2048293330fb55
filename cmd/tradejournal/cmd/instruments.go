package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/market"
)

var instrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "List the instruments available to a user",
	Args:  cobra.NoArgs,
	RunE:  runInstruments,
}

var instrumentsEmail string

func init() {
	rootCmd.AddCommand(instrumentsCmd)
	instrumentsCmd.Flags().StringVar(&instrumentsEmail, "email", "", "email of the user to list for")
}

func runInstruments(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog := market.NewCatalog(cfg.Instruments.PrivilegedEmail)
	who := auth.Identity{ID: "cli", Email: instrumentsEmail}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tKIND\tCONTRACT\tPIP VALUE")
	for _, inst := range catalog.InstrumentSet(who) {
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\n", inst.Symbol, inst.Kind, inst.ContractSize, money(inst.PipValue))
	}
	return w.Flush()
}
