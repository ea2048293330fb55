package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/market"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage your trade journal",
	Long: `Add, edit and review journal entries in the configured store.

Subcommands:
  list    - List trades, newest first
  add     - Record a closed trade
  edit    - Change an existing trade
  delete  - Remove a trade
  stats   - Summary statistics
  export  - Write trades as CSV or Org
  report  - Org-mode performance report

Examples:
  tradejournal journal add --user me --pair EUR/USD --type BUY --size 1 --entry 1.1 --exit 1.105
  tradejournal journal list --user me --from 2024-01-01
  tradejournal journal export --user me --format org -o trades.org`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, newest first",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a closed trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalAdd,
}

var journalEditCmd = &cobra.Command{
	Use:   "edit <trade-id>",
	Short: "Change an existing trade; only the flags given are updated",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalEdit,
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Remove a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDelete,
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summary statistics over the selected trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalStats,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write trades as CSV or Org",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var journalReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Org-mode performance report",
	Args:  cobra.NoArgs,
	RunE:  runJournalReport,
}

var (
	journalUser   string
	journalEmail  string
	journalQuery  journal.Query
	listFormat    string
	exportFormat  string
	journalOutput string

	tradePair    string
	tradeType    string
	tradeSize    float64
	tradeEntry   float64
	tradeExit    float64
	tradeStop    float64
	tradePnL     float64
	tradeDate    string
	tradeComment string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd, journalAddCmd, journalEditCmd, journalDeleteCmd,
		journalStatsCmd, journalExportCmd, journalReportCmd)

	pf := journalCmd.PersistentFlags()
	pf.StringVarP(&journalUser, "user", "u", "", "user id that owns the trades (required)")
	pf.StringVar(&journalEmail, "email", "", "user email, unlocks extended instruments")
	_ = journalCmd.MarkPersistentFlagRequired("user")

	for _, c := range []*cobra.Command{journalListCmd, journalStatsCmd, journalExportCmd, journalReportCmd} {
		addQueryFlags(c.Flags())
	}
	journalListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "table, org or json")
	journalExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "csv or org")
	journalExportCmd.Flags().StringVarP(&journalOutput, "output", "o", "", "output file (default stdout)")
	journalReportCmd.Flags().StringVarP(&journalOutput, "output", "o", "", "output file (default stdout)")

	for _, c := range []*cobra.Command{journalAddCmd, journalEditCmd} {
		addTradeFlags(c.Flags())
	}
	journalAddCmd.Flags().StringVar(&tradeDate, "date", "", "trade date YYYY-MM-DD (default today)")
	journalEditCmd.Flags().StringVar(&tradeDate, "date", "", "trade date YYYY-MM-DD")
}

func addQueryFlags(f *pflag.FlagSet) {
	f.StringVar(&journalQuery.Pair, "pair", "", "only this instrument")
	f.StringVar(&journalQuery.Direction, "type", "", "only BUY or SELL")
	f.StringVar(&journalQuery.From, "from", "", "first date, inclusive")
	f.StringVar(&journalQuery.To, "to", "", "last date, inclusive")
}

func addTradeFlags(f *pflag.FlagSet) {
	f.StringVarP(&tradePair, "pair", "p", "EUR/USD", "instrument")
	f.StringVarP(&tradeType, "type", "t", "BUY", "BUY or SELL")
	f.Float64Var(&tradeSize, "size", 0, "size in lots")
	f.Float64Var(&tradeEntry, "entry", 0, "entry price")
	f.Float64Var(&tradeExit, "exit", 0, "exit price")
	f.Float64Var(&tradeStop, "stop", 0, "stop loss price; 0 clears it")
	f.Float64Var(&tradePnL, "pnl", 0, "P/L override; computed when not given")
	f.StringVar(&tradeComment, "comment", "", "free-form notes")
}

// withJournal opens the configured store for the duration of fn.
func withJournal(cmd *cobra.Command, fn func(ctx context.Context, svc *journal.Service, who auth.Identity) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := journal.NewService(store, market.NewCatalog(cfg.Instruments.PrivilegedEmail), log)
	return fn(ctx, svc, auth.Identity{ID: journalUser, Email: journalEmail})
}

func runJournalList(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(ctx context.Context, svc *journal.Service, who auth.Identity) error {
		trades, err := svc.Find(ctx, who, journalQuery)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch listFormat {
		case "table":
			return writeTradeTable(out, trades)
		case "org":
			_, err := io.WriteString(out, journal.FormatTradesOrg(trades))
			return err
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(trades)
		}
		return fmt.Errorf("unknown format %q", listFormat)
	})
}

func writeTradeTable(w io.Writer, trades []journal.Trade) error {
	if len(trades) == 0 {
		_, err := fmt.Fprintln(w, "no trades")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tPAIR\tTYPE\tSIZE\tENTRY\tEXIT\tSTOP\tP/L")
	for _, t := range trades {
		stop := "-"
		if t.StopLoss != nil {
			stop = fmt.Sprintf("%g", *t.StopLoss)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%g\t%g\t%s\t%s\n",
			t.ID, t.Date, t.Pair, t.Direction, t.Size, t.Entry, t.Exit, stop, money(t.PnL))
	}
	return tw.Flush()
}

// applyTradeFlags copies the flags that were set onto d and reports
// whether any P/L input changed.
func applyTradeFlags(f *pflag.FlagSet, d *journal.Draft) (bool, error) {
	changed := false
	if f.Changed("pair") {
		d.Pair, changed = tradePair, true
	}
	if f.Changed("type") {
		dir, err := market.ParseDirection(tradeType)
		if err != nil {
			return false, err
		}
		d.Direction, changed = dir, true
	}
	if f.Changed("size") {
		d.Size, changed = tradeSize, true
	}
	if f.Changed("entry") {
		d.Entry, changed = tradeEntry, true
	}
	if f.Changed("exit") {
		d.Exit, changed = tradeExit, true
	}
	if f.Changed("stop") {
		if tradeStop == 0 {
			d.StopLoss = nil
		} else {
			stop := tradeStop
			d.StopLoss = &stop
		}
	}
	if f.Changed("date") {
		d.Date = tradeDate
	}
	if f.Changed("comment") {
		d.Comment = tradeComment
	}
	return changed, nil
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	dir, err := market.ParseDirection(tradeType)
	if err != nil {
		return err
	}
	d := journal.NewDraft(time.Now())
	d.Pair, d.Direction = tradePair, dir
	if _, err := applyTradeFlags(cmd.Flags(), &d); err != nil {
		return err
	}
	d.Recalculate()
	if cmd.Flags().Changed("pnl") {
		d.PnL.Override(tradePnL)
	}

	return withJournal(cmd, func(ctx context.Context, svc *journal.Service, who auth.Identity) error {
		t, err := svc.Add(ctx, who, d)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s %s %s on %s: %s\n", t.ID, t.Direction, t.Pair, t.Date, money(t.PnL))
		return nil
	})
}

func runJournalEdit(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(ctx context.Context, svc *journal.Service, who auth.Identity) error {
		existing, err := svc.Get(ctx, who, args[0])
		if err != nil {
			return err
		}

		d := journal.DraftFrom(existing)
		recalc, err := applyTradeFlags(cmd.Flags(), &d)
		if err != nil {
			return err
		}
		if recalc {
			d.Recalculate()
		}
		if cmd.Flags().Changed("pnl") {
			d.PnL.Override(tradePnL)
		}

		t, err := svc.Edit(ctx, who, existing.ID, d)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s: %s %s %s\n", t.ID, t.Direction, t.Pair, money(t.PnL))
		return nil
	})
}

func runJournalDelete(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(ctx context.Context, svc *journal.Service, who auth.Identity) error {
		if err := svc.Remove(ctx, who, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
		return nil
	})
}

func runJournalStats(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(ctx context.Context, svc *journal.Service, who auth.Identity) error {
		st, err := svc.Stats(ctx, who, journalQuery)
		if err != nil {
			return err
		}
		writeStats(cmd.OutOrStdout(), st)
		return nil
	})
}

func writeStats(w io.Writer, st journal.Stats) {
	fmt.Fprintf(w, "Trades:         %d (%d wins, %d losses, %d breakeven)\n", st.Trades, st.Wins, st.Losses, st.Breakeven)
	fmt.Fprintf(w, "Net P/L:        %s\n", money(st.NetPnL))
	fmt.Fprintf(w, "Gross profit:   %s\n", money(st.GrossProfit))
	fmt.Fprintf(w, "Gross loss:     %s\n", money(st.GrossLoss))
	fmt.Fprintf(w, "Best / worst:   %s / %s\n", money(st.Best), money(st.Worst))
	fmt.Fprintf(w, "Win rate:       %s%%\n", humanize.FtoaWithDigits(st.WinRate*100, 2))
	if st.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit factor:  %.2f\n", st.ProfitFactor)
	}
	if st.RTrades > 0 {
		fmt.Fprintf(w, "Average R:      %.2f over %d trades\n", st.AvgR, st.RTrades)
	}
}

// output opens the -o target, stdout when unset.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if journalOutput == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(journalOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", journalOutput, err)
	}
	return f, f.Close, nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "org" {
		return fmt.Errorf("format must be csv or org, got %q", exportFormat)
	}
	return withJournal(cmd, func(ctx context.Context, svc *journal.Service, who auth.Identity) error {
		trades, err := svc.Find(ctx, who, journalQuery)
		if err != nil {
			return err
		}

		w, closeFn, err := output(cmd)
		if err != nil {
			return err
		}
		if exportFormat == "org" {
			_, err = io.WriteString(w, journal.FormatTradesOrg(trades))
		} else {
			err = journal.WriteCSV(w, trades)
		}
		return errors.Join(err, closeFn())
	})
}

func runJournalReport(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(ctx context.Context, svc *journal.Service, who auth.Identity) error {
		rep, err := svc.Report(ctx, who, journalQuery, time.Now())
		if err != nil {
			return err
		}

		w, closeFn, err := output(cmd)
		if err != nil {
			return err
		}
		return errors.Join(rep.WriteOrg(w), closeFn())
	})
}
