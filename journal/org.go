package journal

import (
	"fmt"
	"strings"
)

// FormatTradeOrg renders a Trade as an Org-mode block for pasting into a
// personal journal. Facts go in the PROPERTIES drawer; the comment seeds
// the Notes section.
func FormatTradeOrg(t Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s %s (%s)\n", t.Date, t.Direction, t.Pair, shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":PAIR: %s\n", t.Pair)
	fmt.Fprintf(&b, ":TYPE: %s\n", t.Direction)
	fmt.Fprintf(&b, ":SIZE: %.2f\n", t.Size)
	fmt.Fprintf(&b, ":ENTRY: %.5f\n", t.Entry)
	fmt.Fprintf(&b, ":EXIT: %.5f\n", t.Exit)
	if t.StopLoss != nil {
		fmt.Fprintf(&b, ":STOP_LOSS: %.5f\n", *t.StopLoss)
	}
	fmt.Fprintf(&b, ":PNL: %.2f\n", t.PnL)
	if r, ok := TradeR(t); ok {
		fmt.Fprintf(&b, ":R_MULTIPLE: %.2f\n", r)
	}
	fmt.Fprintf(&b, ":DATE: %s\n", t.Date)
	b.WriteString(":END:\n\n")

	b.WriteString("*** Notes\n")
	if t.Comment != "" {
		for _, line := range strings.Split(t.Comment, "\n") {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	} else {
		b.WriteString("- \n")
	}
	b.WriteString("\n*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
