package journal

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"id", "date", "pair", "type", "size", "entry", "exit", "stop_loss", "pnl", "comments"}

// WriteCSV exports trades in the order given.
func WriteCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range trades {
		stop := ""
		if t.StopLoss != nil {
			stop = f(*t.StopLoss, 5)
		}
		err := cw.Write([]string{
			t.ID,
			t.Date,
			t.Pair,
			string(t.Direction),
			f(t.Size, 2),
			f(t.Entry, 5),
			f(t.Exit, 5),
			stop,
			f(t.PnL, 2),
			t.Comment,
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64, prec int) string {
	return strconv.FormatFloat(x, 'f', prec, 64)
}
