package risk

import (
	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
)

// ComputePnL derives realized profit/loss in account currency, rounded to
// cents. ok is false when the direction is not BUY or SELL, or when size,
// entry or exit is missing or not positive, in which case the caller leaves
// the value for manual entry.
//
// JPY-quoted results are divided by the exit price as a stand-in for the
// USD/JPY rate.
func ComputePnL(dir market.Direction, size, entry, exit float64, inst market.Instrument) (pnl float64, ok bool) {
	if !dir.Valid() || !(size > 0 && entry > 0 && exit > 0) {
		return 0, false
	}

	diff := entry - exit
	if dir == market.Buy {
		diff = exit - entry
	}

	profit := diff * size * inst.ContractSize
	profit = market.ToAccount(inst, profit, exit)
	if !finite(profit) {
		return 0, false
	}
	return roundCents(profit), true
}

func roundCents(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
