package risk

import (
	"math"

	"github.com/rustyeddy/tradejournal/market"
)

// PlannedRisk is the account-currency loss if a trade had been stopped out
// at stop. JPY amounts are converted at the entry price.
func PlannedRisk(size, entry, stop float64, inst market.Instrument) (float64, bool) {
	if !(size > 0 && entry > 0 && stop > 0) {
		return 0, false
	}
	risk := math.Abs(entry-stop) * size * inst.ContractSize
	risk = market.ToAccount(inst, risk, entry)
	if !finite(risk) {
		return 0, false
	}
	return risk, true
}

// RMultiple expresses a result in units of the risk taken.
func RMultiple(pnl, plannedRisk float64) float64 {
	if plannedRisk == 0 {
		return 0
	}
	return finiteOr0(pnl / plannedRisk)
}

// RR is the planned reward:risk of an entry, stop and target.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}
