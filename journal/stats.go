package journal

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/rustyeddy/tradejournal/risk"
)

type Stats struct {
	Trades    int `json:"trades"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Breakeven int `json:"breakeven"`

	NetPnL      float64 `json:"net_pnl"`
	GrossProfit float64 `json:"gross_profit"`
	GrossLoss   float64 `json:"gross_loss"` // positive
	Best        float64 `json:"best"`
	Worst       float64 `json:"worst"`

	WinRate      float64 `json:"win_rate"`      // 0..1
	ProfitFactor float64 `json:"profit_factor"` // 0 when there are no losses

	// R-multiples only cover trades logged with a stop-loss.
	RTrades int     `json:"r_trades"`
	AvgR    float64 `json:"avg_r"`
}

// Summarize aggregates stored P/L. Sums are done in decimal so totals match
// the cent values shown per trade.
func Summarize(trades []Trade) Stats {
	var (
		st          Stats
		gross, loss decimal.Decimal
		sumR        float64
	)

	for i, t := range trades {
		p := decimal.NewFromFloat(t.PnL)
		switch p.Sign() {
		case 1:
			st.Wins++
			gross = gross.Add(p)
		case -1:
			st.Losses++
			loss = loss.Add(p.Neg())
		default:
			st.Breakeven++
		}
		if i == 0 || t.PnL > st.Best {
			st.Best = t.PnL
		}
		if i == 0 || t.PnL < st.Worst {
			st.Worst = t.PnL
		}

		if r, ok := TradeR(t); ok {
			st.RTrades++
			sumR += r
		}
	}

	st.Trades = len(trades)
	st.GrossProfit = gross.InexactFloat64()
	st.GrossLoss = loss.InexactFloat64()
	st.NetPnL = gross.Sub(loss).InexactFloat64()
	if st.Trades > 0 {
		st.WinRate = float64(st.Wins) / float64(st.Trades)
	}
	if loss.IsPositive() {
		st.ProfitFactor = gross.Div(loss).Round(4).InexactFloat64()
	}
	if st.RTrades > 0 {
		st.AvgR = sumR / float64(st.RTrades)
	}
	return st
}

// TradeR is the trade's stored P/L in multiples of the risk to its stop.
func TradeR(t Trade) (float64, bool) {
	if t.StopLoss == nil {
		return 0, false
	}
	planned, ok := risk.PlannedRisk(t.Size, t.Entry, *t.StopLoss, market.Resolve(t.Pair))
	if !ok || planned == 0 {
		return 0, false
	}
	return risk.RMultiple(t.PnL, planned), true
}
