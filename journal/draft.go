package journal

import (
	"time"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/rustyeddy/tradejournal/risk"
)

// Draft is a trade being entered or edited. Numbers left at zero are
// treated as blank.
type Draft struct {
	Pair      string           `json:"pair"`
	Direction market.Direction `json:"type"`
	Size      float64          `json:"size"`
	Entry     float64          `json:"entry"`
	Exit      float64          `json:"exit"`
	StopLoss  *float64         `json:"stop_loss"`
	PnL       risk.Overridable `json:"pnl"`
	Date      string           `json:"date"`
	Comment   string           `json:"comments"`
}

// NewDraft returns an empty form for the given day.
func NewDraft(today time.Time) Draft {
	return Draft{
		Pair:      "EUR/USD",
		Direction: market.Buy,
		Date:      today.Format(DateLayout),
	}
}

// DraftFrom loads a stored trade for editing. If the stored P/L differs
// from what the engine gives for the stored fields, it was overridden and
// stays that way.
func DraftFrom(t Trade) Draft {
	d := Draft{
		Pair:      t.Pair,
		Direction: t.Direction,
		Size:      t.Size,
		Entry:     t.Entry,
		Exit:      t.Exit,
		StopLoss:  t.StopLoss,
		Date:      t.Date,
		Comment:   t.Comment,
	}
	d.Recalculate()
	if v, ok := d.PnL.Value(); !ok || v != t.PnL {
		d.PnL.Override(t.PnL)
	}
	return d
}

// Recalculate reruns the P/L engine against the current fields. Call it
// after any of pair, direction, size, entry or exit change.
func (d *Draft) Recalculate() {
	d.PnL.Recompute(d.ComputedPnL())
}

func (d Draft) ComputedPnL() (float64, bool) {
	return risk.ComputePnL(d.Direction, d.Size, d.Entry, d.Exit, market.Resolve(d.Pair))
}
