package journal

import (
	"fmt"
	"strings"
	"time"
)

// Query narrows a listing. Zero fields match everything; From and To are
// inclusive calendar dates.
type Query struct {
	Pair      string
	Direction string
	From      string
	To        string
}

func (q Query) Validate() error {
	for _, d := range []string{q.From, q.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("%w: date filter %q must be YYYY-MM-DD", ErrInvalidTrade, d)
		}
	}
	if q.From != "" && q.To != "" && q.From > q.To {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvalidTrade, q.From, q.To)
	}
	return nil
}

func (q Query) Empty() bool {
	return q == Query{}
}

func (q Query) Match(t Trade) bool {
	if q.Pair != "" && !strings.EqualFold(q.Pair, t.Pair) {
		return false
	}
	if q.Direction != "" && !strings.EqualFold(q.Direction, string(t.Direction)) {
		return false
	}
	// DateLayout sorts lexically
	if q.From != "" && t.Date < q.From {
		return false
	}
	if q.To != "" && t.Date > q.To {
		return false
	}
	return true
}

// Apply keeps the order of trades.
func (q Query) Apply(trades []Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if q.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
