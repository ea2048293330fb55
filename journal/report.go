package journal

import (
	"fmt"
	"io"
	"sort"
	"text/template"
	"time"
)

// Report is an Org-mode performance summary over a set of trades.
type Report struct {
	Owner   string
	Query   Query
	Created time.Time
	Stats   Stats
	Pairs   []PairStats
	Notes   []string
}

type PairStats struct {
	Pair   string  `json:"pair"`
	Trades int     `json:"trades"`
	Wins   int     `json:"wins"`
	NetPnL float64 `json:"net_pnl"`
}

// NewReport summarizes trades, already filtered by q.
func NewReport(owner string, q Query, trades []Trade, now time.Time) Report {
	st := Summarize(trades)
	pairs := SummarizeByPair(trades)
	return Report{
		Owner:   owner,
		Query:   q,
		Created: now,
		Stats:   st,
		Pairs:   pairs,
		Notes:   observations(trades, st, pairs),
	}
}

// observations flags habits worth reviewing: missing stops, a negative
// average R, the best and worst pairs, and losses outnumbering wins.
func observations(trades []Trade, st Stats, pairs []PairStats) []string {
	var notes []string

	noStop := 0
	for _, t := range trades {
		if t.StopLoss == nil {
			noStop++
		}
	}
	if noStop > 0 {
		notes = append(notes, fmt.Sprintf("%d of %d trades logged without a stop-loss; R is unknown for them", noStop, len(trades)))
	}
	if st.RTrades > 0 && st.AvgR < 0 {
		notes = append(notes, fmt.Sprintf("average R is negative (%.2f)", st.AvgR))
	}
	if len(pairs) > 1 {
		best, worst := pairs[0], pairs[len(pairs)-1]
		notes = append(notes, fmt.Sprintf("best pair %s at %.2f", best.Pair, best.NetPnL))
		if worst.NetPnL < 0 {
			notes = append(notes, fmt.Sprintf("worst pair %s at %.2f", worst.Pair, worst.NetPnL))
		}
	}
	if st.Losses > st.Wins {
		notes = append(notes, fmt.Sprintf("more losses than wins (%d vs %d)", st.Losses, st.Wins))
	}
	return notes
}

// SummarizeByPair groups trades by pair, best net P/L first.
func SummarizeByPair(trades []Trade) []PairStats {
	groups := map[string][]Trade{}
	for _, t := range trades {
		groups[t.Pair] = append(groups[t.Pair], t)
	}

	out := make([]PairStats, 0, len(groups))
	for pair, ts := range groups {
		st := Summarize(ts)
		out = append(out, PairStats{Pair: pair, Trades: st.Trades, Wins: st.Wins, NetPnL: st.NetPnL})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetPnL != out[j].NetPnL {
			return out[i].NetPnL > out[j].NetPnL
		}
		return out[i].Pair < out[j].Pair
	})
	return out
}

var reportOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orAll": func(s string) string {
		if s == "" {
			return "(all)"
		}
		return s
	},
}

var reportOrg = template.Must(template.New("report").Funcs(reportOrgFuncs).Parse(reportOrgTemplate))

func (r Report) WriteOrg(w io.Writer) error {
	return reportOrg.Execute(w, r)
}

const reportOrgTemplate = `* JOURNAL REPORT {{.Created.Format "2006-01-02"}}
:PROPERTIES:
:OWNER:       {{.Owner}}
:PAIR:        {{orAll .Query.Pair}}
:TYPE:        {{orAll .Query.Direction}}
:FROM:        {{orAll .Query.From}}
:TO:          {{orAll .Query.To}}
:TRADES:      {{.Stats.Trades}}
:WINS:        {{.Stats.Wins}}
:LOSSES:      {{.Stats.Losses}}
:NET_PL:      {{printf "%.2f" .Stats.NetPnL}}
:WIN_RATE:    {{printf "%.2f" (mul100 .Stats.WinRate)}}
:PROFIT_FAC:  {{if ne .Stats.ProfitFactor 0.0}}{{printf "%.2f" .Stats.ProfitFactor}}{{else}}(no losses){{end}}
:CREATED:     [{{.Created.Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:        *{{printf "%.2f" .Stats.NetPnL}}*
- Gross profit:   *{{printf "%.2f" .Stats.GrossProfit}}*
- Gross loss:     *{{printf "%.2f" .Stats.GrossLoss}}*
- Best / worst:   *{{printf "%.2f" .Stats.Best}}* / *{{printf "%.2f" .Stats.Worst}}*
- Win rate:       *{{printf "%.2f" (mul100 .Stats.WinRate)}}%*
{{- if .Stats.RTrades }}
- Average R:      *{{printf "%.2f" .Stats.AvgR}}* over {{.Stats.RTrades}} trades with a stop
{{- end }}

** By Pair
| Pair | Trades | Wins | Net P/L |
|------+--------+------+---------|
{{- range .Pairs }}
| {{.Pair}} | {{.Trades}} | {{.Wins}} | {{printf "%.2f" .NetPnL}} |
{{- end }}

** Trade Distribution
| Outcome   | Count |
|-----------+-------|
| Wins      | {{.Stats.Wins}} |
| Losses    | {{.Stats.Losses}} |
| Breakeven | {{.Stats.Breakeven}} |
| Total     | {{.Stats.Trades}} |
{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
