package journal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeByPair(t *testing.T) {
	t.Parallel()

	a := sampleTrade("u1", "2024-03-15")
	b := sampleTrade("u1", "2024-03-16")
	b.PnL = -100
	c := sampleTrade("u1", "2024-03-17")
	c.Pair = "GBP/USD"
	c.PnL = 900
	d := sampleTrade("u1", "2024-03-18")
	d.Pair = "AUD/USD"
	d.PnL = 400

	got := SummarizeByPair([]Trade{a, b, c, d})
	require.Len(t, got, 3)
	assert.Equal(t, PairStats{Pair: "GBP/USD", Trades: 1, Wins: 1, NetPnL: 900}, got[0])
	// ties break on pair name
	assert.Equal(t, PairStats{Pair: "AUD/USD", Trades: 1, Wins: 1, NetPnL: 400}, got[1])
	assert.Equal(t, PairStats{Pair: "EUR/USD", Trades: 2, Wins: 1, NetPnL: 400}, got[2])
}

func TestReportWriteOrg(t *testing.T) {
	t.Parallel()

	loss := sampleTrade("u1", "2024-03-16")
	loss.StopLoss = nil
	loss.PnL = -250
	trades := []Trade{sampleTrade("u1", "2024-03-15"), loss}

	created := time.Date(2024, 4, 1, 9, 5, 0, 0, time.UTC)
	r := NewReport("alice@example.com", Query{Pair: "EUR/USD"}, trades, created)

	var buf bytes.Buffer
	require.NoError(t, r.WriteOrg(&buf))
	out := buf.String()

	assert.Contains(t, out, "* JOURNAL REPORT 2024-04-01\n")
	assert.Contains(t, out, ":OWNER:       alice@example.com")
	assert.Contains(t, out, ":PAIR:        EUR/USD")
	assert.Contains(t, out, ":FROM:        (all)")
	assert.Contains(t, out, ":TRADES:      2")
	assert.Contains(t, out, ":NET_PL:      250.00")
	assert.Contains(t, out, ":WIN_RATE:    50.00")
	assert.Contains(t, out, ":PROFIT_FAC:  2.00")
	assert.Contains(t, out, ":CREATED:     [2024-04-01 Mon 09:05]")
	assert.Contains(t, out, "| EUR/USD | 2 | 1 | 250.00 |")
	assert.Contains(t, out, "- Average R:")
	assert.Contains(t, out, "** Observations\n- 1 of 2 trades logged without a stop-loss; R is unknown for them")
}

func TestReportWriteOrgNoLosses(t *testing.T) {
	t.Parallel()

	tr := sampleTrade("u1", "2024-03-15")
	tr.StopLoss = nil
	r := NewReport("u1", Query{}, []Trade{tr}, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, r.WriteOrg(&buf))
	out := buf.String()

	assert.Contains(t, out, ":PROFIT_FAC:  (no losses)")
	assert.NotContains(t, out, "Average R")
	assert.Contains(t, out, "** Observations\n- 1 of 1 trades logged without a stop-loss")
}

func TestReportNotes(t *testing.T) {
	t.Parallel()

	gbp := sampleTrade("u1", "2024-03-16")
	gbp.Pair = "GBP/USD"
	gbp.PnL = -800
	aud := sampleTrade("u1", "2024-03-17")
	aud.Pair = "AUD/USD"
	aud.PnL = -300

	tests := []struct {
		name   string
		trades []Trade
		want   []string
	}{
		{"clean", []Trade{sampleTrade("u1", "2024-03-15")}, nil},
		{"empty", nil, nil},
		{
			"losing pairs",
			[]Trade{sampleTrade("u1", "2024-03-15"), gbp, aud},
			[]string{
				"average R is negative (-0.40)",
				"best pair EUR/USD at 500.00",
				"worst pair GBP/USD at -800.00",
				"more losses than wins (2 vs 1)",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewReport("u1", Query{}, tt.trades, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
			assert.Equal(t, tt.want, r.Notes)

			var buf bytes.Buffer
			require.NoError(t, r.WriteOrg(&buf))
			assert.Equal(t, tt.want != nil, strings.Contains(buf.String(), "** Observations"))
		})
	}
}
