package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/tradejournal/market"
)

func TestQueryApply(t *testing.T) {
	t.Parallel()

	eur := sampleTrade("u1", "2024-03-15")
	eur.ID = "a"
	jpy := sampleTrade("u1", "2024-04-01")
	jpy.ID = "b"
	jpy.Pair = "USD/JPY"
	jpy.Direction = market.Sell
	old := sampleTrade("u1", "2023-12-31")
	old.ID = "c"
	all := []Trade{jpy, eur, old}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty", Query{}, []string{"b", "a", "c"}},
		{"pair any case", Query{Pair: "usd/jpy"}, []string{"b"}},
		{"direction", Query{Direction: "buy"}, []string{"a", "c"}},
		{"from inclusive", Query{From: "2024-03-15"}, []string{"b", "a"}},
		{"to inclusive", Query{To: "2024-03-15"}, []string{"a", "c"}},
		{"window", Query{From: "2024-01-01", To: "2024-03-31"}, []string{"a"}},
		{"nothing", Query{Pair: "GBP/USD"}, []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := []string{}
			for _, tr := range tt.q.Apply(all) {
				got = append(got, tr.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Query{}.Validate())
	assert.NoError(t, Query{From: "2024-01-01", To: "2024-01-01"}.Validate())
	assert.ErrorIs(t, Query{From: "2024-1-1"}.Validate(), ErrInvalidTrade)
	assert.ErrorIs(t, Query{From: "2024-02-01", To: "2024-01-01"}.Validate(), ErrInvalidTrade)

	assert.True(t, Query{}.Empty())
	assert.False(t, Query{Pair: "EUR/USD"}.Empty())
}
