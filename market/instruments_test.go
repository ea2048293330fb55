package market

import (
	"testing"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		symbol   string
		contract float64
		pip      float64
		jpy      bool
		kind     Kind
	}{
		{"EUR/USD", 100000, 10, false, KindFX},
		{"USD/JPY", 100000, 7, true, KindFX},
		{"EUR/JPY", 100000, 7, true, KindFX},
		{"GBP/JPY", 100000, 7, true, KindFX},
		{"EUR/GBP", 100000, 10, false, KindFX},
		{"XAU/USD", 100, 1, false, KindMetal},
		{"WTI", 1000, 10, false, KindEnergy},
		{"CAD/JPY", 100000, 7, true, KindFX},
		{"", 100000, 10, false, KindFX},
		{"xau/usd", 100, 1, false, KindMetal},
		{" wti ", 1000, 10, false, KindEnergy},
		{"Wti", 1000, 10, false, KindEnergy},
		{"usd/jpy", 100000, 7, true, KindFX},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.symbol, func(t *testing.T) {
			t.Parallel()
			inst := Resolve(tt.symbol)
			assert.Equal(t, tt.contract, inst.ContractSize)
			assert.Equal(t, tt.pip, inst.PipValue)
			assert.Equal(t, tt.jpy, inst.JPYQuote())
			assert.Equal(t, tt.kind, inst.Kind)
		})
	}
}

func TestResolveNormalizesSymbol(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Gold, Resolve(" xau/usd").Symbol)
	assert.Equal(t, WTI, Resolve("wti").Symbol)
	assert.Equal(t, Resolve("GBP/JPY"), Resolve("gbp/jpy "))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, s := range append(append([]string{}, DefaultSymbols...), ExtendedSymbols...) {
		inst, ok := Lookup(s)
		require.True(t, ok, s)
		assert.Equal(t, s, inst.Symbol)
	}

	_, ok := Lookup("BTC/USD")
	assert.False(t, ok)
}

func TestToAccount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 500.0, ToAccount(Resolve("EUR/USD"), 500, 1.105))
	assert.InDelta(t, 334.448, ToAccount(Resolve("USD/JPY"), 50000, 149.5), 1e-3)
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	d, err := ParseDirection(" buy ")
	require.NoError(t, err)
	assert.Equal(t, Buy, d)

	d, err = ParseDirection("SELL")
	require.NoError(t, err)
	assert.Equal(t, Sell, d)

	_, err = ParseDirection("hold")
	assert.Error(t, err)
	assert.False(t, Direction("hold").Valid())
}

func TestCatalogInstrumentSet(t *testing.T) {
	t.Parallel()

	c := NewCatalog("desk@example.com")

	tests := []struct {
		name string
		id   auth.Identity
		want int
		wti  bool
	}{
		{"anonymous", auth.Identity{}, 11, false},
		{"regular", auth.Identity{ID: "u1", Email: "someone@example.com"}, 11, false},
		{"case differs", auth.Identity{ID: "u2", Email: "Desk@example.com"}, 11, false},
		{"privileged", auth.Identity{ID: "u3", Email: "desk@example.com"}, 12, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			set := c.InstrumentSet(tt.id)
			assert.Len(t, set, tt.want)
			assert.Equal(t, tt.wti, c.Allows(tt.id, WTI))
			assert.Equal(t, tt.wti, c.IsPrivileged(tt.id))
			for i, s := range DefaultSymbols {
				assert.Equal(t, s, set[i].Symbol)
			}
		})
	}
}

func TestCatalogNoPrivilegedEmail(t *testing.T) {
	t.Parallel()

	c := NewCatalog("")
	assert.False(t, c.IsPrivileged(auth.Identity{ID: "u1"}))
	assert.Len(t, c.InstrumentSet(auth.Identity{ID: "u1"}), 11)

	var nilCatalog *Catalog
	assert.False(t, nilCatalog.IsPrivileged(auth.Identity{Email: "x"}))
}
