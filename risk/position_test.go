package risk

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSizing_PercentExample(t *testing.T) {
	t.Parallel()

	in := SizingInput{
		Balance:      10000,
		Mode:         ModePercent,
		RiskPercent:  1,
		StopLossPips: 50,
		Pair:         "EUR/USD",
		RewardRatio:  2,
	}

	got := ComputeSizing(in)

	assert.InDelta(t, 100.0, got.RiskAmount, 1e-9)
	assert.Equal(t, 10.0, got.PipValue)
	assert.InDelta(t, 0.20, got.Lots, 1e-12)
	assert.Equal(t, Mini, got.LotClass)
	assert.InDelta(t, 20000.0, got.Units, 1e-6)
	assert.InDelta(t, 200.0, got.PotentialProfit, 1e-9)
	assert.InDelta(t, 100.0, got.TakeProfitPips, 1e-9)
}

func TestComputeSizing_FixedAmount(t *testing.T) {
	t.Parallel()

	in := SizingInput{
		Balance:      10000,
		Mode:         ModeFixed,
		RiskPercent:  5, // ignored in fixed mode
		RiskAmount:   35,
		StopLossPips: 25,
		Pair:         "USD/JPY",
		RewardRatio:  3,
	}

	got := ComputeSizing(in)

	assert.InDelta(t, 35.0, got.RiskAmount, 1e-9)
	assert.Equal(t, 7.0, got.PipValue)
	assert.InDelta(t, 0.2, got.Lots, 1e-12)
	assert.InDelta(t, 105.0, got.PotentialProfit, 1e-9)
	assert.InDelta(t, 75.0, got.TakeProfitPips, 1e-9)
}

func TestComputeSizing_PipValuePerInstrument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pair string
		pip  float64
	}{
		{"EUR/USD", 10},
		{"GBP/JPY", 7},
		{"XAU/USD", 1},
		{"WTI", 10},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.pair, func(t *testing.T) {
			t.Parallel()
			got := ComputeSizing(SizingInput{Balance: 1000, Mode: ModePercent, RiskPercent: 1, StopLossPips: 10, Pair: tt.pair})
			assert.Equal(t, tt.pip, got.PipValue)
			assert.InDelta(t, 10/(10*tt.pip), got.Lots, 1e-12)
		})
	}
}

// Units always use the 100,000-unit FX lot, even for gold whose real
// contract is 100 units. ComputePnL does not share this simplification.
func TestComputeSizing_UnitsIgnoreContractSize(t *testing.T) {
	t.Parallel()

	got := ComputeSizing(SizingInput{Balance: 10000, Mode: ModePercent, RiskPercent: 1, StopLossPips: 100, Pair: "XAU/USD"})

	assert.InDelta(t, 1.0, got.Lots, 1e-12)
	assert.Equal(t, got.Lots*100000, got.Units)
	assert.NotEqual(t, got.Lots*100, got.Units)
}

func TestComputeSizing_UnitsAreLotsTimesStandardLot(t *testing.T) {
	t.Parallel()

	for _, stop := range []float64{0.5, 1, 7, 13.3, 50, 250} {
		for _, bal := range []float64{0, 1, 999.99, 10000, 2.5e6} {
			got := ComputeSizing(SizingInput{Balance: bal, Mode: ModePercent, RiskPercent: 1.5, StopLossPips: stop, Pair: "EUR/USD"})
			assert.Equal(t, got.Lots*100000, got.Units)
			assert.GreaterOrEqual(t, got.Lots, 0.0)
		}
	}
}

func TestComputeSizing_ZeroStop(t *testing.T) {
	t.Parallel()

	tests := []SizingInput{
		{Balance: 10000, Mode: ModePercent, RiskPercent: 1, Pair: "EUR/USD", RewardRatio: 2},
		{Balance: 1e9, Mode: ModeFixed, RiskAmount: 5000, Pair: "XAU/USD"},
		{},
	}
	for _, in := range tests {
		got := ComputeSizing(in)
		assert.Zero(t, got.Lots)
		assert.Zero(t, got.Units)
		assert.Equal(t, Nano, got.LotClass)
	}
}

func TestComputeSizing_EmptyInput(t *testing.T) {
	t.Parallel()

	got := ComputeSizing(SizingInput{})
	assert.Equal(t, SizingResult{PipValue: 10, LotClass: Nano}, got)
}

func TestComputeSizing_NonFinite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   SizingInput
	}{
		{"inf balance", SizingInput{Balance: math.Inf(1), Mode: ModePercent, RiskPercent: 1, StopLossPips: 10, Pair: "EUR/USD", RewardRatio: 2}},
		{"nan stop", SizingInput{Balance: 1000, Mode: ModePercent, RiskPercent: 1, StopLossPips: math.NaN(), Pair: "EUR/USD", RewardRatio: 2}},
		{"nan fixed", SizingInput{Mode: ModeFixed, RiskAmount: math.NaN(), StopLossPips: 10, Pair: "EUR/USD"}},
		{"tiny stop", SizingInput{Balance: math.MaxFloat64, Mode: ModePercent, RiskPercent: 100, StopLossPips: 1e-300, Pair: "EUR/USD"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeSizing(tt.in)
			for _, v := range []float64{got.RiskAmount, got.Lots, got.Units, got.PotentialProfit, got.TakeProfitPips} {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			}
			assert.Zero(t, got.Lots)
			assert.Zero(t, got.Units)
		})
	}
}

func TestComputeSizing_Idempotent(t *testing.T) {
	t.Parallel()

	in := SizingInput{Balance: 7321.5, Mode: ModePercent, RiskPercent: 0.7, StopLossPips: 17, Pair: "GBP/JPY", RewardRatio: 1.5}
	assert.Equal(t, ComputeSizing(in), ComputeSizing(in))
}

func TestClassifyLots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lots float64
		want LotClass
	}{
		{0, Nano},
		{0.0099, Nano},
		{0.01, Micro},
		{0.0999, Micro},
		{0.1, Mini},
		{0.9999, Mini},
		{1.0, Standard},
		{42, Standard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyLots(tt.lots), "lots=%v", tt.lots)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMode("Percent")
	require.NoError(t, err)
	assert.Equal(t, ModePercent, m)

	m, err = ParseMode("fixed")
	require.NoError(t, err)
	assert.Equal(t, ModeFixed, m)

	_, err = ParseMode("kelly")
	assert.Error(t, err)
}

func TestSizingResultJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(ComputeSizing(SizingInput{Balance: 10000, Mode: ModePercent, RiskPercent: 1, StopLossPips: 50, Pair: "EUR/USD"}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"lotType":"MINI"`)
}
