// market/instruments.go
package market

import "strings"

type Kind string

const (
	KindFX     Kind = "FX"
	KindMetal  Kind = "METAL"
	KindEnergy Kind = "ENERGY"
)

// Units per standard lot.
const (
	StandardLot       = 100_000.0
	MetalContractSize = 100.0
	WTIContractSize   = 1_000.0
)

// Pip value per standard lot in account currency. These are fixed
// approximations, not live conversions.
const (
	PipValueFX     = 10.0
	PipValueJPY    = 7.0
	PipValueMetal  = 1.0
	PipValueEnergy = 10.0
)

const (
	Gold = "XAU/USD"
	WTI  = "WTI"
)

type Instrument struct {
	Symbol       string  `json:"symbol"`
	Base         string  `json:"base,omitempty"`
	Quote        string  `json:"quote,omitempty"`
	Kind         Kind    `json:"kind"`
	ContractSize float64 `json:"contract_size"`
	PipValue     float64 `json:"pip_value"`
}

// JPYQuote reports whether P/L comes out in yen and needs converting.
func (i Instrument) JPYQuote() bool {
	return i.Quote == "JPY"
}

// DefaultSymbols is the instrument list every user sees, in display order.
var DefaultSymbols = []string{
	"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF", "AUD/USD", "USD/CAD", "NZD/USD",
	"EUR/GBP", "EUR/JPY", "GBP/JPY", Gold,
}

// ExtendedSymbols are unlocked only for privileged identities.
var ExtendedSymbols = []string{WTI}

var instruments = func() map[string]Instrument {
	m := make(map[string]Instrument, len(DefaultSymbols)+len(ExtendedSymbols))
	for _, s := range DefaultSymbols {
		m[s] = Resolve(s)
	}
	for _, s := range ExtendedSymbols {
		m[s] = Resolve(s)
	}
	return m
}()

// Lookup returns the metadata of a known instrument.
func Lookup(symbol string) (Instrument, bool) {
	inst, ok := instruments[symbol]
	return inst, ok
}

// Normalize trims and upper-cases a symbol as typed by a user.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Resolve never fails. Gold and WTI get their own contract sizes; anything
// else is treated as a currency pair and its quote is taken from the part
// after the slash. Symbols are matched case-insensitively.
func Resolve(symbol string) Instrument {
	symbol = Normalize(symbol)
	switch symbol {
	case Gold:
		return Instrument{
			Symbol:       Gold,
			Base:         "XAU",
			Quote:        "USD",
			Kind:         KindMetal,
			ContractSize: MetalContractSize,
			PipValue:     PipValueMetal,
		}
	case WTI:
		return Instrument{
			Symbol:       WTI,
			Quote:        "USD",
			Kind:         KindEnergy,
			ContractSize: WTIContractSize,
			PipValue:     PipValueEnergy,
		}
	}

	base, quote, _ := strings.Cut(symbol, "/")
	inst := Instrument{
		Symbol:       symbol,
		Base:         base,
		Quote:        quote,
		Kind:         KindFX,
		ContractSize: StandardLot,
		PipValue:     PipValueFX,
	}
	if inst.JPYQuote() {
		inst.PipValue = PipValueJPY
	}
	return inst
}
