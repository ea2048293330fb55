package market

// ToAccount converts a quote-currency amount into the account currency
// (USD). JPY-quoted amounts are divided by rate, which callers pass as the
// trade's own price in place of a live USD/JPY quote. Everything else is
// assumed to already be in USD.
func ToAccount(inst Instrument, amount, rate float64) float64 {
	if inst.JPYQuote() {
		return amount / rate
	}
	return amount
}
