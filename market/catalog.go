package market

import (
	"strings"

	"github.com/rustyeddy/tradejournal/auth"
)

// Catalog resolves which instruments an identity may trade. The extended
// set is gated by a single exact-match email; swap IsPrivileged for a role
// lookup when one exists.
type Catalog struct {
	privilegedEmail string
}

func NewCatalog(privilegedEmail string) *Catalog {
	return &Catalog{privilegedEmail: strings.TrimSpace(privilegedEmail)}
}

func (c *Catalog) IsPrivileged(id auth.Identity) bool {
	if c == nil || c.privilegedEmail == "" || id.Email == "" {
		return false
	}
	return id.Email == c.privilegedEmail
}

// InstrumentSet returns the instruments available to id, defaults first.
func (c *Catalog) InstrumentSet(id auth.Identity) []Instrument {
	symbols := c.Symbols(id)
	out := make([]Instrument, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, instruments[s])
	}
	return out
}

func (c *Catalog) Symbols(id auth.Identity) []string {
	out := make([]string, 0, len(DefaultSymbols)+len(ExtendedSymbols))
	out = append(out, DefaultSymbols...)
	if c.IsPrivileged(id) {
		out = append(out, ExtendedSymbols...)
	}
	return out
}

func (c *Catalog) Allows(id auth.Identity, symbol string) bool {
	for _, s := range c.Symbols(id) {
		if s == symbol {
			return true
		}
	}
	return false
}
