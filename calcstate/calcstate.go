// Package calcstate remembers the last calculator input per session so a
// reload can restore it. Entries go stale after an hour.
package calcstate

import (
	"context"
	"time"

	"github.com/rustyeddy/tradejournal/risk"
)

// TTL is how long a saved input stays usable.
const TTL = time.Hour

// Entry is the stored form: the input plus when it was written, in Unix
// milliseconds.
type Entry struct {
	Timestamp int64            `json:"timestamp"`
	Data      risk.SizingInput `json:"data"`
}

func NewEntry(in risk.SizingInput, now time.Time) Entry {
	return Entry{Timestamp: now.UnixMilli(), Data: in}
}

// Expired reports whether the entry is at least TTL old at now.
func (e Entry) Expired(now time.Time) bool {
	return now.UnixMilli()-e.Timestamp >= TTL.Milliseconds()
}

// Store keeps one Entry per session key. Load returns ok=false for missing
// and expired entries; expired ones are removed.
type Store interface {
	Save(ctx context.Context, key string, in risk.SizingInput) error
	Load(ctx context.Context, key string) (risk.SizingInput, bool, error)
	Clear(ctx context.Context, key string) error
}

// Restore loads the saved input for key, falling back to the calculator
// defaults when nothing usable is stored.
func Restore(ctx context.Context, s Store, key string) (risk.SizingInput, bool, error) {
	in, ok, err := s.Load(ctx, key)
	if err != nil || !ok {
		return risk.DefaultSizingInput(), false, err
	}
	return in, true, nil
}
