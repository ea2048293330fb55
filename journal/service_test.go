package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/market"
)

const bossEmail = "boss@example.com"

var (
	alice = auth.Identity{ID: "u-alice", Email: "alice@example.com"}
	bob   = auth.Identity{ID: "u-bob", Email: "bob@example.com"}
	boss  = auth.Identity{ID: "u-boss", Email: bossEmail}
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewService(store, market.NewCatalog(bossEmail), nil)
}

func eurDraft(date string) Draft {
	d := Draft{
		Pair:      "EUR/USD",
		Direction: market.Buy,
		Size:      1,
		Entry:     1.1000,
		Exit:      1.1050,
		Date:      date,
	}
	d.Recalculate()
	return d
}

func TestServiceAddComputesPnL(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	ctx := context.Background()

	d := eurDraft("2024-03-15")
	d.Comment = "  breakout  "
	got, err := s.Add(ctx, alice, d)
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, alice.ID, got.OwnerID)
	assert.InDelta(t, 500.0, got.PnL, 1e-9)
	assert.Equal(t, "breakout", got.Comment)

	list, err := s.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, got.ID, list[0].ID)
}

func TestServiceAddIgnoresStaleComputed(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	d := eurDraft("2024-03-15")
	d.Exit = 1.1000 // changed without Recalculate

	got, err := s.Add(context.Background(), alice, d)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got.PnL, 1e-9)
}

func TestServiceAddKeepsOverride(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	d := eurDraft("2024-03-15")
	d.PnL.Override(480.25)

	got, err := s.Add(context.Background(), alice, d)
	require.NoError(t, err)
	assert.InDelta(t, 480.25, got.PnL, 1e-9)
}

func TestServiceAddValidation(t *testing.T) {
	t.Parallel()

	s := newTestService(t)

	tests := []struct {
		name   string
		who    auth.Identity
		mutate func(*Draft)
		want   error
	}{
		{"anonymous", auth.Identity{}, func(*Draft) {}, ErrUnauthenticated},
		{"no pair", alice, func(d *Draft) { d.Pair = " " }, ErrInvalidTrade},
		{"no date", alice, func(d *Draft) { d.Date = "" }, ErrInvalidTrade},
		{"bad date", alice, func(d *Draft) { d.Date = "15/03/2024" }, ErrInvalidTrade},
		{"bad direction", alice, func(d *Draft) { d.Direction = "LONG" }, ErrInvalidTrade},
		{"zero size", alice, func(d *Draft) { d.Size = 0 }, ErrInvalidTrade},
		{"negative entry", alice, func(d *Draft) { d.Entry = -1 }, ErrInvalidTrade},
		{"zero exit", alice, func(d *Draft) { d.Exit = 0 }, ErrInvalidTrade},
		{"zero stop", alice, func(d *Draft) { d.StopLoss = ptr(0) }, ErrInvalidTrade},
		{"unknown pair", alice, func(d *Draft) { d.Pair = "BTC/USD" }, ErrInvalidTrade},
		{"wti not privileged", alice, func(d *Draft) { d.Pair = market.WTI }, ErrInvalidTrade},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := eurDraft("2024-03-15")
			tt.mutate(&d)
			_, err := s.Add(context.Background(), tt.who, d)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestServiceValidationWritesNothing(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	ctx := context.Background()

	d := eurDraft("2024-03-15")
	d.Size = 0
	_, err := s.Add(ctx, alice, d)
	require.Error(t, err)

	list, err := s.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServiceWTIPrivileged(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	d := Draft{Pair: market.WTI, Direction: market.Sell, Size: 2, Entry: 80, Exit: 79.25, Date: "2024-05-01"}

	got, err := s.Add(context.Background(), boss, d)
	require.NoError(t, err)
	assert.InDelta(t, 1500.0, got.PnL, 1e-9)
}

func TestServiceOwnerIsolation(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	ctx := context.Background()

	mine, err := s.Add(ctx, alice, eurDraft("2024-03-15"))
	require.NoError(t, err)

	theirs, err := s.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = s.Get(ctx, bob, mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Edit(ctx, bob, mine.ID, eurDraft("2024-03-16"))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Remove(ctx, bob, mine.ID), ErrNotFound)

	still, err := s.Get(ctx, alice, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", still.Date)
}

func TestServiceEdit(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	ctx := context.Background()

	orig, err := s.Add(ctx, alice, eurDraft("2024-03-15"))
	require.NoError(t, err)

	d := DraftFrom(orig)
	d.Direction = market.Sell
	d.Recalculate()
	d.Comment = "flipped"

	got, err := s.Edit(ctx, alice, orig.ID, d)
	require.NoError(t, err)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, market.Sell, got.Direction)
	assert.InDelta(t, -500.0, got.PnL, 1e-9)
	assert.Equal(t, "flipped", got.Comment)
	assert.True(t, got.CreatedAt.Equal(orig.CreatedAt))
}

func TestServiceEditMissing(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	_, err := s.Edit(context.Background(), alice, "missing", eurDraft("2024-03-15"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceRemove(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	ctx := context.Background()

	tr, err := s.Add(ctx, alice, eurDraft("2024-03-15"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, alice, tr.ID))
	assert.ErrorIs(t, s.Remove(ctx, alice, tr.ID), ErrNotFound)
	assert.ErrorIs(t, s.Remove(ctx, auth.Identity{}, tr.ID), ErrUnauthenticated)

	list, err := s.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServiceFindAndStats(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Add(ctx, alice, eurDraft("2024-03-15"))
	require.NoError(t, err)

	loss := eurDraft("2024-04-01")
	loss.Direction = market.Sell
	loss.Recalculate()
	_, err = s.Add(ctx, alice, loss)
	require.NoError(t, err)

	gold := Draft{Pair: market.Gold, Direction: market.Buy, Size: 1, Entry: 2000, Exit: 2010.5, Date: "2024-04-02"}
	_, err = s.Add(ctx, alice, gold)
	require.NoError(t, err)

	all, err := s.Find(ctx, alice, Query{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	april, err := s.Find(ctx, alice, Query{From: "2024-04-01", To: "2024-04-30"})
	require.NoError(t, err)
	assert.Len(t, april, 2)

	st, err := s.Stats(ctx, alice, Query{Pair: "eur/usd"})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Trades)
	assert.Equal(t, 1, st.Wins)
	assert.Equal(t, 1, st.Losses)
	assert.InDelta(t, 0.0, st.NetPnL, 1e-9)

	_, err = s.Find(ctx, alice, Query{From: "2024-05-01", To: "2024-04-01"})
	assert.ErrorIs(t, err, ErrInvalidTrade)

	_, err = s.Stats(ctx, auth.Identity{}, Query{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
