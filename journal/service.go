package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/market"
	"github.com/rustyeddy/tradejournal/metrics"
)

// Service applies validation and ownership rules on top of a Store. It
// never retries a failed store call.
type Service struct {
	store   Store
	catalog *market.Catalog
	log     *zap.Logger
}

func NewService(store Store, catalog *market.Catalog, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, catalog: catalog, log: log.Named("journal")}
}

// Add validates d and stores it for who. Nothing is written when
// validation fails.
func (s *Service) Add(ctx context.Context, who auth.Identity, d Draft) (Trade, error) {
	t, err := s.build(who, d)
	if err != nil {
		return Trade{}, err
	}

	start := time.Now()
	_, err = s.store.Insert(ctx, &t)
	metrics.ObserveStore("insert", start, err)
	if err != nil {
		s.log.Error("insert trade", zap.String("user_id", who.ID), zap.String("pair", t.Pair), zap.Error(err))
		return Trade{}, fmt.Errorf("add trade: %w", err)
	}

	s.log.Info("trade added", zap.String("user_id", who.ID), zap.String("trade_id", t.ID), zap.String("pair", t.Pair))
	return t, nil
}

// Edit fully replaces the fields of one of who's trades.
func (s *Service) Edit(ctx context.Context, who auth.Identity, id string, d Draft) (Trade, error) {
	existing, err := s.Get(ctx, who, id)
	if err != nil {
		return Trade{}, err
	}

	t, err := s.build(who, d)
	if err != nil {
		return Trade{}, err
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt

	start := time.Now()
	err = s.store.Update(ctx, id, t)
	metrics.ObserveStore("update", start, err)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("update trade", zap.String("user_id", who.ID), zap.String("trade_id", id), zap.Error(err))
		}
		return Trade{}, fmt.Errorf("edit trade: %w", err)
	}

	return s.Get(ctx, who, id)
}

func (s *Service) Remove(ctx context.Context, who auth.Identity, id string) error {
	if who.Anonymous() {
		return ErrUnauthenticated
	}

	start := time.Now()
	err := s.store.Delete(ctx, who.ID, id)
	metrics.ObserveStore("delete", start, err)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("delete trade", zap.String("user_id", who.ID), zap.String("trade_id", id), zap.Error(err))
		}
		return fmt.Errorf("remove trade: %w", err)
	}

	s.log.Info("trade removed", zap.String("user_id", who.ID), zap.String("trade_id", id))
	return nil
}

// Get returns one of who's trades. Trades owned by someone else look the
// same as missing ones.
func (s *Service) Get(ctx context.Context, who auth.Identity, id string) (Trade, error) {
	if who.Anonymous() {
		return Trade{}, ErrUnauthenticated
	}

	start := time.Now()
	t, err := s.store.Get(ctx, id)
	metrics.ObserveStore("get", start, err)
	if err != nil {
		return Trade{}, err
	}
	if t.OwnerID != who.ID {
		return Trade{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return t, nil
}

// List returns who's trades, newest date first. Callers re-list after any
// mutation; there is no change feed.
func (s *Service) List(ctx context.Context, who auth.Identity) ([]Trade, error) {
	if who.Anonymous() {
		return nil, ErrUnauthenticated
	}

	start := time.Now()
	trades, err := s.store.ListByOwner(ctx, who.ID)
	metrics.ObserveStore("list", start, err)
	if err != nil {
		s.log.Error("list trades", zap.String("user_id", who.ID), zap.Error(err))
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return trades, nil
}

// Find is List narrowed by q.
func (s *Service) Find(ctx context.Context, who auth.Identity, q Query) ([]Trade, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	trades, err := s.List(ctx, who)
	if err != nil {
		return nil, err
	}
	if q.Empty() {
		return trades, nil
	}
	return q.Apply(trades), nil
}

func (s *Service) Stats(ctx context.Context, who auth.Identity, q Query) (Stats, error) {
	trades, err := s.Find(ctx, who, q)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(trades), nil
}

func (s *Service) Report(ctx context.Context, who auth.Identity, q Query, now time.Time) (Report, error) {
	trades, err := s.Find(ctx, who, q)
	if err != nil {
		return Report{}, err
	}
	owner := who.Email
	if owner == "" {
		owner = who.ID
	}
	return NewReport(owner, q, trades, now), nil
}

func (s *Service) build(who auth.Identity, d Draft) (Trade, error) {
	if who.Anonymous() {
		return Trade{}, ErrUnauthenticated
	}

	pair := strings.TrimSpace(d.Pair)
	date := strings.TrimSpace(d.Date)
	switch {
	case pair == "":
		return Trade{}, invalid("pair is required")
	case date == "":
		return Trade{}, invalid("date is required")
	case !d.Direction.Valid():
		return Trade{}, invalid("type must be BUY or SELL")
	case !(d.Size > 0):
		return Trade{}, invalid("size must be positive")
	case !(d.Entry > 0):
		return Trade{}, invalid("entry must be positive")
	case !(d.Exit > 0):
		return Trade{}, invalid("exit must be positive")
	case d.StopLoss != nil && !(*d.StopLoss > 0):
		return Trade{}, invalid("stop_loss must be positive when set")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Trade{}, invalid("date must be YYYY-MM-DD")
	}
	if !s.catalog.Allows(who, pair) {
		return Trade{}, invalid(fmt.Sprintf("instrument %s is not available", pair))
	}

	d.Pair = pair
	if !d.PnL.Overridden {
		d.Recalculate()
		metrics.RecordPnL(d.PnL.HasComputed)
	}
	pnl, ok := d.PnL.Value()
	if !ok {
		return Trade{}, invalid("pnl could not be computed; enter it manually")
	}

	return Trade{
		OwnerID:   who.ID,
		Pair:      pair,
		Direction: d.Direction,
		Size:      d.Size,
		Entry:     d.Entry,
		Exit:      d.Exit,
		StopLoss:  d.StopLoss,
		PnL:       pnl,
		Date:      date,
		Comment:   strings.TrimSpace(d.Comment),
	}, nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidTrade, msg)
}
