package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

type SQLite struct {
	db  *sql.DB
	ids *id.Generator
	now func() time.Time
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one writer; avoids "database is locked" under concurrent requests
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, ids: id.NewGenerator(nil), now: time.Now}, nil
}

const tradeColumns = `id, user_id, pair, type, size, entry, exit, stop_loss, pnl, date, comments, created_at, updated_at`

func (j *SQLite) Insert(ctx context.Context, t *Trade) (string, error) {
	if t.ID == "" {
		t.ID = j.ids.New()
	}
	now := j.now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Pair, string(t.Direction), t.Size, t.Entry, t.Exit,
		nullFloat(t.StopLoss), t.PnL, t.Date, nullString(t.Comment), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

func (j *SQLite) Update(ctx context.Context, id string, t Trade) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE trades
		SET pair = ?, type = ?, size = ?, entry = ?, exit = ?, stop_loss = ?,
			pnl = ?, date = ?, comments = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Pair, string(t.Direction), t.Size, t.Entry, t.Exit, nullFloat(t.StopLoss),
		t.PnL, t.Date, nullString(t.Comment), j.now().UTC(),
		id, t.OwnerID,
	)
	if err != nil {
		return err
	}
	return requireOne(res, id)
}

func (j *SQLite) Delete(ctx context.Context, ownerID, id string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return requireOne(res, id)
}

func (j *SQLite) Get(ctx context.Context, id string) (Trade, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Trade{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return t, err
}

func (j *SQLite) ListByOwner(ctx context.Context, ownerID string) ([]Trade, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ?
		ORDER BY date DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (Trade, error) {
	var (
		t        Trade
		dir      string
		stop     sql.NullFloat64
		comments sql.NullString
	)
	err := s.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Pair,
		&dir,
		&t.Size,
		&t.Entry,
		&t.Exit,
		&stop,
		&t.PnL,
		&t.Date,
		&comments,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return Trade{}, err
	}
	t.Direction = market.Direction(dir)
	if stop.Valid {
		v := stop.Float64
		t.StopLoss = &v
	}
	t.Comment = comments.String
	return t, nil
}

func requireOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
