// journal/journal.go
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/tradejournal/market"
)

var (
	ErrNotFound        = errors.New("trade not found")
	ErrInvalidTrade    = errors.New("invalid trade")
	ErrUnauthenticated = errors.New("you must be signed in to manage trades")
)

// DateLayout is the calendar-date format trades are stored and sent in.
const DateLayout = "2006-01-02"

// Trade is one journal entry. PnL is stored as entered; it usually matches
// what ComputePnL gives for the other fields but the owner may have
// overridden it.
type Trade struct {
	ID        string           `json:"id" bson:"_id"`
	OwnerID   string           `json:"user_id" bson:"user_id"`
	Pair      string           `json:"pair" bson:"pair"`
	Direction market.Direction `json:"type" bson:"type"`
	Size      float64          `json:"size" bson:"size"`
	Entry     float64          `json:"entry" bson:"entry"`
	Exit      float64          `json:"exit" bson:"exit"`
	StopLoss  *float64         `json:"stop_loss" bson:"stop_loss"`
	PnL       float64          `json:"pnl" bson:"pnl"`
	Date      string           `json:"date" bson:"date"`
	Comment   string           `json:"comments,omitempty" bson:"comments,omitempty"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" bson:"updated_at"`
}

// Store is the record store behind the journal. Every read and write is
// scoped to a single owner; the last write wins.
type Store interface {
	// Insert assigns an ID when t.ID is empty and returns it.
	Insert(ctx context.Context, t *Trade) (string, error)
	// Update replaces the trade with the given id owned by t.OwnerID.
	Update(ctx context.Context, id string, t Trade) error
	Delete(ctx context.Context, ownerID, id string) error
	Get(ctx context.Context, id string) (Trade, error)
	// ListByOwner returns newest date first.
	ListByOwner(ctx context.Context, ownerID string) ([]Trade, error)
	Close() error
}
