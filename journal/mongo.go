package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// Mongo keeps trades in a MongoDB collection, one document per trade with
// the ULID as _id.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	ids    *id.Generator
	now    func() time.Time
}

func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection("trades")
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Mongo{client: client, coll: coll, ids: id.NewGenerator(nil), now: time.Now}, nil
}

func (m *Mongo) Insert(ctx context.Context, t *Trade) (string, error) {
	if t.ID == "" {
		t.ID = m.ids.New()
	}
	now := m.now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	if _, err := m.coll.InsertOne(ctx, t); err != nil {
		return "", err
	}
	return t.ID, nil
}

func (m *Mongo) Update(ctx context.Context, id string, t Trade) error {
	set := bson.M{
		"pair":       t.Pair,
		"type":       t.Direction,
		"size":       t.Size,
		"entry":      t.Entry,
		"exit":       t.Exit,
		"stop_loss":  t.StopLoss,
		"pnl":        t.PnL,
		"date":       t.Date,
		"comments":   t.Comment,
		"updated_at": m.now().UTC(),
	}
	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": id, "user_id": t.OwnerID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

func (m *Mongo) Get(ctx context.Context, id string) (Trade, error) {
	var t Trade
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Trade{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return Trade{}, err
	}
	return t, nil
}

func (m *Mongo) ListByOwner(ctx context.Context, ownerID string) ([]Trade, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := m.coll.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Trade{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
