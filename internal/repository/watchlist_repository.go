package repository

import (
	"context"
	"fmt"

	"stoxwatch/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const watchlistCollection = "watchlists"

type WatchlistRepository struct {
	collection *mongo.Collection
}

func NewWatchlistRepository(db *mongo.Database) *WatchlistRepository {
	return &WatchlistRepository{collection: db.Collection(watchlistCollection)}
}

// EnsureIndexes creates the unique (userId, symbol) index.
func (r *WatchlistRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "symbol", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("watchlist index: %w", err)
	}
	return nil
}

func (r *WatchlistRepository) Add(ctx context.Context, entry *model.WatchlistEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *WatchlistRepository) Remove(ctx context.Context, userID, symbol string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "symbol": symbol})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WatchlistRepository) Exists(ctx context.Context, userID, symbol string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID, "symbol": symbol}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns the user's entries newest first.
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string) ([]model.WatchlistEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []model.WatchlistEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return entries, nil
}

func (r *WatchlistRepository) SymbolsByUser(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().
			SetProjection(bson.M{"symbol": 1, "_id": 0}).
			SetSort(bson.D{{Key: "addedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist symbols: %w", err)
	}
	defer cursor.Close(ctx)

	var symbols []string
	for cursor.Next(ctx) {
		var result struct {
			Symbol string `bson:"symbol"`
		}
		if err := cursor.Decode(&result); err != nil {
			continue
		}
		if result.Symbol != "" {
			symbols = append(symbols, result.Symbol)
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return symbols, nil
}
