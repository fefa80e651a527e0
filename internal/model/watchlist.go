package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WatchlistEntry struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID  string             `bson:"userId" json:"user_id"`
	Symbol  string             `bson:"symbol" json:"symbol"`
	Company string             `bson:"company" json:"company"`
	AddedAt time.Time          `bson:"addedAt" json:"added_at"`
}
