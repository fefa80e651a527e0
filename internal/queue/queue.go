package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	EventsKey     = "stoxwatch:queue:events"
	DeadLetterKey = "stoxwatch:queue:failed"
)

// Event names carried on the queue.
const (
	EventUserCreated       = "app/user.created"
	EventSendDailyNews     = "app/send.daily.news"
	EventSendWatchlistNews = "app/send.watchlist.news"
)

type Event struct {
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEvent encodes data as the event payload.
func NewEvent(name string, data any) (Event, error) {
	e := Event{Name: name, CreatedAt: time.Now().UTC()}
	if data == nil {
		return e, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	e.Data = raw
	return e, nil
}

type Queue struct {
	redis *redis.Client
	key   string
}

func New(client *redis.Client) *Queue {
	return &Queue{redis: client, key: EventsKey}
}

func (q *Queue) Publish(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.redis.LPush(ctx, q.key, raw).Err()
}

// Consume blocks up to timeout for the next event. It returns (nil, nil)
// when the timeout elapses with nothing queued.
func (q *Queue) Consume(ctx context.Context, timeout time.Duration) (*Event, error) {
	result, err := q.redis.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		_ = q.redis.LPush(ctx, DeadLetterKey, result[1]).Err()
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &event, nil
}

// DeadLetter parks an event that could not be handled.
func (q *Queue) DeadLetter(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.redis.LPush(ctx, DeadLetterKey, raw).Err()
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.redis.LLen(ctx, q.key).Result()
}
