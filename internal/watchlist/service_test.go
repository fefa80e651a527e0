package watchlist

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"stoxwatch/internal/model"
	"stoxwatch/internal/repository"

	"github.com/go-playground/assert/v2"
)

// memStore mimics the unique (userId, symbol) index.
type memStore struct {
	entries         []model.WatchlistEntry
	skipExistsCheck bool
}

func (m *memStore) find(userID, symbol string) int {
	for i, e := range m.entries {
		if e.UserID == userID && e.Symbol == symbol {
			return i
		}
	}
	return -1
}

func (m *memStore) Add(ctx context.Context, entry *model.WatchlistEntry) error {
	if m.find(entry.UserID, entry.Symbol) >= 0 {
		return repository.ErrDuplicate
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memStore) Remove(ctx context.Context, userID, symbol string) error {
	i := m.find(userID, symbol)
	if i < 0 {
		return repository.ErrNotFound
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	return nil
}

func (m *memStore) Exists(ctx context.Context, userID, symbol string) (bool, error) {
	if m.skipExistsCheck {
		return false, nil
	}
	return m.find(userID, symbol) >= 0, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID string) ([]model.WatchlistEntry, error) {
	var out []model.WatchlistEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (m *memStore) SymbolsByUser(ctx context.Context, userID string) ([]string, error) {
	entries, _ := m.ListByUser(ctx, userID)
	var out []string
	for _, e := range entries {
		out = append(out, e.Symbol)
	}
	return out, nil
}

func newTestService(store *memStore) *Service {
	s := NewService(store)
	tick := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return s
}

func TestAddNormalizesAndRejectsDuplicates(t *testing.T) {
	store := &memStore{}
	s := newTestService(store)
	ctx := context.Background()

	res, err := s.Add(ctx, "u1", " aapl ", "Apple Inc")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, res.Success)
	assert.Equal(t, "AAPL", store.entries[0].Symbol)

	res, err = s.Add(ctx, "u1", "AAPL", "Apple Inc")
	assert.Equal(t, true, errors.Is(err, ErrExists))
	assert.Equal(t, false, res.Success)

	// same symbol for another user is fine
	res, _ = s.Add(ctx, "u2", "AAPL", "")
	assert.Equal(t, true, res.Success)
	assert.Equal(t, "AAPL", store.entries[1].Company)
}

func TestAddRaceHitsUniqueIndex(t *testing.T) {
	store := &memStore{}
	s := newTestService(store)
	_, _ = s.Add(context.Background(), "u1", "MSFT", "Microsoft")

	store.skipExistsCheck = true
	res, err := s.Add(context.Background(), "u1", "MSFT", "Microsoft")
	assert.Equal(t, true, errors.Is(err, ErrExists))
	assert.Equal(t, false, res.Success)
}

func TestAddRejectsBlankSymbol(t *testing.T) {
	res, err := newTestService(&memStore{}).Add(context.Background(), "u1", "  ", "x")
	assert.Equal(t, true, errors.Is(err, ErrInvalidSymbol))
	assert.Equal(t, false, res.Success)
}

func TestRemove(t *testing.T) {
	store := &memStore{}
	s := newTestService(store)
	ctx := context.Background()
	_, _ = s.Add(ctx, "u1", "TSLA", "Tesla")

	res, err := s.Remove(ctx, "u1", "tsla")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, res.Success)

	res, err = s.Remove(ctx, "u1", "TSLA")
	assert.Equal(t, true, errors.Is(err, ErrNotInList))
	assert.Equal(t, false, res.Success)
}

func TestListNewestFirst(t *testing.T) {
	s := newTestService(&memStore{})
	ctx := context.Background()
	for _, sym := range []string{"AAPL", "MSFT", "NVDA"} {
		_, _ = s.Add(ctx, "u1", sym, sym)
	}

	symbols, err := s.SymbolsByUser(ctx, "u1")
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"NVDA", "MSFT", "AAPL"}, symbols)

	entries, _ := s.List(ctx, "u1")
	assert.Equal(t, 3, len(entries))
	assert.Equal(t, "NVDA", entries[0].Symbol)
}
