package stocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"stoxwatch/pkg/news"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/assert/v2"
	"github.com/redis/go-redis/v9"
)

type fakeSearcher struct {
	mu           sync.Mutex
	matches      []news.SymbolMatch
	searchErr    error
	profiles     map[string]*news.CompanyProfile
	searchCalls  int
	profileCalls map[string]int
}

func (f *fakeSearcher) SearchSymbols(ctx context.Context, query string) ([]news.SymbolMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.matches, f.searchErr
}

func (f *fakeSearcher) CompanyProfile(ctx context.Context, symbol string) (*news.CompanyProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileCalls == nil {
		f.profileCalls = map[string]int{}
	}
	f.profileCalls[symbol]++
	p, ok := f.profiles[symbol]
	if !ok {
		return nil, errors.New("not covered")
	}
	return p, nil
}

type fakeWatchlist struct {
	symbols map[string][]string
}

func (f *fakeWatchlist) SymbolsByUser(ctx context.Context, userID string) ([]string, error) {
	return f.symbols[userID], nil
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisCache(client)
}

func popularFixture() ([]string, map[string]*news.CompanyProfile) {
	var symbols []string
	profiles := map[string]*news.CompanyProfile{}
	for i := 0; i < 12; i++ {
		sym := fmt.Sprintf("S%02d", i)
		symbols = append(symbols, sym)
		profiles[sym] = &news.CompanyProfile{Symbol: sym, Name: "Company " + sym, Exchange: "NASDAQ NMS"}
	}
	// one lookup returns no name and one fails
	profiles["S03"] = &news.CompanyProfile{Symbol: "S03"}
	delete(profiles, "S05")
	return symbols, profiles
}

func TestSearchEmptyQueryReturnsPopularProfiles(t *testing.T) {
	symbols, profiles := popularFixture()
	searcher := &fakeSearcher{profiles: profiles}
	_, cache := newTestCache(t)
	svc := NewService(searcher, &fakeWatchlist{}, cache, symbols)

	got := svc.Search(context.Background(), "   ", "")

	// first ten popular symbols, minus the nameless and failed lookups, order kept
	want := []string{"S00", "S01", "S02", "S04", "S06", "S07", "S08", "S09"}
	assert.Equal(t, len(want), len(got))
	for i, s := range got {
		assert.Equal(t, want[i], s.Symbol)
		assert.Equal(t, "Company "+want[i], s.Name)
		assert.Equal(t, "NASDAQ NMS", s.Exchange)
		assert.Equal(t, "Common Stock", s.Type)
		assert.Equal(t, false, s.IsInWatchlist)
	}
	assert.Equal(t, 0, searcher.profileCalls["S10"])
	assert.Equal(t, 0, searcher.searchCalls)
}

func TestSearchPopularUsesProfileCache(t *testing.T) {
	symbols, profiles := popularFixture()
	searcher := &fakeSearcher{profiles: profiles}
	mr, cache := newTestCache(t)
	svc := NewService(searcher, &fakeWatchlist{}, cache, symbols)

	svc.Search(context.Background(), "", "")
	svc.Search(context.Background(), "", "")
	assert.Equal(t, 1, searcher.profileCalls["S00"])
	// failures are not cached
	assert.Equal(t, 2, searcher.profileCalls["S05"])

	assert.Equal(t, time.Hour, mr.TTL("stoxwatch:cache:profile:S00"))
}

func TestSearchQueryMapsMatches(t *testing.T) {
	searcher := &fakeSearcher{matches: []news.SymbolMatch{
		{Symbol: "aapl", Description: "APPLE INC", Type: "Common Stock"},
		{Symbol: "APC.DE", Description: "", Type: ""},
		{Symbol: " "},
	}}
	mr, cache := newTestCache(t)
	assert.Equal(t, nil, cache.Set(context.Background(), profileKey("AAPL"), news.CompanyProfile{Name: "Apple", Exchange: "NASDAQ"}, time.Hour))

	svc := NewService(searcher, &fakeWatchlist{symbols: map[string][]string{"u1": {"aapl"}}}, cache, nil)
	got := svc.Search(context.Background(), "apple", "u1")

	assert.Equal(t, 2, len(got))
	assert.Equal(t, Stock{Symbol: "AAPL", Name: "APPLE INC", Exchange: "NASDAQ", Type: "Common Stock", IsInWatchlist: true}, got[0])
	assert.Equal(t, Stock{Symbol: "APC.DE", Name: "APC.DE", Exchange: "US", Type: "Stock"}, got[1])

	svc.Search(context.Background(), "APPLE", "")
	assert.Equal(t, 1, searcher.searchCalls)
	assert.Equal(t, 30*time.Minute, mr.TTL("stoxwatch:cache:search:apple"))
}

func TestSearchCapsResults(t *testing.T) {
	var matches []news.SymbolMatch
	for i := 0; i < 20; i++ {
		matches = append(matches, news.SymbolMatch{Symbol: fmt.Sprintf("T%d", i)})
	}
	svc := NewService(&fakeSearcher{matches: matches}, &fakeWatchlist{}, nil, nil)

	assert.Equal(t, 15, len(svc.Search(context.Background(), "t", "")))
}

func TestSearchUpstreamErrorIsEmpty(t *testing.T) {
	svc := NewService(&fakeSearcher{searchErr: errors.New("429")}, &fakeWatchlist{}, nil, nil)

	got := svc.Search(context.Background(), "apple", "u1")
	assert.NotEqual(t, nil, got)
	assert.Equal(t, 0, len(got))
}

func TestDetail(t *testing.T) {
	searcher := &fakeSearcher{profiles: map[string]*news.CompanyProfile{
		"MSFT": {Symbol: "MSFT", Name: "Microsoft Corp", Exchange: "NASDAQ", Industry: "Technology"},
		"NONE": {Symbol: "NONE"},
	}}
	svc := NewService(searcher, &fakeWatchlist{symbols: map[string][]string{"u1": {"MSFT"}}}, nil, nil)

	d, err := svc.Detail(context.Background(), "msft", "u1")
	assert.Equal(t, nil, err)
	assert.Equal(t, "Microsoft Corp", d.Name)
	assert.Equal(t, "Technology", d.Industry)
	assert.Equal(t, true, d.IsInWatchlist)

	_, err = svc.Detail(context.Background(), "none", "")
	assert.Equal(t, true, errors.Is(err, ErrNotFound))

	_, err = svc.Detail(context.Background(), "ZZZZ", "")
	assert.NotEqual(t, nil, err)
}
