package stocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"stoxwatch/pkg/news"
)

const (
	popularLimit  = 10
	maxResults    = 15
	profileTTL    = time.Hour
	searchTTL     = 30 * time.Minute
	defaultType   = "Stock"
	popularType   = "Common Stock"
	defaultMarket = "US"
)

var ErrNotFound = errors.New("stocks: symbol not found")

type Searcher interface {
	SearchSymbols(ctx context.Context, query string) ([]news.SymbolMatch, error)
	CompanyProfile(ctx context.Context, symbol string) (*news.CompanyProfile, error)
}

type WatchlistSymbols interface {
	SymbolsByUser(ctx context.Context, userID string) ([]string, error)
}

type Stock struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Type          string `json:"type"`
	IsInWatchlist bool   `json:"isInWatchlist"`
}

type Detail struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Industry      string `json:"industry"`
	Country       string `json:"country"`
	Logo          string `json:"logo"`
	WebURL        string `json:"weburl"`
	IsInWatchlist bool   `json:"isInWatchlist"`
}

type Service struct {
	searcher  Searcher
	watchlist WatchlistSymbols
	cache     Cache
	popular   []string
}

func NewService(searcher Searcher, watchlist WatchlistSymbols, cache Cache, popular []string) *Service {
	return &Service{searcher: searcher, watchlist: watchlist, cache: cache, popular: popular}
}

// Search never fails: upstream errors yield an empty list.
func (s *Service) Search(ctx context.Context, query, userID string) []Stock {
	query = strings.TrimSpace(query)

	var results []Stock
	if query == "" {
		results = s.popularStocks(ctx)
	} else {
		results = s.searchStocks(ctx, query)
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	s.markWatchlist(ctx, userID, results)
	return results
}

func (s *Service) Detail(ctx context.Context, symbol, userID string) (*Detail, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrNotFound
	}

	profile, err := s.profile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if profile.Name == "" {
		return nil, ErrNotFound
	}

	d := &Detail{
		Symbol:   symbol,
		Name:     profile.Name,
		Exchange: orDefault(profile.Exchange, defaultMarket),
		Industry: profile.Industry,
		Country:  profile.Country,
		Logo:     profile.Logo,
		WebURL:   profile.WebURL,
	}

	if userID != "" {
		set := s.watchlistSet(ctx, userID)
		d.IsInWatchlist = set[symbol]
	}
	return d, nil
}

func (s *Service) popularStocks(ctx context.Context) []Stock {
	symbols := s.popular
	if len(symbols) > popularLimit {
		symbols = symbols[:popularLimit]
	}

	profiles := make([]*news.CompanyProfile, len(symbols))
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			p, err := s.profile(ctx, sym)
			if err != nil {
				slog.Warn("popular profile lookup failed", "symbol", sym, "error", err)
				return
			}
			profiles[i] = p
		}(i, sym)
	}
	wg.Wait()

	results := make([]Stock, 0, len(symbols))
	for i, p := range profiles {
		if p == nil || p.Name == "" {
			continue
		}
		results = append(results, Stock{
			Symbol:   strings.ToUpper(symbols[i]),
			Name:     p.Name,
			Exchange: orDefault(p.Exchange, defaultMarket),
			Type:     popularType,
		})
	}
	return results
}

func (s *Service) searchStocks(ctx context.Context, query string) []Stock {
	key := "search:" + strings.ToLower(query)

	var matches []news.SymbolMatch
	if !s.cacheGet(ctx, key, &matches) {
		var err error
		matches, err = s.searcher.SearchSymbols(ctx, query)
		if err != nil {
			slog.Error("symbol search failed", "query", query, "error", err)
			return []Stock{}
		}
		s.cacheSet(ctx, key, matches, searchTTL)
	}

	results := make([]Stock, 0, len(matches))
	for _, m := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(m.Symbol))
		if symbol == "" {
			continue
		}

		exchange := defaultMarket
		var cached news.CompanyProfile
		if s.cacheGet(ctx, profileKey(symbol), &cached) && cached.Exchange != "" {
			exchange = cached.Exchange
		}

		results = append(results, Stock{
			Symbol:   symbol,
			Name:     orDefault(m.Description, symbol),
			Exchange: exchange,
			Type:     orDefault(m.Type, defaultType),
		})
	}
	return results
}

func (s *Service) profile(ctx context.Context, symbol string) (*news.CompanyProfile, error) {
	var cached news.CompanyProfile
	if s.cacheGet(ctx, profileKey(symbol), &cached) {
		return &cached, nil
	}

	p, err := s.searcher.CompanyProfile(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", symbol, err)
	}
	if p.Name != "" {
		s.cacheSet(ctx, profileKey(symbol), p, profileTTL)
	}
	return p, nil
}

func (s *Service) markWatchlist(ctx context.Context, userID string, results []Stock) {
	if userID == "" || len(results) == 0 {
		return
	}
	set := s.watchlistSet(ctx, userID)
	for i := range results {
		results[i].IsInWatchlist = set[results[i].Symbol]
	}
}

func (s *Service) watchlistSet(ctx context.Context, userID string) map[string]bool {
	symbols, err := s.watchlist.SymbolsByUser(ctx, userID)
	if err != nil {
		slog.Warn("watchlist lookup failed", "user_id", userID, "error", err)
		return nil
	}
	set := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		set[strings.ToUpper(sym)] = true
	}
	return set
}

func (s *Service) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		slog.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *Service) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

func profileKey(symbol string) string {
	return "profile:" + symbol
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
