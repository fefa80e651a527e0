package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"stoxwatch/internal/model"
	"stoxwatch/pkg/news"
)

const (
	MaxArticles = 6
	newsWindow  = 5 * 24 * time.Hour

	companySummaryLimit = 200
	generalSummaryLimit = 150

	defaultFetchTimeout = 10 * time.Second
)

type CompanyFeed interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]news.Article, error)
}

type GeneralFeed interface {
	MarketNews(ctx context.Context) ([]news.Article, error)
}

type Option func(*Aggregator)

func WithFetchTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.fetchTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// Aggregator builds short, deduplicated news lists either per symbol
// (round-robin over a watchlist) or for the general market.
type Aggregator struct {
	company      CompanyFeed
	general      GeneralFeed
	fetchTimeout time.Duration
	now          func() time.Time
}

func New(company CompanyFeed, general GeneralFeed, opts ...Option) *Aggregator {
	a := &Aggregator{
		company:      company,
		general:      general,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetNews returns at most MaxArticles articles sorted newest first. Upstream
// failures only shrink the result; they are never returned.
func (a *Aggregator) GetNews(ctx context.Context, symbols []string) []model.FormattedArticle {
	cleaned := CleanSymbols(symbols)
	if len(cleaned) == 0 {
		return a.generalNews(ctx)
	}
	return a.companyNews(ctx, cleaned)
}

// CleanSymbols trims and upper-cases symbols, dropping blanks.
func CleanSymbols(symbols []string) []string {
	cleaned := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}

func (a *Aggregator) companyNews(ctx context.Context, symbols []string) []model.FormattedArticle {
	to := a.now()
	from := to.Add(-newsWindow)

	seen := make(map[string]bool)
	feeds := make(map[string][]news.Article)
	articles := make([]model.FormattedArticle, 0, MaxArticles)

	for round := 0; round < MaxArticles; round++ {
		symbol := symbols[round%len(symbols)]

		feed, ok := feeds[symbol]
		if !ok {
			fetched, err := a.fetchCompany(ctx, symbol, from, to)
			if err != nil {
				slog.Error("error fetching company news", "symbol", symbol, "round", round, "error", err)
				continue
			}
			feeds[symbol] = fetched
			feed = fetched
		}

		for _, raw := range feed {
			article, valid := news.Normalize(raw)
			if !valid || seen[article.ID] {
				continue
			}

			seen[article.ID] = true
			articles = append(articles, format(article, true, symbol, round))
			break
		}

		if len(articles) >= MaxArticles {
			break
		}
	}

	sortByDatetime(articles)
	return articles
}

func (a *Aggregator) fetchCompany(ctx context.Context, symbol string, from, to time.Time) ([]news.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()
	return a.company.CompanyNews(ctx, symbol, from, to)
}

func (a *Aggregator) generalNews(ctx context.Context) []model.FormattedArticle {
	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	feed, err := a.general.MarketNews(fetchCtx)
	if err != nil {
		slog.Error("error fetching general market news", "error", err)
		return []model.FormattedArticle{}
	}

	unique := dedupe(feed)
	if len(unique) > MaxArticles {
		unique = unique[:MaxArticles]
	}

	articles := make([]model.FormattedArticle, 0, len(unique))
	for i, article := range unique {
		articles = append(articles, format(article, false, "", i))
	}

	sortByDatetime(articles)
	return articles
}

// dedupe keeps valid articles in feed order, dropping any article whose id,
// lower-cased URL or lower-cased headline was already accepted.
func dedupe(feed []news.Article) []news.Article {
	seenIDs := make(map[string]bool)
	seenURLs := make(map[string]bool)
	seenHeadlines := make(map[string]bool)

	var unique []news.Article
	for _, raw := range feed {
		article, valid := news.Normalize(raw)
		if !valid {
			continue
		}

		url := strings.ToLower(article.URL)
		headline := strings.ToLower(article.Headline)

		if seenIDs[article.ID] || seenURLs[url] || seenHeadlines[headline] {
			continue
		}

		seenIDs[article.ID] = true
		seenURLs[url] = true
		seenHeadlines[headline] = true
		unique = append(unique, article)
	}

	return unique
}

func format(a news.Article, company bool, symbol string, rank int) model.FormattedArticle {
	limit := generalSummaryLimit
	source := a.Source
	category := a.Category

	if company {
		limit = companySummaryLimit
		category = "company"
		if source == "" {
			source = "Company News"
		}
	} else {
		if source == "" {
			source = "Market News"
		}
		if category == "" {
			category = "general"
		}
	}

	return model.FormattedArticle{
		ID:            a.ID,
		Headline:      a.Headline,
		Summary:       truncate(a.Summary, limit),
		Source:        source,
		URL:           a.URL,
		Datetime:      a.Datetime,
		Image:         a.Image,
		Category:      category,
		RelatedSymbol: symbol,
		Rank:          rank,
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// sortByDatetime orders newest first; articles without a datetime go last.
func sortByDatetime(articles []model.FormattedArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		return sortKey(articles[i].Datetime) > sortKey(articles[j].Datetime)
	})
}

func sortKey(datetime int64) int64 {
	if datetime <= 0 {
		return 0
	}
	return datetime
}
