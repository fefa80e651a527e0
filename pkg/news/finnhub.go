package news

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

const finnhubDateLayout = "2006-01-02"

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

// SymbolMatch is one row of a Finnhub symbol search.
type SymbolMatch struct {
	Symbol        string
	Description   string
	DisplaySymbol string
	Type          string
}

type CompanyProfile struct {
	Symbol   string
	Name     string
	Exchange string
	Industry string
	Country  string
	Logo     string
	WebURL   string
}

func NewFinnHubClient(apiKey string) (*FinnHubClient, error) {
	return newFinnHubClient(apiKey, &http.Client{Timeout: 30 * time.Second})
}

func newFinnHubClient(apiKey string, httpClient *http.Client) (*FinnHubClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("finnhub: %w", ErrMissingAPIKey)
	}

	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	cfg.HTTPClient = httpClient
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}, nil
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

func (c *FinnHubClient) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]Article, error) {
	res, _, err := c.client.CompanyNews(ctx).
		Symbol(symbol).
		From(from.Format(finnhubDateLayout)).
		To(to.Format(finnhubDateLayout)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub company news %s: %w", symbol, err)
	}

	articles := make([]Article, 0, len(res))
	for _, n := range res {
		a := Article{
			Headline: n.GetHeadline(),
			Summary:  n.GetSummary(),
			Source:   n.GetSource(),
			URL:      n.GetUrl(),
			Datetime: n.GetDatetime(),
			Related:  n.GetRelated(),
			Image:    n.GetImage(),
			Category: n.GetCategory(),
			Provider: c.Name(),
		}

		if n.Id != nil {
			a.ID = strconv.FormatInt(*n.Id, 10)
		}

		articles = append(articles, a)
	}

	return articles, nil
}

func (c *FinnHubClient) MarketNews(ctx context.Context) ([]Article, error) {
	res, _, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub market news: %w", err)
	}

	articles := make([]Article, 0, len(res))
	for _, n := range res {
		a := Article{
			Headline: n.GetHeadline(),
			Summary:  n.GetSummary(),
			Source:   n.GetSource(),
			URL:      n.GetUrl(),
			Datetime: n.GetDatetime(),
			Related:  n.GetRelated(),
			Image:    n.GetImage(),
			Category: n.GetCategory(),
			Provider: c.Name(),
		}

		if n.Id != nil {
			a.ID = strconv.FormatInt(*n.Id, 10)
		}

		articles = append(articles, a)
	}

	return articles, nil
}

func (c *FinnHubClient) SearchSymbols(ctx context.Context, query string) ([]SymbolMatch, error) {
	res, _, err := c.client.SymbolSearch(ctx).Q(query).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub symbol search %q: %w", query, err)
	}

	var matches []SymbolMatch
	for _, r := range res.GetResult() {
		matches = append(matches, SymbolMatch{
			Symbol:        r.GetSymbol(),
			Description:   r.GetDescription(),
			DisplaySymbol: r.GetDisplaySymbol(),
			Type:          r.GetType(),
		})
	}

	return matches, nil
}

func (c *FinnHubClient) CompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	res, _, err := c.client.CompanyProfile2(ctx).Symbol(symbol).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub profile %s: %w", symbol, err)
	}

	return &CompanyProfile{
		Symbol:   res.GetTicker(),
		Name:     res.GetName(),
		Exchange: res.GetExchange(),
		Industry: res.GetFinnhubIndustry(),
		Country:  res.GetCountry(),
		Logo:     res.GetLogo(),
		WebURL:   res.GetWeburl(),
	}, nil
}
