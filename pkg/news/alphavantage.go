package news

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const alphaVantageTimeLayout = "20060102T150405"

type AlphaVantageClient struct {
	apiKey     string
	limit      int
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string, limit int) (*AlphaVantageClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("alphavantage: %w", ErrMissingAPIKey)
	}

	return &AlphaVantageClient{
		apiKey:     apiKey,
		limit:      limit,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) MarketNews(ctx context.Context) ([]Article, error) {
	url := fmt.Sprintf(
		"https://www.alphavantage.co/query?function=NEWS_SENTIMENT&topics=financial_markets&limit=%d&sort=LATEST&apikey=%s",
		c.limit, c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage fetch: status %d", resp.StatusCode)
	}

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		var datetime int64
		if publishedAt, err := time.Parse(alphaVantageTimeLayout, item.TimePublished); err == nil {
			datetime = publishedAt.Unix()
		}

		var related []string
		for _, ts := range item.TickerSentiment {
			if ts.Ticker != "" {
				related = append(related, ts.Ticker)
			}
		}

		articles = append(articles, Article{
			ID:       generateExternalID(item.URL),
			Headline: item.Title,
			Summary:  item.Summary,
			URL:      item.URL,
			Source:   item.Source,
			Datetime: datetime,
			Related:  strings.Join(related, ","),
			Image:    item.BannerImage,
			Category: item.Category,
			Provider: c.Name(),
		})
	}

	return articles, nil
}

// generateExternalID derives a stable identifier for providers that do not
// assign one.
func generateExternalID(url string) string {
	if url == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", sum)[:16]
}

type avResponse struct {
	Feed []avFeedItem `json:"feed"`
}

type avFeedItem struct {
	Title           string              `json:"title"`
	Summary         string              `json:"summary"`
	URL             string              `json:"url"`
	Source          string              `json:"source"`
	BannerImage     string              `json:"banner_image"`
	Category        string              `json:"category_within_source"`
	TimePublished   string              `json:"time_published"`
	TickerSentiment []avTickerSentiment `json:"ticker_sentiment"`
}

type avTickerSentiment struct {
	Ticker string `json:"ticker"`
}
