package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type MassiveClient struct {
	apiKey     string
	limit      int
	httpClient *http.Client
}

func NewMassiveClient(apiKey string, limit int) (*MassiveClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("massive: %w", ErrMissingAPIKey)
	}

	return &MassiveClient{
		apiKey:     apiKey,
		limit:      limit,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *MassiveClient) Name() string {
	return "Massive"
}

func (c *MassiveClient) MarketNews(ctx context.Context) ([]Article, error) {
	url := fmt.Sprintf(
		"https://api.massive.com/v2/reference/news?limit=%d&order=desc&sort=published_utc&apiKey=%s",
		c.limit, c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("massive request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("massive fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("massive fetch: status %d", resp.StatusCode)
	}

	var raw massiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("massive decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Results))
	for _, item := range raw.Results {
		var datetime int64
		if publishedAt, err := time.Parse(time.RFC3339, item.PublishedUTC); err == nil {
			datetime = publishedAt.Unix()
		}

		id := item.ID
		if id == "" {
			id = generateExternalID(item.ArticleURL)
		}

		articles = append(articles, Article{
			ID:       id,
			Headline: item.Title,
			Summary:  item.Description,
			URL:      item.ArticleURL,
			Source:   item.Publisher.Name,
			Datetime: datetime,
			Related:  strings.Join(item.Tickers, ","),
			Image:    item.ImageURL,
			Provider: c.Name(),
		})
	}

	return articles, nil
}

type massiveResponse struct {
	Results []massiveResult `json:"results"`
}

type massiveResult struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	ArticleURL   string           `json:"article_url"`
	ImageURL     string           `json:"image_url"`
	PublishedUTC string           `json:"published_utc"`
	Tickers      []string         `json:"tickers"`
	Publisher    massivePublisher `json:"publisher"`
}

type massivePublisher struct {
	Name string `json:"name"`
}
