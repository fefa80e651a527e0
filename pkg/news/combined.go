package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Combined reads general market news from several providers and returns
// their articles concatenated in provider order. A failing provider is
// skipped; Combined only fails when every provider does.
type Combined struct {
	clients []GeneralClient
}

func NewCombined(clients ...GeneralClient) *Combined {
	return &Combined{clients: clients}
}

func (c *Combined) Name() string {
	return "Combined"
}

func (c *Combined) MarketNews(ctx context.Context) ([]Article, error) {
	if len(c.clients) == 0 {
		return nil, errors.New("combined: no news clients configured")
	}

	var articles []Article
	var errs []error

	for _, client := range c.clients {
		fetched, err := client.MarketNews(ctx)
		if err != nil {
			slog.Error("error fetching market news", "source", client.Name(), "error", err)
			errs = append(errs, err)
			continue
		}

		articles = append(articles, fetched...)
	}

	if len(errs) == len(c.clients) {
		return nil, fmt.Errorf("combined: all sources failed: %w", errors.Join(errs...))
	}

	return articles, nil
}
