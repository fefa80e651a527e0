package news

import (
	"context"
	"errors"
)

var ErrMissingAPIKey = errors.New("news: api key is not set")

// Article is a normalized news record from any provider. Datetime is in
// epoch seconds; zero means the provider did not report one.
type Article struct {
	ID       string
	Headline string
	Summary  string
	Source   string
	URL      string
	Datetime int64
	Related  string
	Image    string
	Category string
	Provider string
}

type GeneralClient interface {
	MarketNews(ctx context.Context) ([]Article, error)
	Name() string
}
