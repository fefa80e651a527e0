package model

// FormattedArticle is the aggregator's output record. Rank is the round (or
// feed index) an article was selected in; RelatedSymbol is only set for
// per-symbol news.
type FormattedArticle struct {
	ID            string `json:"id"`
	Headline      string `json:"headline"`
	Summary       string `json:"summary"`
	Source        string `json:"source"`
	URL           string `json:"url"`
	Datetime      int64  `json:"datetime"`
	Image         string `json:"image,omitempty"`
	Category      string `json:"category"`
	RelatedSymbol string `json:"relatedSymbol,omitempty"`
	Rank          int    `json:"rank"`
}
