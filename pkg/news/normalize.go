package news

import (
	"net/url"
	"strings"
)

// Normalize trims an article's text fields and reports whether it is usable:
// it needs an identifier, a headline, a summary and an absolute http(s) URL.
func Normalize(a Article) (Article, bool) {
	a.ID = strings.TrimSpace(a.ID)
	a.Headline = strings.TrimSpace(a.Headline)
	a.Summary = strings.TrimSpace(a.Summary)
	a.Source = strings.TrimSpace(a.Source)
	a.URL = strings.TrimSpace(a.URL)
	a.Related = strings.TrimSpace(a.Related)

	if a.ID == "" || a.Headline == "" || a.Summary == "" {
		return a, false
	}

	if !validURL(a.URL) {
		return a, false
	}

	return a, true
}

func validURL(raw string) bool {
	if raw == "" {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
