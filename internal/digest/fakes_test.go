package digest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"stoxwatch/internal/mailer"
	"stoxwatch/internal/model"
)

type fakeAudience struct {
	users []model.UserDigestTarget
	err   error
	calls int
}

func (f *fakeAudience) ListDigestTargets(ctx context.Context) ([]model.UserDigestTarget, error) {
	f.calls++
	return f.users, f.err
}

type fakeWatchlists struct {
	symbols map[string][]string
	err     map[string]error
}

func (f *fakeWatchlists) SymbolsByUser(ctx context.Context, userID string) ([]string, error) {
	if err := f.err[userID]; err != nil {
		return nil, err
	}
	return f.symbols[userID], nil
}

// fakeNews returns one article per symbol, or general articles for no symbols.
type fakeNews struct {
	perSymbol map[string][]model.FormattedArticle
	general   []model.FormattedArticle
	requests  [][]string
}

func (f *fakeNews) GetNews(ctx context.Context, symbols []string) []model.FormattedArticle {
	f.requests = append(f.requests, symbols)
	if len(symbols) == 0 {
		return f.general
	}
	var out []model.FormattedArticle
	for _, s := range symbols {
		out = append(out, f.perSymbol[s]...)
	}
	return out
}

// fakeSummarizer fails for any prompt containing one of failOn.
type fakeSummarizer struct {
	failOn  []string
	prompts []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	for _, s := range f.failOn {
		if strings.Contains(prompt, s) {
			return "", errors.New("inference failed")
		}
	}
	return "<p>summary</p>", nil
}

type fakeMailer struct {
	mu       sync.Mutex
	failFor  map[string]bool
	sent     []mailer.NewsSummary
	welcomes []string
	intros   []string
}

func (f *fakeMailer) SendNewsSummary(ctx context.Context, s mailer.NewsSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[s.Email] {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, s)
	return nil
}

func (f *fakeMailer) SendWelcome(ctx context.Context, email, name, intro string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[email] {
		return errors.New("smtp down")
	}
	f.welcomes = append(f.welcomes, email)
	f.intros = append(f.intros, intro)
	return nil
}

func (f *fakeMailer) recipients() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]bool{}
	for _, s := range f.sent {
		out[s.Email] = true
	}
	return out
}

type fakeLocker struct {
	err      error
	keys     []string
	released int
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return func(context.Context) error {
		f.released++
		return nil
	}, nil
}

type fakeRecorder struct {
	runs []model.DigestRun
}

func (f *fakeRecorder) SaveRun(ctx context.Context, run *model.DigestRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func article(id, headline string, datetime int64) model.FormattedArticle {
	return model.FormattedArticle{
		ID:       id,
		Headline: headline,
		Summary:  headline + " summary",
		Source:   "Reuters",
		URL:      "https://example.com/" + id,
		Datetime: datetime,
	}
}
