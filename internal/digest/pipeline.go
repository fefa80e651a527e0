package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"stoxwatch/internal/aggregator"
	"stoxwatch/internal/mailer"
	"stoxwatch/internal/model"
	"stoxwatch/internal/queue"
)

const (
	noUsersMessage  = "No users found for news delivery"
	emailDateLayout = "Monday, January 2, 2006"
	defaultLockTTL  = 2 * time.Hour
)

type Audience interface {
	ListDigestTargets(ctx context.Context) ([]model.UserDigestTarget, error)
}

type WatchlistSource interface {
	SymbolsByUser(ctx context.Context, userID string) ([]string, error)
}

type NewsSource interface {
	GetNews(ctx context.Context, symbols []string) []model.FormattedArticle
}

type TextSummarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

type SummaryMailer interface {
	SendNewsSummary(ctx context.Context, s mailer.NewsSummary) error
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

type RunRecorder interface {
	SaveRun(ctx context.Context, run *model.DigestRun) error
}

// Status is what a job run reports to its trigger.
type Status struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Results []model.DigestResult `json:"-"`
}

type Option func(*Pipeline)

func WithLocker(l Locker, ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.locker = l
		if ttl > 0 {
			p.lockTTL = ttl
		}
	}
}

func WithRunRecorder(r RunRecorder) Option {
	return func(p *Pipeline) {
		p.runs = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

type Pipeline struct {
	audience   Audience
	watchlists WatchlistSource
	news       NewsSource
	summarizer TextSummarizer
	mailer     SummaryMailer
	locker     Locker
	lockTTL    time.Duration
	runs       RunRecorder
	now        func() time.Time
}

func NewPipeline(audience Audience, watchlists WatchlistSource, news NewsSource, summarizer TextSummarizer, m SummaryMailer, opts ...Option) *Pipeline {
	p := &Pipeline{
		audience:   audience,
		watchlists: watchlists,
		news:       news,
		summarizer: summarizer,
		mailer:     m,
		lockTTL:    defaultLockTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes job once. A failure for one user never aborts the others.
func (p *Pipeline) Run(ctx context.Context, job Job) Status {
	started := p.now()
	log := slog.With("job", job.Name)

	if p.locker != nil {
		key := job.Name + ":" + started.Format("2006-01-02")
		release, err := p.locker.Acquire(ctx, key, p.lockTTL)
		if errors.Is(err, queue.ErrLockHeld) {
			log.Warn("run skipped, lock held", "lock", key)
			return Status{Success: false, Message: fmt.Sprintf("%s is already running", job.Name)}
		}
		if err != nil {
			log.Error("failed to acquire run lock", "lock", key, "error", err)
			return Status{Success: false, Message: "Failed to acquire run lock"}
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("failed to release run lock", "lock", key, "error", err)
			}
		}()
	}

	status := p.run(ctx, job, log, started)
	p.record(ctx, job, status, started)
	return status
}

func (p *Pipeline) run(ctx context.Context, job Job, log *slog.Logger, started time.Time) Status {
	users, err := p.audience.ListDigestTargets(ctx)
	if err != nil {
		log.Error("failed to load users", "error", err)
		return Status{Success: false, Message: "Failed to load users for news delivery"}
	}
	if len(users) == 0 {
		log.Info(noUsersMessage)
		return Status{Success: false, Message: noUsersMessage}
	}

	results := make([]model.DigestResult, len(users))
	for i, u := range users {
		results[i] = model.DigestResult{User: u, State: model.StatePending}
	}

	// News resolution and summarization are sequential to bound upstream load.
	for i := range results {
		p.resolveNews(ctx, job, &results[i])
	}
	for i := range results {
		if results[i].State == model.StateNewsFetched {
			p.summarize(ctx, &results[i])
		}
	}

	p.dispatch(ctx, job, results, started.Format(emailDateLayout))

	sent, skipped, failed := count(results)
	log.Info("job finished", "users", len(results), "sent", sent, "skipped", skipped, "failed", failed)

	return Status{
		Success: true,
		Message: fmt.Sprintf("Sent %d of %d news emails (%d skipped, %d failed)", sent, len(results), skipped, failed),
		Results: results,
	}
}

func (p *Pipeline) resolveNews(ctx context.Context, job Job, r *model.DigestResult) {
	symbols, err := p.watchlists.SymbolsByUser(ctx, r.User.ID)
	if err != nil {
		slog.Warn("failed to load watchlist", "job", job.Name, "user_id", r.User.ID, "error", err)
		symbols = nil
	}
	r.Symbols = symbols
	r.State = model.StateSymbolsResolved

	if len(symbols) == 0 && job.Mode == ModeWatchlistOnly {
		r.State = model.StateSkippedNoWatchlist
		return
	}

	articles := p.news.GetNews(ctx, symbols)
	if len(articles) == 0 && len(symbols) > 0 && job.Mode == ModeFallbackToGeneral {
		articles = p.news.GetNews(ctx, nil)
	}
	if len(articles) > aggregator.MaxArticles {
		articles = articles[:aggregator.MaxArticles]
	}

	if len(articles) == 0 {
		r.State = model.StateSkippedNoNews
		return
	}

	r.Articles = articles
	r.State = model.StateNewsFetched
}

func (p *Pipeline) summarize(ctx context.Context, r *model.DigestResult) {
	prompt, err := BuildNewsSummaryPrompt(r.Articles)
	if err == nil {
		var content string
		content, err = p.summarizer.Summarize(ctx, prompt)
		if err == nil {
			r.NewsContent = &content
			r.State = model.StateSummarized
			return
		}
	}

	slog.Warn("failed to summarize news", "user_id", r.User.ID, "email", r.User.Email, "error", err)
	r.State = model.StateSummaryFailed
	r.Err = err
}

// dispatch sends every summarized digest concurrently and waits for all of
// them regardless of individual failures.
func (p *Pipeline) dispatch(ctx context.Context, job Job, results []model.DigestResult, date string) {
	var wg sync.WaitGroup

	for i := range results {
		if results[i].State != model.StateSummarized {
			continue
		}

		wg.Add(1)
		go func(r *model.DigestResult) {
			defer wg.Done()

			err := p.mailer.SendNewsSummary(ctx, mailer.NewsSummary{
				Email:   r.User.Email,
				Name:    r.User.Name,
				Subject: job.Subject,
				Date:    date,
				Content: *r.NewsContent,
			})
			if err != nil {
				slog.Error("failed to send news email", "job", job.Name, "user_id", r.User.ID, "email", r.User.Email, "error", err)
				r.State = model.StateSendFailed
				r.Err = err
				return
			}
			r.State = model.StateSent
		}(&results[i])
	}

	wg.Wait()
}

func (p *Pipeline) record(ctx context.Context, job Job, status Status, started time.Time) {
	if p.runs == nil {
		return
	}

	sent, skipped, failed := count(status.Results)
	run := &model.DigestRun{
		Job:        job.Name,
		Success:    status.Success,
		Message:    status.Message,
		Users:      len(status.Results),
		Sent:       sent,
		Skipped:    skipped,
		Failed:     failed,
		StartedAt:  started,
		FinishedAt: p.now(),
	}
	if err := p.runs.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		slog.Error("failed to record digest run", "job", job.Name, "error", err)
	}
}

func count(results []model.DigestResult) (sent, skipped, failed int) {
	for _, r := range results {
		switch r.State {
		case model.StateSent:
			sent++
		case model.StateSkippedNoWatchlist, model.StateSkippedNoNews:
			skipped++
		case model.StateSummaryFailed, model.StateSendFailed:
			failed++
		}
	}
	return sent, skipped, failed
}
