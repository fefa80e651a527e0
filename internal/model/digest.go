package model

import "time"

type DigestState string

const (
	StatePending            DigestState = "pending"
	StateSymbolsResolved    DigestState = "symbols_resolved"
	StateNewsFetched        DigestState = "news_fetched"
	StateSummarized         DigestState = "summarized"
	StateSummaryFailed      DigestState = "summary_failed"
	StateSent               DigestState = "sent"
	StateSendFailed         DigestState = "send_failed"
	StateSkippedNoWatchlist DigestState = "skipped_no_watchlist"
	StateSkippedNoNews      DigestState = "skipped_no_news"
)

// DigestResult is one user's outcome within a single pipeline run.
// NewsContent is nil when summarization failed or never ran.
type DigestResult struct {
	User        UserDigestTarget
	Symbols     []string
	Articles    []FormattedArticle
	NewsContent *string
	State       DigestState
	Err         error
}

// DigestRun is the persisted record of one pipeline execution.
type DigestRun struct {
	ID         int64     `json:"id"`
	Job        string    `json:"job"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Users      int       `json:"users"`
	Sent       int       `json:"sent"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
