package digest

import "stoxwatch/internal/queue"

type Mode int

const (
	// ModeFallbackToGeneral sends general market news to users whose
	// watchlist is empty or yields nothing.
	ModeFallbackToGeneral Mode = iota
	// ModeWatchlistOnly skips users with an empty watchlist.
	ModeWatchlistOnly
)

type Job struct {
	Name    string
	Event   string
	Cron    string
	Mode    Mode
	Subject string
}

var (
	DailyNewsSummary = Job{
		Name:    "daily-news-summary",
		Event:   queue.EventSendDailyNews,
		Cron:    "0 12 * * *",
		Mode:    ModeFallbackToGeneral,
		Subject: "📈 Market News Summary Today",
	}
	DailyWatchlistNews = Job{
		Name:    "daily-watchlist-news",
		Event:   queue.EventSendWatchlistNews,
		Cron:    "0 13 * * *",
		Mode:    ModeWatchlistOnly,
		Subject: "📈 Your Watchlist News Today",
	}
)

func Jobs() []Job {
	return []Job{DailyNewsSummary, DailyWatchlistNews}
}

func JobByName(name string) (Job, bool) {
	for _, j := range Jobs() {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}

func JobByEvent(event string) (Job, bool) {
	for _, j := range Jobs() {
		if j.Event == event {
			return j, true
		}
	}
	return Job{}, false
}
