package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stoxwatch/db"
	"stoxwatch/internal/aggregator"
	"stoxwatch/internal/auth"
	"stoxwatch/internal/config"
	"stoxwatch/internal/digest"
	"stoxwatch/internal/mailer"
	"stoxwatch/internal/queue"
	"stoxwatch/internal/repository"
	"stoxwatch/internal/stocks"
	"stoxwatch/internal/watchlist"
	"stoxwatch/pkg/llm"
	"stoxwatch/pkg/news"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	connectTimeout = 15 * time.Second
	generalFeedCap = 50
)

// App holds the shared handles of one process. It is built once in main and
// handed to every component that needs storage, the queue or market data.
type App struct {
	Config *config.Config

	DB    *sql.DB
	Redis *redis.Client
	Mongo *mongo.Database

	Users      *repository.UserRepository
	Digests    *repository.DigestRepository
	Watchlists *repository.WatchlistRepository

	Queue  *queue.Queue
	Locker *queue.Locker

	Market *news.FinnHubClient
	News   *aggregator.Aggregator
}

// New connects every store, applies the schema and builds the news stack.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Require("DATABASE_URL", "REDIS_URL", "MONGO_URI", "FINNHUB_API_KEY"); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	a := &App{Config: cfg}

	var err error
	if a.DB, err = db.Connect(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, a.DB); err != nil {
		a.Close()
		return nil, err
	}

	if a.Redis, err = db.ConnectRedis(ctx, cfg.RedisURL); err != nil {
		a.Close()
		return nil, err
	}

	if a.Mongo, err = db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase); err != nil {
		a.Close()
		return nil, err
	}

	a.Users = repository.NewUserRepository(a.DB)
	a.Digests = repository.NewDigestRepository(a.DB)
	a.Watchlists = repository.NewWatchlistRepository(a.Mongo)
	if err := a.Watchlists.EnsureIndexes(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Queue = queue.New(a.Redis)
	a.Locker = queue.NewLocker(a.Redis)

	if a.Market, err = news.NewFinnHubClient(cfg.FinnhubAPIKey); err != nil {
		a.Close()
		return nil, err
	}
	a.News = aggregator.New(a.Market, generalFeed(cfg, a.Market), aggregator.WithFetchTimeout(cfg.NewsFetchTimeout))

	return a, nil
}

// generalFeed chains FinnHub with whichever optional providers have keys.
func generalFeed(cfg *config.Config, finnhub *news.FinnHubClient) aggregator.GeneralFeed {
	clients := []news.GeneralClient{finnhub}

	if cfg.AlphaVantageAPIKey != "" {
		if c, err := news.NewAlphaVantageClient(cfg.AlphaVantageAPIKey, generalFeedCap); err == nil {
			clients = append(clients, c)
		}
	}
	if cfg.MassiveAPIKey != "" {
		if c, err := news.NewMassiveClient(cfg.MassiveAPIKey, generalFeedCap); err == nil {
			clients = append(clients, c)
		}
	}

	if len(clients) == 1 {
		return finnhub
	}
	return news.NewCombined(clients...)
}

func (a *App) Stocks() *stocks.Service {
	return stocks.NewService(a.Market, a.Watchlist(), stocks.NewRedisCache(a.Redis), a.Config.PopularSymbols)
}

func (a *App) Watchlist() *watchlist.Service {
	return watchlist.NewService(a.Watchlists)
}

func (a *App) Auth() (*auth.Service, error) {
	if err := a.Config.Require("JWT_SECRET"); err != nil {
		return nil, err
	}
	return auth.NewService(a.Users, a.Queue, a.Config.JWTSecret, a.Config.JWTExpiry), nil
}

// Dispatcher builds the AI and email side of the process: the digest
// pipeline and the welcome flow behind one event router.
func (a *App) Dispatcher() (*digest.Dispatcher, *digest.Pipeline, error) {
	cfg := a.Config
	if err := cfg.Require("SMTP_USERNAME", "SMTP_PASSWORD"); err != nil {
		return nil, nil, err
	}

	generator, err := llm.New(cfg.LLMProvider, cfg.LLMFallbackProvider, llm.Keys{
		Gemini:      cfg.GeminiAPIKey,
		GeminiModel: cfg.GeminiModel,
		OpenAI:      cfg.OpenAIAPIKey,
		Anthropic:   cfg.AnthropicAPIKey,
	})
	if err != nil {
		return nil, nil, &config.ConfigError{Field: "LLM_PROVIDER", Message: err.Error()}
	}
	summarizer := digest.NewSummarizer(generator, cfg.LLMMaxAttempts, cfg.LLMTimeout)

	m, err := mailer.New(mailer.Config{
		Addr:         cfg.SMTPAddr,
		Username:     cfg.SMTPUsername,
		Password:     cfg.SMTPPassword,
		From:         cfg.MailFrom,
		DashboardURL: cfg.AppBaseURL,
	})
	if err != nil {
		return nil, nil, &config.ConfigError{Field: "MAIL_FROM", Message: err.Error()}
	}

	loc := cfg.Scheduler.Location()
	pipeline := digest.NewPipeline(a.Users, a.Watchlist(), a.News, summarizer, m,
		digest.WithLocker(a.Locker, 0),
		digest.WithRunRecorder(a.Digests),
		digest.WithClock(func() time.Time { return time.Now().In(loc) }),
	)

	slog.Info("digest pipeline ready", "llm", generator.Name(), "timezone", loc.String())

	return digest.NewDispatcher(pipeline, digest.NewWelcome(summarizer, m)), pipeline, nil
}

func (a *App) Close() error {
	var errs []error

	if a.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Mongo.Client().Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo disconnect: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres close: %w", err))
		}
	}

	return errors.Join(errs...)
}
