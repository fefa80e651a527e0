package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stoxwatch/db"
	"stoxwatch/internal/config"
	"stoxwatch/internal/digest"
	"stoxwatch/internal/queue"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	events := queue.New(redisClient)

	c := cron.New(cron.WithLocation(cfg.Scheduler.Location()))

	for _, job := range digest.Jobs() {
		spec := job.Cron
		if override, ok := cfg.Scheduler.Jobs[job.Name]; ok {
			spec = override
		}

		_, err := c.AddFunc(spec, publish(ctx, events, job))
		if err != nil {
			log.Fatalf("invalid schedule %q for %s: %v", spec, job.Name, err)
		}

		slog.Info("job scheduled", "job", job.Name, "cron", spec, "timezone", cfg.Scheduler.Location().String())
	}

	c.Start()
	<-ctx.Done()

	slog.Info("scheduler stopping")
	<-c.Stop().Done()
}

func publish(ctx context.Context, events *queue.Queue, job digest.Job) func() {
	return func() {
		event, err := queue.NewEvent(job.Event, nil)
		if err == nil {
			err = events.Publish(ctx, event)
		}
		if err != nil {
			slog.Error("failed to publish job event", "job", job.Name, "error", err)
			return
		}
		slog.Info("job event published", "job", job.Name, "event", job.Event)
	}
}
