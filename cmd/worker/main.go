package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stoxwatch/internal/app"
	"stoxwatch/internal/config"
)

const consumeTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("error initializing app: %v", err)
	}
	defer a.Close()

	dispatcher, _, err := a.Dispatcher()
	if err != nil {
		log.Fatalf("error initializing dispatcher: %v", err)
	}

	slog.Info("worker started")

	for {
		event, err := a.Queue.Consume(ctx, consumeTimeout)
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			time.Sleep(time.Second)
			continue
		}

		if event == nil {
			continue
		}

		slog.Info("handling event", "event", event.Name, "created_at", event.CreatedAt)

		status, err := dispatcher.Handle(ctx, *event)
		if err != nil {
			slog.Error("unprocessable event, moving to dead letter", "event", event.Name, "error", err)
			if dlErr := a.Queue.DeadLetter(context.WithoutCancel(ctx), *event); dlErr != nil {
				slog.Error("error writing dead letter", "event", event.Name, "error", errors.Join(err, dlErr))
			}
			continue
		}

		slog.Info("event handled", "event", event.Name, "success", status.Success, "message", status.Message)
	}

	slog.Info("worker stopped")
}
