package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"stoxwatch/internal/app"
	"stoxwatch/internal/config"
	"stoxwatch/internal/digest"
)

func main() {
	jobName := flag.String("job", digest.DailyNewsSummary.Name, "digest job to run once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	job, ok := digest.JobByName(*jobName)
	if !ok {
		log.Fatalf("unknown job %q", *jobName)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error initializing app: %v", err)
	}
	defer a.Close()

	_, pipeline, err := a.Dispatcher()
	if err != nil {
		log.Fatalf("error initializing pipeline: %v", err)
	}

	status := pipeline.Run(context.Background(), job)

	slog.Info("digest run finished", "job", job.Name, "success", status.Success, "message", status.Message)

	if !status.Success {
		a.Close()
		os.Exit(1)
	}
}
