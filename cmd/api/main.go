package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"stoxwatch/internal/app"
	"stoxwatch/internal/config"
	"stoxwatch/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error initializing app: %v", err)
	}
	defer a.Close()

	authService, err := a.Auth()
	if err != nil {
		log.Fatalf("error initializing auth: %v", err)
	}

	authHandler := handler.NewAuthHandler(authService)
	stockHandler := handler.NewStockHandler(a.Stocks())
	newsHandler := handler.NewNewsHandler(a.News)
	watchlistHandler := handler.NewWatchlistHandler(a.Watchlist())
	digestHandler := handler.NewDigestHandler(a.Digests)
	jobsHandler := handler.NewJobsHandler(a.Queue, cfg.JobsTriggerToken)
	healthHandler := handler.NewHealthHandler(a.Users)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" && cfg.FrontendURL != allowedOrigins[0] {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Jobs-Token"},
	}))

	requireUser := handler.AuthMiddleware(authService)
	optionalUser := handler.OptionalAuth(authService)

	r.POST("/auth/sign-up", authHandler.SignUp)
	r.POST("/auth/sign-in", authHandler.SignIn)
	r.POST("/auth/sign-out", requireUser, authHandler.SignOut)
	r.GET("/auth/session", requireUser, authHandler.Session)

	r.GET("/stocks/search", optionalUser, stockHandler.Search)
	r.POST("/stocks/search", optionalUser, stockHandler.Search)
	r.GET("/stocks/:symbol", requireUser, stockHandler.GetStock)

	r.GET("/news", newsHandler.GetNews)

	watchlist := r.Group("/watchlist", requireUser)
	watchlist.GET("", watchlistHandler.GetWatchlist)
	watchlist.POST("", watchlistHandler.AddToWatchlist)
	watchlist.DELETE("/:symbol", watchlistHandler.RemoveFromWatchlist)

	r.GET("/digests", digestHandler.GetDigests)
	r.POST("/jobs/:name/trigger", jobsHandler.TriggerJob)
	r.GET("/health", healthHandler.GetHealth)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
