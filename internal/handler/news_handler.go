package handler

import (
	"context"
	"net/http"
	"strings"

	"stoxwatch/internal/aggregator"
	"stoxwatch/internal/model"

	"github.com/gin-gonic/gin"
)

type NewsSource interface {
	GetNews(ctx context.Context, symbols []string) []model.FormattedArticle
}

type NewsHandler struct {
	news NewsSource
}

func NewNewsHandler(news NewsSource) *NewsHandler {
	return &NewsHandler{news: news}
}

func (h *NewsHandler) GetNews(c *gin.Context) {
	var symbols []string
	if raw := c.Query("symbols"); raw != "" {
		symbols = aggregator.CleanSymbols(strings.Split(raw, ","))
	}

	c.JSON(http.StatusOK, NewsResponse{
		Articles: h.news.GetNews(c.Request.Context(), symbols),
		Symbols:  symbols,
	})
}
