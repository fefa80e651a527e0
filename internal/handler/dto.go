package handler

import "stoxwatch/internal/model"

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Q     string `json:"q"`
}

type AddWatchlistRequest struct {
	Symbol  string `json:"symbol" binding:"required"`
	Company string `json:"company"`
}

type NewsResponse struct {
	Articles []model.FormattedArticle `json:"articles"`
	Symbols  []string                 `json:"symbols"`
}

type WatchlistResponse struct {
	Items []WatchlistItemResponse `json:"items"`
	Total int                     `json:"total"`
}

type WatchlistItemResponse struct {
	Symbol  string `json:"symbol"`
	Company string `json:"company"`
	AddedAt string `json:"added_at"`
}

type DigestRunResponse struct {
	ID         int64  `json:"id"`
	Job        string `json:"job"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Users      int    `json:"users"`
	Sent       int    `json:"sent"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

type DigestRunsResponse struct {
	Latest  *DigestRunResponse  `json:"latest"`
	History []DigestRunResponse `json:"history"`
	Total   int                 `json:"total"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
}
