package watchlist

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stoxwatch/internal/model"
	"stoxwatch/internal/repository"
)

type Store interface {
	Add(ctx context.Context, entry *model.WatchlistEntry) error
	Remove(ctx context.Context, userID, symbol string) error
	Exists(ctx context.Context, userID, symbol string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.WatchlistEntry, error)
	SymbolsByUser(ctx context.Context, userID string) ([]string, error)
}

// Result mirrors the {success, message} shape the API returns.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var (
	ErrInvalidSymbol = errors.New("watchlist: symbol is required")
	ErrExists        = errors.New("watchlist: symbol already in watchlist")
	ErrNotInList     = errors.New("watchlist: symbol not in watchlist")
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Add(ctx context.Context, userID, symbol, company string) (Result, error) {
	symbol = normalize(symbol)
	if symbol == "" {
		return Result{Success: false, Message: "Symbol is required"}, ErrInvalidSymbol
	}

	exists, err := s.store.Exists(ctx, userID, symbol)
	if err != nil {
		return Result{Success: false, Message: "Failed to add to watchlist"}, err
	}
	if exists {
		return Result{Success: false, Message: "Stock already in watchlist"}, ErrExists
	}

	company = strings.TrimSpace(company)
	if company == "" {
		company = symbol
	}

	err = s.store.Add(ctx, &model.WatchlistEntry{
		UserID:  userID,
		Symbol:  symbol,
		Company: company,
		AddedAt: s.now().UTC(),
	})
	// a concurrent add can still lose the race to the unique index
	if errors.Is(err, repository.ErrDuplicate) {
		return Result{Success: false, Message: "Stock already in watchlist"}, ErrExists
	}
	if err != nil {
		slog.Error("failed to add watchlist entry", "user_id", userID, "symbol", symbol, "error", err)
		return Result{Success: false, Message: "Failed to add to watchlist"}, err
	}

	return Result{Success: true, Message: "Added to watchlist"}, nil
}

func (s *Service) Remove(ctx context.Context, userID, symbol string) (Result, error) {
	symbol = normalize(symbol)
	if symbol == "" {
		return Result{Success: false, Message: "Symbol is required"}, ErrInvalidSymbol
	}

	err := s.store.Remove(ctx, userID, symbol)
	if errors.Is(err, repository.ErrNotFound) {
		return Result{Success: false, Message: "Stock not found in watchlist"}, ErrNotInList
	}
	if err != nil {
		slog.Error("failed to remove watchlist entry", "user_id", userID, "symbol", symbol, "error", err)
		return Result{Success: false, Message: "Failed to remove from watchlist"}, err
	}

	return Result{Success: true, Message: "Removed from watchlist"}, nil
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, userID string) ([]model.WatchlistEntry, error) {
	return s.store.ListByUser(ctx, userID)
}

// SymbolsByUser feeds stock enrichment and the digest pipeline.
func (s *Service) SymbolsByUser(ctx context.Context, userID string) ([]string, error) {
	return s.store.SymbolsByUser(ctx, userID)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
