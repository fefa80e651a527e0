package handler

import (
	"context"
	"errors"

	"stoxwatch/internal/auth"
	"stoxwatch/internal/model"
	"stoxwatch/internal/queue"
	"stoxwatch/internal/stocks"
	"stoxwatch/internal/watchlist"
)

type fakeValidator struct {
	users map[string]*model.User
}

func (f *fakeValidator) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, auth.ErrInvalidToken
}

var testUser = &model.User{ID: "u1", Email: "ada@example.com", Name: "Ada"}

func newFakeValidator() *fakeValidator {
	return &fakeValidator{users: map[string]*model.User{"good-token": testUser}}
}

type fakeAuthService struct {
	session *auth.Session
	err     error
	signUp  auth.SignUpInput
}

func (f *fakeAuthService) SignUp(ctx context.Context, in auth.SignUpInput) (*auth.Session, error) {
	f.signUp = in
	return f.session, f.err
}

func (f *fakeAuthService) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return f.session, f.err
}

type fakeStockService struct {
	results   []stocks.Stock
	detail    *stocks.Detail
	err       error
	lastQuery string
	lastUser  string
}

func (f *fakeStockService) Search(ctx context.Context, query, userID string) []stocks.Stock {
	f.lastQuery, f.lastUser = query, userID
	return f.results
}

func (f *fakeStockService) Detail(ctx context.Context, symbol, userID string) (*stocks.Detail, error) {
	f.lastQuery, f.lastUser = symbol, userID
	return f.detail, f.err
}

type fakeNews struct {
	articles []model.FormattedArticle
	symbols  []string
}

func (f *fakeNews) GetNews(ctx context.Context, symbols []string) []model.FormattedArticle {
	f.symbols = symbols
	return f.articles
}

type fakeWatchlistService struct {
	entries []model.WatchlistEntry
	err     error
	userID  string
}

func (f *fakeWatchlistService) Add(ctx context.Context, userID, symbol, company string) (watchlist.Result, error) {
	f.userID = userID
	if f.err != nil {
		return watchlist.Result{Success: false, Message: f.err.Error()}, f.err
	}
	return watchlist.Result{Success: true, Message: "Added to watchlist"}, nil
}

func (f *fakeWatchlistService) Remove(ctx context.Context, userID, symbol string) (watchlist.Result, error) {
	f.userID = userID
	if f.err != nil {
		return watchlist.Result{Success: false, Message: f.err.Error()}, f.err
	}
	return watchlist.Result{Success: true, Message: "Removed from watchlist"}, nil
}

func (f *fakeWatchlistService) List(ctx context.Context, userID string) ([]model.WatchlistEntry, error) {
	f.userID = userID
	return f.entries, f.err
}

type fakeDigestStore struct {
	runs  []model.DigestRun
	total int
	err   error
}

func (f *fakeDigestStore) GetRuns(ctx context.Context, limit, offset int) ([]model.DigestRun, error) {
	return f.runs, f.err
}

func (f *fakeDigestStore) GetRunTotal(ctx context.Context) (int, error) {
	return f.total, f.err
}

type fakePublisher struct {
	events []queue.Event
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event queue.Event) error {
	f.events = append(f.events, event)
	return f.err
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

var errDBDown = errors.New("DB down")
