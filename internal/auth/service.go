package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"stoxwatch/internal/model"
	"stoxwatch/internal/queue"
	"stoxwatch/internal/repository"

	"github.com/emersion/go-message/mail"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen   = 8
	maxPasswordLen   = 64
	// bcrypt ignores input past 72 bytes
	maxPasswordBytes = 72
)

var (
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event queue.Event) error
}

type SignUpInput struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	FullName          string `json:"fullName"`
	Country           string `json:"country"`
	InvestmentGoals   string `json:"investmentGoals"`
	RiskTolerance     string `json:"riskTolerance"`
	PreferredIndustry string `json:"preferredIndustry"`
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type Service struct {
	users  UserStore
	events EventPublisher
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewService(users UserStore, events EventPublisher, secret string, expiry time.Duration) *Service {
	return &Service{
		users:  users,
		events: events,
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(in.Password); n < minPasswordLen || n > maxPasswordLen {
		return nil, fmt.Errorf("%w: password must be %d to %d characters", ErrInvalidInput, minPasswordLen, maxPasswordLen)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password is too long", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:                uuid.NewString(),
		Email:             email,
		Name:              name,
		PasswordHash:      hash,
		Country:           strings.TrimSpace(in.Country),
		InvestmentGoals:   strings.TrimSpace(in.InvestmentGoals),
		RiskTolerance:     strings.TrimSpace(in.RiskTolerance),
		PreferredIndustry: strings.TrimSpace(in.PreferredIndustry),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publishUserCreated(ctx, user)

	return s.newSession(user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// ValidateToken resolves the user a bearer token was issued to.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*model.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) newSession(user *model.User) (*Session, error) {
	now := s.now()
	expires := now.Add(s.expiry)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     expires.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{Token: signed, ExpiresAt: expires, User: user}, nil
}

func (s *Service) publishUserCreated(ctx context.Context, user *model.User) {
	if s.events == nil {
		return
	}

	event, err := queue.NewEvent(queue.EventUserCreated, map[string]string{
		"email":             user.Email,
		"name":              user.Name,
		"country":           user.Country,
		"investmentGoals":   user.InvestmentGoals,
		"riskTolerance":     user.RiskTolerance,
		"preferredIndustry": user.PreferredIndustry,
	})
	if err == nil {
		err = s.events.Publish(ctx, event)
	}
	if err != nil {
		slog.Error("failed to publish user created event", "user_id", user.ID, "email", user.Email, "error", err)
	}
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return strings.ToLower(addr.Address), nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
