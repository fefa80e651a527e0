package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"stoxwatch/internal/model"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users(id, email, name, password_hash, country, investment_goals, risk_tolerance, preferred_industry)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, user.ID, user.Email, user.Name, user.PasswordHash, user.Country, user.InvestmentGoals,
		user.RiskTolerance, user.PreferredIndustry).Scan(&user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, strings.ToLower(email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, country, investment_goals, risk_tolerance, preferred_industry, created_at
		FROM users `+where, arg).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Country,
		&u.InvestmentGoals, &u.RiskTolerance, &u.PreferredIndustry, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListDigestTargets returns every user with both an email and a name.
func (r *UserRepository) ListDigestTargets(ctx context.Context) ([]model.UserDigestTarget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, name
		FROM users
		WHERE email <> '' AND name <> ''
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []model.UserDigestTarget
	for rows.Next() {
		var t model.UserDigestTarget
		if err := rows.Scan(&t.ID, &t.Email, &t.Name); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return targets, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
