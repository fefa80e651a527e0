package model

import "time"

type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	PasswordHash      string    `json:"-"`
	Country           string    `json:"country"`
	InvestmentGoals   string    `json:"investment_goals"`
	RiskTolerance     string    `json:"risk_tolerance"`
	PreferredIndustry string    `json:"preferred_industry"`
	CreatedAt         time.Time `json:"created_at"`
}

// UserDigestTarget is the read projection the digest pipeline works on.
type UserDigestTarget struct {
	ID    string
	Email string
	Name  string
}
