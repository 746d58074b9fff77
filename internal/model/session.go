package model

import "time"

// SignupParams holds validated registration input.
type SignupParams struct {
	Email    string
	Password string
	Name     string
}

// Session is the result of a successful signup or signin.
type Session struct {
	User  PublicUser
	Token string
}

// LogoutResult reports the outcome of a logout.
type LogoutResult struct {
	Invalidated bool
	ExpiresAt   time.Time
}
