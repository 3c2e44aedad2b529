package domain

import "time"

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

type Session struct {
	Token     string    `json:"access_token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ThemeColor string `json:"theme_color"`
}

type AuthEvent string

const (
	AuthEventSignedIn  AuthEvent = "SIGNED_IN"
	AuthEventSignedOut AuthEvent = "SIGNED_OUT"
)
