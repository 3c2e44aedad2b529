package ports

import (
	"context"

	"crystalos/internal/core/domain"
)

type AuthListener func(event domain.AuthEvent, session *domain.Session)

type Auth interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignUp(ctx context.Context, email, password, username string) (domain.Session, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (domain.Session, error)
	// OnAuthStateChange registers fn and returns a func that removes it.
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
}
