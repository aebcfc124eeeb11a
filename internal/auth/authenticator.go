package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/repository"
)

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

// Authenticator checks user credentials and issues tokens.
type Authenticator struct {
	users  *repository.UserRepository
	issuer *Issuer
}

func NewAuthenticator(users *repository.UserRepository, issuer *Issuer) *Authenticator {
	return &Authenticator{users: users, issuer: issuer}
}

func (a *Authenticator) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	id := Identity{UserID: user.ID, Username: user.Username}
	token, expiresAt, err := a.issuer.Issue(id)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, Identity: id}, nil
}

// Verify delegates to the underlying issuer.
func (a *Authenticator) Verify(token string) (Identity, error) {
	return a.issuer.Verify(token)
}
