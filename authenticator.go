package tasks

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther handles the credential-backed session lifecycle: login issues and
// persists a session token, logout drops the whole session set.
type Auther struct {
	users  Users
	tokens TokenService
	logger Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(repo RepositoryManager, tokens TokenService) *Auther {
	return &Auther{
		users:  repo.Users(),
		tokens: tokens,
		logger: defLogger{},
	}
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Login verifies the credentials and, on success, appends a fresh session
// token to the account's session set. Unknown email and wrong password
// both return ErrUnauthorized so responses cannot be used to enumerate
// accounts.
func (a *Auther) Login(ctx context.Context, email, password string) (string, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", ErrUnauthorized
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during login")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return "", ErrUnauthorized
	}

	token, err := a.tokens.IssueSessionToken(user.ID)
	if err != nil {
		return "", err
	}

	user.AddSessionToken(token)
	if _, err := a.users.Update(ctx, user); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to persist session token")
	}

	return token, nil
}

// Logout clears the account's session set unconditionally; calling it for
// an already logged-out account is a no-op.
func (a *Auther) Logout(ctx context.Context, user *User) error {
	user.ClearSessionTokens()
	if _, err := a.users.Update(ctx, user); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to clear session set")
	}
	return nil
}
