package tasks

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// EnsureAdmin creates the bootstrap admin account when the store has
// none. Invitations only ever mint regular accounts, so without this
// seed a fresh deployment could never reach the admin surface.
func EnsureAdmin(ctx context.Context, repo RepositoryManager, name, email, password string) (*User, error) {
	admin, err := repo.Users().FindAdmin(ctx)
	if err == nil {
		return admin, nil
	}

	if !goerrors.IsNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up admin account")
	}

	user := &User{
		Name:  name,
		Email: email,
		Admin: true,
	}

	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	created, err := repo.Users().Create(ctx, user)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed admin account")
	}

	return created, nil
}
