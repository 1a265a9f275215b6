package tasks_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-errors"
	tasks "github.com/goliatone/go-tasks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestInitializePasswordResetHandler(t *testing.T) {
	t.Run("stores only the digest plus a short expiry", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		user := &tasks.User{ID: uuid.New(), Email: "user@example.com"}

		repo.users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
		repo.users.On("Update", mock.Anything, user).Return(user, nil)

		var resp *tasks.InitializePasswordResetResponse
		handler := tasks.NewInitializePasswordResetHandler(repo)
		err := handler.Execute(context.Background(), tasks.InitializePasswordResetMessage{
			Email: "user@example.com",
			OnResponse: func(r *tasks.InitializePasswordResetResponse) {
				resp = r
			},
		})
		assert.NoError(t, err)
		assert.NotNil(t, resp)

		assert.NotEmpty(t, resp.Secret)
		assert.NotEqual(t, resp.Secret, user.PasswordResetHash)
		assert.Equal(t, tasks.HashResetSecret(resp.Secret), user.PasswordResetHash)

		assert.NotNil(t, user.PasswordResetExpiresAt)
		assert.WithinDuration(t, time.Now().Add(tasks.ResetSecretTTL), *user.PasswordResetExpiresAt, 5*time.Second)
		assert.WithinDuration(t, resp.ExpiresAt, *user.PasswordResetExpiresAt, time.Second)
	})

	t.Run("a second request replaces the pending secret", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		user := &tasks.User{ID: uuid.New(), Email: "user@example.com"}

		repo.users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
		repo.users.On("Update", mock.Anything, user).Return(user, nil)

		handler := tasks.NewInitializePasswordResetHandler(repo)

		var first, second *tasks.InitializePasswordResetResponse
		assert.NoError(t, handler.Execute(context.Background(), tasks.InitializePasswordResetMessage{
			Email:      "user@example.com",
			OnResponse: func(r *tasks.InitializePasswordResetResponse) { first = r },
		}))
		assert.NoError(t, handler.Execute(context.Background(), tasks.InitializePasswordResetMessage{
			Email:      "user@example.com",
			OnResponse: func(r *tasks.InitializePasswordResetResponse) { second = r },
		}))

		assert.NotEqual(t, first.Secret, second.Secret)
		assert.Equal(t, tasks.HashResetSecret(second.Secret), user.PasswordResetHash)
	})

	t.Run("unknown email is reported", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		repo.users.On("GetByEmail", mock.Anything, "nobody@example.com").
			Return(nil, errors.New("not found", errors.CategoryNotFound))

		handler := tasks.NewInitializePasswordResetHandler(repo)
		err := handler.Execute(context.Background(), tasks.InitializePasswordResetMessage{
			Email: "nobody@example.com",
		})
		assert.ErrorIs(t, err, tasks.ErrAccountNotFound)
	})
}

func TestFinalizePasswordResetHandler(t *testing.T) {
	svc := newTestTokenService("reset-key")

	pendingUser := func(secret string, expiresIn time.Duration) *tasks.User {
		expires := time.Now().Add(expiresIn)
		user := &tasks.User{ID: uuid.New(), Email: "user@example.com"}
		user.PasswordResetHash = tasks.HashResetSecret(secret)
		user.PasswordResetExpiresAt = &expires
		user.AddSessionToken("stale-device-token")
		return user
	}

	t.Run("redeems and rotates the session set", func(t *testing.T) {
		secret, err := tasks.GenerateResetSecret()
		assert.NoError(t, err)

		repo := NewMockRepositoryManager()
		user := pendingUser(secret, tasks.ResetSecretTTL)

		repo.users.On("GetByResetSecretHash", mock.Anything, tasks.HashResetSecret(secret)).
			Return(user, nil)
		repo.users.On("Update", mock.Anything, user).Return(user, nil)

		var resp *tasks.FinalizePasswordResetResponse
		handler := tasks.NewFinalizePasswordResetHandler(repo, svc)
		err = handler.Execute(context.Background(), tasks.FinalizePasswordResetMessage{
			Secret:   secret,
			Password: "brandNewPass1",
			OnResponse: func(r *tasks.FinalizePasswordResetResponse) {
				resp = r
			},
		})
		assert.NoError(t, err)
		assert.NotNil(t, resp)

		assert.NoError(t, tasks.ComparePasswordAndHash("brandNewPass1", user.PasswordHash))
		assert.NotNil(t, user.PasswordChangedAt)

		// Secret is single use.
		assert.Empty(t, user.PasswordResetHash)
		assert.Nil(t, user.PasswordResetExpiresAt)

		// Exactly one live session remains, the fresh one.
		assert.Len(t, user.SessionTokens, 1)
		assert.False(t, user.HasSessionToken("stale-device-token"))
		assert.True(t, user.HasSessionToken(resp.SessionToken))

		claims, err := svc.Validate(resp.SessionToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UID)
	})

	t.Run("returned session token authenticates immediately", func(t *testing.T) {
		secret, err := tasks.GenerateResetSecret()
		assert.NoError(t, err)

		repo := NewMockRepositoryManager()
		user := pendingUser(secret, tasks.ResetSecretTTL)

		repo.users.On("GetByResetSecretHash", mock.Anything, tasks.HashResetSecret(secret)).
			Return(user, nil)
		repo.users.On("Update", mock.Anything, user).Return(user, nil)
		repo.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		var resp *tasks.FinalizePasswordResetResponse
		handler := tasks.NewFinalizePasswordResetHandler(repo, svc)
		err = handler.Execute(context.Background(), tasks.FinalizePasswordResetMessage{
			Secret:   secret,
			Password: "brandNewPass1",
			OnResponse: func(r *tasks.FinalizePasswordResetResponse) {
				resp = r
			},
		})
		assert.NoError(t, err)
		assert.NotNil(t, resp)

		// The token was minted in the same second the password change was
		// stamped; it must not trip the staleness check.
		gk := tasks.NewGatekeeper(svc, repo)
		got, err := gk.Authenticate(context.Background(), "Bearer "+resp.SessionToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		repo.users.On("GetByResetSecretHash", mock.Anything, mock.Anything).
			Return(nil, errors.New("not found", errors.CategoryNotFound))

		handler := tasks.NewFinalizePasswordResetHandler(repo, svc)
		err := handler.Execute(context.Background(), tasks.FinalizePasswordResetMessage{
			Secret:   "made-up-secret",
			Password: "brandNewPass1",
		})
		assert.ErrorIs(t, err, tasks.ErrResetInvalidOrExpired)
	})

	t.Run("expired secret fails with the same error and is cleared", func(t *testing.T) {
		secret, err := tasks.GenerateResetSecret()
		assert.NoError(t, err)

		repo := NewMockRepositoryManager()
		user := pendingUser(secret, -time.Minute)

		repo.users.On("GetByResetSecretHash", mock.Anything, tasks.HashResetSecret(secret)).
			Return(user, nil)
		repo.users.On("Update", mock.Anything, user).Return(user, nil)

		handler := tasks.NewFinalizePasswordResetHandler(repo, svc)
		err = handler.Execute(context.Background(), tasks.FinalizePasswordResetMessage{
			Secret:   secret,
			Password: "brandNewPass1",
		})
		assert.ErrorIs(t, err, tasks.ErrResetInvalidOrExpired)

		assert.Empty(t, user.PasswordResetHash)
		assert.Nil(t, user.PasswordResetExpiresAt)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("rejects empty replacement password", func(t *testing.T) {
		secret, err := tasks.GenerateResetSecret()
		assert.NoError(t, err)

		repo := NewMockRepositoryManager()
		user := pendingUser(secret, tasks.ResetSecretTTL)
		repo.users.On("GetByResetSecretHash", mock.Anything, tasks.HashResetSecret(secret)).
			Return(user, nil)

		handler := tasks.NewFinalizePasswordResetHandler(repo, svc)
		err = handler.Execute(context.Background(), tasks.FinalizePasswordResetMessage{
			Secret: secret,
		})
		assert.Error(t, err)
	})
}

func TestResetSecretHelpers(t *testing.T) {
	first, err := tasks.GenerateResetSecret()
	assert.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := tasks.GenerateResetSecret()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Digest is deterministic and never equals its input.
	assert.Equal(t, tasks.HashResetSecret(first), tasks.HashResetSecret(first))
	assert.NotEqual(t, first, tasks.HashResetSecret(first))
	assert.Len(t, tasks.HashResetSecret(first), 64)
}
