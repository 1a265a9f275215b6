package tasks

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type RegisterUserMessage struct {
	Name string `json:"name"`
	// Email is bound from the verified invite token, never from caller
	// input.
	Email      string `json:"email"`
	Password   string `json:"password"`
	OnResponse func(resp *RegisterUserResponse)
}

func (m RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserResponse struct {
	User *User
}

// RegisterUserHandler creates the account for a successfully verified
// invite. The admin flag is forced false unconditionally; there is no
// payload shape that yields an admin account through this path.
type RegisterUserHandler struct {
	repo RepositoryManager
}

func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{
		Name:  strings.TrimSpace(event.Name),
		Email: event.Email,
		Admin: false,
	}

	if err := user.SetPassword(event.Password); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user, err := h.repo.Users().Create(ctx, user)
	if err != nil {
		// Duplicate email trips the store's unique index; surface it as a
		// client error rather than retrying.
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user").
			WithCode(goerrors.CodeConflict)
	}

	if event.OnResponse != nil {
		event.OnResponse(&RegisterUserResponse{User: user})
	}

	return nil
}
