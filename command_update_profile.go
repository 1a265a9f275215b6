package tasks

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

var allowedProfileUpdates = map[string]bool{
	"name":  true,
	"email": true,
}

type UpdateProfileMessage struct {
	User       *User
	Updates    map[string]any
	OnResponse func(resp *UpdateProfileResponse)
}

func (m UpdateProfileMessage) Type() string { return "user.update_profile" }

type UpdateProfileResponse struct {
	User *User
}

// UpdateProfileHandler applies a partial update to an account's profile
// fields. Any field outside the allowed set rejects the whole payload.
type UpdateProfileHandler struct {
	repo RepositoryManager
}

func NewUpdateProfileHandler(repo RepositoryManager) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

func (h *UpdateProfileHandler) Execute(ctx context.Context, event UpdateProfileMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during profile update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateProfileHandler) execute(ctx context.Context, event UpdateProfileMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.User == nil {
		return ErrUnauthenticated
	}

	if len(event.Updates) == 0 {
		return ErrInvalidUpdates
	}

	for field := range event.Updates {
		if !allowedProfileUpdates[field] {
			return ErrInvalidUpdates
		}
	}

	user := event.User

	if name, ok := event.Updates["name"].(string); ok {
		user.Name = name
	}

	if email, ok := event.Updates["email"].(string); ok {
		if err := validation.Validate(email, validation.Required, is.Email); err != nil {
			return ErrInvalidEmail
		}
		user.Email = email
	}

	user, err := h.repo.Users().Update(ctx, user)
	if err != nil {
		// Taking an email another account already holds trips the store's
		// unique index; surface it as a client error.
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not update user").
			WithCode(goerrors.CodeConflict)
	}

	if event.OnResponse != nil {
		event.OnResponse(&UpdateProfileResponse{User: user})
	}

	return nil
}
