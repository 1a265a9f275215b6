package tasks

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type FinalizePasswordResetMessage struct {
	Secret     string `json:"secret" doc:"Plaintext reset secret from the request step."`
	Password   string `json:"password" doc:"New password."`
	OnResponse func(resp *FinalizePasswordResetResponse)
}

func (m FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

type FinalizePasswordResetResponse struct {
	User *User
	// SessionToken is the single live session after the reset; every token
	// issued before the password change is dead.
	SessionToken string
}

// FinalizePasswordResetHandler redeems a reset secret: rotates the
// password, clears the pending secret, and replaces the session set with
// exactly one fresh token. Wrong secret and expired secret are
// indistinguishable in the response.
type FinalizePasswordResetHandler struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

func NewFinalizePasswordResetHandler(repo RepositoryManager, tokens TokenService) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (h *FinalizePasswordResetHandler) WithLogger(logger Logger) *FinalizePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByResetSecretHash(ctx, HashResetSecret(event.Secret))
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrResetInvalidOrExpired
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up password reset secret")
	}

	if user.PasswordResetExpiresAt == nil || !user.PasswordResetExpiresAt.After(time.Now()) {
		// An expired secret is cleared on the way out; it is single-use no
		// matter which path redemption takes.
		user.ClearResetSecret()
		if _, err := h.repo.Users().Update(ctx, user); err != nil {
			h.logger.Warn("failed to clear expired reset secret", "error", err)
		}
		return ErrResetInvalidOrExpired
	}

	user.ClearResetSecret()
	if err := user.SetPassword(event.Password); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	token, err := h.tokens.IssueSessionToken(user.ID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session token after reset")
	}

	user.ReplaceSessionTokens(token)

	if _, err := h.repo.Users().Update(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist password reset")
	}

	if event.OnResponse != nil {
		event.OnResponse(&FinalizePasswordResetResponse{
			User:         user,
			SessionToken: token,
		})
	}

	return nil
}
