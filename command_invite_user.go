package tasks

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

type InviteUserMessage struct {
	Email      string `json:"email" doc:"Email address to invite."`
	OnResponse func(resp *InviteUserResponse)
}

func (m InviteUserMessage) Type() string { return "user.invite" }

type InviteUserResponse struct {
	Token string
	Email string
}

// InviteUserHandler mints a one-day invite token for an email and upserts
// the ledger entry. Re-inviting an email replaces its previous token, which
// from then on fails invite verification even though its signature is
// still valid.
type InviteUserHandler struct {
	repo   RepositoryManager
	tokens TokenService
}

func NewInviteUserHandler(repo RepositoryManager, tokens TokenService) *InviteUserHandler {
	return &InviteUserHandler{repo: repo, tokens: tokens}
}

func (h *InviteUserHandler) Execute(ctx context.Context, event InviteUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user invitation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InviteUserHandler) execute(ctx context.Context, event InviteUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := validation.Validate(event.Email, validation.Required, is.Email); err != nil {
		return ErrInvalidEmail.Clone().
			WithMetadata(map[string]any{"email": event.Email})
	}

	token, err := h.tokens.IssueInviteToken(event.Email)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue invite token")
	}

	invitation := &Invitation{
		Email: event.Email,
		Token: token,
		Valid: true,
	}

	if _, err := h.repo.Invitations().Upsert(ctx, invitation); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to record invitation")
	}

	if event.OnResponse != nil {
		event.OnResponse(&InviteUserResponse{
			Token: token,
			Email: event.Email,
		})
	}

	return nil
}
