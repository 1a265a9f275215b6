package tasks

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// LoginPayload is the credential pair for password login.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// InvitePayload targets an email address for invitation.
type InvitePayload struct {
	Email string `json:"email"`
}

// RegisterPayload completes an invitation. The email is never part of the
// payload; it comes from the verified invite token.
type RegisterPayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 128)),
	)
}

// ForgotPasswordPayload starts the password reset flow.
type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

// ResetPasswordPayload carries the replacement password; the reset secret
// travels in the URL.
type ResetPasswordPayload struct {
	Password string `json:"password"`
}

func (p ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Password, validation.Required, validation.Length(8, 128)),
	)
}

// AuthController serves the account and session routes.
type AuthController struct {
	auth     *Auther
	repo     RepositoryManager
	invite   *InviteUserHandler
	register *RegisterUserHandler
	resetIni *InitializePasswordResetHandler
	resetFin *FinalizePasswordResetHandler
	profile  *UpdateProfileHandler
	logger   Logger
}

func NewAuthController(auth *Auther, repo RepositoryManager, tokens TokenService) *AuthController {
	return &AuthController{
		auth:     auth,
		repo:     repo,
		invite:   NewInviteUserHandler(repo, tokens),
		register: NewRegisterUserHandler(repo),
		resetIni: NewInitializePasswordResetHandler(repo),
		resetFin: NewFinalizePasswordResetHandler(repo, tokens),
		profile:  NewUpdateProfileHandler(repo),
		logger:   defLogger{},
	}
}

func (c *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Login exchanges credentials for a session token.
func (c *AuthController) Login(ctx router.Context) error {
	var payload LoginPayload
	if err := ctx.Bind(&payload); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid login payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, ErrUnauthorized)
	}

	token, err := c.auth.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		c.logger.Info("login failed", "email", payload.Email)
		return RespondError(ctx, err)
	}

	user, err := c.repo.Users().GetByEmail(ctx.Context(), payload.Email)
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

// Logout drops the caller's whole session set, invalidating every device.
func (c *AuthController) Logout(ctx router.Context) error {
	user, ok := UserFromContext(ctx.Context())
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	if err := c.auth.Logout(ctx.Context(), user); err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{})
}

// Invite mints an invite token for an email address. Admin only; the
// routing layer enforces the gate.
func (c *AuthController) Invite(ctx router.Context) error {
	var payload InvitePayload
	if err := ctx.Bind(&payload); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid invite payload").
			WithCode(errors.CodeBadRequest))
	}

	var resp *InviteUserResponse
	err := c.invite.Execute(ctx.Context(), InviteUserMessage{
		Email: payload.Email,
		OnResponse: func(r *InviteUserResponse) {
			resp = r
		},
	})
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"email": resp.Email,
		"token": resp.Token,
	})
}

// Register completes an invitation: creates the account and logs it in.
// The invite middleware has already bound the email into the context.
func (c *AuthController) Register(ctx router.Context) error {
	email, ok := InviteEmailFromContext(ctx.Context())
	if !ok {
		return RespondError(ctx, ErrInvalidInviteToken)
	}

	var payload RegisterPayload
	if err := ctx.Bind(&payload); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid registration payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload").
			WithCode(errors.CodeBadRequest))
	}

	var resp *RegisterUserResponse
	err := c.register.Execute(ctx.Context(), RegisterUserMessage{
		Name:     payload.Name,
		Email:    email,
		Password: payload.Password,
		OnResponse: func(r *RegisterUserResponse) {
			resp = r
		},
	})
	if err != nil {
		return RespondError(ctx, err)
	}

	token, err := c.auth.Login(ctx.Context(), email, payload.Password)
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"user":  resp.User,
		"token": token,
	})
}

// ForgotPassword mints a short lived reset secret. With no mail transport
// the secret is returned to the caller directly.
func (c *AuthController) ForgotPassword(ctx router.Context) error {
	var payload ForgotPasswordPayload
	if err := ctx.Bind(&payload); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid payload").
			WithCode(errors.CodeBadRequest))
	}

	var resp *InitializePasswordResetResponse
	err := c.resetIni.Execute(ctx.Context(), InitializePasswordResetMessage{
		Email: payload.Email,
		OnResponse: func(r *InitializePasswordResetResponse) {
			resp = r
		},
	})
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"reset_token": resp.Secret,
		"expires_at":  resp.ExpiresAt,
	})
}

// ResetPassword redeems a reset secret and returns the account logged in
// with a single fresh session.
func (c *AuthController) ResetPassword(ctx router.Context) error {
	var payload ResetPasswordPayload
	if err := ctx.Bind(&payload); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid password").
			WithCode(errors.CodeBadRequest))
	}

	var resp *FinalizePasswordResetResponse
	err := c.resetFin.Execute(ctx.Context(), FinalizePasswordResetMessage{
		Secret:   ctx.Param("token"),
		Password: payload.Password,
		OnResponse: func(r *FinalizePasswordResetResponse) {
			resp = r
		},
	})
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"user":  resp.User,
		"token": resp.SessionToken,
	})
}

// Me returns the caller's own account.
func (c *AuthController) Me(ctx router.Context) error {
	user, ok := UserFromContext(ctx.Context())
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}
	return ctx.JSON(router.StatusOK, user)
}

// UpdateMe applies a partial update to the caller's profile.
func (c *AuthController) UpdateMe(ctx router.Context) error {
	user, ok := UserFromContext(ctx.Context())
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	var updates map[string]any
	if err := ctx.Bind(&updates); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid payload").
			WithCode(errors.CodeBadRequest))
	}

	var resp *UpdateProfileResponse
	err := c.profile.Execute(ctx.Context(), UpdateProfileMessage{
		User:    user,
		Updates: updates,
		OnResponse: func(r *UpdateProfileResponse) {
			resp = r
		},
	})
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, resp.User)
}

// RespondError maps a rich error onto the wire format shared by every
// route. Unknown errors collapse into a generic 500 so internals never
// leak.
func RespondError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	code := richErr.Code
	if code == 0 {
		code = errors.CodeInternal
	}

	return ctx.JSON(code, map[string]any{
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}
