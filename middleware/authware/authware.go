package authware

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	tasks "github.com/goliatone/go-tasks"
)

const (
	// DefaultContextKey is the router locals key for the authenticated account.
	DefaultContextKey = "user"
	// DefaultInviteKey is the router locals key for the invite-bound email.
	DefaultInviteKey = "invite_email"
	// DefaultTokenParam is the route parameter carrying an invite token.
	DefaultTokenParam = "token"
)

// Guard captures the gatekeeper operations the middleware composes.
type Guard interface {
	Authenticate(ctx context.Context, bearerHeader string) (*tasks.User, error)
	VerifyInvite(ctx context.Context, rawToken string) (string, error)
	RequireAdmin(user *tasks.User) error
}

type Config struct {
	Filter         func(router.Context) bool
	Guard          Guard
	ContextKey     string
	InviteKey      string
	TokenParam     string
	ErrorHandler   router.ErrorHandler
	SuccessHandler router.HandlerFunc
}

// New returns middleware that authenticates the Authorization header and
// stores the account in router locals and the request context.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := getDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			user, err := cfg.Guard.Authenticate(ctx.Context(), ctx.GetString(router.HeaderAuthorization, ""))
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, user)
			ctx.SetContext(tasks.WithUser(ctx.Context(), user))

			return cfg.SuccessHandler(ctx)
		}
	}
}

// RequireAdmin returns middleware that rejects non admin accounts. It
// expects New to have run first on the same route.
func RequireAdmin(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := getDefaultConfig(config...)
		return func(ctx router.Context) error {
			user, ok := User(ctx, cfg.ContextKey)
			if !ok {
				return cfg.ErrorHandler(ctx, tasks.ErrUnauthenticated)
			}

			if err := cfg.Guard.RequireAdmin(user); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// RequireInvite returns middleware that verifies the invite token route
// parameter and stores the invited email for the handler.
func RequireInvite(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := getDefaultConfig(config...)
		return func(ctx router.Context) error {
			email, err := cfg.Guard.VerifyInvite(ctx.Context(), ctx.Param(cfg.TokenParam))
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.InviteKey, email)
			ctx.SetContext(tasks.WithInviteEmail(ctx.Context(), email))

			return cfg.SuccessHandler(ctx)
		}
	}
}

// User retrieves the authenticated account stored by New.
func User(ctx router.Context, key ...string) (*tasks.User, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	user, ok := ctx.Locals(k).(*tasks.User)
	return user, ok && user != nil
}

// InviteEmail retrieves the invited email stored by RequireInvite.
func InviteEmail(ctx router.Context, key ...string) (string, bool) {
	k := DefaultInviteKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	email, ok := ctx.Locals(k).(string)
	return email, ok && email != ""
}

func getDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Guard == nil {
		panic("AUTH: middleware configuration: Guard is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.InviteKey == "" {
		cfg.InviteKey = DefaultInviteKey
	}

	if cfg.TokenParam == "" {
		cfg.TokenParam = DefaultTokenParam
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return cfg
}

func defaultErrorHandler(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "authentication failed").
			WithCode(errors.CodeUnauthorized)
	}

	return ctx.JSON(richErr.Code, map[string]any{
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}
