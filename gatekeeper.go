package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// BearerScheme is the expected Authorization header scheme.
const BearerScheme = "Bearer"

// Gatekeeper implements the guard operations the routing layer composes
// before a handler runs. Guards are decision functions over the presented
// credential, the persisted state, and the current time; they mutate
// nothing themselves.
type Gatekeeper struct {
	tokens      TokenService
	users       Users
	invitations Invitations
	logger      Logger
}

// NewGatekeeper returns a new Gatekeeper
func NewGatekeeper(tokens TokenService, repo RepositoryManager) *Gatekeeper {
	return &Gatekeeper{
		tokens:      tokens,
		users:       repo.Users(),
		invitations: repo.Invitations(),
		logger:      defLogger{},
	}
}

func (g *Gatekeeper) WithLogger(logger Logger) *Gatekeeper {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Authenticate verifies a bearer header and returns the matching account.
// Every failure mode collapses into ErrUnauthenticated: missing or
// malformed header, bad signature, expiry, a token not in the account's
// session set (logged out or unknown account), or a token issued before
// the last password change.
func (g *Gatekeeper) Authenticate(ctx context.Context, bearerHeader string) (*User, error) {
	raw, ok := extractBearerToken(bearerHeader)
	if !ok {
		return nil, ErrUnauthenticated.Clone().
			WithMetadata(map[string]any{"reason": "missing bearer token"})
	}

	claims, err := g.tokens.Validate(raw)
	if err != nil {
		g.logger.Debug("authenticate token validation failed", "error", err)
		return nil, ErrUnauthenticated.Clone().
			WithMetadata(map[string]any{"reason": "token validation failed"})
	}

	if !claims.IsSession() {
		return nil, ErrUnauthenticated.Clone().
			WithMetadata(map[string]any{"reason": "not a session token"})
	}

	id, err := uuid.Parse(claims.UID)
	if err != nil {
		return nil, ErrUnauthenticated.Clone().
			WithMetadata(map[string]any{"reason": "invalid account id claim"})
	}

	user, err := g.users.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUnauthenticated.Clone().
				WithMetadata(map[string]any{"reason": "unknown account"})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load account during authentication")
	}

	if !user.HasSessionToken(raw) {
		return nil, ErrUnauthenticated.Clone().
			WithMetadata(map[string]any{"reason": "token not in session set"})
	}

	// Second, independent staleness check. A password change already clears
	// the session set, but the timestamp guards the invariant even if the
	// clearing behavior ever changes. JWT iat carries whole seconds, so the
	// change time is truncated to match; a token minted in the same second
	// as the change stays valid.
	if user.PasswordChangedAt != nil && !claims.IssuedTime().IsZero() {
		if user.PasswordChangedAt.Truncate(time.Second).After(claims.IssuedTime()) {
			return nil, ErrUnauthenticated.Clone().
				WithMetadata(map[string]any{"reason": "password changed after token issue"})
		}
	}

	return user, nil
}

// VerifyInvite verifies a path-embedded invite token and returns the
// invited email. The signature alone is not enough: the raw token must be
// the ledger's current token for that email, so a valid-but-superseded
// token from an earlier invite is rejected.
func (g *Gatekeeper) VerifyInvite(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", ErrInvalidInviteToken
	}

	claims, err := g.tokens.Validate(rawToken)
	if err != nil {
		g.logger.Debug("invite token validation failed", "error", err)
		return "", ErrInvalidInviteToken
	}

	if !claims.IsInvite() {
		return "", ErrInvalidInviteToken
	}

	invitation, err := g.invitations.GetByToken(ctx, rawToken)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", ErrInvalidInviteToken
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to load invitation during verification")
	}

	if invitation.Email != claims.Email {
		return "", ErrInvalidInviteToken
	}

	return claims.Email, nil
}

// RequireAdmin passes only for accounts with the admin flag set.
func (g *Gatekeeper) RequireAdmin(user *User) error {
	if user == nil || !user.Admin {
		return ErrForbidden
	}
	return nil
}

func extractBearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, BearerScheme+" ")
	if !found || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}
