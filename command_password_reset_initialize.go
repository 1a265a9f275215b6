package tasks

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// ResetSecretTTL bounds how long a reset secret stays redeemable.
const ResetSecretTTL = 10 * time.Minute

type InitializePasswordResetMessage struct {
	Email      string `json:"email" doc:"Account email requesting the reset."`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (m InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetResponse struct {
	// Secret is the plaintext reset secret. It is returned to the caller
	// exactly once and never persisted; delivery to the account holder is
	// the caller's problem.
	Secret    string
	ExpiresAt time.Time
}

// InitializePasswordResetHandler starts a reset: it stores only the digest
// of a fresh random secret plus a short expiry on the account itself.
// Unknown emails fail with ErrAccountNotFound, a deliberate asymmetry with
// login's anti-enumeration posture.
type InitializePasswordResetHandler struct {
	repo RepositoryManager
}

func NewInitializePasswordResetHandler(repo RepositoryManager) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{repo: repo}
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrAccountNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for password reset")
	}

	secret, err := GenerateResetSecret()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(ResetSecretTTL)
	user.PasswordResetHash = HashResetSecret(secret)
	user.PasswordResetExpiresAt = &expiresAt

	if _, err := h.repo.Users().Update(ctx, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist password reset secret")
	}

	if event.OnResponse != nil {
		event.OnResponse(&InitializePasswordResetResponse{
			Secret:    secret,
			ExpiresAt: expiresAt,
		})
	}

	return nil
}

// GenerateResetSecret returns a hex-encoded 256-bit random secret.
func GenerateResetSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate reset secret")
	}
	return hex.EncodeToString(buf), nil
}

// HashResetSecret digests a reset secret for storage and lookup. A plain
// sha256 is fine here: the secret has 256 bits of entropy, and the digest
// must be recomputable from the redeemed secret, which rules out a salted
// hash.
func HashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
