package tasks

import "github.com/goliatone/go-errors"

const (
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeInvalidInvite      = "INVALID_INVITE_TOKEN"
	TextCodeAdminRequired      = "ADMIN_REQUIRED"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	TextCodeResetInvalid       = "RESET_INVALID_OR_EXPIRED"
	TextCodeInvalidEmail       = "INVALID_EMAIL"
	TextCodeInvalidUpdates     = "INVALID_UPDATES"
	TextCodeTaskNotFound       = "TASK_NOT_FOUND"
)

// ErrUnauthenticated is returned when a request carries no usable session
// credential: missing bearer token, bad signature, expired token, a token
// absent from the account's session set, or a token older than the last
// password change.
var ErrUnauthenticated = errors.New("please log in to access this resource", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned by the token codec for expired tokens.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned by the token codec for tokens that fail
// signature or payload checks.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidInviteToken covers every invite verification failure: bad
// signature, expiry, a token missing from the ledger, or a token superseded
// by a later re-invite.
var ErrInvalidInviteToken = errors.New("invalid invite token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidInvite).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when an authenticated account lacks admin rights.
var ErrForbidden = errors.New("this endpoint requires admin rights", errors.CategoryAuthz).
	WithTextCode(TextCodeAdminRequired).
	WithCode(errors.CodeForbidden)

// ErrUnauthorized is the generic login failure. It deliberately does not
// reveal whether the email exists.
var ErrUnauthorized = errors.New("unable to login", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotFound is returned by password-reset requests for unknown
// emails. Unlike login this does reveal account existence: a reset
// request for a mistyped address should fail loudly, not silently.
var ErrAccountNotFound = errors.New("there is no account with that email address", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrResetInvalidOrExpired conflates "wrong secret" and "expired secret" so
// redemption responses cannot be used as an oracle.
var ErrResetInvalidOrExpired = errors.New("reset token is invalid or has expired", errors.CategoryValidation).
	WithTextCode(TextCodeResetInvalid).
	WithCode(errors.CodeBadRequest)

// ErrInvalidEmail is returned when an invite targets a malformed address.
var ErrInvalidEmail = errors.New("invalid email address", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidEmail).
	WithCode(errors.CodeBadRequest)

// ErrInvalidUpdates is returned when an update payload contains fields
// outside the allowed set.
var ErrInvalidUpdates = errors.New("invalid updates", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidUpdates).
	WithCode(errors.CodeBadRequest)

// ErrTaskNotFound hides whether a task id is missing or owned by someone
// else.
var ErrTaskNotFound = errors.New("missing task or unauthorized access", errors.CategoryNotFound).
	WithTextCode(TextCodeTaskNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is the credential hasher's verification
// failure.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)
