package tasks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity is the value object attached to a request once a bearer token
// has been authenticated. Role changes apply without re-login because the
// flag is read from the store on every authentication, never from the
// token.
type Identity interface {
	ID() string
	Email() string
	Name() string
	IsAdmin() bool
}

// Config holds auth options. The signing key is injected here and never
// read from package state, so tests can run with distinct keys.
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	// GetSessionExpiration returns the session token lifetime in hours.
	GetSessionExpiration() int
	// GetInviteExpiration returns the invite token lifetime in hours.
	GetInviteExpiration() int
}

// TokenService signs and verifies the two token kinds this system issues.
type TokenService interface {
	IssueSessionToken(userID uuid.UUID) (string, error)
	IssueInviteToken(email string) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// Users is the account store. Writes are read-modify-write without a
// transaction boundary; the store only guarantees durability and the
// unique index on email.
type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByResetSecretHash(ctx context.Context, hash string) (*User, error)
	FindAdmin(ctx context.Context) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
}

// Invitations is the invite ledger: at most one active invitation per
// email, enforced by the store's unique indexes on email and token.
type Invitations interface {
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	Upsert(ctx context.Context, invitation *Invitation) (*Invitation, error)
}

// TaskFilters narrows admin-wide task listings.
type TaskFilters struct {
	Completed *bool
	OwnerID   *uuid.UUID
	Limit     int
	Offset    int
}

type Tasks interface {
	Create(ctx context.Context, task *Task) (*Task, error)
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Task, error)
	Update(ctx context.Context, task *Task) (*Task, error)
	DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Task, error)
	List(ctx context.Context, filters TaskFilters) ([]*Task, error)
}

// RepositoryManager exposes all repositories.
type RepositoryManager interface {
	Validate() error
	Users() Users
	Invitations() Invitations
	Tasks() Tasks
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] TASKS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] TASKS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] TASKS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] TASKS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
