package tasks

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. SessionTokens is the live session set: a
// bearer token is only valid while it is present here. The set is stored
// as a single JSON column so every write replaces it atomically;
// concurrent mutations are last-write-wins.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name         string    `bun:"name,notnull" json:"name,omitempty"`
	Email        string    `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Admin        bool      `bun:"is_admin" json:"is_admin,omitempty"`

	SessionTokens []string `bun:"session_tokens" json:"-"`

	// PasswordChangedAt is stamped whenever the password hash changes; the
	// gatekeeper rejects session tokens issued before it even if a future
	// change stops clearing the session set.
	PasswordChangedAt *time.Time `bun:"password_changed_at,nullzero" json:"-"`

	PasswordResetHash      string     `bun:"password_reset_hash,nullzero" json:"-"`
	PasswordResetExpiresAt *time.Time `bun:"password_reset_expires_at,nullzero" json:"-"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// AddSessionToken appends a token to the session set. Multiple tokens may
// coexist, one per device.
func (u *User) AddSessionToken(token string) {
	u.SessionTokens = append(u.SessionTokens, token)
}

// HasSessionToken reports membership in the session set.
func (u *User) HasSessionToken(token string) bool {
	return slices.Contains(u.SessionTokens, token)
}

// ClearSessionTokens empties the session set, invalidating every
// outstanding bearer token.
func (u *User) ClearSessionTokens() {
	u.SessionTokens = nil
}

// ReplaceSessionTokens swaps the whole set for exactly the given tokens.
func (u *User) ReplaceSessionTokens(tokens ...string) {
	u.SessionTokens = slices.Clone(tokens)
}

// SetPassword hashes the plaintext through the credential hasher and
// stamps PasswordChangedAt. The hash is never set any other way.
func (u *User) SetPassword(plaintext string) error {
	hash, err := HashPassword(plaintext)
	if err != nil {
		return err
	}
	now := time.Now()
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
	return nil
}

// ClearResetSecret drops the pending reset secret; redemption calls this
// regardless of the outcome path taken.
func (u *User) ClearResetSecret() {
	u.PasswordResetHash = ""
	u.PasswordResetExpiresAt = nil
}

// Identity adapts the account to the request-scoped identity value.
func (u *User) Identity() Identity {
	return userIdentity{
		id:      u.ID.String(),
		email:   u.Email,
		name:    u.Name,
		isAdmin: u.Admin,
	}
}

type userIdentity struct {
	id      string
	email   string
	name    string
	isAdmin bool
}

func (i userIdentity) ID() string    { return i.id }
func (i userIdentity) Email() string { return i.email }
func (i userIdentity) Name() string  { return i.name }
func (i userIdentity) IsAdmin() bool { return i.isAdmin }

var _ Identity = userIdentity{}

// Invitation is a ledger entry: the currently valid invite token for an
// email. Unique indexes on email and token keep at most one active invite
// per address; re-inviting overwrites the token.
type Invitation struct {
	bun.BaseModel `bun:"table:invitations,alias:inv"`

	ID    uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email string    `bun:"email,notnull,unique" json:"email,omitempty"`
	Token string    `bun:"token,notnull,unique" json:"token,omitempty"`
	Valid bool      `bun:"valid,notnull" json:"valid,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Task is a to-do item owned by exactly one account.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:tsk"`

	ID          uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Description string    `bun:"description,notnull" json:"description,omitempty"`
	Completed   bool      `bun:"completed" json:"completed"`
	OwnerID     uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
