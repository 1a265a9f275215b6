package tasks

import "context"

type contextKey string

const (
	userContextKey        contextKey = "tasks:user"
	inviteEmailContextKey contextKey = "tasks:invite_email"
)

// WithUser returns a context carrying the authenticated account.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated account, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok && user != nil
}

// WithInviteEmail returns a context carrying the email bound to a
// verified invite token.
func WithInviteEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, inviteEmailContextKey, email)
}

// InviteEmailFromContext retrieves the invite-bound email, if any.
func InviteEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(inviteEmailContextKey).(string)
	return email, ok && email != ""
}
