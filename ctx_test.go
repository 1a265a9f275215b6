package tasks_test

import (
	"context"
	"testing"

	tasks "github.com/goliatone/go-tasks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &tasks.User{ID: uuid.New(), Email: "user@example.com"}

	ctx := tasks.WithUser(context.Background(), user)
	got, ok := tasks.UserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = tasks.UserFromContext(context.Background())
	assert.False(t, ok)

	_, ok = tasks.UserFromContext(tasks.WithUser(context.Background(), nil))
	assert.False(t, ok)
}

func TestInviteEmailContextRoundTrip(t *testing.T) {
	ctx := tasks.WithInviteEmail(context.Background(), "invitee@example.com")
	email, ok := tasks.InviteEmailFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "invitee@example.com", email)

	_, ok = tasks.InviteEmailFromContext(context.Background())
	assert.False(t, ok)

	_, ok = tasks.InviteEmailFromContext(tasks.WithInviteEmail(context.Background(), ""))
	assert.False(t, ok)
}
