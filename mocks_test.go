package tasks_test

import (
	"context"

	tasks "github.com/goliatone/go-tasks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUsers implements tasks.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id uuid.UUID) (*tasks.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.User), args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*tasks.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.User), args.Error(1)
}

func (m *MockUsers) GetByResetSecretHash(ctx context.Context, hash string) (*tasks.User, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.User), args.Error(1)
}

func (m *MockUsers) FindAdmin(ctx context.Context) (*tasks.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.User), args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, user *tasks.User) (*tasks.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.User), args.Error(1)
}

func (m *MockUsers) Update(ctx context.Context, user *tasks.User) (*tasks.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.User), args.Error(1)
}

// MockInvitations implements tasks.Invitations
type MockInvitations struct {
	mock.Mock
}

func (m *MockInvitations) GetByToken(ctx context.Context, token string) (*tasks.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Invitation), args.Error(1)
}

func (m *MockInvitations) Upsert(ctx context.Context, invitation *tasks.Invitation) (*tasks.Invitation, error) {
	args := m.Called(ctx, invitation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Invitation), args.Error(1)
}

// MockTasks implements tasks.Tasks
type MockTasks struct {
	mock.Mock
}

func (m *MockTasks) Create(ctx context.Context, task *tasks.Task) (*tasks.Task, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Task), args.Error(1)
}

func (m *MockTasks) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*tasks.Task, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Task), args.Error(1)
}

func (m *MockTasks) Update(ctx context.Context, task *tasks.Task) (*tasks.Task, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Task), args.Error(1)
}

func (m *MockTasks) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) (*tasks.Task, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Task), args.Error(1)
}

func (m *MockTasks) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*tasks.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasks.Task), args.Error(1)
}

func (m *MockTasks) List(ctx context.Context, filters tasks.TaskFilters) ([]*tasks.Task, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasks.Task), args.Error(1)
}

// MockRepositoryManager implements tasks.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
	users       *MockUsers
	invitations *MockInvitations
	tasks       *MockTasks
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		users:       &MockUsers{},
		invitations: &MockInvitations{},
		tasks:       &MockTasks{},
	}
}

func (m *MockRepositoryManager) Validate() error { return nil }

func (m *MockRepositoryManager) Users() tasks.Users { return m.users }

func (m *MockRepositoryManager) Invitations() tasks.Invitations { return m.invitations }

func (m *MockRepositoryManager) Tasks() tasks.Tasks { return m.tasks }

// MockTokenService implements tasks.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueSessionToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) IssueInviteToken(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(token string) (*tasks.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.TokenClaims), args.Error(1)
}

// testConfig implements tasks.Config
type testConfig struct {
	signingKey        string
	issuer            string
	sessionExpiration int
	inviteExpiration  int
}

func (c testConfig) GetSigningKey() string     { return c.signingKey }
func (c testConfig) GetIssuer() string         { return c.issuer }
func (c testConfig) GetSessionExpiration() int { return c.sessionExpiration }
func (c testConfig) GetInviteExpiration() int  { return c.inviteExpiration }
