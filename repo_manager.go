package tasks

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type repositoryManager struct {
	db          *bun.DB
	users       Users
	invitations Invitations
	tasks       Tasks
}

var _ RepositoryManager = (*repositoryManager)(nil)

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &repositoryManager{
		db:          db,
		users:       NewUsersRepository(db),
		invitations: NewInvitationsRepository(db),
		tasks:       NewTasksRepository(db),
	}
}

func (m *repositoryManager) Validate() error {
	if m.db == nil {
		return goerrors.New("repository manager requires a database connection", goerrors.CategoryInternal)
	}
	return nil
}

func (m *repositoryManager) Users() Users { return m.users }

func (m *repositoryManager) Invitations() Invitations { return m.invitations }

func (m *repositoryManager) Tasks() Tasks { return m.tasks }
