package tasks

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type invitations struct {
	repository.Repository[*Invitation]
	db *bun.DB
}

var _ Invitations = (*invitations)(nil)

func NewInvitationsRepository(db *bun.DB) Invitations {
	repo := repository.NewRepository[*Invitation](db, repository.ModelHandlers[*Invitation]{
		NewRecord: func() *Invitation { return &Invitation{} },
		GetID: func(i *Invitation) uuid.UUID {
			if i == nil {
				return uuid.Nil
			}
			return i.ID
		},
		SetID: func(i *Invitation, id uuid.UUID) {
			if i != nil {
				i.ID = id
			}
		},
	})

	return &invitations{
		Repository: repo,
		db:         db,
	}
}

func (a *invitations) GetByToken(ctx context.Context, token string) (*Invitation, error) {
	record := &Invitation{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound()
		}
		return nil, err
	}

	return record, nil
}

// Upsert keeps the ledger at one active invitation per email: re-inviting
// an address overwrites its token, which retires the previous invite.
func (a *invitations) Upsert(ctx context.Context, record *Invitation) (*Invitation, error) {
	existing := &Invitation{}
	err := a.db.NewSelect().
		Model(existing).
		Where("?TableAlias.email = ?", record.Email).
		Limit(1).
		Scan(ctx)

	if err == nil {
		record.ID = existing.ID
		return a.Repository.Update(ctx, record, repository.UpdateByID(record.ID.String()))
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	return a.Repository.Create(ctx, record)
}
