package tasks

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type tasksRepo struct {
	repository.Repository[*Task]
	db *bun.DB
}

var _ Tasks = (*tasksRepo)(nil)

func NewTasksRepository(db *bun.DB) Tasks {
	repo := repository.NewRepository[*Task](db, repository.ModelHandlers[*Task]{
		NewRecord: func() *Task { return &Task{} },
		GetID: func(t *Task) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Task, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
	})

	return &tasksRepo{
		Repository: repo,
		db:         db,
	}
}

func (a *tasksRepo) Create(ctx context.Context, record *Task) (*Task, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.Create(ctx, record)
}

// GetForOwner scopes the lookup to the owner so a missing task and a
// task owned by someone else are indistinguishable.
func (a *tasksRepo) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Task, error) {
	record := &Task{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id.String()).
		Where("?TableAlias.owner_id = ?", ownerID.String()).
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

func (a *tasksRepo) Update(ctx context.Context, record *Task) (*Task, error) {
	return a.Repository.Update(ctx, record, repository.UpdateByID(record.ID.String()))
}

func (a *tasksRepo) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Task, error) {
	record, err := a.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	_, err = a.db.NewDelete().
		Model((*Task)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Where("?TableAlias.owner_id = ?", ownerID.String()).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (a *tasksRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Task, error) {
	var records []*Task
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.owner_id = ?", ownerID.String()).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *tasksRepo) List(ctx context.Context, filters TaskFilters) ([]*Task, error) {
	var records []*Task
	q := a.db.NewSelect().Model(&records)

	if filters.Completed != nil {
		q.Where("?TableAlias.completed = ?", *filters.Completed)
	}

	if filters.OwnerID != nil {
		q.Where("?TableAlias.owner_id = ?", filters.OwnerID.String())
	}

	if filters.Limit > 0 {
		q.Limit(filters.Limit)
	}

	if filters.Offset > 0 {
		q.Offset(filters.Offset)
	}

	if err := q.Order("created_at ASC").Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}
