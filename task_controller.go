package tasks

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// TaskPayload creates a task for the calling account.
type TaskPayload struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (p TaskPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Description, validation.Required, validation.Length(1, 500)),
	)
}

var allowedTaskUpdates = map[string]bool{
	"description": true,
	"completed":   true,
}

// TaskController serves the task routes. Every non admin operation is
// scoped to the caller's own tasks.
type TaskController struct {
	repo   RepositoryManager
	logger Logger
}

func NewTaskController(repo RepositoryManager) *TaskController {
	return &TaskController{
		repo:   repo,
		logger: defLogger{},
	}
}

func (c *TaskController) WithLogger(logger Logger) *TaskController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (c *TaskController) Create(ctx router.Context) error {
	user, ok := UserFromContext(ctx.Context())
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	var payload TaskPayload
	if err := ctx.Bind(&payload); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid task payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid task payload").
			WithCode(errors.CodeBadRequest))
	}

	task, err := c.repo.Tasks().Create(ctx.Context(), &Task{
		Description: payload.Description,
		Completed:   payload.Completed,
		OwnerID:     user.ID,
	})
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, task)
}

func (c *TaskController) List(ctx router.Context) error {
	user, ok := UserFromContext(ctx.Context())
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	records, err := c.repo.Tasks().ListByOwner(ctx.Context(), user.ID)
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

// ListAll is the admin view across every account, narrowed by optional
// completed, owner, limit and offset query parameters.
func (c *TaskController) ListAll(ctx router.Context) error {
	filters := TaskFilters{}

	if raw := ctx.Query("completed", ""); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return RespondError(ctx, errors.New("invalid completed filter", errors.CategoryBadInput).
				WithCode(errors.CodeBadRequest))
		}
		filters.Completed = &completed
	}

	if raw := ctx.Query("owner", ""); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			return RespondError(ctx, errors.New("invalid owner filter", errors.CategoryBadInput).
				WithCode(errors.CodeBadRequest))
		}
		filters.OwnerID = &ownerID
	}

	if raw := ctx.Query("limit", ""); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return RespondError(ctx, errors.New("invalid limit", errors.CategoryBadInput).
				WithCode(errors.CodeBadRequest))
		}
		filters.Limit = limit
	}

	if raw := ctx.Query("offset", ""); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return RespondError(ctx, errors.New("invalid offset", errors.CategoryBadInput).
				WithCode(errors.CodeBadRequest))
		}
		filters.Offset = offset
	}

	records, err := c.repo.Tasks().List(ctx.Context(), filters)
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

func (c *TaskController) Get(ctx router.Context) error {
	user, ok := UserFromContext(ctx.Context())
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, ErrTaskNotFound)
	}

	task, err := c.repo.Tasks().GetForOwner(ctx.Context(), id, user.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return RespondError(ctx, ErrTaskNotFound)
		}
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, task)
}

func (c *TaskController) Update(ctx router.Context) error {
	user, ok := UserFromContext(ctx.Context())
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, ErrTaskNotFound)
	}

	var updates map[string]any
	if err := ctx.Bind(&updates); err != nil {
		return RespondError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid payload").
			WithCode(errors.CodeBadRequest))
	}

	if len(updates) == 0 {
		return RespondError(ctx, ErrInvalidUpdates)
	}

	for field := range updates {
		if !allowedTaskUpdates[field] {
			return RespondError(ctx, ErrInvalidUpdates)
		}
	}

	task, err := c.repo.Tasks().GetForOwner(ctx.Context(), id, user.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return RespondError(ctx, ErrTaskNotFound)
		}
		return RespondError(ctx, err)
	}

	if description, ok := updates["description"].(string); ok {
		if description == "" {
			return RespondError(ctx, ErrInvalidUpdates)
		}
		task.Description = description
	}

	if completed, ok := updates["completed"].(bool); ok {
		task.Completed = completed
	}

	updated, err := c.repo.Tasks().Update(ctx.Context(), task)
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (c *TaskController) Delete(ctx router.Context) error {
	user, ok := UserFromContext(ctx.Context())
	if !ok {
		return RespondError(ctx, ErrUnauthenticated)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, ErrTaskNotFound)
	}

	task, err := c.repo.Tasks().DeleteForOwner(ctx.Context(), id, user.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return RespondError(ctx, ErrTaskNotFound)
		}
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, task)
}
