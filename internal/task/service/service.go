package service

import (
	"context"
	"errors"
	"strings"

	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
	accountrepo "github.com/pmorel/tasklane/internal/account/repository"
	"github.com/pmorel/tasklane/internal/common/clock"
	"github.com/pmorel/tasklane/internal/common/constants"
	"github.com/pmorel/tasklane/internal/common/logger"
	"github.com/pmorel/tasklane/internal/observability/metrics"
	"github.com/pmorel/tasklane/internal/task/domain"
	taskrepo "github.com/pmorel/tasklane/internal/task/repository"
)

type TaskService struct {
	tasks    taskrepo.Repository
	accounts accountrepo.Repository
	clock    clock.Clock
	log      *logger.Logger
}

type TaskServiceDeps struct {
	Tasks    taskrepo.Repository
	Accounts accountrepo.Repository
	Clock    clock.Clock
	Log      *logger.Logger
}

func NewTaskService(deps TaskServiceDeps) *TaskService {
	return &TaskService{
		tasks:    deps.Tasks,
		accounts: deps.Accounts,
		clock:    deps.Clock,
		log:      deps.Log,
	}
}

type CreateInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
}

// UpdateInput carries a partial update: nil means the field was not sent.
type UpdateInput struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *string
	Priority    *string
}

// List returns the identity's tasks, newest-created first. An account with no
// tasks gets an empty slice, not an error.
func (s *TaskService) List(ctx context.Context, identity accountdomain.Identity) ([]domain.Task, error) {
	if err := s.ensureAccount(ctx, identity); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByOwner(ctx, identity.AccountID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.AccountID),
			"action":  "task_list_failed",
		}).Errorf("task list failed: %v", err)
		return nil, errInternal.WithCause(err)
	}

	return tasks, nil
}

// Create stores a new task owned by the identity. The owner comes from the
// resolved session only; nothing the client sends can reassign it.
func (s *TaskService) Create(ctx context.Context, identity accountdomain.Identity, input CreateInput) (domain.Task, error) {
	if err := s.ensureAccount(ctx, identity); err != nil {
		return domain.Task{}, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Task{}, ErrTitleRequired
	}
	if len(title) > constants.TaskTitleMaxLength {
		return domain.Task{}, ErrTitleTooLong
	}
	if len(input.Description) > constants.TaskDescriptionMaxLength {
		return domain.Task{}, ErrDescriptionTooLong
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		parsed, err := domain.ParsePriority(input.Priority)
		if err != nil {
			return domain.Task{}, ErrInvalidPriority
		}
		priority = parsed
	}

	task := domain.Task{
		Title:       title,
		Description: input.Description,
		Completed:   false,
		Priority:    priority,
		CreatedAt:   s.clock.Now(),
		UpdatedAt:   s.clock.Now(),
		OwnerID:     identity.AccountID,
	}

	if input.DueDate != "" {
		due, err := domain.ParseDueDate(input.DueDate)
		if err != nil {
			return domain.Task{}, ErrInvalidDueDate
		}
		task.DueDate = &due
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.AccountID),
			"action":  "task_create_failed",
		}).Errorf("task create failed: %v", err)
		return domain.Task{}, errInternal.WithCause(err)
	}

	metrics.TasksCreated.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(identity.AccountID),
		"task_id": created.ID,
		"action":  "task_created",
	}).Info("task created")

	return created, nil
}

// Update applies the fields present in input, leaving the rest untouched.
// UpdatedAt is refreshed on every successful update.
func (s *TaskService) Update(ctx context.Context, identity accountdomain.Identity, taskID int64, input UpdateInput) (domain.Task, error) {
	if err := s.ensureAccount(ctx, identity); err != nil {
		return domain.Task{}, err
	}

	if _, err := s.loadOwned(ctx, identity, taskID); err != nil {
		return domain.Task{}, err
	}

	changes, err := buildChanges(input)
	if err != nil {
		return domain.Task{}, err
	}

	updated, err := s.tasks.Update(ctx, taskID, identity.AccountID, changes, s.clock.Now())
	if err != nil {
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			// Deleted between the guard and the conditional update.
			return domain.Task{}, ErrTaskNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.AccountID),
			"task_id": taskID,
			"action":  "task_update_failed",
		}).Errorf("task update failed: %v", err)
		return domain.Task{}, errInternal.WithCause(err)
	}

	if input.Completed != nil && *input.Completed {
		metrics.TasksCompleted.Inc()
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(identity.AccountID),
		"task_id": taskID,
		"action":  "task_updated",
	}).Info("task updated")

	return updated, nil
}

// Delete removes the task permanently.
func (s *TaskService) Delete(ctx context.Context, identity accountdomain.Identity, taskID int64) error {
	if err := s.ensureAccount(ctx, identity); err != nil {
		return err
	}

	if _, err := s.loadOwned(ctx, identity, taskID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID, identity.AccountID); err != nil {
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.AccountID),
			"task_id": taskID,
			"action":  "task_delete_failed",
		}).Errorf("task delete failed: %v", err)
		return errInternal.WithCause(err)
	}

	metrics.TasksDeleted.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(identity.AccountID),
		"task_id": taskID,
		"action":  "task_deleted",
	}).Info("task deleted")

	return nil
}

// loadOwned checks existence before ownership, so a caller probing another
// account's ids gets the same classification path every time.
func (s *TaskService) loadOwned(ctx context.Context, identity accountdomain.Identity, taskID int64) (domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, errInternal.WithCause(err)
	}

	if assertOwner(identity, task) != ownershipOK {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.AccountID),
			"task_id": taskID,
			"action":  "task_ownership_denied",
		}).Warn("task access denied: not owner")
		return domain.Task{}, ErrTaskForbidden
	}

	return task, nil
}

func (s *TaskService) ensureAccount(ctx context.Context, identity accountdomain.Identity) error {
	_, err := s.accounts.FindByID(ctx, identity.AccountID)
	if err != nil {
		if errors.Is(err, accountrepo.ErrAccountNotFound) {
			return ErrAccountMissing
		}
		return errInternal.WithCause(err)
	}
	return nil
}

func buildChanges(input UpdateInput) (domain.Changes, error) {
	changes := domain.Changes{
		Description: input.Description,
		Completed:   input.Completed,
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return domain.Changes{}, ErrTitleRequired
		}
		if len(title) > constants.TaskTitleMaxLength {
			return domain.Changes{}, ErrTitleTooLong
		}
		changes.Title = &title
	}

	if input.Description != nil && len(*input.Description) > constants.TaskDescriptionMaxLength {
		return domain.Changes{}, ErrDescriptionTooLong
	}

	if input.DueDate != nil && *input.DueDate != "" {
		due, err := domain.ParseDueDate(*input.DueDate)
		if err != nil {
			return domain.Changes{}, ErrInvalidDueDate
		}
		changes.DueDate = &due
	}

	if input.Priority != nil && *input.Priority != "" {
		priority, err := domain.ParsePriority(*input.Priority)
		if err != nil {
			return domain.Changes{}, ErrInvalidPriority
		}
		changes.Priority = &priority
	}

	return changes, nil
}
