package service_test

import (
	"context"
	"time"

	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
	accountrepo "github.com/pmorel/tasklane/internal/account/repository"
	"github.com/pmorel/tasklane/internal/task/domain"
	taskrepo "github.com/pmorel/tasklane/internal/task/repository"
)

type mockAccountRepo struct {
	createFunc      func(ctx context.Context, account accountdomain.Account) error
	findByEmailFunc func(ctx context.Context, email string) (accountdomain.Account, error)
	findByIDFunc    func(ctx context.Context, id accountdomain.ID) (accountdomain.Account, error)
}

func (m *mockAccountRepo) Create(ctx context.Context, account accountdomain.Account) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, account)
	}
	return nil
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (accountdomain.Account, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return accountdomain.Account{}, accountrepo.ErrAccountNotFound
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id accountdomain.ID) (accountdomain.Account, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	// Most tests act as an existing account.
	return accountdomain.Account{ID: id, Email: "owner@example.com"}, nil
}

type mockTaskRepo struct {
	createFunc      func(ctx context.Context, task domain.Task) (domain.Task, error)
	findByIDFunc    func(ctx context.Context, id int64) (domain.Task, error)
	listByOwnerFunc func(ctx context.Context, ownerID accountdomain.ID) ([]domain.Task, error)
	updateFunc      func(ctx context.Context, id int64, ownerID accountdomain.ID, changes domain.Changes, updatedAt time.Time) (domain.Task, error)
	deleteFunc      func(ctx context.Context, id int64, ownerID accountdomain.ID) error
}

func (m *mockTaskRepo) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, task)
	}
	task.ID = 1
	return task, nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id int64) (domain.Task, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.Task{}, taskrepo.ErrTaskNotFound
}

func (m *mockTaskRepo) ListByOwner(ctx context.Context, ownerID accountdomain.ID) ([]domain.Task, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID)
	}
	return []domain.Task{}, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, id int64, ownerID accountdomain.ID, changes domain.Changes, updatedAt time.Time) (domain.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, ownerID, changes, updatedAt)
	}
	return domain.Task{}, taskrepo.ErrTaskNotFound
}

func (m *mockTaskRepo) Delete(ctx context.Context, id int64, ownerID accountdomain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, ownerID)
	}
	return taskrepo.ErrTaskNotFound
}
