package service_test

import (
	"context"
	"fmt"

	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
	accountrepo "github.com/pmorel/tasklane/internal/account/repository"
	sessiondomain "github.com/pmorel/tasklane/internal/session/domain"
	sessionrepo "github.com/pmorel/tasklane/internal/session/repository"
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
	return accountdomain.Account{}, accountrepo.ErrAccountNotFound
}

type mockSessionRepo struct {
	createFunc            func(ctx context.Context, session sessiondomain.Session) error
	consumeFunc           func(ctx context.Context, tokenHash string) (sessiondomain.Session, error)
	deleteByTokenHashFunc func(ctx context.Context, tokenHash string) error
	countFunc             func(ctx context.Context, accountID string) (int, error)
	deleteOldestFunc      func(ctx context.Context, accountID string) error
	deleteExpiredFunc     func(ctx context.Context) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, session sessiondomain.Session) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) Consume(ctx context.Context, tokenHash string) (sessiondomain.Session, error) {
	if m.consumeFunc != nil {
		return m.consumeFunc(ctx, tokenHash)
	}
	return sessiondomain.Session{}, sessionrepo.ErrSessionNotFound
}

func (m *mockSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if m.deleteByTokenHashFunc != nil {
		return m.deleteByTokenHashFunc(ctx, tokenHash)
	}
	return sessionrepo.ErrSessionNotFound
}

func (m *mockSessionRepo) CountByAccountID(ctx context.Context, accountID string) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, accountID)
	}
	return 0, nil
}

func (m *mockSessionRepo) DeleteOldestByAccountID(ctx context.Context, accountID string) error {
	if m.deleteOldestFunc != nil {
		return m.deleteOldestFunc(ctx, accountID)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx)
	}
	return 0, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed:"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
	counter   int
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	m.counter++
	return fmt.Sprintf("id-%d", m.counter), nil
}
