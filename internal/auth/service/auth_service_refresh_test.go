package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
	"github.com/pmorel/tasklane/internal/auth/service"
	sessiondomain "github.com/pmorel/tasklane/internal/session/domain"
	sessionrepo "github.com/pmorel/tasklane/internal/session/repository"
)

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	svc, accounts, sessions, _, _, mockClock := setupAuthService(t)

	consumedHash := ""
	sessions.consumeFunc = func(ctx context.Context, tokenHash string) (sessiondomain.Session, error) {
		consumedHash = tokenHash
		return sessiondomain.Session{
			ID:        "session-1",
			TokenHash: tokenHash,
			AccountID: "account-123",
			ExpiresAt: mockClock.Now().Add(time.Hour),
			CreatedAt: mockClock.Now().Add(-time.Hour),
		}, nil
	}

	accounts.findByIDFunc = func(ctx context.Context, id accountdomain.ID) (accountdomain.Account, error) {
		return testAccount(), nil
	}

	var replacement sessiondomain.Session
	sessions.createFunc = func(ctx context.Context, session sessiondomain.Session) error {
		replacement = session
		return nil
	}

	result, err := svc.Refresh(context.Background(), "raw-refresh-token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if consumedHash == "" || consumedHash == "raw-refresh-token" {
		t.Error("expected the stored hash, not the raw token, to be consumed")
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("expected a fresh token pair")
	}
	if result.RefreshToken == "raw-refresh-token" {
		t.Error("expected the refresh token to rotate")
	}
	if replacement.TokenHash == consumedHash {
		t.Error("expected the replacement session to have a new hash")
	}
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	svc, _, _, _, _, _ := setupAuthService(t)

	_, err := svc.Refresh(context.Background(), "never-issued")

	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_Refresh_EmptyToken(t *testing.T) {
	svc, _, _, _, _, _ := setupAuthService(t)

	_, err := svc.Refresh(context.Background(), "")

	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_Refresh_ExpiredSession(t *testing.T) {
	svc, _, sessions, _, _, mockClock := setupAuthService(t)

	sessions.consumeFunc = func(ctx context.Context, tokenHash string) (sessiondomain.Session, error) {
		return sessiondomain.Session{
			ID:        "session-1",
			TokenHash: tokenHash,
			AccountID: "account-123",
			ExpiresAt: mockClock.Now().Add(-time.Minute),
			CreatedAt: mockClock.Now().Add(-8 * 24 * time.Hour),
		}, nil
	}

	_, err := svc.Refresh(context.Background(), "stale-token")

	if !errors.Is(err, service.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthService_Refresh_AccountGone(t *testing.T) {
	svc, _, sessions, _, _, mockClock := setupAuthService(t)

	sessions.consumeFunc = func(ctx context.Context, tokenHash string) (sessiondomain.Session, error) {
		return sessiondomain.Session{
			ID:        "session-1",
			TokenHash: tokenHash,
			AccountID: "account-gone",
			ExpiresAt: mockClock.Now().Add(time.Hour),
		}, nil
	}

	_, err := svc.Refresh(context.Background(), "orphaned-token")

	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	svc, _, sessions, _, _, _ := setupAuthService(t)

	deleted := false
	sessions.deleteByTokenHashFunc = func(ctx context.Context, tokenHash string) error {
		if tokenHash == "raw-refresh-token" {
			t.Error("expected the stored hash, not the raw token, to be deleted")
		}
		deleted = true
		return nil
	}

	if err := svc.Logout(context.Background(), "raw-refresh-token"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !deleted {
		t.Error("expected the session to be revoked")
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	svc, _, sessions, _, _, _ := setupAuthService(t)

	sessions.deleteByTokenHashFunc = func(ctx context.Context, tokenHash string) error {
		return sessionrepo.ErrSessionNotFound
	}

	if err := svc.Logout(context.Background(), "already-revoked"); err != nil {
		t.Fatalf("expected logout of an unknown token to succeed, got %v", err)
	}

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("expected logout without a token to succeed, got %v", err)
	}
}
