package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
	accountrepo "github.com/pmorel/tasklane/internal/account/repository"
	"github.com/pmorel/tasklane/internal/common/clock"
	"github.com/pmorel/tasklane/internal/common/constants"
	commoncrypto "github.com/pmorel/tasklane/internal/common/crypto"
	"github.com/pmorel/tasklane/internal/common/logger"
	sessiondomain "github.com/pmorel/tasklane/internal/session/domain"
	sessionrepo "github.com/pmorel/tasklane/internal/session/repository"
)

type AuthService struct {
	accounts    accountrepo.Repository
	sessions    sessionrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger

	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	maxSessions     int
}

type AuthServiceDeps struct {
	Accounts    accountrepo.Repository
	Sessions    sessionrepo.Repository
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type AuthServiceConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	MaxSessions     int
}

func NewAuthService(deps AuthServiceDeps, cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		accounts:        deps.Accounts,
		sessions:        deps.Sessions,
		hasher:          deps.Hasher,
		idGenerator:     deps.IDGenerator,
		clock:           deps.Clock,
		log:             deps.Log,
		jwtSecret:       []byte(cfg.JWTSecret),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		maxSessions:     cfg.MaxSessions,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	AccountID        accountdomain.ID
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Register creates a new account. It never issues tokens: the caller logs in
// separately, so a stored credential is the only observable side effect.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (accountdomain.ID, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Email, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return "", err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return "", errInternal.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return "", errInternal.WithCause(err)
	}

	account := accountdomain.Account{
		ID:           accountdomain.ID(id),
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, accountrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_email_exists",
			}).Warn("register failed: email already used")
			return "", ErrEmailTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return "", errInternal.WithCause(err)
	}

	incrementAccountsRegistered()

	s.log.WithFields(ctx, logger.Fields{
		"email":   account.Email,
		"user_id": string(account.ID),
		"action":  "register_success",
	}).Info("register success")

	return account.ID, nil
}

// Login verifies credentials and issues a token pair. An unknown email and a
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := validateCredentials(input.Email, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		return AuthResult{}, err
	}

	account, err := s.accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, accountrepo.ErrAccountNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_account_not_found",
			}).Warn("login failed: not found")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, errInternal.WithCause(err)
	}

	if err := s.hasher.Compare(account.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	result, err := s.issueTokens(ctx, account)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(account.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   account.Email,
		"user_id": string(account.ID),
		"action":  "login_success",
	}).Info("login success")

	return result, nil
}

// Refresh redeems a refresh token for a new token pair. The stored session is
// consumed atomically, so a token can be redeemed at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if refreshToken == "" {
		return AuthResult{}, ErrInvalidRefreshToken
	}

	hash := hashSessionToken(refreshToken)

	stored, err := s.sessions.Consume(ctx, hash)
	if err != nil {
		if errors.Is(err, sessionrepo.ErrSessionNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "refresh_session_not_found",
			}).Warn("refresh failed: session not found")
			return AuthResult{}, ErrInvalidRefreshToken
		}
		return AuthResult{}, errInternal.WithCause(err)
	}

	if s.clock.Now().After(stored.ExpiresAt) {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": stored.AccountID,
			"action":  "refresh_session_expired",
		}).Warn("refresh failed: session expired")
		incrementSessionsExpired()
		return AuthResult{}, ErrSessionExpired
	}

	account, err := s.accounts.FindByID(ctx, accountdomain.ID(stored.AccountID))
	if err != nil {
		if errors.Is(err, accountrepo.ErrAccountNotFound) {
			return AuthResult{}, ErrInvalidRefreshToken
		}
		return AuthResult{}, errInternal.WithCause(err)
	}

	result, err := s.issueTokens(ctx, account)
	if err != nil {
		return AuthResult{}, err
	}

	incrementSessionsRefreshed()

	s.log.WithFields(ctx, logger.Fields{
		"user_id": stored.AccountID,
		"action":  "refresh_success",
	}).Info("refresh success")

	return result, nil
}

// Logout revokes the refresh session. Unknown tokens are a no-op so logout is
// idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	hash := hashSessionToken(refreshToken)

	if err := s.sessions.DeleteByTokenHash(ctx, hash); err != nil {
		if errors.Is(err, sessionrepo.ErrSessionNotFound) {
			return nil
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "logout_revoke_failed",
		}).Errorf("logout revoke failed: %v", err)
		return errInternal.WithCause(err)
	}

	incrementSessionsRevoked()

	s.log.WithFields(ctx, logger.Fields{
		"action": "session_revoked",
	}).Info("session revoked")

	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, account accountdomain.Account) (AuthResult, error) {
	accessToken, err := s.issueAccessToken(account)
	if err != nil {
		return AuthResult{}, errInternal.WithCause(err)
	}

	session, err := s.issueSession(ctx, account)
	if err != nil {
		return AuthResult{}, errInternal.WithCause(err)
	}

	return AuthResult{
		AccountID:        account.ID,
		AccessToken:      accessToken,
		RefreshToken:     session.RawToken,
		RefreshExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *AuthService) issueAccessToken(account accountdomain.Account) (string, error) {
	jti, err := s.idGenerator.NewID()
	if err != nil {
		return "", err
	}

	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub": string(account.ID),
		"eml": account.Email,
		"jti": jti,
		"exp": now.Add(s.accessTokenTTL).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementAccessTokensIssued()
	return tokenString, nil
}

func (s *AuthService) issueSession(ctx context.Context, account accountdomain.Account) (sessiondomain.Session, error) {
	count, err := s.sessions.CountByAccountID(ctx, string(account.ID))
	if err != nil {
		return sessiondomain.Session{}, err
	}

	if count >= s.maxSessions {
		if err := s.sessions.DeleteOldestByAccountID(ctx, string(account.ID)); err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(account.ID),
				"action":  "delete_oldest_session_failed",
			}).Warnf("failed to delete oldest session: %v", err)
		}
	}

	rawToken, err := generateSessionToken()
	if err != nil {
		return sessiondomain.Session{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return sessiondomain.Session{}, err
	}

	now := s.clock.Now()
	session := sessiondomain.Session{
		ID:        id,
		TokenHash: hashSessionToken(rawToken),
		AccountID: string(account.ID),
		ExpiresAt: now.Add(s.refreshTokenTTL),
		CreatedAt: now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return sessiondomain.Session{}, err
	}

	incrementSessionsIssued()

	session.RawToken = rawToken
	return session, nil
}

func generateSessionToken() (string, error) {
	b := make([]byte, constants.SessionTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
