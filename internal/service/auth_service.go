package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"go-storefront/internal/metrics"
	"go-storefront/internal/model"
)

type TokenIssuer interface {
	Encode(identity model.Identity) (string, error)
}

// Session is the result of a successful register or login: a signed token
// for the carrier and the profile to return to the client.
type Session struct {
	Token string
	User  model.PublicUser
}

type AuthService struct {
	users  UserStore
	hasher Hasher
	tokens TokenIssuer
	newID  func() string

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserStore, hasher Hasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		newID:  uuid.NewString,
	}
}

// Register creates a user with the default role and opens a session for it.
// The request is expected to be normalized and validated already.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (Session, error) {
	existing, err := s.users.FindByEmailOrUsername(ctx, req.Email, req.Username)
	switch {
	case err == nil:
		conflict := model.ErrUsernameTaken
		if existing.Email == req.Email {
			conflict = model.ErrEmailTaken
		}
		recordAttempt("register", metrics.OutcomeConflict)
		return Session{}, conflict
	case !errors.Is(err, model.ErrUserNotFound):
		recordAttempt("register", metrics.OutcomeError)
		return Session{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		recordAttempt("register", metrics.OutcomeError)
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, model.User{
		ID:           s.newID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
	if err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, model.ErrEmailTaken) || errors.Is(err, model.ErrUsernameTaken) {
			recordAttempt("register", metrics.OutcomeConflict)
			return Session{}, err
		}
		recordAttempt("register", metrics.OutcomeError)
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	session, err := s.issue(user)
	if err != nil {
		recordAttempt("register", metrics.OutcomeError)
		return Session{}, err
	}

	recordAttempt("register", metrics.OutcomeSuccess)
	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return session, nil
}

// Login answers ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (Session, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		// Spend the same bcrypt work as a real comparison.
		_ = s.hasher.Compare(s.dummy(), req.Password)
		recordAttempt("login", metrics.OutcomeInvalidCredentials)
		return Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		recordAttempt("login", metrics.OutcomeError)
		return Session{}, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, errPasswordMismatch) {
			slog.Error("password comparison failed", "user_id", user.ID, "error", err)
		}
		recordAttempt("login", metrics.OutcomeInvalidCredentials)
		return Session{}, model.ErrInvalidCredentials
	}

	session, err := s.issue(user)
	if err != nil {
		recordAttempt("login", metrics.OutcomeError)
		return Session{}, err
	}

	recordAttempt("login", metrics.OutcomeSuccess)
	return session, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (model.PublicUser, error) {
	if !validID(userID) {
		return model.PublicUser{}, model.ErrUserNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) UpdateUsername(ctx context.Context, userID string, username string) (model.PublicUser, error) {
	if !validID(userID) {
		return model.PublicUser{}, model.ErrUserNotFound
	}

	user, err := s.users.UpdateUsername(ctx, userID, username)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID string, password string) error {
	if !validID(userID) {
		return model.ErrUserNotFound
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) issue(user model.User) (Session, error) {
	token, err := s.tokens.Encode(model.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return Session{}, fmt.Errorf("issue session token: %w", err)
	}
	return Session{Token: token, User: user.Public()}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("not-a-real-password")
		if err != nil {
			slog.Error("generate dummy password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func recordAttempt(operation string, outcome string) {
	metrics.AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}
