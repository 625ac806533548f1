package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mywallet/backend/domain"
	"github.com/mywallet/backend/repository"
)

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// LoginResult is what a successful sign-in hands back to the client.
type LoginResult struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// Register creates a user with a bcrypt-hashed password.
func (uc *UseCase) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and opens a session. An unknown email and a
// wrong password produce the same error.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := uc.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("session opened", zap.String("user_id", user.ID))
	return &LoginResult{
		UserID: user.ID,
		Name:   user.Name,
		Token:  token,
	}, nil
}

// Heartbeat renews the caller's session liveness.
func (uc *UseCase) Heartbeat(ctx context.Context, userID, token string) error {
	return uc.sessions.Renew(ctx, userID, token)
}

// Authorize resolves a bearer token to the acting identity.
func (uc *UseCase) Authorize(ctx context.Context, token string) (string, error) {
	return uc.sessions.Resolve(ctx, token)
}
