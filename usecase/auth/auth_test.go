package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mywallet/backend/domain"
	"github.com/mywallet/backend/pkg/clock"
	"github.com/mywallet/backend/repository/memory"
	"github.com/mywallet/backend/usecase/auth"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepository{}
	users.On("GetByEmail", ctx, "maria@example.com").Return(&domain.User{ID: "u1"}, nil)

	uc := auth.New(users, memory.NewSessionStore(nil), nil)

	_, err := uc.Register(ctx, "Maria", "maria@example.com", "secret")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	users.AssertExpectations(t)
}

func TestRegisterHashesPassword(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepository{}
	users.On("GetByEmail", ctx, "maria@example.com").Return(nil, domain.ErrUserNotFound)
	users.On("Create", ctx, mock.MatchedBy(func(user *domain.User) bool {
		if user.Email != "maria@example.com" || user.Name != "Maria" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")) == nil
	})).Return(nil)

	uc := auth.New(users, memory.NewSessionStore(nil), nil)

	user, err := uc.Register(ctx, "Maria", "maria@example.com", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", user.PasswordHash)
	users.AssertExpectations(t)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepository{}
	users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrUserNotFound)
	users.On("GetByEmail", ctx, "maria@example.com").Return(&domain.User{
		ID:           "u1",
		Email:        "maria@example.com",
		PasswordHash: hashPassword(t, "right"),
	}, nil)

	uc := auth.New(users, memory.NewSessionStore(nil), nil)

	_, unknownEmail := uc.Login(ctx, "ghost@example.com", "whatever")
	_, wrongPassword := uc.Login(ctx, "maria@example.com", "wrong")

	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.Equal(t, unknownEmail.Error(), wrongPassword.Error())
}

func TestLoginOpensResolvableSession(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepository{}
	users.On("GetByEmail", ctx, "maria@example.com").Return(&domain.User{
		ID:           "u1",
		Name:         "Maria",
		Email:        "maria@example.com",
		PasswordHash: hashPassword(t, "secret"),
	}, nil)

	uc := auth.New(users, memory.NewSessionStore(nil), nil)

	result, err := uc.Login(ctx, "maria@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, "Maria", result.Name)
	require.NotEmpty(t, result.Token)

	resolved, err := uc.Authorize(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", resolved)

	require.NoError(t, uc.Heartbeat(ctx, "u1", result.Token))
}

func TestRelogInvalidatesPriorToken(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepository{}
	users.On("GetByEmail", ctx, "maria@example.com").Return(&domain.User{
		ID:           "u1",
		PasswordHash: hashPassword(t, "secret"),
	}, nil)

	uc := auth.New(users, memory.NewSessionStore(nil), nil)

	first, err := uc.Login(ctx, "maria@example.com", "secret")
	require.NoError(t, err)
	second, err := uc.Login(ctx, "maria@example.com", "secret")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = uc.Authorize(ctx, first.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	resolved, err := uc.Authorize(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", resolved)
}

func TestExpiredSessionRejectsHeartbeatAfterSweep(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewSessionStore(fake)

	users := &mockUserRepository{}
	users.On("GetByEmail", ctx, "maria@example.com").Return(&domain.User{
		ID:           "u1",
		PasswordHash: hashPassword(t, "secret"),
	}, nil)

	uc := auth.New(users, store, nil)

	result, err := uc.Login(ctx, "maria@example.com", "secret")
	require.NoError(t, err)

	fake.Advance(16 * time.Second)
	evicted, err := store.Sweep(ctx, 15*time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, evicted)

	assert.ErrorIs(t, uc.Heartbeat(ctx, "u1", result.Token), domain.ErrUnauthorized)
	_, err = uc.Authorize(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
