package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/taskdeck/taskdeck/internal/shared"
)

// mockRepository emulates the users table including its unique email index.
type mockRepository struct {
	mu     sync.Mutex
	users  map[string]*User
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[string]*User), nextID: 1}
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepository) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[email]; exists {
		return nil, shared.ErrAlreadyRegistered
	}
	user := &User{
		ID:           m.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.nextID++
	m.users[email] = user
	copied := *user
	return &copied, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, NewTokenCodec([]byte("service-test-secret"), time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Register(context.Background(), "u1@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	token, err := service.Login(context.Background(), "u1@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Register(context.Background(), "u1@example.com", "secret1")
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "u1@example.com", "different")
	require.ErrorIs(t, err, shared.ErrAlreadyRegistered)

	// The same password under a new email is fine.
	_, err = service.Register(context.Background(), "u2@example.com", "secret1")
	require.NoError(t, err)
}

func TestLoginFailuresAreUndifferentiated(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Register(context.Background(), "u1@example.com", "secret1")
	require.NoError(t, err)

	_, wrongPassword := service.Login(context.Background(), "u1@example.com", "wrong")
	_, unknownUser := service.Login(context.Background(), "nobody@example.com", "secret1")

	require.ErrorIs(t, wrongPassword, shared.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, shared.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	results := make([]error, 2)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			_, results[i] = service.Register(context.Background(), "race@example.com", "secret1")
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, shared.ErrAlreadyRegistered):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one registration must win")
	assert.Equal(t, 1, conflicts, "the loser must see the conflict rejection")
}
