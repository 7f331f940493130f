package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/config"
	"github.com/gotodo/core/internal/infrastructure/logger"
	"github.com/gotodo/core/internal/ports"
)

type fakeUserRepo struct {
	users map[uuid.UUID]entities.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return entities.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, t time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	user.LastLoginAt = &t
	r.users[id] = user
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *entities.User) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entities.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	repo := &fakeUserRepo{users: map[uuid.UUID]entities.User{user.ID: *user}}
	svc := NewAuthService(repo, config.JWTConfig{
		Secret:           "test-secret",
		ExpiresIn:        time.Minute,
		RefreshExpiresIn: time.Hour,
		Issuer:           "gotodo-test",
	}, logger.NewNop())

	return svc, repo, user
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, repo, user := newAuthFixture(t)

	pair, err := svc.Login(context.Background(), ports.LoginRequest{
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := svc.ValidateAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	stored := repo.users[user.ID]
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), ports.LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, repo, user := newAuthFixture(t)

	inactive := repo.users[user.ID]
	inactive.IsActive = false
	repo.users[user.ID] = inactive

	_, err := svc.Login(context.Background(), ports.LoginRequest{
		Username: "alice",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestRefreshIssuesAccessToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	pair, err := svc.Login(context.Background(), ports.LoginRequest{
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.Access)
	assert.Empty(t, renewed.Refresh)

	_, err = svc.ValidateAccessToken(renewed.Access)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	pair, err := svc.Login(context.Background(), ports.LoginRequest{
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.Access)
	assert.ErrorIs(t, err, entities.ErrInvalidToken)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	pair, err := svc.Login(context.Background(), ports.LoginRequest{
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.Refresh)
	assert.ErrorIs(t, err, entities.ErrInvalidToken)
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), ports.RegisterRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "super secret",
	})
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
	assert.True(t, user.IsActive)

	stored := repo.users[user.ID]
	require.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "super secret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("super secret")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), ports.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "super secret",
	})

	var verr entities.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"already in use"}, verr["email"])
}

func TestClaimsActorElevation(t *testing.T) {
	svc, repo, user := newAuthFixture(t)

	staff := repo.users[user.ID]
	staff.IsStaff = true
	repo.users[user.ID] = staff

	pair, err := svc.Login(context.Background(), ports.LoginRequest{
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.Access)
	require.NoError(t, err)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.True(t, actor.Elevated)
}
