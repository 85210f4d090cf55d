package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptiq/internal/model"
)

func newAuthHarness() (*AuthService, *fakeUserRepo, *fakeStateRepo) {
	users := newFakeUserRepo()
	states := newFakeStateRepo()
	return NewAuthService(users, states, "test-secret", time.Hour), users, states
}

func TestRegisterCreatesUserStateAndToken(t *testing.T) {
	svc, users, states := newAuthHarness()

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.NotEmpty(t, resp.UserID)
	assert.NotEmpty(t, resp.Token)

	user, err := users.GetByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, "hunter22", user.Password)

	state, err := states.GetByUserID(context.Background(), resp.UserID)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, 3, state.CurrentDifficulty)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc, _, _ := newAuthHarness()

	tests := []model.RegisterRequest{
		{Email: "a@example.com", Password: "p"},
		{Username: "a", Password: "p"},
		{Username: "a", Email: "a@example.com"},
	}
	for _, req := range tests {
		_, err := svc.Register(context.Background(), &req)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	svc, _, _ := newAuthHarness()

	req := &model.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "pw"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice2", Email: "alice@example.com", Password: "pw",
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthHarness()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "secret",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email: "bob@example.com", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Username)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email: "bob@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email: "nobody@example.com", Password: "secret",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfile(t *testing.T) {
	svc, _, _ := newAuthHarness()

	reg, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "carol", Email: "carol@example.com", Password: "pw",
	})
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), reg.UserID)
	require.NoError(t, err)
	assert.Equal(t, "carol", profile.User.Username)
	require.NotNil(t, profile.State)
	assert.Equal(t, 3, profile.State.CurrentDifficulty)

	_, err = svc.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbageAndForeignSignature(t *testing.T) {
	svc, _, _ := newAuthHarness()

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(newFakeUserRepo(), newFakeStateRepo(), "other-secret", time.Hour)
	reg, err := other.Register(context.Background(), &model.RegisterRequest{
		Username: "eve", Email: "eve@example.com", Password: "pw",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(reg.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	users := newFakeUserRepo()
	states := newFakeStateRepo()
	svc := NewAuthService(users, states, "test-secret", -time.Minute)

	reg, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "dan", Email: "dan@example.com", Password: "pw",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(reg.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
