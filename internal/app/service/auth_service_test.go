package service

import (
	"context"
	"testing"

	"quizhub/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo)

	resp, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.NotEmpty(t, resp.UserID)
	assert.NotEmpty(t, resp.Token)

	stored, err := userRepo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.HashedPassword, "password must not be stored in plaintext")
}

func TestRegister_DuplicateUsernameCreatesNoRow(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo)

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "one"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "two"})
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Len(t, userRepo.usersByID, 1)
}

func TestRegister_MissingFieldsAreBadRequest(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice"})
	require.ErrorIs(t, err, common.ErrBadRequest)

	_, err = svc.Register(context.Background(), RegisterRequest{Password: "s3cret"})
	require.ErrorIs(t, err, common.ErrBadRequest)
}

func TestLogin_RoundTrip(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo)

	registered, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, resp.UserID)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo)

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogin_UnknownUserIsUnauthorized(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	require.ErrorIs(t, err, common.ErrUnauthorized)
}
