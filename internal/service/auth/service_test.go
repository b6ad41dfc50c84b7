package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencydesk/internal/model"
	"agencydesk/pkg/util"
)

type fakeUserStore struct {
	user     *model.User
	inserted *model.User
}

func (f *fakeUserStore) FindByEmail(_ context.Context, _ string) (*model.User, error) {
	if f.user == nil {
		return nil, model.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUserStore) Insert(_ context.Context, u *model.User) (int, error) {
	f.inserted = u
	return 7, nil
}

func TestLogin(t *testing.T) {
	hash, err := util.HashPassword("correct horse")
	require.NoError(t, err)

	svc := NewService(&fakeUserStore{user: &model.User{ID: 1, Email: "admin@agency.dev", PasswordHash: hash}}, "secret")

	token, err := svc.Login(context.Background(), "admin@agency.dev", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := util.ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := util.HashPassword("correct horse")
	svc := NewService(&fakeUserStore{user: &model.User{ID: 1, PasswordHash: hash}}, "secret")

	_, err := svc.Login(context.Background(), "admin@agency.dev", "wrong")
	assert.EqualError(t, err, "invalid email or password")
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewService(&fakeUserStore{}, "secret")

	_, err := svc.Login(context.Background(), "nobody@agency.dev", "pw")
	assert.EqualError(t, err, "invalid email or password")
}

func TestRegister(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewService(store, "secret")

	id, err := svc.Register(context.Background(), "new@agency.dev", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	require.NotNil(t, store.inserted)
	assert.Equal(t, "admin", store.inserted.Role)
	assert.True(t, util.CheckPassword("correct horse", store.inserted.PasswordHash))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(&fakeUserStore{user: &model.User{ID: 1, Email: "admin@agency.dev"}}, "secret")

	_, err := svc.Register(context.Background(), "admin@agency.dev", "correct horse")
	assert.EqualError(t, err, "email already exists")
}
