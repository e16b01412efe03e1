package state_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/state"
)

func TestCreateUser(t *testing.T) {
	m := newManager(t, nil)

	user, err := m.CreateUser(context.Background(), "Ana")
	require.NoError(t, err)

	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, user, m.CurrentUser())
	assert.False(t, m.IsAuthenticated())
	assert.Contains(t, m.Users(), user)
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)

	ok, err := m.RegisterUser(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "ana@x.com", m.CurrentUser().Email)
	usersAfterFirst := m.Users()

	ok, err = m.RegisterUser(ctx, "Ana2", "ana@x.com", "other2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, usersAfterFirst, m.Users())
	assert.Equal(t, "Ana", m.CurrentUser().Name)

	// the first password still works, the rejected one never became valid
	ok, err = m.LoginUser(ctx, "ana@x.com", "other2")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = m.LoginUser(ctx, "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterUser_NormalizesEmail(t *testing.T) {
	m := newManager(t, nil)
	register(t, m, "Ana", "  Ana@X.com ")

	assert.Equal(t, "ana@x.com", m.CurrentUser().Email)
	ok, err := m.RegisterUser(context.Background(), "Other", "ANA@x.com", "pw")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	ana := register(t, m, "Ana", "ana@x.com")
	require.NoError(t, m.LogoutUser(ctx))
	anon := m.CurrentUser()

	tests := []struct {
		name     string
		email    string
		password string
		wantOK   bool
	}{
		{name: "unknown_email", email: "nobody@x.com", password: "secret1"},
		{name: "wrong_password", email: "ana@x.com", password: "nope"},
		{name: "empty_password", email: "ana@x.com", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := m.LoginUser(ctx, tt.email, tt.password)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, anon, m.CurrentUser())
			assert.False(t, m.IsAuthenticated())
		})
	}

	login(t, m, "ana@x.com")
	assert.Equal(t, ana, m.CurrentUser())
	assert.True(t, m.IsAuthenticated())
}

func TestLogoutUser(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	ana := register(t, m, "Ana", "ana@x.com")

	require.NoError(t, m.LogoutUser(ctx))

	cur := m.CurrentUser()
	assert.NotEqual(t, ana.ID, cur.ID)
	assert.Equal(t, state.DefaultUserName, cur.Name)
	assert.Empty(t, cur.Email)
	assert.False(t, m.IsAuthenticated())
	_, ok := m.GetUserByID(cur.ID)
	assert.True(t, ok)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	ana := register(t, m, "Ana", "ana@x.com")

	updated, err := m.UpdateProfile(ctx, "Ana Maria", "avatar.png")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, updated.ID)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "avatar.png", updated.Avatar)

	got, ok := m.GetUserByID(ana.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got)

	// the profile change carries through a fresh login
	require.NoError(t, m.LogoutUser(ctx))
	login(t, m, "ana@x.com")
	assert.Equal(t, updated, m.CurrentUser())
}

func TestRegisterUser_PasswordTooLong(t *testing.T) {
	m := newManager(t, nil)
	anon := m.CurrentUser()
	m.TakeNotices()

	ok, err := m.RegisterUser(context.Background(), "Ana", "ana@x.com", strings.Repeat("a", 80))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, anon, m.CurrentUser())
	assert.False(t, m.IsAuthenticated())

	notices := m.TakeNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, state.LevelError, notices[0].Level)
	assert.Equal(t, state.ErrPasswordTooLong.Error(), notices[0].Message)
}
