package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/storage"
)

func slots(t *testing.T) *storage.FS {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestLoginPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	fs := slots(t)

	s := New(fs)
	require.NoError(t, s.Restore(ctx))
	assert.Nil(t, s.Current())

	u, err := s.Login(ctx, Credentials{Email: "ada@example.com", Password: "anything"})
	require.NoError(t, err)
	assert.Equal(t, models.User{Name: "Demo User", Email: "ada@example.com"}, u)

	raw, err := fs.Get(DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Demo User","email":"ada@example.com"}`, string(raw))

	restarted := New(fs)
	require.NoError(t, restarted.Restore(ctx))
	require.NotNil(t, restarted.Current())
	assert.Equal(t, "ada@example.com", restarted.Current().Email)
}

func TestLoginRequiresFields(t *testing.T) {
	s := New(slots(t))
	for _, c := range []Credentials{{}, {Email: "a@b.c"}, {Password: "x"}} {
		_, err := s.Login(context.Background(), c)
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, MsgFillAllFields, apperr.Message(err))
	}
	assert.Nil(t, s.Current())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	s := New(slots(t))

	_, err := s.Register(ctx, Registration{Email: "a@b.c", Password: "x"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, MsgFillAllFields, apperr.Message(err))

	_, err = s.Register(ctx, Registration{Email: "a@b.c", Password: "x", ConfirmPassword: "y"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, MsgPasswordMismatch, apperr.Message(err))
	assert.Nil(t, s.Current())

	u, err := s.Register(ctx, Registration{Email: "a@b.c", Password: "x", ConfirmPassword: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Demo User", u.Name)
	assert.NotNil(t, s.Current())
}

func TestLogoutClearsSlot(t *testing.T) {
	ctx := context.Background()
	fs := slots(t)
	var changes []*models.User
	s := New(fs, OnChange(func(u *models.User) { changes = append(changes, u) }))

	_, err := s.Login(ctx, Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))
	assert.Nil(t, s.Current())

	_, err = fs.Get(DefaultKey)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.Len(t, changes, 2)
	assert.NotNil(t, changes[0])
	assert.Nil(t, changes[1])
}

func TestRestoreIgnoresCorruptSlot(t *testing.T) {
	fs := slots(t)
	require.NoError(t, fs.Set(DefaultKey, []byte("{not json")))
	s := New(fs)
	require.NoError(t, s.Restore(context.Background()))
	assert.Nil(t, s.Current())
}

func TestRestoreTreatsEmptySlotAsGuest(t *testing.T) {
	for _, raw := range []string{"null", "{}", `{"name":"Demo User","email":""}`} {
		t.Run(raw, func(t *testing.T) {
			fs := slots(t)
			require.NoError(t, fs.Set(DefaultKey, []byte(raw)))
			s := New(fs)
			require.NoError(t, s.Restore(context.Background()))
			assert.Nil(t, s.Current())
		})
	}
}

func TestReloadPicksUpOutsideChange(t *testing.T) {
	ctx := context.Background()
	fs := slots(t)
	s := New(fs, WithKey("customKey"), WithDisplayName("Student"))
	_, err := s.Login(ctx, Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Student", s.Current().Name)

	require.NoError(t, fs.Delete("customKey"))
	require.NoError(t, s.Reload(ctx))
	assert.Nil(t, s.Current())
}
