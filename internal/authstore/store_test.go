package authstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/domain/auth"
	"github.com/Nelson200402/Educacion/internal/events"
)

func kvs(t *testing.T) map[string]KV {
	t.Helper()
	bolt, err := OpenBolt(filepath.Join(t.TempDir(), "nested", "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })
	return map[string]KV{"memory": NewMemoryKV(), "bolt": bolt}
}

func TestKV(t *testing.T) {
	ctx := context.Background()
	for name, kv := range kvs(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, 1, KeyToken)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, 1, KeyToken, "a"))
			require.NoError(t, kv.Set(ctx, 1, KeyToken, "b"))
			require.NoError(t, kv.Set(ctx, 2, KeyToken, "other"))

			v, ok, err := kv.Get(ctx, 1, KeyToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "b", v)

			require.NoError(t, kv.Delete(ctx, 1, KeyToken, KeyUser))
			require.NoError(t, kv.Delete(ctx, 3, KeyToken))
			_, ok, _ = kv.Get(ctx, 1, KeyToken)
			assert.False(t, ok)

			v, _, _ = kv.Get(ctx, 2, KeyToken)
			assert.Equal(t, "other", v)
		})
	}
}

func TestBoltPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	kv, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, 7, KeyUser, `{"id":1}`))
	require.NoError(t, kv.Close())

	kv, err = OpenBolt(path)
	require.NoError(t, err)
	defer func() { _ = kv.Close() }()
	v, ok, err := kv.Get(ctx, 7, KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, v)
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus(nil)
	ch, unsub := bus.Subscribe(8)
	defer unsub()

	s := New(NewMemoryKV(), bus)

	st, err := s.Load(ctx, 42)
	require.NoError(t, err)
	assert.False(t, st.SignedIn())
	_, err = st.ProfileID()
	assert.True(t, errors.Is(err, ErrSignedOut))

	require.NoError(t, s.SignIn(ctx, 42, auth.LoginResponse{Token: "tok", User: auth.User{ID: 1, Username: "ana"}}))
	e := <-ch
	assert.Equal(t, events.Event{Kind: events.AuthChanged, ChatID: 42}, e)

	st, err = s.Load(ctx, 42)
	require.NoError(t, err)
	assert.True(t, st.SignedIn())
	require.NotNil(t, st.User)
	assert.Equal(t, "ana", st.User.Username)
	_, err = st.ProfileID()
	assert.True(t, errors.Is(err, ErrNoProfile))
	assert.Equal(t, "tok", api.TokenFrom(st.Context(ctx)))

	u := *st.User
	u.Usuario = &auth.ProfileRef{ID: 9}
	require.NoError(t, s.SetUser(ctx, 42, u))
	<-ch
	st, _ = s.Load(ctx, 42)
	id, err := st.ProfileID()
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)

	require.NoError(t, s.SignOut(ctx, 42))
	<-ch
	st, _ = s.Load(ctx, 42)
	assert.False(t, st.SignedIn())
	assert.Nil(t, st.User)
	assert.Empty(t, api.TokenFrom(st.Context(ctx)))
}

func TestStoreCorruptUserBlob(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, 1, KeyToken, "tok"))
	require.NoError(t, kv.Set(ctx, 1, KeyUser, "{not json"))

	st, err := New(kv, nil).Load(ctx, 1)
	require.NoError(t, err)
	assert.True(t, st.SignedIn())
	assert.Nil(t, st.User)
	_, err = st.ProfileID()
	assert.True(t, errors.Is(err, ErrNoProfile))
}

func TestSignInRejectsEmptyToken(t *testing.T) {
	err := New(NewMemoryKV(), nil).SignIn(context.Background(), 1, auth.LoginResponse{})
	assert.Error(t, err)
}
