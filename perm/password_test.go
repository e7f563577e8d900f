package perm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"atrium/store"
	"atrium/types"
)

func TestHashPasswordThenCheckPasswordRoundTrips(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	p := &store.Player{ObjectID: "obj-1", PasswordHash: hash}
	require.True(t, CheckPassword(p, "hunter2"))
	require.False(t, CheckPassword(p, "wrong"))
}

func TestCheckPasswordRejectsPlayerWithNoHash(t *testing.T) {
	require.False(t, CheckPassword(&store.Player{ObjectID: "obj-1"}, "anything"))
	require.False(t, CheckPassword(nil, "anything"))
}

func TestLoginByNameSucceedsAndFails(t *testing.T) {
	s := store.New()
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	obj := &store.Object{ID: "obj-1", Name: "Alice"}
	require.NoError(t, s.Objects.Insert(obj))
	require.NoError(t, s.Players.Insert(&store.Player{ObjectID: "obj-1", PasswordHash: hash}))

	got, err := LoginByName(s, s.Objects, "alice", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "obj-1", got.ID)

	_, err = LoginByName(s, s.Objects, "alice", "wrong")
	require.Error(t, err)
	require.Equal(t, types.ErrPermissionDenied, types.KindOf(err))

	_, err = LoginByName(s, s.Objects, "bob", "hunter2")
	require.Error(t, err)
}
