package store

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"atrium/types"
)

func TestCollectionInsertFailsOnDuplicate(t *testing.T) {
	s := New()
	obj := &Object{ID: "o1", Name: "Lobby"}
	require.NoError(t, s.Objects.Insert(obj))
	require.Error(t, s.Objects.Insert(obj))
}

func TestCollectionUpdateFailsIfAbsent(t *testing.T) {
	s := New()
	require.Error(t, s.Objects.Update(&Object{ID: "ghost"}))
}

func TestCollectionDeleteReportsPresence(t *testing.T) {
	s := New()
	require.NoError(t, s.Objects.Insert(&Object{ID: "o1"}))
	require.True(t, s.Objects.Delete("o1"))
	require.False(t, s.Objects.Delete("o1"))
}

func TestAllocateDBRefMonotonic(t *testing.T) {
	s := New()
	a := s.AllocateDBRef()
	b := s.AllocateDBRef()
	require.Equal(t, a+1, b)
}

func TestObjectsByLocationIndex(t *testing.T) {
	s := New()
	require.NoError(t, s.Objects.Insert(&Object{ID: "room", Name: "Lobby"}))
	require.NoError(t, s.Objects.Insert(&Object{ID: "key", Name: "brass key", Location: "room"}))
	require.NoError(t, s.Objects.Insert(&Object{ID: "player", Name: "bob", Location: "room"}))

	contents := s.ObjectsByLocation("room")
	require.Len(t, contents, 2)
}

func TestClassByNameCaseInsensitive(t *testing.T) {
	s := New()
	require.NoError(t, s.Classes.Insert(&Class{ID: "c1", Name: "Animal"}))

	got, ok := s.ClassByName("aNiMaL")
	require.True(t, ok)
	require.Equal(t, "c1", got.ID)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.Classes.Insert(&Class{ID: "c1", Name: "Animal", DefaultProperties: map[string]types.Value{
		"sound": types.String("generic"),
	}}))
	require.NoError(t, s.Objects.Insert(&Object{ID: "o1", DBRef: 10, Name: "Rex", ClassID: "c1"}))
	s.AllocateDBRef()

	var buf bytes.Buffer
	require.NoError(t, s.WriteSnapshot(&buf))

	restored, err := LoadSnapshot(&buf)
	require.NoError(t, err)
	require.Equal(t, 1, restored.Classes.Len())
	require.Equal(t, 1, restored.Objects.Len())

	cls, ok := restored.ClassByName("Animal")
	require.True(t, ok)
	require.Equal(t, types.String("generic"), cls.DefaultProperties["sound"])
}
