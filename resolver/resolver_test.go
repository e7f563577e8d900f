package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"atrium/objectgraph"
	"atrium/store"
	"atrium/types"
)

func setup(t *testing.T) (*Resolver, *objectgraph.Graph, *store.Store) {
	t.Helper()
	s := store.New()
	g := objectgraph.New(s)
	return New(g, s), g, s
}

func TestResolveKeywordMe(t *testing.T) {
	r, g, _ := setup(t)
	room, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	player, err := g.CreateInstance("", room.ID, "")
	require.NoError(t, err)

	res := r.Resolve("me", player, "")
	require.True(t, res.IsUnique())
	require.Equal(t, player.ID, res.Unique.ID)
}

func TestResolveKeywordHere(t *testing.T) {
	r, g, _ := setup(t)
	room, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	player, err := g.CreateInstance("", room.ID, "")
	require.NoError(t, err)

	res := r.Resolve("here", player, "")
	require.True(t, res.IsUnique())
	require.Equal(t, room.ID, res.Unique.ID)
}

func TestResolveDBRef(t *testing.T) {
	r, g, _ := setup(t)
	obj, err := g.CreateInstance("", "", "")
	require.NoError(t, err)

	res := r.Resolve(obj.DBRef.String(), nil, "")
	require.True(t, res.IsUnique())
	require.Equal(t, obj.ID, res.Unique.ID)
}

func TestResolveDBRefUnknownIsNone(t *testing.T) {
	r, _, _ := setup(t)
	res := r.Resolve("#9999", nil, "")
	require.True(t, res.IsNone())
}

func TestResolveClassReference(t *testing.T) {
	r, g, _ := setup(t)
	cls, err := g.CreateClass("Animal", "", "a generic animal")
	require.NoError(t, err)

	res := r.Resolve("class:Animal", nil, "")
	require.True(t, res.IsUnique())
	require.Equal(t, cls.ID, res.Unique.ID)

	res2 := r.Resolve("Animal.class", nil, "")
	require.True(t, res2.IsUnique())
	require.Equal(t, cls.ID, res2.Unique.ID)
}

func TestResolveExactNameBeatsPrefix(t *testing.T) {
	r, g, s := setup(t)
	room, err := g.CreateInstance("", "", "")
	require.NoError(t, err)

	gem, err := g.CreateInstance("", room.ID, "")
	require.NoError(t, err)
	gem.Name = "gem"
	require.NoError(t, s.Objects.Update(gem))

	gemstone, err := g.CreateInstance("", room.ID, "")
	require.NoError(t, err)
	gemstone.Name = "gemstone"
	require.NoError(t, s.Objects.Update(gemstone))

	res := r.Resolve("gem", nil, room.ID)
	require.True(t, res.IsUnique())
	require.Equal(t, gem.ID, res.Unique.ID)
}

func TestResolveAmbiguousPrefix(t *testing.T) {
	r, g, s := setup(t)
	room, err := g.CreateInstance("", "", "")
	require.NoError(t, err)

	a, err := g.CreateInstance("", room.ID, "")
	require.NoError(t, err)
	a.Name = "red gem"
	require.NoError(t, s.Objects.Update(a))

	b, err := g.CreateInstance("", room.ID, "")
	require.NoError(t, err)
	b.Name = "red gemstone"
	require.NoError(t, s.Objects.Update(b))

	res := r.Resolve("red", nil, room.ID)
	require.True(t, res.IsAmbiguous())
	require.Len(t, res.Ambiguous, 2)
}

func TestResolveExitAbbreviation(t *testing.T) {
	r, g, s := setup(t)
	room, err := g.CreateInstance("", "", "")
	require.NoError(t, err)

	exit, err := g.CreateInstance("", room.ID, "")
	require.NoError(t, err)
	exit.Name = "Northeast Exit"
	exit.InstanceProperties["direction"] = types.String("northeast")
	require.NoError(t, s.Objects.Update(exit))

	res := r.Resolve("ne", nil, room.ID)
	require.True(t, res.IsUnique())
	require.Equal(t, exit.ID, res.Unique.ID)
}

func TestResolveNoneWhenNoCandidates(t *testing.T) {
	r, _, _ := setup(t)
	res := r.Resolve("nonexistent thing", nil, "")
	require.True(t, res.IsNone())
}
