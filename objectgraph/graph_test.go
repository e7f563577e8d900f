package objectgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"atrium/store"
	"atrium/types"
)

func newGraph() (*Graph, *store.Store) {
	s := store.New()
	return New(s), s
}

func TestCreateClassRejectsDuplicateName(t *testing.T) {
	g, _ := newGraph()
	_, err := g.CreateClass("Animal", "", "")
	require.NoError(t, err)

	_, err = g.CreateClass("Animal", "", "")
	require.Equal(t, types.ErrDuplicateName, types.KindOf(err))
}

func TestCreateClassRejectsMissingParent(t *testing.T) {
	g, _ := newGraph()
	_, err := g.CreateClass("Dog", "nonexistent", "")
	require.Equal(t, types.ErrMissingParent, types.KindOf(err))
}

func TestInheritanceChainIsRootFirst(t *testing.T) {
	g, _ := newGraph()
	animal, err := g.CreateClass("Animal", "", "")
	require.NoError(t, err)
	dog, err := g.CreateClass("Dog", animal.ID, "")
	require.NoError(t, err)
	puppy, err := g.CreateClass("Puppy", dog.ID, "")
	require.NoError(t, err)

	chain := g.InheritanceChain(puppy.ID)
	require.Len(t, chain, 3)
	require.Equal(t, "Animal", chain[0].Name)
	require.Equal(t, "Dog", chain[1].Name)
	require.Equal(t, "Puppy", chain[2].Name)
}

func TestCreateInstanceRejectsAbstractClass(t *testing.T) {
	g, s := newGraph()
	cls, err := g.CreateClass("Abstract", "", "")
	require.NoError(t, err)
	cls.IsAbstract = true
	require.NoError(t, s.Classes.Update(cls))

	_, err = g.CreateInstance(cls.ID, "", "")
	require.Equal(t, types.ErrAbstractClass, types.KindOf(err))
}

func TestCreateInstanceAllocatesDistinctDBRefs(t *testing.T) {
	g, _ := newGraph()
	a, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	b, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	require.NotEqual(t, a.DBRef, b.DBRef)
}

func TestMoveMaintainsContentsSymmetry(t *testing.T) {
	g, _ := newGraph()
	room, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	item, err := g.CreateInstance("", "", "mover")
	require.NoError(t, err)

	require.NoError(t, g.Move("mover", item.ID, room.ID))

	updatedRoom, ok := g.GetObject(room.ID)
	require.True(t, ok)
	require.Contains(t, updatedRoom.Contents, item.ID)

	updatedItem, ok := g.GetObject(item.ID)
	require.True(t, ok)
	require.Equal(t, room.ID, updatedItem.Location)
}

func TestMoveRejectsContainmentCycle(t *testing.T) {
	g, _ := newGraph()
	box, err := g.CreateInstance("", "", "mover")
	require.NoError(t, err)
	crate, err := g.CreateInstance("", "", "mover")
	require.NoError(t, err)
	require.NoError(t, g.Move("mover", crate.ID, box.ID))

	err = g.Move("mover", box.ID, crate.ID)
	require.Equal(t, types.ErrCyclicMove, types.KindOf(err))
}

func TestDestroyWithoutCascadeRejectsNonEmptyContents(t *testing.T) {
	g, _ := newGraph()
	room, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	item, err := g.CreateInstance("", room.ID, "")
	require.NoError(t, err)
	_ = item

	err = g.Destroy(room.ID, false)
	require.Equal(t, types.ErrRuntime, types.KindOf(err))
}

func TestDestroyWithCascadeRemovesContents(t *testing.T) {
	g, _ := newGraph()
	room, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	item, err := g.CreateInstance("", room.ID, "")
	require.NoError(t, err)

	require.NoError(t, g.Destroy(room.ID, true))
	_, ok := g.GetObject(item.ID)
	require.False(t, ok)
}

func TestPropertyResolutionFallsBackToClassDefault(t *testing.T) {
	g, s := newGraph()
	cls, err := g.CreateClass("Animal", "", "")
	require.NoError(t, err)
	cls.DefaultProperties["sound"] = types.String("generic noise")
	require.NoError(t, s.Classes.Update(cls))

	obj, err := g.CreateInstance(cls.ID, "", "")
	require.NoError(t, err)

	v, err := g.GetProperty("", obj.ID, "sound")
	require.NoError(t, err)
	require.Equal(t, types.String("generic noise"), v)
}

func TestSetPropertyOverridesAtInstanceLevel(t *testing.T) {
	g, s := newGraph()
	cls, err := g.CreateClass("Animal", "", "")
	require.NoError(t, err)
	cls.DefaultProperties["sound"] = types.String("generic noise")
	require.NoError(t, s.Classes.Update(cls))

	obj, err := g.CreateInstance(cls.ID, "", "")
	require.NoError(t, err)
	obj.Owner = obj.ID
	require.NoError(t, s.Objects.Update(obj))

	require.NoError(t, g.SetProperty(obj.ID, obj.ID, "sound", types.String("bark")))

	v, err := g.GetProperty(obj.ID, obj.ID, "sound")
	require.NoError(t, err)
	require.Equal(t, types.String("bark"), v)
}

func TestClearPropertyFallsBackToClassDefault(t *testing.T) {
	g, s := newGraph()
	cls, err := g.CreateClass("Animal", "", "")
	require.NoError(t, err)
	cls.DefaultProperties["sound"] = types.String("generic noise")
	require.NoError(t, s.Classes.Update(cls))

	obj, err := g.CreateInstance(cls.ID, "", "")
	require.NoError(t, err)
	obj.Owner = obj.ID
	require.NoError(t, s.Objects.Update(obj))

	require.NoError(t, g.SetProperty(obj.ID, obj.ID, "sound", types.String("bark")))
	v, err := g.GetProperty(obj.ID, obj.ID, "sound")
	require.NoError(t, err)
	require.Equal(t, types.String("bark"), v)

	require.NoError(t, g.ClearProperty(obj.ID, obj.ID, "sound"))
	v, err = g.GetProperty(obj.ID, obj.ID, "sound")
	require.NoError(t, err)
	require.Equal(t, types.String("generic noise"), v)
}

func TestClearPropertyOnUnoverriddenNameIsNoOp(t *testing.T) {
	g, s := newGraph()
	cls, err := g.CreateClass("Animal", "", "")
	require.NoError(t, err)
	cls.DefaultProperties["sound"] = types.String("generic noise")
	require.NoError(t, s.Classes.Update(cls))

	obj, err := g.CreateInstance(cls.ID, "", "")
	require.NoError(t, err)
	obj.Owner = obj.ID
	require.NoError(t, s.Objects.Update(obj))

	require.NoError(t, g.ClearProperty(obj.ID, obj.ID, "sound"))
	v, err := g.GetProperty(obj.ID, obj.ID, "sound")
	require.NoError(t, err)
	require.Equal(t, types.String("generic noise"), v)
}

func TestClearPropertyDeniesNonOwnerOnReadOnly(t *testing.T) {
	g, s := newGraph()
	owner, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	obj, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	obj.Owner = owner.ID
	obj.InstanceProperties["locked"] = types.Bool(true)
	obj.PropertyAccess["locked"] = store.AccessReadOnly
	require.NoError(t, s.Objects.Update(obj))

	intruder, err := g.CreateInstance("", "", "")
	require.NoError(t, err)

	err = g.ClearProperty(intruder.ID, obj.ID, "locked")
	require.Equal(t, types.ErrPropertyAccess, types.KindOf(err))
}

func TestSetPropertyDeniesNonOwnerOnReadOnly(t *testing.T) {
	g, s := newGraph()
	owner, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	obj, err := g.CreateInstance("", "", "")
	require.NoError(t, err)
	obj.Owner = owner.ID
	obj.InstanceProperties["locked"] = types.Bool(true)
	obj.PropertyAccess["locked"] = store.AccessReadOnly
	require.NoError(t, s.Objects.Update(obj))

	intruder, err := g.CreateInstance("", "", "")
	require.NoError(t, err)

	err = g.SetProperty(intruder.ID, obj.ID, "locked", types.Bool(false))
	require.Equal(t, types.ErrPropertyAccess, types.KindOf(err))
}
