package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"atrium/delayqueue"
	"atrium/objectgraph"
	"atrium/resolver"
	"atrium/session"
	"atrium/store"
	"atrium/types"
	"atrium/verbtable"
)

type fakeInvoker struct {
	logged []string
}

func (f *fakeInvoker) InvokeVerb(ctx *Context, objectID, verbName string, args []types.Value) (types.Value, error) {
	return types.String("invoked verb " + verbName), nil
}
func (f *fakeInvoker) InvokeFunction(ctx *Context, objectID, functionName string, args []types.Value) (types.Value, error) {
	return types.String("invoked function " + functionName), nil
}
func (f *fakeInvoker) ExecuteAdHoc(ctx *Context, source, target string) (types.Value, error) {
	return types.String("ran ad-hoc"), nil
}
func (f *fakeInvoker) ScriptLog(text string) { f.logged = append(f.logged, text) }

func setupContext(t *testing.T) (*Context, *Registry) {
	t.Helper()
	s := store.New()
	g := objectgraph.New(s)
	vt := verbtable.New(g, s)
	res := resolver.New(g, s)
	sessions := session.New()
	q := delayqueue.New()

	ctx := &Context{
		Graph: g, Store: s, Resolver: res, VerbTable: vt, Sessions: sessions, Queue: q,
		Runtime: &fakeInvoker{}, MaxDepth: 50,
	}
	return ctx, NewRegistry()
}

func TestFindObjectRoundTrip(t *testing.T) {
	ctx, reg := setupContext(t)
	obj, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)

	fn, ok := reg.Lookup("find_object")
	require.True(t, ok)

	v, err := fn(ctx, []types.Value{types.String(obj.ID)})
	require.NoError(t, err)
	doc, ok := v.(types.Doc)
	require.True(t, ok)
	require.Equal(t, types.String(obj.ID), doc["id"])
}

func TestGetPropertyReturnsDefaultWhenMissing(t *testing.T) {
	ctx, reg := setupContext(t)
	obj, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)

	fn, _ := reg.Lookup("get_property")
	v, err := fn(ctx, []types.Value{types.String(obj.ID), types.String("color"), types.String("brown")})
	require.NoError(t, err)
	require.Equal(t, types.String("brown"), v)
}

func TestSetPropertyThenGetProperty(t *testing.T) {
	ctx, reg := setupContext(t)
	obj, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)
	obj.Owner = obj.ID
	require.NoError(t, ctx.Store.Objects.Update(obj))
	ctx.This = obj

	setFn, _ := reg.Lookup("set_property")
	_, err = setFn(ctx, []types.Value{types.String(obj.ID), types.String("color"), types.String("blue")})
	require.NoError(t, err)

	getFn, _ := reg.Lookup("get_property")
	v, err := getFn(ctx, []types.Value{types.String(obj.ID), types.String("color")})
	require.NoError(t, err)
	require.Equal(t, types.String("blue"), v)
}

func TestClearPropertyThenGetPropertyFallsBackToDefault(t *testing.T) {
	ctx, reg := setupContext(t)
	cls, err := ctx.Graph.CreateClass("Dog", "", "")
	require.NoError(t, err)
	cls.DefaultProperties["sound"] = types.String("generic noise")
	require.NoError(t, ctx.Store.Classes.Update(cls))

	obj, err := ctx.Graph.CreateInstance(cls.ID, "", "")
	require.NoError(t, err)
	obj.Owner = obj.ID
	require.NoError(t, ctx.Store.Objects.Update(obj))
	ctx.This = obj

	setFn, _ := reg.Lookup("set_property")
	_, err = setFn(ctx, []types.Value{types.String(obj.ID), types.String("sound"), types.String("bark")})
	require.NoError(t, err)

	getFn, _ := reg.Lookup("get_property")
	v, err := getFn(ctx, []types.Value{types.String(obj.ID), types.String("sound")})
	require.NoError(t, err)
	require.Equal(t, types.String("bark"), v)

	clearFn, _ := reg.Lookup("clear_property")
	_, err = clearFn(ctx, []types.Value{types.String(obj.ID), types.String("sound")})
	require.NoError(t, err)

	v, err = getFn(ctx, []types.Value{types.String(obj.ID), types.String("sound")})
	require.NoError(t, err)
	require.Equal(t, types.String("generic noise"), v)
}

func TestMoveObjectBuiltin(t *testing.T) {
	ctx, reg := setupContext(t)
	room, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)
	item, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)
	item.Owner = item.ID
	require.NoError(t, ctx.Store.Objects.Update(item))
	ctx.Player = item

	fn, _ := reg.Lookup("move_object")
	_, err = fn(ctx, []types.Value{types.String(item.ID), types.String(room.ID)})
	require.NoError(t, err)

	updated, _ := ctx.Graph.GetObject(item.ID)
	require.Equal(t, room.ID, updated.Location)
}

func TestMoveObjectBuiltinDeniesNonOwner(t *testing.T) {
	ctx, reg := setupContext(t)
	room, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)
	owner, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)
	item, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)
	item.Owner = owner.ID
	require.NoError(t, ctx.Store.Objects.Update(item))

	intruder, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)
	ctx.Player = intruder

	fn, _ := reg.Lookup("move_object")
	_, err = fn(ctx, []types.Value{types.String(item.ID), types.String(room.ID)})
	require.Equal(t, types.ErrPermissionDenied, types.KindOf(err))
}

func TestCallVerbDelegatesToRuntime(t *testing.T) {
	ctx, reg := setupContext(t)
	obj, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)

	fn, _ := reg.Lookup("call_verb")
	v, err := fn(ctx, []types.Value{types.String(obj.ID), types.String("greet")})
	require.NoError(t, err)
	require.Equal(t, types.String("invoked verb greet"), v)
}

func TestNotifyNoOpWhenOffline(t *testing.T) {
	ctx, reg := setupContext(t)
	fn, _ := reg.Lookup("notify")
	v, err := fn(ctx, []types.Value{types.String("ghost"), types.String("hello")})
	require.NoError(t, err)
	require.Equal(t, types.Bool(true), v)
}

func TestExecuteScriptRequiresProgrammerOrAdmin(t *testing.T) {
	ctx, reg := setupContext(t)
	player, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)
	require.NoError(t, ctx.Store.Players.Insert(&store.Player{ObjectID: player.ID}))
	ctx.Player = player

	fn, _ := reg.Lookup("execute_script")
	_, err = fn(ctx, []types.Value{types.String("return 1")})
	require.Equal(t, types.ErrPermissionDenied, types.KindOf(err))
}

func TestExecuteScriptAllowedForProgrammer(t *testing.T) {
	ctx, reg := setupContext(t)
	player, err := ctx.Graph.CreateInstance("", "", "")
	require.NoError(t, err)
	require.NoError(t, ctx.Store.Players.Insert(&store.Player{ObjectID: player.ID, Flags: store.FlagProgrammer}))
	ctx.Player = player

	fn, _ := reg.Lookup("execute_script")
	v, err := fn(ctx, []types.Value{types.String("return 1")})
	require.NoError(t, err)
	require.Equal(t, types.String("ran ad-hoc"), v)
}

func TestJoinArgsSkipsStart(t *testing.T) {
	ctx, reg := setupContext(t)
	fn, _ := reg.Lookup("join_args")
	v, err := fn(ctx, []types.Value{types.List{types.String("a"), types.String("b"), types.String("c")}, types.Int(1)})
	require.NoError(t, err)
	require.Equal(t, types.String("b c"), v)
}
