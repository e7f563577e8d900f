package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"atrium/builtin"
	"atrium/types"
)

// installBuiltins registers every entry of reg as a global Lua function
// closing over ctx, plus the two runtime-support globals the §4.6
// preprocessing rewrites call into.
func installBuiltins(L *lua.LState, ctx *builtin.Context, reg *builtin.Registry) {
	for _, name := range reg.Names() {
		fn, _ := reg.Lookup(name)
		L.SetGlobal(name, L.NewFunction(wrapBuiltin(ctx, fn)))
	}

	L.SetGlobal("__resolve_dbref", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckNumber(1)
		obj, ok := ctx.Graph.GetObjectByDBRef(types.ObjID(int64(n)))
		if !ok {
			raiseScriptError(L, types.NewError(types.ErrNotFound, fmt.Sprintf("#%d does not exist", int64(n))))
			return 0
		}
		L.Push(toLua(L, builtin.ObjectToValue(obj)))
		return 1
	}))

	L.SetGlobal("__resolve_class", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		cls, ok := ctx.Store.ClassByName(name)
		if !ok {
			raiseScriptError(L, types.NewError(types.ErrNotFound, fmt.Sprintf("class %q does not exist", name)))
			return 0
		}
		L.Push(toLua(L, builtin.ClassToValue(cls)))
		return 1
	}))
}

// raiseScriptError raises err as a Lua error value carrying its
// ErrorKind as a table field, so translateLuaError can recover the
// original taxonomy instead of every error that crosses the Lua
// boundary collapsing to Runtime (§4.6 "error capture").
func raiseScriptError(L *lua.LState, err error) {
	msg := err.Error()
	switch e := err.(type) {
	case *types.CoreError:
		msg = e.Message
	case *types.ScriptError:
		msg = e.Message
	}
	t := L.NewTable()
	t.RawSetString("kind", lua.LString(types.KindOf(err).String()))
	t.RawSetString("message", lua.LString(msg))
	L.Error(t, 1)
}

// wrapBuiltin adapts a builtin.Func (Go args in, Value/error out) to a
// gopher-lua LGFunction (Lua stack in, Lua stack out).
func wrapBuiltin(ctx *builtin.Context, fn builtin.Func) lua.LGFunction {
	return func(L *lua.LState) int {
		n := L.GetTop()
		args := make([]types.Value, n)
		for i := 1; i <= n; i++ {
			args[i-1] = fromLua(L.Get(i))
		}
		result, err := fn(ctx, args)
		if err != nil {
			raiseScriptError(L, err)
			return 0
		}
		L.Push(toLua(L, result))
		return 1
	}
}
