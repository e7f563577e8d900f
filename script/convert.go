package script

import (
	lua "github.com/yuin/gopher-lua"

	"atrium/types"
)

// toLua converts a types.Value to the gopher-lua value compiled verb code
// operates on directly.
func toLua(L *lua.LState, v types.Value) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case types.Null:
		return lua.LNil
	case types.Bool:
		return lua.LBool(bool(val))
	case types.Int:
		return lua.LNumber(val)
	case types.Float:
		return lua.LNumber(val)
	case types.String:
		return lua.LString(val)
	case types.List:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	case types.Doc:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	default:
		return lua.LNil
	}
}

// fromLua converts a gopher-lua value returned from, or passed into, a
// verb/function body back to a types.Value. Lua tables with a contiguous
// 1-based integer key sequence are treated as lists; anything else with
// keys becomes a Doc.
func fromLua(lv lua.LValue) types.Value {
	switch val := lv.(type) {
	case *lua.LNilType:
		return types.Null{}
	case lua.LBool:
		return types.Bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int64(f)) {
			return types.Int(int64(f))
		}
		return types.Float(f)
	case lua.LString:
		return types.String(val)
	case *lua.LTable:
		return tableToValue(val)
	default:
		return types.Null{}
	}
}

func tableToValue(t *lua.LTable) types.Value {
	length := t.Len()
	isList := length > 0
	if isList {
		list := make(types.List, 0, length)
		ok := true
		for i := 1; i <= length; i++ {
			v := t.RawGetInt(i)
			if v == lua.LNil {
				ok = false
				break
			}
			list = append(list, fromLua(v))
		}
		extra := false
		t.ForEach(func(k, _ lua.LValue) {
			if _, isNum := k.(lua.LNumber); !isNum {
				extra = true
			}
		})
		if ok && !extra {
			return list
		}
	}

	doc := types.Doc{}
	t.ForEach(func(k, v lua.LValue) {
		doc[k.String()] = fromLua(v)
	})
	return doc
}

// argsToLua pushes a Go arg slice onto the Lua stack as individual values.
func argsToLua(L *lua.LState, args []types.Value) []lua.LValue {
	out := make([]lua.LValue, len(args))
	for i, a := range args {
		out[i] = toLua(L, a)
	}
	return out
}
