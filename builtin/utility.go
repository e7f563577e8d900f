package builtin

import (
	"strings"

	"atrium/perm"
	"atrium/types"
)

func registerUtilityBuiltins(r *Registry) {
	r.Register("log", func(ctx *Context, args []types.Value) (types.Value, error) {
		text, _ := argString(args[0])
		ctx.Runtime.ScriptLog(text)
		return types.Bool(true), nil
	})

	r.Register("join_args", func(ctx *Context, args []types.Value) (types.Value, error) {
		list, ok := args[0].(types.List)
		if !ok {
			return nil, types.NewError(types.ErrRuntime, "join_args: expected a list")
		}
		start := 0
		if len(args) > 1 {
			if n, ok := args[1].(types.Int); ok {
				start = int(n)
			}
		}
		if start < 0 || start > len(list) {
			start = 0
		}
		parts := make([]string, 0, len(list)-start)
		for _, v := range list[start:] {
			parts = append(parts, v.Literal())
		}
		return types.String(strings.Join(parts, " ")), nil
	})

	r.Register("execute_script", func(ctx *Context, args []types.Value) (types.Value, error) {
		callerID := ""
		if ctx.Player != nil {
			callerID = ctx.Player.ID
		}
		if !perm.IsProgrammer(ctx.Store, callerID) && !perm.IsAdmin(ctx.Store, callerID) {
			return nil, types.NewError(types.ErrPermissionDenied, "execute_script requires Programmer or Admin")
		}
		source, _ := argString(args[0])
		target := ""
		if len(args) > 1 {
			target, _ = argObjectID(args[1])
		}
		return ctx.Runtime.ExecuteAdHoc(ctx, source, target)
	})
}
