package builtin

import "atrium/types"

func registerMovementBuiltins(r *Registry) {
	r.Register("move_object", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		newLoc, _ := argObjectID(args[1])
		accessor := ""
		if ctx.Player != nil {
			accessor = ctx.Player.ID
		}
		if err := ctx.Graph.Move(accessor, objID, newLoc); err != nil {
			return nil, err
		}
		return types.Bool(true), nil
	})
}
