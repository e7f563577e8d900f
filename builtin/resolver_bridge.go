package builtin

import "atrium/types"

func registerResolverBuiltins(r *Registry) {
	r.Register("resolve_object", func(ctx *Context, args []types.Value) (types.Value, error) {
		query, _ := argString(args[0])
		looker := ctx.Player
		if len(args) > 1 {
			if id, ok := argObjectID(args[1]); ok {
				if obj, found := ctx.Graph.GetObject(id); found {
					looker = obj
				}
			}
		}
		res := ctx.Resolver.Resolve(query, looker, "")
		switch {
		case res.IsUnique():
			return ObjectToValue(res.Unique), nil
		case res.IsAmbiguous():
			out := make(types.List, len(res.Ambiguous))
			for i, o := range res.Ambiguous {
				out[i] = ObjectToValue(o)
			}
			return out, nil
		default:
			return types.Null{}, nil
		}
	})

	r.Register("find_object_in_room", func(ctx *Context, args []types.Value) (types.Value, error) {
		name, _ := argString(args[0])
		loc := ""
		if ctx.Player != nil {
			loc = ctx.Player.Location
		}
		res := ctx.Resolver.Resolve(name, ctx.Player, loc)
		if res.IsUnique() {
			return ObjectToValue(res.Unique), nil
		}
		return types.Null{}, nil
	})

	r.Register("find_object_in_inventory", func(ctx *Context, args []types.Value) (types.Value, error) {
		name, _ := argString(args[0])
		if ctx.Player == nil {
			return types.Null{}, nil
		}
		for _, obj := range ctx.Graph.ListInLocation(ctx.Player.ID) {
			for _, key := range []string{obj.Name} {
				if key == name {
					return ObjectToValue(obj), nil
				}
			}
		}
		return types.Null{}, nil
	})
}
