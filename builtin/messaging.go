package builtin

import "atrium/types"

func registerMessagingBuiltins(r *Registry) {
	r.Register("notify", func(ctx *Context, args []types.Value) (types.Value, error) {
		playerID, _ := argObjectID(args[0])
		text, _ := argString(args[1])
		if err := ctx.Sessions.Notify(playerID, text); err != nil {
			return nil, types.Wrap(types.ErrRuntime, "notify failed", err)
		}
		return types.Bool(true), nil
	})

	r.Register("notify_room", func(ctx *Context, args []types.Value) (types.Value, error) {
		loc, _ := argObjectID(args[0])
		text, _ := argString(args[1])
		exclude := ""
		if len(args) > 2 {
			exclude, _ = argObjectID(args[2])
		}
		for _, obj := range ctx.Graph.ListInLocation(loc) {
			if obj.ID == exclude {
				continue
			}
			if _, isPlayer := ctx.Store.Players.FindByID(obj.ID); isPlayer {
				_ = ctx.Sessions.Notify(obj.ID, text)
			}
		}
		return types.Bool(true), nil
	})

	r.Register("say_to_room", func(ctx *Context, args []types.Value) (types.Value, error) {
		text, _ := argString(args[0])
		excludeSelf := len(args) > 1 && args[1].Truthy()
		if ctx.Player == nil || ctx.Player.Location == "" {
			return types.Bool(false), nil
		}
		exclude := ""
		if excludeSelf {
			exclude = ctx.Player.ID
		}
		for _, obj := range ctx.Graph.ListInLocation(ctx.Player.Location) {
			if obj.ID == exclude {
				continue
			}
			if _, isPlayer := ctx.Store.Players.FindByID(obj.ID); isPlayer {
				_ = ctx.Sessions.Notify(obj.ID, text)
			}
		}
		return types.Bool(true), nil
	})
}
