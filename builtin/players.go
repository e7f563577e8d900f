package builtin

import (
	"atrium/perm"
	"atrium/store"
	"atrium/types"
)

func playerToValue(objStore *store.Store, p *store.Player) types.Value {
	if p == nil {
		return types.Null{}
	}
	obj, _ := objStore.Objects.FindByID(p.ObjectID)
	doc := types.Doc{
		"object_id":  types.String(p.ObjectID),
		"admin":      types.Bool(p.Flags.Has(store.FlagAdmin)),
		"moderator":  types.Bool(p.Flags.Has(store.FlagModerator)),
		"programmer": types.Bool(p.Flags.Has(store.FlagProgrammer)),
		"online":     types.Bool(p.SessionID != ""),
	}
	if obj != nil {
		doc["name"] = types.String(obj.Name)
	}
	return doc
}

func registerPlayerBuiltins(r *Registry) {
	r.Register("find_player", func(ctx *Context, args []types.Value) (types.Value, error) {
		name, _ := argString(args[0])
		p, ok := ctx.Store.PlayerByName(ctx.Store.Objects, name)
		if !ok {
			return types.Null{}, nil
		}
		return playerToValue(ctx.Store, p), nil
	})

	r.Register("find_player_by_id", func(ctx *Context, args []types.Value) (types.Value, error) {
		id, _ := argObjectID(args[0])
		p, ok := ctx.Store.Players.FindByID(id)
		if !ok {
			return types.Null{}, nil
		}
		return playerToValue(ctx.Store, p), nil
	})

	r.Register("get_online_players", func(ctx *Context, args []types.Value) (types.Value, error) {
		var out types.List
		for _, p := range ctx.Store.Players.FindAll() {
			if p.SessionID != "" {
				out = append(out, playerToValue(ctx.Store, p))
			}
		}
		return out, nil
	})

	r.Register("get_all_players", func(ctx *Context, args []types.Value) (types.Value, error) {
		players := ctx.Store.Players.FindAll()
		out := make(types.List, len(players))
		for i, p := range players {
			out[i] = playerToValue(ctx.Store, p)
		}
		return out, nil
	})

	r.Register("current_player", func(ctx *Context, args []types.Value) (types.Value, error) {
		if ctx.Player == nil {
			return types.Null{}, nil
		}
		return ObjectToValue(ctx.Player), nil
	})

	r.Register("has_flag", func(ctx *Context, args []types.Value) (types.Value, error) {
		id, _ := argObjectID(args[0])
		flagName, _ := argString(args[1])
		p, ok := ctx.Store.Players.FindByID(id)
		if !ok {
			return types.Bool(false), nil
		}
		switch flagName {
		case "admin":
			return types.Bool(p.Flags.Has(store.FlagAdmin)), nil
		case "moderator":
			return types.Bool(p.Flags.Has(store.FlagModerator)), nil
		case "programmer":
			return types.Bool(p.Flags.Has(store.FlagProgrammer)), nil
		}
		return types.Bool(false), nil
	})

	r.Register("is_admin", func(ctx *Context, args []types.Value) (types.Value, error) {
		id, _ := argObjectID(args[0])
		return types.Bool(perm.IsAdmin(ctx.Store, id)), nil
	})
	r.Register("is_moderator", func(ctx *Context, args []types.Value) (types.Value, error) {
		id, _ := argObjectID(args[0])
		return types.Bool(perm.IsModerator(ctx.Store, id)), nil
	})
	r.Register("is_programmer", func(ctx *Context, args []types.Value) (types.Value, error) {
		id, _ := argObjectID(args[0])
		return types.Bool(perm.IsProgrammer(ctx.Store, id)), nil
	})
}
