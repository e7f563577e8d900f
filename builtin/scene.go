package builtin

import (
	"strings"

	"atrium/store"
	"atrium/types"
)

func isExit(obj *store.Object) bool {
	_, ok := obj.InstanceProperties["direction"]
	return ok
}

// describeRoom implements §4.7 describe_room: name header, long
// description, exits by direction, visible contained objects' short
// descriptions (excluding exits and players), and other present
// players.
func describeRoom(ctx *Context) string {
	if ctx.Player == nil || ctx.Player.Location == "" {
		return ""
	}
	room, ok := ctx.Graph.GetObject(ctx.Player.Location)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(room.Name)
	b.WriteString("\n")
	if v, ok := room.InstanceProperties["description"]; ok {
		if s, isStr := v.(types.String); isStr {
			b.WriteString(string(s))
			b.WriteString("\n")
		}
	}

	var exits, things, players []string
	for _, obj := range ctx.Graph.ListInLocation(room.ID) {
		if obj.ID == ctx.Player.ID {
			continue
		}
		switch {
		case isExit(obj):
			if dir, ok := obj.InstanceProperties["direction"].(types.String); ok {
				exits = append(exits, string(dir))
			}
		case isPlayerObject(ctx, obj.ID):
			players = append(players, obj.Name)
		default:
			if v, ok := obj.InstanceProperties["short_description"].(types.String); ok {
				things = append(things, string(v))
			} else {
				things = append(things, obj.Name)
			}
		}
	}

	if len(exits) > 0 {
		b.WriteString("Exits: " + strings.Join(exits, ", ") + "\n")
	}
	if len(things) > 0 {
		b.WriteString("You see: " + strings.Join(things, ", ") + "\n")
	}
	if len(players) > 0 {
		b.WriteString("Also here: " + strings.Join(players, ", ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func isPlayerObject(ctx *Context, objectID string) bool {
	_, ok := ctx.Store.Players.FindByID(objectID)
	return ok
}

func registerSceneBuiltins(r *Registry) {
	r.Register("describe_room", func(ctx *Context, args []types.Value) (types.Value, error) {
		return types.String(describeRoom(ctx)), nil
	})
}
