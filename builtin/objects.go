package builtin

import (
	"atrium/store"
	"atrium/types"
)

// ObjectToValue renders a store.Object as a Doc the script layer can
// index into, grounded on the teacher's convention (builtins/objects.go)
// of surfacing core fields alongside instance_properties.
func ObjectToValue(o *store.Object) types.Value {
	if o == nil {
		return types.Null{}
	}
	props := make(types.Doc, len(o.InstanceProperties)+4)
	for k, v := range o.InstanceProperties {
		props[k] = v
	}
	props["id"] = types.String(o.ID)
	props["dbref"] = types.String(o.DBRef.String())
	props["name"] = types.String(o.Name)
	props["class_id"] = types.String(o.ClassID)
	props["location"] = types.String(o.Location)
	return props
}

func ClassToValue(c *store.Class) types.Value {
	if c == nil {
		return types.Null{}
	}
	doc := make(types.Doc, len(c.DefaultProperties)+3)
	for k, v := range c.DefaultProperties {
		doc[k] = v
	}
	doc["id"] = types.String(c.ID)
	doc["name"] = types.String(c.Name)
	doc["parent_id"] = types.String(c.ParentID)
	return doc
}

func registerObjectGraphBuiltins(r *Registry) {
	r.Register("find_object", func(ctx *Context, args []types.Value) (types.Value, error) {
		id, ok := argObjectID(args[0])
		if !ok {
			return nil, types.NewError(types.ErrRuntime, "find_object: expected an object id string")
		}
		obj, found := ctx.Graph.GetObject(id)
		if !found {
			return types.Null{}, nil
		}
		return ObjectToValue(obj), nil
	})

	r.Register("find_object_by_dbref", func(ctx *Context, args []types.Value) (types.Value, error) {
		n, ok := args[0].(types.Int)
		if !ok {
			return nil, types.NewError(types.ErrRuntime, "find_object_by_dbref: expected an integer")
		}
		obj, found := ctx.Graph.GetObjectByDBRef(types.ObjID(n))
		if !found {
			return types.Null{}, nil
		}
		return ObjectToValue(obj), nil
	})

	r.Register("get_property", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		name, _ := argString(args[1])
		accessor := ""
		if ctx.This != nil {
			accessor = ctx.This.ID
		}
		v, err := ctx.Graph.GetProperty(accessor, objID, name)
		if err != nil {
			if types.KindOf(err) == types.ErrNotFound && len(args) > 2 {
				return args[2], nil // default
			}
			return nil, err
		}
		return v, nil
	})

	r.Register("set_property", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		name, _ := argString(args[1])
		accessor := ""
		if ctx.This != nil {
			accessor = ctx.This.ID
		}
		if err := ctx.Graph.SetProperty(accessor, objID, name, args[2]); err != nil {
			return nil, err
		}
		return types.Bool(true), nil
	})

	r.Register("clear_property", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		name, _ := argString(args[1])
		accessor := ""
		if ctx.This != nil {
			accessor = ctx.This.ID
		}
		if err := ctx.Graph.ClearProperty(accessor, objID, name); err != nil {
			return nil, err
		}
		return types.Bool(true), nil
	})

	r.Register("get_class", func(ctx *Context, args []types.Value) (types.Value, error) {
		key, _ := argString(args[0])
		if cls, ok := ctx.Store.Classes.FindByID(key); ok {
			return ClassToValue(cls), nil
		}
		if cls, ok := ctx.Store.ClassByName(key); ok {
			return ClassToValue(cls), nil
		}
		return types.Null{}, nil
	})

	r.Register("get_inheritance_chain", func(ctx *Context, args []types.Value) (types.Value, error) {
		classID, _ := argString(args[0])
		chain := ctx.Graph.InheritanceChain(classID)
		out := make(types.List, len(chain))
		for i, c := range chain {
			out[i] = ClassToValue(c)
		}
		return out, nil
	})

	r.Register("get_all_objects", func(ctx *Context, args []types.Value) (types.Value, error) {
		objs := ctx.Store.Objects.FindAll()
		out := make(types.List, len(objs))
		for i, o := range objs {
			out[i] = ObjectToValue(o)
		}
		return out, nil
	})

	r.Register("get_objects_in_location", func(ctx *Context, args []types.Value) (types.Value, error) {
		loc, _ := argString(args[0])
		objs := ctx.Graph.ListInLocation(loc)
		out := make(types.List, len(objs))
		for i, o := range objs {
			out[i] = ObjectToValue(o)
		}
		return out, nil
	})

	r.Register("get_objects_by_class", func(ctx *Context, args []types.Value) (types.Value, error) {
		name, _ := argString(args[0])
		cls, ok := ctx.Store.ClassByName(name)
		if !ok {
			return types.List{}, nil
		}
		includeSubclasses := true
		if len(args) > 1 {
			includeSubclasses = args[1].Truthy()
		}
		objs := ctx.Graph.FindObjectsByClass(cls.ID, includeSubclasses)
		out := make(types.List, len(objs))
		for i, o := range objs {
			out[i] = ObjectToValue(o)
		}
		return out, nil
	})
}
