package builtin

import (
	"atrium/perm"
	"atrium/store"
	"atrium/types"
)

func verbToValue(v *store.Verb, definedOn string) types.Value {
	return types.Doc{
		"id":          types.String(v.ID),
		"name":        types.String(v.Name),
		"pattern":     types.String(v.Pattern),
		"permissions": types.String(v.Permissions.String()),
		"defined_on":  types.String(definedOn),
	}
}

func functionToValue(f *store.Function, definedOn string) types.Value {
	return types.Doc{
		"id":          types.String(f.ID),
		"name":        types.String(f.Name),
		"permissions": types.String(f.Permissions.String()),
		"defined_on":  types.String(definedOn),
	}
}

// CanInvoke applies the verb/function permission level (§4.8's
// "builtin availability" note — every call still self-checks): Public
// is open to anyone, Owner requires the caller be the creator or Admin,
// Wizard requires Admin. Exported for script's invocation path, which
// checks it before running a looked-up verb or function body.
func CanInvoke(ctx *Context, createdBy string, level store.VerbPermission) bool {
	callerID := ""
	if ctx.Player != nil {
		callerID = ctx.Player.ID
	}
	isAdmin := perm.IsAdmin(ctx.Store, callerID)
	switch level {
	case store.PermWizard:
		return isAdmin
	case store.PermOwner:
		return isAdmin || callerID == createdBy
	default:
		return true
	}
}

func registerVerbBuiltins(r *Registry) {
	r.Register("find_verb", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		name, _ := argString(args[1])
		v, definedOn, ok := ctx.VerbTable.FindVerb(objID, name)
		if !ok {
			return types.Null{}, nil
		}
		return verbToValue(v, definedOn), nil
	})

	r.Register("find_function", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		name, _ := argString(args[1])
		f, definedOn, ok := ctx.VerbTable.FindFunction(objID, name, ctx.SystemObjectID, true)
		if !ok {
			return types.Null{}, nil
		}
		return functionToValue(f, definedOn), nil
	})

	r.Register("call_verb", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		name, _ := argString(args[1])
		return ctx.Runtime.InvokeVerb(ctx, objID, name, args[2:])
	})

	r.Register("call_function", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		name, _ := argString(args[1])
		return ctx.Runtime.InvokeFunction(ctx, objID, name, args[2:])
	})

	r.Register("get_verbs_on", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		provenances := ctx.VerbTable.ListVerbsOn(objID)
		out := make(types.List, len(provenances))
		for i, p := range provenances {
			doc := verbToValue(p.Verb, p.Verb.ObjectID).(types.Doc)
			doc["source"] = types.String(p.Source)
			out[i] = doc
		}
		return out, nil
	})

	r.Register("get_functions_on", func(ctx *Context, args []types.Value) (types.Value, error) {
		objID, _ := argObjectID(args[0])
		fns := ctx.Store.FunctionsOnObject(objID)
		out := make(types.List, len(fns))
		for i, f := range fns {
			out[i] = functionToValue(f, objID)
		}
		return out, nil
	})
}
