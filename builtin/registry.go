package builtin

import "atrium/types"

// Func is a builtin function: a name, a calling context, and a list of
// already-evaluated arguments in, a Value (or error) out. Grounded on
// the teacher's BuiltinFunc/Registry pattern (builtins/registry.go),
// adapted from the teacher's TaskContext/Result pair to this package's
// Context/(Value, error) pair.
type Func func(ctx *Context, args []types.Value) (types.Value, error)

// Registry holds every builtin callable from script code, by name.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry builds the full BuiltinAPI surface (§4.7).
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	registerObjectGraphBuiltins(r)
	registerPlayerBuiltins(r)
	registerResolverBuiltins(r)
	registerMovementBuiltins(r)
	registerVerbBuiltins(r)
	registerMessagingBuiltins(r)
	registerSceneBuiltins(r)
	registerUtilityBuiltins(r)
	return r
}

// Register adds fn under name — used both to build the fixed BuiltinAPI
// surface and by tests that stub one builtin out.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup finds a builtin by name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns every registered builtin name, for introspection and
// script globals injection.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	return names
}

// argObjectID accepts either a bare id string or an object Doc (as
// produced by ObjectToValue, including the #N dbref literal rewrite),
// so "get_property(#10, ...)" and "get_property(target.id, ...)" both
// work from verb code.
func argObjectID(v types.Value) (string, bool) {
	switch val := v.(type) {
	case types.String:
		return string(val), true
	case types.Doc:
		if id, ok := val["id"].(types.String); ok {
			return string(id), true
		}
	}
	return "", false
}

func argString(v types.Value) (string, bool) {
	s, ok := v.(types.String)
	return string(s), ok
}
