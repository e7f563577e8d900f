// Package builtin implements the BuiltinAPI component (§4.7): the
// curated surface callable from verb/function code. Each function is
// plain Go operating on types.Value and store/objectgraph/resolver
// collaborators — script does the Lua binding, so this package has no
// dependency on gopher-lua and can be unit-tested directly, grounded on
// the teacher's own separation between builtins/ (pure Go logic) and
// eval/vm (the embedded-language glue).
package builtin

import (
	"atrium/delayqueue"
	"atrium/objectgraph"
	"atrium/resolver"
	"atrium/session"
	"atrium/store"
	"atrium/types"
	"atrium/verbtable"
)

// Invoker is the subset of ScriptRuntime builtins need to make nested
// calls (call_verb/call_function/execute_script). Declared here rather
// than importing package script, so builtin stays upstream of script.
type Invoker interface {
	InvokeVerb(ctx *Context, objectID, verbName string, args []types.Value) (types.Value, error)
	InvokeFunction(ctx *Context, objectID, functionName string, args []types.Value) (types.Value, error)
	ExecuteAdHoc(ctx *Context, source string, target string) (types.Value, error)
	ScriptLog(text string)
}

// Context is the per-task/per-call scope builtins operate against —
// the Go-side half of the Invocation globals described in §4.6.
type Context struct {
	Graph     *objectgraph.Graph
	Store     *store.Store
	Resolver  *resolver.Resolver
	VerbTable *verbtable.Table
	Sessions  *session.Table
	Queue     *delayqueue.Queue
	Runtime   Invoker

	SystemObjectID string

	This      *store.Object
	Caller    *store.Object
	Player    *store.Object
	CallDepth int
	MaxDepth  int
}

// Child returns a copy of ctx with This/Caller updated and CallDepth
// incremented, for a nested verb/function call. Exported for script's
// invocation path, which builds the child Context a nested call runs
// under.
func (ctx *Context) Child(this *store.Object) *Context {
	cp := *ctx
	cp.Caller = ctx.This
	cp.This = this
	cp.CallDepth = ctx.CallDepth + 1
	return &cp
}

// RequireDepth reports CallDepthExceeded once ctx.CallDepth reaches
// MaxDepth, per §4.6 "the builtin that would have made the call" —
// callers invoke this before making a nested call, not after.
func (ctx *Context) RequireDepth() error {
	if ctx.MaxDepth > 0 && ctx.CallDepth >= ctx.MaxDepth {
		return types.NewError(types.ErrCallDepthExceeded, "call depth limit exceeded")
	}
	return nil
}
