package script

import (
	"testing"

	"pgregory.net/rapid"

	"atrium/dispatch"
	"atrium/objectgraph"
	"atrium/resolver"
	"atrium/session"
	"atrium/store"
	"atrium/types"
	"atrium/verbtable"
)

// Law: a verb that calls itself N+1 times (N = the configured depth
// limit) fails with CallDepthExceeded regardless of what else its body
// does — varying an unrelated side effect per draw is the "regardless
// of body content" part of the law. Grounded on pgregory.net/rapid, as
// in objectgraph/verbtable/resolver's property suites.
func TestNestedCallDepthExceededRegardlessOfBody(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(1, 6).Draw(t, "depth")

		s := store.New()
		g := objectgraph.New(s)
		vt := verbtable.New(g, s)
		res := resolver.New(g, s)
		sessions := session.New()
		rt := New(g, s, res, vt, sessions, nil, "", Config{MaxDepth: depth})

		obj, err := g.CreateInstance("", "", "")
		if err != nil {
			t.Fatalf("create instance: %v", err)
		}

		sideEffect := rapid.SampledFrom([]string{
			`local x = 1`,
			`local x = "noise"`,
			`local t = {1, 2, 3}`,
			``,
		}).Draw(t, "sideEffect")

		code := sideEffect + "\ncall_verb(\"" + obj.ID + "\", \"loop\")\nreturn true"
		v := &store.Verb{ID: obj.ID + ":loop", ObjectID: obj.ID, Name: "loop", Code: code, CreatedBy: obj.ID}
		if err := s.Verbs.Insert(v); err != nil {
			t.Fatalf("insert verb: %v", err)
		}

		_, err = rt.Invoke(dispatch.Invocation{This: obj, Caller: obj, Player: obj, Verb: v})
		if err == nil {
			t.Fatalf("expected CallDepthExceeded, got success")
		}
		se, ok := err.(*types.ScriptError)
		if !ok {
			t.Fatalf("expected *types.ScriptError, got %T: %v", err, err)
		}
		if se.Kind != types.ErrCallDepthExceeded {
			t.Fatalf("expected CallDepthExceeded, got %s (%v)", se.Kind, se)
		}
	})
}
