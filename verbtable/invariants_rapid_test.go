package verbtable

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"atrium/objectgraph"
	"atrium/store"
)

// Invariant 6: find_verb(o, n) is a pure function of the store state —
// repeated calls against an unmutated store return identical results.
// Grounded on pgregory.net/rapid, as in objectgraph's invariant suite.
func TestFindVerbIsPureFunctionOfStoreState(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := store.New()
		g := objectgraph.New(s)
		vt := New(g, s)

		depth := rapid.IntRange(0, 4).Draw(t, "depth")
		var parent string
		var classIDs []string
		for i := 0; i <= depth; i++ {
			cls, err := g.CreateClass(fmt.Sprintf("Class%d", i), parent, "")
			if err != nil {
				t.Fatalf("create class %d: %v", i, err)
			}
			classIDs = append(classIDs, cls.ID)
			parent = cls.ID
		}

		obj, err := g.CreateInstance(classIDs[len(classIDs)-1], "", "")
		if err != nil {
			t.Fatalf("create instance: %v", err)
		}

		verbCount := rapid.IntRange(0, 5).Draw(t, "verbCount")
		var names []string
		for i := 0; i < verbCount; i++ {
			holder := classIDs[rapid.IntRange(0, len(classIDs)-1).Draw(t, "holder")]
			name := fmt.Sprintf("verb%d", i)
			if _, err := vt.CreateVerb(holder, name, "", "return true", store.PermPublic, holder); err != nil {
				t.Fatalf("create verb %d: %v", i, err)
			}
			names = append(names, name)
		}
		names = append(names, "missing")

		for _, name := range names {
			v1, src1, ok1 := vt.FindVerb(obj.ID, name)
			v2, src2, ok2 := vt.FindVerb(obj.ID, name)
			if ok1 != ok2 || src1 != src2 {
				t.Fatalf("FindVerb(%q) not deterministic: (%v,%v) vs (%v,%v)", name, ok1, src1, ok2, src2)
			}
			if ok1 && v1.ID != v2.ID {
				t.Fatalf("FindVerb(%q) returned different verbs across calls: %s vs %s", name, v1.ID, v2.ID)
			}
		}
	})
}
