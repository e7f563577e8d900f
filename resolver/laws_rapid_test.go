package resolver

import (
	"testing"

	"pgregory.net/rapid"

	"atrium/objectgraph"
	"atrium/store"
)

// Law: resolver exact-match wins — if query equals some candidate's name
// case-insensitively, that candidate is the result even when a
// token-prefix match against another candidate would otherwise apply.
// Grounded on pgregory.net/rapid, as in objectgraph/verbtable's
// invariant suites.
func TestResolverExactMatchWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := store.New()
		g := objectgraph.New(s)
		r := New(g, s)

		word := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "word")

		room, err := g.CreateInstance("", "", "")
		if err != nil {
			t.Fatalf("create room: %v", err)
		}
		lookerObj, err := g.CreateInstance("", room.ID, "")
		if err != nil {
			t.Fatalf("create looker: %v", err)
		}

		exact, err := g.CreateInstance("", room.ID, "")
		if err != nil {
			t.Fatalf("create exact: %v", err)
		}
		exact.Name = word
		if err := s.Objects.Update(exact); err != nil {
			t.Fatalf("name exact: %v", err)
		}

		decoy, err := g.CreateInstance("", room.ID, "")
		if err != nil {
			t.Fatalf("create decoy: %v", err)
		}
		decoy.Name = word + "zzz" // word is still a token-prefix of this name
		if err := s.Objects.Update(decoy); err != nil {
			t.Fatalf("name decoy: %v", err)
		}

		looker, _ := g.GetObject(lookerObj.ID)
		res := r.Resolve(word, looker, "")
		if !res.IsUnique() {
			t.Fatalf("expected a unique exact match for %q, got ambiguous=%v none=%v", word, res.IsAmbiguous(), res.IsNone())
		}
		if res.Unique.ID != exact.ID {
			t.Fatalf("expected exact-match candidate %s, got %s", exact.ID, res.Unique.ID)
		}
	})
}
