// Package verbtable implements the VerbTable & FunctionTable component
// (§4.4): inheritance-aware lookup of verbs and functions, provenance
// listing for editor UIs, and the duplicate-name create/update rule.
package verbtable

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"atrium/objectgraph"
	"atrium/store"
	"atrium/types"
)

// Table resolves verbs/functions against a Graph's object and class
// collections.
type Table struct {
	Graph *objectgraph.Graph
	Store *store.Store
}

// New builds a Table over the given graph/store pair.
func New(g *objectgraph.Graph, s *store.Store) *Table {
	return &Table{Graph: g, Store: s}
}

// Provenance describes where a listed verb or function was found, for
// editor UIs (§4.4 list_verbs_on).
type Provenance struct {
	Verb     *store.Verb
	Function *store.Function
	Source   string // "instance", "class <Name>", "parent class <Name>"
}

// lookupChain returns the object/class ids to consult, in search order:
// the object itself, then its inheritance chain from most-derived to
// root (§3.2(8)).
func (t *Table) lookupChain(objectID string) []string {
	ids := []string{objectID}

	obj, ok := t.Graph.GetObject(objectID)
	classID := ""
	if ok {
		classID = obj.ClassID
	} else if _, isClass := t.Store.Classes.FindByID(objectID); isClass {
		classID = objectID
	}
	if classID == "" {
		return ids
	}

	chain := t.Graph.InheritanceChain(classID)
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].ID != objectID {
			ids = append(ids, chain[i].ID)
		}
	}
	return ids
}

func verbMatches(v *store.Verb, name string) bool {
	lower := strings.ToLower(name)
	for _, candidate := range v.MatchNames() {
		if strings.EqualFold(candidate, name) {
			return true
		}
		for _, word := range strings.Fields(strings.ToLower(candidate)) {
			if word == lower {
				return true
			}
		}
	}
	return false
}

// FindVerb implements §4.4 find_verb: walk the lookup sequence from
// §3.2(8), case-insensitive, matching whitespace-split verb aliases.
func (t *Table) FindVerb(objectID, name string) (*store.Verb, string, bool) {
	for _, id := range t.lookupChain(objectID) {
		for _, v := range t.Store.VerbsOnObject(id) {
			if verbMatches(v, name) {
				return v, id, true
			}
		}
	}
	return nil, "", false
}

// FindFunction implements §4.4 function lookup: mirrors FindVerb, with
// an optional final fallback to the system object's functions.
func (t *Table) FindFunction(objectID, name string, systemObjectID string, includeSystem bool) (*store.Function, string, bool) {
	for _, id := range t.lookupChain(objectID) {
		if f, ok := t.Store.FunctionByName(id, name); ok {
			return f, id, true
		}
	}
	if includeSystem && systemObjectID != "" && systemObjectID != objectID {
		if f, ok := t.Store.FunctionByName(systemObjectID, name); ok {
			return f, systemObjectID, true
		}
	}
	return nil, "", false
}

// ListVerbsOn implements §4.4 list_verbs_on: deduplicated by verb name,
// most-specific (closest to objectID in the chain) winning.
func (t *Table) ListVerbsOn(objectID string) []Provenance {
	var out []Provenance
	seen := make(map[string]bool)

	for _, id := range t.lookupChain(objectID) {
		for _, v := range t.Store.VerbsOnObject(id) {
			key := strings.ToLower(v.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Provenance{Verb: v, Source: t.sourceLabel(objectID, id)})
		}
	}
	return out
}

func (t *Table) sourceLabel(objectID, definedOn string) string {
	if definedOn == objectID {
		return "instance"
	}
	if cls, ok := t.Store.Classes.FindByID(definedOn); ok {
		if obj, ok := t.Graph.GetObject(objectID); ok && obj.ClassID == definedOn {
			return fmt.Sprintf("class %s", cls.Name)
		}
		return fmt.Sprintf("parent class %s", cls.Name)
	}
	return "instance"
}

// CreateVerb implements §4.4's uniqueness rule: a name collision on the
// same object either updates the existing record (same creator) or
// rejects with DuplicateVerb.
func (t *Table) CreateVerb(objectID, name, pattern, code string, perm store.VerbPermission, createdBy string) (*store.Verb, error) {
	if existing, ok := t.Store.VerbByName(objectID, name); ok {
		if existing.CreatedBy != createdBy {
			return nil, types.NewError(types.ErrDuplicateVerb, fmt.Sprintf("verb %q already exists on %q", name, objectID))
		}
		cp := existing.Clone()
		cp.Pattern = pattern
		cp.Code = code
		cp.Permissions = perm
		cp.ModifiedAt = nowFunc()
		if err := t.Store.Verbs.Update(cp); err != nil {
			return nil, err
		}
		return cp, nil
	}

	v := &store.Verb{
		ID:          uuid.NewString(),
		ObjectID:    objectID,
		Name:        name,
		Pattern:     pattern,
		Code:        code,
		Permissions: perm,
		CreatedBy:   createdBy,
		CreatedAt:   nowFunc(),
		ModifiedAt:  nowFunc(),
	}
	if err := t.Store.Verbs.Insert(v); err != nil {
		return nil, err
	}
	return v, nil
}

// DestroyVerb removes a verb by name from objectID's own verb set (not
// an inherited one — editing a class's verb from an instance isn't a
// thing the model supports, matching how CreateVerb always writes to
// objectID directly).
func (t *Table) DestroyVerb(objectID, name string) error {
	v, ok := t.Store.VerbByName(objectID, name)
	if !ok {
		return types.NewError(types.ErrVerbNotFound, fmt.Sprintf("verb %q not found on %q", name, objectID))
	}
	t.Store.Verbs.Delete(v.ID)
	return nil
}

// CreateFunction mirrors CreateVerb's create-or-update-if-same-creator
// rule for the FunctionTable half of this component.
func (t *Table) CreateFunction(objectID, name, code string, perm store.VerbPermission, createdBy string) (*store.Function, error) {
	if existing, ok := t.Store.FunctionByName(objectID, name); ok {
		if existing.CreatedBy != createdBy {
			return nil, types.NewError(types.ErrDuplicateVerb, fmt.Sprintf("function %q already exists on %q", name, objectID))
		}
		cp := existing.Clone()
		cp.Code = code
		cp.Permissions = perm
		cp.ModifiedAt = nowFunc()
		if err := t.Store.Functions.Update(cp); err != nil {
			return nil, err
		}
		return cp, nil
	}

	f := &store.Function{
		ID:          uuid.NewString(),
		ObjectID:    objectID,
		Name:        name,
		Code:        code,
		Permissions: perm,
		CreatedBy:   createdBy,
		CreatedAt:   nowFunc(),
		ModifiedAt:  nowFunc(),
	}
	if err := t.Store.Functions.Insert(f); err != nil {
		return nil, err
	}
	return f, nil
}

// DestroyFunction removes a function by name from objectID's own set.
func (t *Table) DestroyFunction(objectID, name string) error {
	f, ok := t.Store.FunctionByName(objectID, name)
	if !ok {
		return types.NewError(types.ErrFunctionNotFound, fmt.Sprintf("function %q not found on %q", name, objectID))
	}
	t.Store.Functions.Delete(f.ID)
	return nil
}
