// Package resolver implements the Resolver component (§4.3): turning a
// query string plus a looker into zero, one, or many candidate objects,
// in the strict stage order the spec names — keywords, class
// references, DBREF, raw id, then tiered name/alias/prefix matching
// over local candidates.
package resolver

import (
	"strconv"
	"strings"

	"atrium/objectgraph"
	"atrium/store"
	"atrium/types"
)

// Result is the resolve_unique result variant (§4.3).
type Result struct {
	Unique    *store.Object
	Ambiguous []*store.Object
}

func (r Result) IsUnique() bool    { return r.Unique != nil }
func (r Result) IsAmbiguous() bool { return len(r.Ambiguous) > 1 }
func (r Result) IsNone() bool      { return r.Unique == nil && len(r.Ambiguous) == 0 }

// First returns the first candidate in candidate order, for callers that
// want a deterministic answer even when the result is ambiguous (§4.3).
func (r Result) First() *store.Object {
	if r.Unique != nil {
		return r.Unique
	}
	if len(r.Ambiguous) > 0 {
		return r.Ambiguous[0]
	}
	return nil
}

// exitAbbreviations is the normative table from §6.
var exitAbbreviations = map[string][]string{
	"north":            {"n"},
	"south":            {"s"},
	"east":             {"e"},
	"west":             {"w"},
	"northeast":        {"ne"},
	"northwest":        {"nw"},
	"southeast":        {"se"},
	"southwest":        {"sw"},
	"up":               {"u"},
	"down":             {"d"},
	"out":              {"o"},
	"port":             {"p"},
	"starboard":        {"s", "stbd"},
	"forward":          {"f", "fore"},
	"aft":              {"a"},
	"turbolift":        {"tl"},
	"clockwise":        {"cw", "clock"},
	"counterclockwise": {"ccw", "counter", "anticlockwise"},
	"hubward":          {"h", "hw", "hub", "inward"},
	"rimward":          {"r", "rw", "rim", "outward"},
}

// Resolver resolves queries against a Graph.
type Resolver struct {
	Graph *objectgraph.Graph
	Store *store.Store
}

// New builds a Resolver over the given graph/store pair.
func New(g *objectgraph.Graph, s *store.Store) *Resolver {
	return &Resolver{Graph: g, Store: s}
}

// Resolve implements resolve_unique (§4.3). looker is the player issuing
// the request; locationOverride, if non-empty, replaces the looker's own
// location as the "effective location" for keyword and candidate-set
// purposes.
func (r *Resolver) Resolve(query string, looker *store.Object, locationOverride string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}
	}

	effectiveLocation := locationOverride
	if effectiveLocation == "" && looker != nil {
		effectiveLocation = looker.Location
	}

	if obj := r.resolveKeyword(query, looker, effectiveLocation); obj != nil {
		return Result{Unique: obj}
	}

	if obj := r.resolveClassReference(query); obj != nil {
		return Result{Unique: obj}
	}

	if res, handled := r.resolveDBRef(query); handled {
		return res
	}

	if obj, ok := r.Graph.GetObject(query); ok {
		return Result{Unique: obj}
	}

	return r.resolveAgainstCandidates(query, looker, effectiveLocation)
}

func (r *Resolver) resolveKeyword(query string, looker *store.Object, effectiveLocation string) *store.Object {
	switch strings.ToLower(query) {
	case "me", "player":
		return looker
	case "here", "room":
		if effectiveLocation == "" {
			return nil
		}
		obj, _ := r.Graph.GetObject(effectiveLocation)
		return obj
	case "system":
		return r.systemObject()
	}
	return nil
}

func (r *Resolver) systemObject() *store.Object {
	for _, obj := range r.Store.Objects.FindAll() {
		if v, ok := obj.InstanceProperties["isSystemObject"]; ok && v.Truthy() {
			return obj.Clone()
		}
		if strings.EqualFold(obj.Name, "system") {
			return obj.Clone()
		}
	}
	return nil
}

// classPlaceholder is the synthesized object §4.3 stage 2 returns:
// verbs/functions can be attached to a class id exactly as they would be
// to an instance id.
func classPlaceholder(cls *store.Class) *store.Object {
	return &store.Object{
		ID:   cls.ID,
		Name: cls.Name,
		InstanceProperties: map[string]types.Value{
			"class_name":  types.String(cls.Name),
			"description": types.String(cls.Description),
		},
	}
}

func (r *Resolver) resolveClassReference(query string) *store.Object {
	name := query
	switch {
	case strings.HasPrefix(query, "class:"):
		name = strings.TrimPrefix(query, "class:")
	case strings.HasSuffix(query, ".class"):
		name = strings.TrimSuffix(query, ".class")
	default:
		if _, ok := r.Store.ClassByName(query); !ok {
			return nil
		}
	}
	cls, ok := r.Store.ClassByName(name)
	if !ok {
		return nil
	}
	return classPlaceholder(cls)
}

func (r *Resolver) resolveDBRef(query string) (Result, bool) {
	if !strings.HasPrefix(query, "#") {
		return Result{}, false
	}
	num, err := strconv.ParseInt(query[1:], 10, 64)
	if err != nil {
		return Result{}, true // matched the syntax, failed to parse: None
	}
	if num < 0 {
		return Result{}, true // #-1 (NOTHING) and friends never name a real object
	}
	obj, ok := r.Graph.GetObjectByDBRef(types.ObjID(num))
	if !ok {
		return Result{}, true
	}
	return Result{Unique: obj}, true
}

func (r *Resolver) resolveAgainstCandidates(query string, looker *store.Object, effectiveLocation string) Result {
	seen := make(map[string]bool)
	var candidates []*store.Object

	add := func(objs []*store.Object) {
		for _, o := range objs {
			if !seen[o.ID] {
				seen[o.ID] = true
				candidates = append(candidates, o)
			}
		}
	}

	if effectiveLocation != "" {
		add(r.Graph.ListInLocation(effectiveLocation))
	}
	if looker != nil {
		add(r.Graph.ListInLocation(looker.ID))
	}

	matches := matchCandidates(query, candidates)
	switch len(matches) {
	case 0:
		return Result{}
	case 1:
		return Result{Unique: matches[0]}
	default:
		return Result{Ambiguous: matches}
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	})
}

// matchKeys returns every string this object answers to for resolver
// purposes (§4.3 stage 5): name, aliases, exit direction + abbreviations,
// and the uppercase-letter-and-digit acronym of its name.
func matchKeys(obj *store.Object) []string {
	keys := []string{obj.Name}
	keys = append(keys, obj.Aliases...)

	if dir, ok := obj.InstanceProperties["direction"]; ok {
		if s, isStr := dir.(types.String); isStr {
			d := strings.ToLower(string(s))
			keys = append(keys, d)
			keys = append(keys, exitAbbreviations[d]...)
		}
	}

	if acronym := acronymOf(obj.Name); acronym != "" {
		keys = append(keys, acronym)
	}
	return keys
}

func acronymOf(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case 'A' <= r && r <= 'Z':
			b.WriteRune(r)
		case '0' <= r && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchCandidates applies the tiered match rules: exact match on any key
// wins outright over prefix matches (§4.3).
func matchCandidates(query string, candidates []*store.Object) []*store.Object {
	queryLower := strings.ToLower(query)
	queryTokens := tokenize(queryLower)

	var exact []*store.Object
	for _, obj := range candidates {
		for _, key := range matchKeys(obj) {
			if strings.EqualFold(key, query) {
				exact = append(exact, obj)
				break
			}
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var prefix []*store.Object
	for _, obj := range candidates {
		if tokenPrefixMatch(queryTokens, matchKeys(obj)) {
			prefix = append(prefix, obj)
		}
	}
	return prefix
}

// tokenPrefixMatch reports whether, for every query token, some key token
// has it as a case-insensitive prefix (§4.3 token-prefix rule).
func tokenPrefixMatch(queryTokens []string, keys []string) bool {
	if len(queryTokens) == 0 {
		return false
	}
	var keyTokens []string
	for _, k := range keys {
		keyTokens = append(keyTokens, tokenize(strings.ToLower(k))...)
	}
	for _, qt := range queryTokens {
		found := false
		for _, kt := range keyTokens {
			if strings.HasPrefix(kt, strings.ToLower(qt)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
