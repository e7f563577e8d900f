// Package dispatch implements the Dispatcher component (§4.5): turning
// one line of raw player input into a verb invocation, or the "huh?"
// fallback when nothing matches.
package dispatch

import (
	"strconv"
	"strings"

	"atrium/objectgraph"
	"atrium/resolver"
	"atrium/store"
	"atrium/verbtable"
)

// HuhMessage is the sentinel reply when no candidate target yields a
// matching verb (§4.5 step 4).
const HuhMessage = "Huh?"

// Invocation is the record handed to ScriptRuntime (§4.6). Runtime is
// referenced only through the Runtime interface below, so dispatch has
// no import-time dependency on the script package.
type Invocation struct {
	This      *store.Object
	Caller    *store.Object
	Player    *store.Object
	Args      []string
	Input     string
	Verb      *store.Verb
	Variables map[string]string
	CallDepth int
}

// Runtime is the subset of ScriptRuntime the Dispatcher needs. The
// concrete implementation lives in package script; depending on an
// interface here keeps dispatch a leaf relative to script rather than
// the other way around.
type Runtime interface {
	Invoke(inv Invocation) (string, error)
}

// AmbiguousPrompt is returned when a `* at *` verb's second target
// resolves to more than one candidate (§4.5).
func AmbiguousPrompt(candidates []*store.Object) string {
	var names []string
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	return "Which one did you mean: " + strings.Join(names, ", ") + "?"
}

// Dispatcher resolves candidate targets and matching verbs for a line of
// input, then invokes Runtime.
type Dispatcher struct {
	Graph     *objectgraph.Graph
	Store     *store.Store
	VerbTable *verbtable.Table
	Resolver  *resolver.Resolver
	Runtime   Runtime
	SystemObjectID string
}

// New builds a Dispatcher over the given collaborators.
func New(g *objectgraph.Graph, s *store.Store, vt *verbtable.Table, r *resolver.Resolver, rt Runtime, systemObjectID string) *Dispatcher {
	return &Dispatcher{Graph: g, Store: s, VerbTable: vt, Resolver: r, Runtime: rt, SystemObjectID: systemObjectID}
}

// candidateTargets builds the §4.5 step 2 candidate target list, in
// order: player, player.location, inventory, room contents, system
// object.
func (d *Dispatcher) candidateTargets(player *store.Object) []*store.Object {
	var targets []*store.Object
	seen := make(map[string]bool)

	add := func(o *store.Object) {
		if o != nil && !seen[o.ID] {
			seen[o.ID] = true
			targets = append(targets, o)
		}
	}

	add(player)
	if player.Location != "" {
		if loc, ok := d.Graph.GetObject(player.Location); ok {
			add(loc)
		}
	}
	for _, o := range d.Graph.ListInLocation(player.ID) {
		add(o)
	}
	if player.Location != "" {
		for _, o := range d.Graph.ListInLocation(player.Location) {
			add(o)
		}
	}
	if d.SystemObjectID != "" {
		if sys, ok := d.Graph.GetObject(d.SystemObjectID); ok {
			add(sys)
		}
	}
	return targets
}

// Dispatch implements §4.5's full algorithm: dispatch(player, line) →
// response_text.
func (d *Dispatcher) Dispatch(player *store.Object, rawInput string) string {
	rawInput = strings.TrimSpace(rawInput)
	if rawInput == "" {
		return ""
	}

	words := strings.Fields(rawInput)
	word0 := words[0]
	rest := words[1:]

	if strings.HasPrefix(word0, "@") {
		if resp, handled := d.dispatchAdmin(player, word0, rest); handled {
			return resp
		}
	}

	for _, target := range d.candidateTargets(player) {
		verb, _, ok := d.VerbTable.FindVerb(target.ID, word0)
		if !ok {
			continue
		}

		variables, matched := matchPattern(verb.Pattern, rest)
		if !matched {
			continue
		}

		if resp, handled := d.checkTargetedAmbiguity(verb, variables, player); handled {
			return resp
		}

		result, err := d.Runtime.Invoke(Invocation{
			This:      target,
			Caller:    player,
			Player:    player,
			Args:      rest,
			Input:     strings.Join(rest, " "),
			Verb:      verb,
			Variables: variables,
			CallDepth: 0,
		})
		if err != nil {
			return err.Error()
		}
		return result
	}

	return HuhMessage
}

// checkTargetedAmbiguity implements the `* at *` (verb-preposition-verb)
// ambiguity policy (§4.5): when the pattern's capture immediately after
// the literal word "at" names a free-text target, that capture is
// resolved by Resolver in the player's context; an ambiguous result
// short-circuits the dispatch with a disambiguation prompt instead of
// invoking the verb.
func (d *Dispatcher) checkTargetedAmbiguity(verb *store.Verb, variables map[string]string, player *store.Object) (string, bool) {
	key := captureAfterAt(verb.Pattern)
	if key == "" {
		return "", false
	}
	query, ok := variables[key]
	if !ok {
		return "", false
	}
	res := d.Resolver.Resolve(query, player, "")
	if res.IsAmbiguous() {
		return AmbiguousPrompt(res.Ambiguous), true
	}
	return "", false
}

// captureAfterAt returns the variable name a pattern's capture
// immediately following the literal word "at" would be stored under
// (see matchPattern), or "" if the pattern has no such shape.
func captureAfterAt(pattern string) string {
	elements := strings.Fields(pattern)
	positional := 0
	for i, elem := range elements {
		switch {
		case elem == "*":
			positional++
			if i > 0 && strings.EqualFold(elements[i-1], "at") {
				return strconv.Itoa(positional)
			}
		case strings.HasPrefix(elem, "*") && len(elem) > 1 && elem != "*rest":
			if i > 0 && strings.EqualFold(elements[i-1], "at") {
				return elem[1:]
			}
		}
	}
	return ""
}
