// Package conformance runs the end-to-end scenarios and resolver/
// dispatch laws named in §8 as YAML-described fixtures, grounded on the
// teacher's conformance/schema.go + loader.go + runner.go split: a YAML
// suite describes a small world and one command, a runner builds that
// world over the real store/objectgraph/verbtable/resolver/dispatch/
// script stack and checks the result against the suite's expectations.
package conformance

import "atrium/store"

// Fixture is one YAML-described scenario. A fixture either runs a single
// Command/Expect pair, or a sequence of Steps run against the same
// built World in order — the latter is for scenarios like S4 (set,
// read, clear, read again) and S6 (a valid dbref reference followed by
// a stale one) that need intermediate assertions between commands.
type Fixture struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	World       WorldSpec   `yaml:"world"`
	Command     CommandSpec `yaml:"command"`
	Expect      Expectation `yaml:"expect"`
	Steps       []Step      `yaml:"steps"`
}

// Step is one Command/Expect pair within a multi-step Fixture.
type Step struct {
	Name    string      `yaml:"name"`
	Command CommandSpec `yaml:"command"`
	Expect  Expectation `yaml:"expect"`
}

// WorldSpec describes the classes, objects, and verbs to build before
// running Command. Every id is a fixture-local key, resolved to a real
// store id when the world is built.
type WorldSpec struct {
	SystemObject string       `yaml:"system_object"` // local id promoted to the system object, if set
	Classes      []ClassSpec  `yaml:"classes"`
	Objects      []ObjectSpec `yaml:"objects"`
	Verbs        []VerbSpec   `yaml:"verbs"`
}

type ClassSpec struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Parent     string         `yaml:"parent"`
	Properties map[string]any `yaml:"properties"`
}

type ObjectSpec struct {
	ID         string              `yaml:"id"`
	Class      string              `yaml:"class"`
	Name       string              `yaml:"name"`
	Location   string              `yaml:"location"`
	Owner      string              `yaml:"owner"`
	Player     bool                `yaml:"player"`
	Flags      []string            `yaml:"flags"` // admin|moderator|programmer
	Properties map[string]any      `yaml:"properties"`
	Access     map[string][]string `yaml:"access"` // property name -> public|private|protected|readonly
}

type VerbSpec struct {
	Object      string `yaml:"object"` // local object id, or "" for the system object
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Code        string `yaml:"code"`
	Permissions string `yaml:"permissions"` // public|owner|wizard, default public
	CreatedBy   string `yaml:"created_by"`  // local object id, defaults to Object
}

// CommandSpec is either a player's raw input line dispatched normally,
// or an ad-hoc script run directly (for scenarios like S6 that bypass
// verb lookup entirely).
type CommandSpec struct {
	Player string `yaml:"player"` // local object id
	Input  string `yaml:"input"`
	AdHoc  string `yaml:"ad_hoc"` // script source, mutually exclusive with Input
	Target string `yaml:"target"` // local object id ad-hoc runs against, defaults to Player
}

// Expectation describes what a scenario must produce.
type Expectation struct {
	Output         string          `yaml:"output"`
	OutputContains []string        `yaml:"output_contains"`
	ErrorKind      string          `yaml:"error_kind"`
	Properties     []PropertyCheck `yaml:"properties"`
}

// PropertyCheck asserts a property (or well-known field) value after
// the command ran.
type PropertyCheck struct {
	Object string `yaml:"object"` // local object id
	Name   string `yaml:"name"`   // property name, or "location" for the field
	Equals string `yaml:"equals"` // local object id (for location) or a literal string
}

func permissionFromName(name string) store.VerbPermission {
	switch name {
	case "owner":
		return store.PermOwner
	case "wizard":
		return store.PermWizard
	default:
		return store.PermPublic
	}
}

func accessFlagsFromNames(names []string) store.PropertyAccessFlag {
	var flags store.PropertyAccessFlag
	for _, n := range names {
		switch n {
		case "public":
			flags |= store.AccessPublic
		case "private":
			flags |= store.AccessPrivate
		case "protected":
			flags |= store.AccessProtected
		case "readonly":
			flags |= store.AccessReadOnly
		}
	}
	return flags
}
