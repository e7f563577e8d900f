// Package store implements the abstract document-collection layer of §4.1:
// typed collections with secondary indexes and fail-fast, atomic
// per-document writes. It holds no world semantics of its own — those
// live in objectgraph, verbtable, and resolver, which build on top of it.
package store

import (
	"time"

	"atrium/types"
)

// PropertyAccessFlag is one bit of the access-flag set a property can
// carry (§3.1 Object.property_access).
type PropertyAccessFlag uint8

const (
	AccessPublic PropertyAccessFlag = 1 << iota
	AccessPrivate
	AccessProtected
	AccessReadOnly
)

func (f PropertyAccessFlag) Has(bit PropertyAccessFlag) bool { return f&bit != 0 }

// PlayerFlag is one bit of a player's privilege bitset (§3.1, §4.8).
type PlayerFlag uint8

const (
	FlagAdmin PlayerFlag = 1 << iota
	FlagModerator
	FlagProgrammer
)

func (f PlayerFlag) Has(bit PlayerFlag) bool { return f&bit != 0 }

// VerbPermission is the enforcement level named on a Verb or Function
// (§3.1, Open Question 3 — enforced at the Dispatcher pre-invocation
// check, not left optional as in the source).
type VerbPermission int

const (
	PermPublic VerbPermission = iota
	PermOwner
	PermWizard
)

func (p VerbPermission) String() string {
	switch p {
	case PermOwner:
		return "owner"
	case PermWizard:
		return "wizard"
	default:
		return "public"
	}
}

// Class is a prototype template shared by instances (§3.1).
type Class struct {
	ID                string
	Name              string
	ParentID          string // "" means root
	DefaultProperties map[string]types.Value
	Description       string
	IsAbstract        bool
	CreatedAt         time.Time
	ModifiedAt        time.Time
}

// Clone returns a deep-enough copy for handing to a reader outside the
// store's lock (instance_properties/default_properties maps are copied,
// slices are copied).
func (c *Class) Clone() *Class {
	if c == nil {
		return nil
	}
	cp := *c
	cp.DefaultProperties = make(map[string]types.Value, len(c.DefaultProperties))
	for k, v := range c.DefaultProperties {
		cp.DefaultProperties[k] = v
	}
	return &cp
}

// Object is an instance, or a standalone non-instantiated object (§3.1).
type Object struct {
	ID                 string
	DBRef              types.ObjID
	ClassID            string // "" means "plain object"
	Name               string
	Aliases            []string
	InstanceProperties map[string]types.Value
	PropertyAccess     map[string]PropertyAccessFlag
	Location           string // "" means homeless
	Contents           []string
	Owner              string
	CreatedAt          time.Time
	ModifiedAt         time.Time
}

func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Aliases = append([]string(nil), o.Aliases...)
	cp.Contents = append([]string(nil), o.Contents...)
	cp.InstanceProperties = make(map[string]types.Value, len(o.InstanceProperties))
	for k, v := range o.InstanceProperties {
		cp.InstanceProperties[k] = v
	}
	cp.PropertyAccess = make(map[string]PropertyAccessFlag, len(o.PropertyAccess))
	for k, v := range o.PropertyAccess {
		cp.PropertyAccess[k] = v
	}
	return &cp
}

// Player is the subtype record for an Object that can log in (§3.1). It
// shares its primary key (ObjectID) with the Object it decorates; the
// "players" collection is a logical view, joined by that key.
type Player struct {
	ObjectID     string
	PasswordHash string
	SessionID    string // "" means offline
	LastLogin    time.Time
	Flags        PlayerFlag
}

func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Verb is a named, pattern-matched command handler attached to one object
// (§3.1).
type Verb struct {
	ID          string
	ObjectID    string
	Name        string
	Aliases     []string
	Pattern     string // "" means no pattern (matches any remainder)
	Code        string
	Permissions VerbPermission
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

func (v *Verb) Clone() *Verb {
	if v == nil {
		return nil
	}
	cp := *v
	cp.Aliases = append([]string(nil), v.Aliases...)
	return &cp
}

// MatchNames returns every whitespace-separated name this verb answers
// to: its primary Name plus its Aliases (§4.4).
func (v *Verb) MatchNames() []string {
	return append([]string{v.Name}, v.Aliases...)
}

// Function is a named, typed callable attached to an object (§3.1).
type Function struct {
	ID             string
	ObjectID       string
	Name           string
	ParameterTypes []string
	ParameterNames []string
	ReturnType     string
	Code           string
	Permissions    VerbPermission
	Description    string
	Metadata       map[string]string
	CreatedBy      string
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

func (f *Function) Clone() *Function {
	if f == nil {
		return nil
	}
	cp := *f
	cp.ParameterTypes = append([]string(nil), f.ParameterTypes...)
	cp.ParameterNames = append([]string(nil), f.ParameterNames...)
	cp.Metadata = make(map[string]string, len(f.Metadata))
	for k, v := range f.Metadata {
		cp.Metadata[k] = v
	}
	return &cp
}
