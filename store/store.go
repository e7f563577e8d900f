package store

import (
	"strings"
	"sync"

	"atrium/types"
)

// Store aggregates the five collections named in §4.1 — classes, objects,
// players, verbs, functions — plus the secondary indexes the core needs:
// objects by dbref/class/location, players by name/session, verbs and
// functions by (object_id, name). Cache coherence for the live Object
// cache is ObjectGraph's job (§4.2); Store only guarantees that each
// collection's own writes are atomic per document.
type Store struct {
	Classes   *Collection[*Class]
	Objects   *Collection[*Object]
	Players   *Collection[*Player]
	Verbs     *Collection[*Verb]
	Functions *Collection[*Function]

	dbrefMu  sync.Mutex
	nextDBRef types.ObjID // conceptually system_object.properties["next_dbref"] (§4.2)
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		Classes:   NewCollection[*Class](),
		Objects:   NewCollection[*Object](),
		Players:   NewCollection[*Player](),
		Verbs:     NewCollection[*Verb](),
		Functions: NewCollection[*Function](),
	}
}

// AllocateDBRef hands out the next unused DBREF. Serialized by a
// dedicated mutex so concurrent create_instance calls under the world
// lock never race (§4.2 "allocation is serialized").
func (s *Store) AllocateDBRef() types.ObjID {
	s.dbrefMu.Lock()
	defer s.dbrefMu.Unlock()
	id := s.nextDBRef
	s.nextDBRef++
	return id
}

// ObjectByDBRef finds the object (if any) carrying the given dbref.
func (s *Store) ObjectByDBRef(ref types.ObjID) (*Object, bool) {
	return s.Objects.FindOne(func(o *Object) bool { return o.DBRef == ref })
}

// ObjectsByClass returns objects whose ClassID matches classID.
func (s *Store) ObjectsByClass(classID string) []*Object {
	return s.Objects.FindMany(func(o *Object) bool { return o.ClassID == classID })
}

// ObjectsByLocation returns objects whose Location matches locationID —
// the backing implementation of list_in_location (§4.2).
func (s *Store) ObjectsByLocation(locationID string) []*Object {
	return s.Objects.FindMany(func(o *Object) bool { return o.Location == locationID })
}

// ClassByName finds a class by its case-insensitive unique name.
func (s *Store) ClassByName(name string) (*Class, bool) {
	lower := strings.ToLower(name)
	return s.Classes.FindOne(func(c *Class) bool { return strings.ToLower(c.Name) == lower })
}

// PlayerByName finds a player's record by the owning object's
// case-insensitive name.
func (s *Store) PlayerByName(objects *Collection[*Object], name string) (*Player, bool) {
	lower := strings.ToLower(name)
	return s.Players.FindOne(func(p *Player) bool {
		obj, ok := objects.FindByID(p.ObjectID)
		return ok && strings.ToLower(obj.Name) == lower
	})
}

// PlayerBySession finds the player currently bound to sessionID.
func (s *Store) PlayerBySession(sessionID string) (*Player, bool) {
	if sessionID == "" {
		return nil, false
	}
	return s.Players.FindOne(func(p *Player) bool { return p.SessionID == sessionID })
}

// VerbByName finds a verb defined directly on objectID with the given
// name (exact, case-insensitive); it does not walk inheritance — that is
// VerbTable.FindVerb's job (§4.4).
func (s *Store) VerbByName(objectID, name string) (*Verb, bool) {
	lower := strings.ToLower(name)
	return s.Verbs.FindOne(func(v *Verb) bool {
		return v.ObjectID == objectID && strings.ToLower(v.Name) == lower
	})
}

// VerbsOnObject returns every verb whose ObjectID matches objectID.
func (s *Store) VerbsOnObject(objectID string) []*Verb {
	return s.Verbs.FindMany(func(v *Verb) bool { return v.ObjectID == objectID })
}

// FunctionByName finds a function defined directly on objectID with the
// given case-insensitive name.
func (s *Store) FunctionByName(objectID, name string) (*Function, bool) {
	lower := strings.ToLower(name)
	return s.Functions.FindOne(func(f *Function) bool {
		return f.ObjectID == objectID && strings.ToLower(f.Name) == lower
	})
}

// FunctionsOnObject returns every function whose ObjectID matches objectID.
func (s *Store) FunctionsOnObject(objectID string) []*Function {
	return s.Functions.FindMany(func(f *Function) bool { return f.ObjectID == objectID })
}
