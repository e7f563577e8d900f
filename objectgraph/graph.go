// Package objectgraph implements the ObjectGraph component (§4.2): class
// and instance lifecycle, inheritance-chain computation, property
// resolution, containment, and DBREF allocation. The Store's in-memory
// collections double as ObjectGraph's read cache in this implementation
// — there is no separate persistent database engine in scope (§1), so
// the distinction the spec draws between "store is authoritative for
// writes" and "cache is authoritative for reads" collapses onto the same
// mutex-guarded map; every mutation below still goes through a single
// graph-level lock so concurrent readers never see a torn view spanning
// more than one document (§4.2 "Cache coherence").
package objectgraph

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"atrium/perm"
	"atrium/store"
	"atrium/types"
)

// Graph is the ObjectGraph component, backed by a Store.
type Graph struct {
	mu sync.RWMutex
	S  *store.Store
}

// New creates a Graph over s.
func New(s *store.Store) *Graph {
	return &Graph{S: s}
}

func now() time.Time { return time.Now() }

// CreateClass implements §4.2 create_class.
func (g *Graph) CreateClass(name, parentID, description string) (*store.Class, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.S.ClassByName(name); exists {
		return nil, types.NewError(types.ErrDuplicateName, fmt.Sprintf("class %q already exists", name))
	}
	if parentID != "" {
		if _, ok := g.S.Classes.FindByID(parentID); !ok {
			return nil, types.NewError(types.ErrMissingParent, fmt.Sprintf("parent class %q does not exist", parentID))
		}
	}

	cls := &store.Class{
		ID:                uuid.NewString(),
		Name:              name,
		ParentID:          parentID,
		DefaultProperties: make(map[string]types.Value),
		Description:       description,
		CreatedAt:         now(),
		ModifiedAt:        now(),
	}

	if parentID != "" {
		if _, cyclic := g.inheritanceChainLocked(cls.ID, parentID); cyclic {
			return nil, types.NewError(types.ErrCyclicInheritance, "implied parent chain exceeds class count")
		}
	}

	if err := g.S.Classes.Insert(cls); err != nil {
		return nil, err
	}
	return cls.Clone(), nil
}

// InheritanceChain implements §4.2: root-first, ending with the class
// itself. Undefined class ids yield the empty list.
func (g *Graph) InheritanceChain(classID string) []*store.Class {
	g.mu.RLock()
	defer g.mu.RUnlock()
	chain, _ := g.inheritanceChainLocked(classID, classID)
	return chain
}

// inheritanceChainLocked walks parent links starting at startID, treating
// newClassID as the class being defined (used by CreateClass to bound
// the search before the class itself exists in the store). Returns
// (chain, cyclic) — cyclic is true if the walk exceeded the number of
// classes currently in the store, which can only happen via a cycle.
func (g *Graph) inheritanceChainLocked(newClassID, startID string) ([]*store.Class, bool) {
	limit := g.S.Classes.Len() + 1
	var chain []*store.Class
	seen := make(map[string]bool)
	current := startID
	for current != "" {
		if seen[current] {
			return nil, true
		}
		seen[current] = true
		if len(chain) > limit {
			return nil, true
		}

		cls, ok := g.S.Classes.FindByID(current)
		if !ok {
			break
		}
		chain = append(chain, cls)
		current = cls.ParentID
	}
	// reverse to root-first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	out := make([]*store.Class, len(chain))
	for i, c := range chain {
		out[i] = c.Clone()
	}
	return out, false
}

// descendsFrom reports whether classID's inheritance chain includes
// ancestorID (used for Protected property access checks).
func (g *Graph) descendsFrom(classID, ancestorID string) bool {
	if classID == "" || ancestorID == "" {
		return false
	}
	chain, _ := g.inheritanceChainLocked(classID, classID)
	for _, c := range chain {
		if c.ID == ancestorID {
			return true
		}
	}
	return false
}

// CreateInstance implements §4.2 create_instance.
// CreateInstance creates an object of classID (or a plain object if
// classID is ""), owned by ownerID. §3.1: "world-seeded objects default
// to the first admin" — an empty ownerID falls back to whichever player
// currently carries the Admin flag, and stays "" if none exists yet. A
// player object owning itself (§3.1) is the caller's responsibility once
// the new object's id is known, since CreateInstance allocates that id.
func (g *Graph) CreateInstance(classID, locationID, ownerID string) (*store.Object, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if classID != "" {
		cls, ok := g.S.Classes.FindByID(classID)
		if !ok {
			return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("class %q does not exist", classID))
		}
		if cls.IsAbstract {
			return nil, types.NewError(types.ErrAbstractClass, fmt.Sprintf("class %q is abstract", cls.Name))
		}
	}

	if ownerID == "" {
		if admin, ok := perm.FirstAdminID(g.S); ok {
			ownerID = admin
		}
	}

	obj := &store.Object{
		ID:                 uuid.NewString(),
		DBRef:              g.S.AllocateDBRef(),
		ClassID:            classID,
		Owner:              ownerID,
		InstanceProperties: make(map[string]types.Value),
		PropertyAccess:     make(map[string]store.PropertyAccessFlag),
		Location:           "",
		CreatedAt:          now(),
		ModifiedAt:         now(),
	}

	if err := g.S.Objects.Insert(obj); err != nil {
		return nil, err
	}

	if locationID != "" {
		if err := g.moveLocked(obj.ID, locationID); err != nil {
			return nil, err
		}
		obj, _ = g.S.Objects.FindByID(obj.ID)
	}

	return obj.Clone(), nil
}

// Destroy implements §3.3/§4.2 destroy, with cascade semantics.
func (g *Graph) Destroy(objectID string, cascade bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cls, ok := g.S.Classes.FindByID(objectID); ok {
		instances := g.S.ObjectsByClass(objectID)
		if len(instances) > 0 && !cascade {
			return types.NewError(types.ErrRuntime, fmt.Sprintf("class %q has living instances", cls.Name))
		}
		for _, inst := range instances {
			if err := g.destroyObjectLocked(inst.ID, cascade); err != nil {
				return err
			}
		}
		g.destroyAttachedVerbsAndFunctionsLocked(objectID)
		g.S.Classes.Delete(objectID)
		return nil
	}

	if _, ok := g.S.Objects.FindByID(objectID); ok {
		return g.destroyObjectLocked(objectID, cascade)
	}

	return types.NewError(types.ErrNotFound, fmt.Sprintf("object %q does not exist", objectID))
}

func (g *Graph) destroyObjectLocked(objectID string, cascade bool) error {
	obj, ok := g.S.Objects.FindByID(objectID)
	if !ok {
		return types.NewError(types.ErrNotFound, fmt.Sprintf("object %q does not exist", objectID))
	}

	if len(obj.Contents) > 0 && !cascade {
		return types.NewError(types.ErrRuntime, fmt.Sprintf("object %q has contents", objectID))
	}
	for _, childID := range append([]string(nil), obj.Contents...) {
		if cascade {
			if err := g.destroyObjectLocked(childID, cascade); err != nil {
				return err
			}
		} else {
			g.setLocationLocked(childID, "")
		}
	}

	if obj.Location != "" {
		g.removeFromContentsLocked(obj.Location, objectID)
	}

	g.destroyAttachedVerbsAndFunctionsLocked(objectID)
	g.S.Objects.Delete(objectID)
	return nil
}

func (g *Graph) destroyAttachedVerbsAndFunctionsLocked(objectID string) {
	for _, v := range g.S.VerbsOnObject(objectID) {
		g.S.Verbs.Delete(v.ID)
	}
	for _, f := range g.S.FunctionsOnObject(objectID) {
		g.S.Functions.Delete(f.ID)
	}
}

// Move implements §4.2 move: forbidden if newLocationID is a descendant
// of objectID in the containment graph (invariant #3 / law "Move
// symmetry", §8). Per §4.7, the accessor must own objectID or be Admin.
func (g *Graph) Move(accessorID, objectID, newLocationID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	obj, ok := g.S.Objects.FindByID(objectID)
	if !ok {
		return types.NewError(types.ErrNotFound, fmt.Sprintf("object %q does not exist", objectID))
	}
	isOwner := accessorID != "" && accessorID == obj.Owner
	isAdmin := perm.IsAdmin(g.S, accessorID)
	if !isOwner && !isAdmin {
		return types.NewError(types.ErrPermissionDenied, fmt.Sprintf("not permitted to move %q", objectID))
	}

	return g.moveLocked(objectID, newLocationID)
}

func (g *Graph) moveLocked(objectID, newLocationID string) error {
	if newLocationID != "" {
		if g.isContainedIn(newLocationID, objectID) || newLocationID == objectID {
			return types.NewError(types.ErrCyclicMove, "move would create a containment cycle")
		}
		if _, ok := g.S.Objects.FindByID(newLocationID); !ok {
			return types.NewError(types.ErrNotFound, fmt.Sprintf("location %q does not exist", newLocationID))
		}
	}

	obj, ok := g.S.Objects.FindByID(objectID)
	if !ok {
		return types.NewError(types.ErrNotFound, fmt.Sprintf("object %q does not exist", objectID))
	}

	if obj.Location != "" {
		g.removeFromContentsLocked(obj.Location, objectID)
	}
	g.setLocationLocked(objectID, newLocationID)
	if newLocationID != "" {
		g.addToContentsLocked(newLocationID, objectID)
	}
	return nil
}

// isContainedIn reports whether needle is reachable by following
// `location` from haystack (i.e. haystack is inside needle, directly or
// transitively) — used to reject moves that would create a cycle.
func (g *Graph) isContainedIn(haystack, needle string) bool {
	visited := make(map[string]bool)
	current := haystack
	for current != "" {
		if current == needle {
			return true
		}
		if visited[current] {
			return false // pre-existing cycle; bail rather than loop forever
		}
		visited[current] = true
		obj, ok := g.S.Objects.FindByID(current)
		if !ok {
			return false
		}
		current = obj.Location
	}
	return false
}

func (g *Graph) setLocationLocked(objectID, locationID string) {
	obj, ok := g.S.Objects.FindByID(objectID)
	if !ok {
		return
	}
	cp := obj.Clone()
	cp.Location = locationID
	cp.ModifiedAt = now()
	_ = g.S.Objects.Update(cp)
}

func (g *Graph) addToContentsLocked(containerID, childID string) {
	obj, ok := g.S.Objects.FindByID(containerID)
	if !ok {
		return
	}
	cp := obj.Clone()
	for _, id := range cp.Contents {
		if id == childID {
			return
		}
	}
	cp.Contents = append(cp.Contents, childID)
	_ = g.S.Objects.Update(cp)
}

func (g *Graph) removeFromContentsLocked(containerID, childID string) {
	obj, ok := g.S.Objects.FindByID(containerID)
	if !ok {
		return
	}
	cp := obj.Clone()
	out := cp.Contents[:0]
	for _, id := range cp.Contents {
		if id != childID {
			out = append(out, id)
		}
	}
	cp.Contents = out
	_ = g.S.Objects.Update(cp)
}

// GetObject is a cache-first lookup by object id (§4.2).
func (g *Graph) GetObject(id string) (*store.Object, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	obj, ok := g.S.Objects.FindByID(id)
	if !ok {
		return nil, false
	}
	return obj.Clone(), true
}

// GetObjectByDBRef is a cache-first lookup by DBREF (§4.2).
func (g *Graph) GetObjectByDBRef(n types.ObjID) (*store.Object, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	obj, ok := g.S.ObjectByDBRef(n)
	if !ok {
		return nil, false
	}
	return obj.Clone(), true
}

// ListInLocation implements §4.2 list_in_location.
func (g *Graph) ListInLocation(locationID string) []*store.Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	objs := g.S.ObjectsByLocation(locationID)
	out := make([]*store.Object, len(objs))
	for i, o := range objs {
		out[i] = o.Clone()
	}
	return out
}

// FindObjectsByClass implements §4.2 find_objects_by_class.
func (g *Graph) FindObjectsByClass(classID string, includeSubclasses bool) []*store.Object {
	g.mu.RLock()
	defer g.mu.RUnlock()

	classIDs := map[string]bool{classID: true}
	if includeSubclasses {
		for _, c := range g.S.Classes.FindAll() {
			if g.descendsFrom(c.ID, classID) {
				classIDs[c.ID] = true
			}
		}
	}

	var out []*store.Object
	for _, o := range g.S.Objects.FindAll() {
		if classIDs[o.ClassID] {
			out = append(out, o.Clone())
		}
	}
	return out
}
