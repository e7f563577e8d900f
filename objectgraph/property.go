package objectgraph

import (
	"fmt"

	"atrium/perm"
	"atrium/store"
	"atrium/types"
)

// resolution describes where a property's effective value came from, for
// use by the access check that follows.
type resolution struct {
	value          types.Value
	found          bool
	declaringClass string // "" when found on the instance itself
	access         store.PropertyAccessFlag
}

// resolveProperty implements the §3.2(7) lookup order: instance_properties
// first, then the class chain from most-derived to root.
func (g *Graph) resolveProperty(obj *store.Object, name string) resolution {
	if v, ok := obj.InstanceProperties[name]; ok {
		return resolution{value: v, found: true, access: obj.PropertyAccess[name]}
	}

	chain, _ := g.inheritanceChainLocked(obj.ClassID, obj.ClassID)
	for i := len(chain) - 1; i >= 0; i-- {
		cls := chain[i]
		if v, ok := cls.DefaultProperties[name]; ok {
			return resolution{value: v, found: true, declaringClass: cls.ID}
		}
	}
	return resolution{}
}

// GetProperty implements §4.2 get_property, gated by PermissionModel.
func (g *Graph) GetProperty(accessorID, objectID, name string) (types.Value, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	obj, ok := g.S.Objects.FindByID(objectID)
	if !ok {
		return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("object %q does not exist", objectID))
	}

	res := g.resolveProperty(obj, name)
	if !res.found {
		return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("property %q not found on %q", name, objectID))
	}

	isOwner := accessorID != "" && accessorID == obj.Owner
	isAdmin := perm.IsAdmin(g.S, accessorID)
	descends := res.declaringClass == "" || g.descendsFrom(accessorClassID(g.S, accessorID), res.declaringClass)

	if !perm.CanReadProperty(res.access, isOwner, isAdmin, descends) {
		return nil, types.NewError(types.ErrPropertyAccess, fmt.Sprintf("property %q is not readable by %q", name, accessorID))
	}
	return res.value, nil
}

// SetProperty implements §4.2 set_property, gated by PermissionModel. A
// write always lands in instance_properties — class defaults are only
// ever changed by editing the Class itself (§4.2 create_class semantics
// apply to classes, not objects).
func (g *Graph) SetProperty(accessorID, objectID, name string, value types.Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	obj, ok := g.S.Objects.FindByID(objectID)
	if !ok {
		return types.NewError(types.ErrNotFound, fmt.Sprintf("object %q does not exist", objectID))
	}

	res := g.resolveProperty(obj, name)
	isOwner := accessorID != "" && accessorID == obj.Owner
	isAdmin := perm.IsAdmin(g.S, accessorID)
	descends := res.declaringClass == "" || g.descendsFrom(accessorClassID(g.S, accessorID), res.declaringClass)

	if res.found && !perm.CanWriteProperty(res.access, isOwner, isAdmin, descends) {
		return types.NewError(types.ErrPropertyAccess, fmt.Sprintf("property %q is not writable by %q", name, accessorID))
	}

	cp := obj.Clone()
	cp.InstanceProperties[name] = value
	cp.ModifiedAt = now()
	return g.S.Objects.Update(cp)
}

// ClearProperty removes an instance-level override, gated the same way
// as SetProperty, letting resolution fall back to the declaring class's
// default (§3.2(7), S4 "after clearing the instance property, it
// returns the class default again").
func (g *Graph) ClearProperty(accessorID, objectID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	obj, ok := g.S.Objects.FindByID(objectID)
	if !ok {
		return types.NewError(types.ErrNotFound, fmt.Sprintf("object %q does not exist", objectID))
	}

	if _, overridden := obj.InstanceProperties[name]; !overridden {
		return nil
	}

	res := g.resolveProperty(obj, name)
	isOwner := accessorID != "" && accessorID == obj.Owner
	isAdmin := perm.IsAdmin(g.S, accessorID)
	descends := res.declaringClass == "" || g.descendsFrom(accessorClassID(g.S, accessorID), res.declaringClass)

	if !perm.CanWriteProperty(res.access, isOwner, isAdmin, descends) {
		return types.NewError(types.ErrPropertyAccess, fmt.Sprintf("property %q is not writable by %q", name, accessorID))
	}

	cp := obj.Clone()
	delete(cp.InstanceProperties, name)
	cp.ModifiedAt = now()
	return g.S.Objects.Update(cp)
}

// accessorClassID finds the class of the accessing object, if any —
// used purely to evaluate Protected lineage checks.
func accessorClassID(s *store.Store, accessorID string) string {
	obj, ok := s.Objects.FindByID(accessorID)
	if !ok {
		return ""
	}
	return obj.ClassID
}
