// Package perm implements the PermissionModel component (§4.8): the flag
// bits borne by player objects and the access-check decisions builtins
// and ObjectGraph consult before acting. It is a leaf package — it reads
// Store records but never calls back into objectgraph, verbtable, or
// script, so every other component can depend on it without a cycle.
package perm

import (
	"atrium/store"
	"atrium/types"
)

// PlayerOf looks up the Player record for an object id, returning nil if
// the object has no player subtype (or doesn't exist).
func PlayerOf(s *store.Store, objectID string) *store.Player {
	p, ok := s.Players.FindByID(objectID)
	if !ok {
		return nil
	}
	return p
}

// IsAdmin reports whether the given object is a player carrying the
// Admin flag.
func IsAdmin(s *store.Store, objectID string) bool {
	p := PlayerOf(s, objectID)
	return p != nil && p.Flags.Has(store.FlagAdmin)
}

// FirstAdminID returns the object id of some player carrying the Admin
// flag, for §3.1's "world-seeded objects default to the first admin"
// owner rule. Collection order is insertion order, so in practice this
// is the earliest-created admin; ok is false if no admin exists yet.
func FirstAdminID(s *store.Store) (string, bool) {
	p, ok := s.Players.FindOne(func(p *store.Player) bool { return p.Flags.Has(store.FlagAdmin) })
	if !ok {
		return "", false
	}
	return p.ObjectID, true
}

// IsModerator reports whether the given object is a player carrying the
// Moderator flag.
func IsModerator(s *store.Store, objectID string) bool {
	p := PlayerOf(s, objectID)
	return p != nil && p.Flags.Has(store.FlagModerator)
}

// IsProgrammer reports whether the given object is a player carrying the
// Programmer flag.
func IsProgrammer(s *store.Store, objectID string) bool {
	p := PlayerOf(s, objectID)
	return p != nil && p.Flags.Has(store.FlagProgrammer)
}

// CanReadProperty decides a property read (§4.2 get_property): Private
// properties require ownership or Admin; Protected properties require
// the accessor's class lineage to include the property's declaring
// class; Public and ReadOnly properties impose no read restriction.
func CanReadProperty(access store.PropertyAccessFlag, callerIsOwner, callerIsAdmin, callerDescendsFromDeclaringClass bool) bool {
	if access.Has(store.AccessPrivate) {
		return callerIsOwner || callerIsAdmin
	}
	if access.Has(store.AccessProtected) {
		return callerDescendsFromDeclaringClass || callerIsOwner || callerIsAdmin
	}
	return true
}

// CanWriteProperty decides a property write (§4.2 set_property):
// ReadOnly always rejects; otherwise ownership or Admin is required, and
// Protected additionally honors lineage the way CanReadProperty does.
func CanWriteProperty(access store.PropertyAccessFlag, callerIsOwner, callerIsAdmin, callerDescendsFromDeclaringClass bool) bool {
	if access.Has(store.AccessReadOnly) {
		return false
	}
	if callerIsOwner || callerIsAdmin {
		return true
	}
	if access.Has(store.AccessProtected) {
		return callerDescendsFromDeclaringClass
	}
	return false
}

// CanModifyVerbOrFunction decides verb/function creation, modification,
// and destruction (§4.8): Programmer, ownership, or Admin on the target
// object.
func CanModifyVerbOrFunction(callerIsOwner, callerIsAdmin, callerIsProgrammer bool) bool {
	return callerIsOwner || callerIsAdmin || callerIsProgrammer
}

// RequireAdmin returns a PermissionDenied CoreError unless objectID is an
// Admin player — the gate for execute_script, force, and direct store
// access (§4.8).
func RequireAdmin(s *store.Store, objectID string) error {
	if IsAdmin(s, objectID) {
		return nil
	}
	return types.NewError(types.ErrPermissionDenied, "requires Admin privilege")
}
