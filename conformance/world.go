package conformance

import (
	"fmt"

	"atrium/dispatch"
	"atrium/objectgraph"
	"atrium/resolver"
	"atrium/script"
	"atrium/session"
	"atrium/store"
	"atrium/verbtable"
)

// World is a built fixture: every component a dispatch needs, plus a
// lookup from the fixture's local object ids to real store ids.
type World struct {
	Store      *store.Store
	Graph      *objectgraph.Graph
	VerbTable  *verbtable.Table
	Resolver   *resolver.Resolver
	Dispatcher *dispatch.Dispatcher
	Runtime    *script.Runtime
	Sessions   *session.Table

	SystemObjectID string

	ids map[string]string // local id -> store id
}

// resolveID returns the store id for a fixture-local id, or "" if local
// is empty (meaning "none"/"homeless"/"root").
func (w *World) resolveID(local string) string {
	if local == "" {
		return ""
	}
	id, ok := w.ids[local]
	if !ok {
		panic(fmt.Sprintf("conformance fixture: undefined local id %q", local))
	}
	return id
}

// buildWorld constructs a World from spec, in dependency order: classes
// (parent before child, since WorldSpec.Classes is written that way by
// convention), objects, then verbs.
func buildWorld(spec WorldSpec, scriptCfg script.Config) *World {
	s := store.New()
	g := objectgraph.New(s)
	vt := verbtable.New(g, s)
	res := resolver.New(g, s)

	w := &World{Store: s, Graph: g, VerbTable: vt, Resolver: res, ids: make(map[string]string)}

	for _, c := range spec.Classes {
		cls, err := g.CreateClass(c.Name, w.resolveID(c.Parent), "")
		if err != nil {
			panic(fmt.Sprintf("conformance fixture: create class %q: %v", c.Name, err))
		}
		cls.DefaultProperties = toValueMap(c.Properties)
		if err := s.Classes.Update(cls); err != nil {
			panic(err)
		}
		w.ids[c.ID] = cls.ID
	}

	for _, o := range spec.Objects {
		obj, err := g.CreateInstance(w.resolveID(o.Class), "", "")
		if err != nil {
			panic(fmt.Sprintf("conformance fixture: create object %q: %v", o.ID, err))
		}
		w.ids[o.ID] = obj.ID

		obj.Name = o.Name
		obj.InstanceProperties = toValueMap(o.Properties)
		obj.PropertyAccess = make(map[string]store.PropertyAccessFlag, len(o.Access))
		for name, flags := range o.Access {
			obj.PropertyAccess[name] = accessFlagsFromNames(flags)
		}
		obj.Owner = obj.ID // resolved again below once every id exists
		if err := s.Objects.Update(obj); err != nil {
			panic(err)
		}

		if o.Player {
			var flags store.PlayerFlag
			for _, f := range o.Flags {
				switch f {
				case "admin":
					flags |= store.FlagAdmin
				case "moderator":
					flags |= store.FlagModerator
				case "programmer":
					flags |= store.FlagProgrammer
				}
			}
			if err := s.Players.Insert(&store.Player{ObjectID: obj.ID, Flags: flags}); err != nil {
				panic(err)
			}
		}
	}

	// Second pass: location and owner reference other fixture objects,
	// which may have been declared after the referencing object.
	for _, o := range spec.Objects {
		obj, _ := g.GetObject(w.resolveID(o.ID))
		if o.Location != "" {
			if err := g.Move(obj.ID, obj.ID, w.resolveID(o.Location)); err != nil {
				panic(fmt.Sprintf("conformance fixture: move %q: %v", o.ID, err))
			}
		}
		if o.Owner != "" {
			obj, _ = g.GetObject(obj.ID)
			obj.Owner = w.resolveID(o.Owner)
			if err := s.Objects.Update(obj); err != nil {
				panic(err)
			}
		}
	}

	systemObjectID := w.resolveID(spec.SystemObject)
	if systemObjectID != "" {
		sysObj, _ := g.GetObject(systemObjectID)
		sysObj.InstanceProperties["isSystemObject"] = boolValue(true)
		if err := s.Objects.Update(sysObj); err != nil {
			panic(err)
		}
	}

	for _, v := range spec.Verbs {
		objID := systemObjectID
		if v.Object != "" {
			objID = w.resolveID(v.Object)
		}
		createdBy := objID
		if v.CreatedBy != "" {
			createdBy = w.resolveID(v.CreatedBy)
		}
		verb, err := vt.CreateVerb(objID, v.Name, v.Pattern, v.Code, permissionFromName(v.Permissions), createdBy)
		if err != nil {
			panic(fmt.Sprintf("conformance fixture: create verb %q: %v", v.Name, err))
		}
		_ = verb
	}

	sessions := session.New()
	rt := script.New(g, s, res, vt, sessions, nil, systemObjectID, scriptCfg)
	w.Runtime = rt
	w.Sessions = sessions
	w.SystemObjectID = systemObjectID
	w.Dispatcher = dispatch.New(g, s, vt, res, rt, systemObjectID)
	return w
}
