package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"atrium/perm"
	"atrium/store"
	"atrium/types"
)

// Reloader is satisfied by a Runtime that caches compiled verb/function
// bytecode (script.Runtime does). @reload asks it to drop that cache so
// every verb and function recompiles from source on its next
// invocation, instead of only picking up an edit the next time a
// record's own ModifiedAt happens to change.
type Reloader interface {
	InvalidateCache()
}

// adminCommands is the privileged subset §6 describes: "commands
// beginning with @ are routed to a privileged subset (create/edit/
// destroy objects/classes/verbs/functions, show inheritance, dump
// source, hot-reload) before the normal verb-lookup sequence."  Only
// the names registered here are reserved — an @-prefixed word that
// isn't one of these is an ordinary verb-lookup candidate like any
// other, so a user's own "@"-named verb still works ("unprivileged
// @-commands fall through to verb lookup").
var adminCommands = map[string]func(*Dispatcher, *store.Object, string) string{
	"@create":     (*Dispatcher).adminCreate,
	"@destroy":    (*Dispatcher).adminDestroy,
	"@recycle":    (*Dispatcher).adminRecycle,
	"@class":      (*Dispatcher).adminClass,
	"@verb":       (*Dispatcher).adminVerb,
	"@function":   (*Dispatcher).adminFunction,
	"@rmverb":     (*Dispatcher).adminRmVerb,
	"@rmfunction": (*Dispatcher).adminRmFunction,
	"@show":       (*Dispatcher).adminShow,
	"@dump":       (*Dispatcher).adminDump,
	"@reload":     (*Dispatcher).adminReload,
}

// dispatchAdmin handles word0 if it names a reserved @-command. handled
// is false if word0 isn't reserved, telling Dispatch to fall through to
// normal verb lookup.
func (d *Dispatcher) dispatchAdmin(player *store.Object, word0 string, rest []string) (string, bool) {
	handler, ok := adminCommands[strings.ToLower(word0)]
	if !ok {
		return "", false
	}
	if !perm.IsProgrammer(d.Store, player.ID) && !perm.IsAdmin(d.Store, player.ID) {
		return "Permission denied.", true
	}
	return handler(d, player, strings.Join(rest, " ")), true
}

// parseAdminRef parses "#N" to a DBRef-addressed object id.
func parseAdminRef(d *Dispatcher, token string) (*store.Object, error) {
	if !strings.HasPrefix(token, "#") {
		return nil, fmt.Errorf("expected an object reference like #3, got %q", token)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(token, "#"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid object reference %q", token)
	}
	obj, ok := d.Graph.GetObjectByDBRef(types.ObjID(n))
	if !ok {
		return nil, fmt.Errorf("no object with reference %q", token)
	}
	return obj, nil
}

// adminCreate implements "@create <class|-> <name...>": instantiates
// class (or a plain object if the class token is "-"), owned by and
// located with the invoking player, per §3.1's player-initiated
// creation path.
func (d *Dispatcher) adminCreate(player *store.Object, rest string) string {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return "Usage: @create <class|-> <name...>"
	}
	classID := ""
	if fields[0] != "-" {
		cls, ok := d.Store.ClassByName(fields[0])
		if !ok {
			return fmt.Sprintf("no such class %q", fields[0])
		}
		classID = cls.ID
	}
	obj, err := d.Graph.CreateInstance(classID, player.Location, player.ID)
	if err != nil {
		return err.Error()
	}
	obj.Name = strings.Join(fields[1:], " ")
	if err := d.Store.Objects.Update(obj); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Created %s (#%d).", obj.Name, obj.DBRef)
}

// adminDestroy implements "@destroy <#ref>": rejects non-empty
// contents unless the target has none (§3.3 destroy, no cascade).
func (d *Dispatcher) adminDestroy(player *store.Object, rest string) string {
	return d.destroyRef(rest, false)
}

// adminRecycle implements "@recycle <#ref>": a cascading destroy,
// taking everything the target contains down with it.
func (d *Dispatcher) adminRecycle(player *store.Object, rest string) string {
	return d.destroyRef(rest, true)
}

func (d *Dispatcher) destroyRef(token string, cascade bool) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return "Usage: @destroy <#ref>"
	}
	if !strings.HasPrefix(token, "#") {
		if cls, ok := d.Store.ClassByName(token); ok {
			if err := d.Graph.Destroy(cls.ID, cascade); err != nil {
				return err.Error()
			}
			return fmt.Sprintf("Class %q destroyed.", cls.Name)
		}
		return fmt.Sprintf("no such object or class %q", token)
	}
	obj, err := parseAdminRef(d, token)
	if err != nil {
		return err.Error()
	}
	if err := d.Graph.Destroy(obj.ID, cascade); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s (#%d) destroyed.", obj.Name, obj.DBRef)
}

// adminClass implements "@class <name> [parent]".
func (d *Dispatcher) adminClass(player *store.Object, rest string) string {
	fields := strings.Fields(rest)
	if len(fields) < 1 {
		return "Usage: @class <name> [parent]"
	}
	parentID := ""
	if len(fields) > 1 {
		parent, ok := d.Store.ClassByName(fields[1])
		if !ok {
			return fmt.Sprintf("no such parent class %q", fields[1])
		}
		parentID = parent.ID
	}
	cls, err := d.Graph.CreateClass(fields[0], parentID, "")
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Class %q created.", cls.Name)
}

// adminVerb implements "@verb <#ref> <name> <pattern...> = <code>".
func (d *Dispatcher) adminVerb(player *store.Object, rest string) string {
	head, code, ok := splitAdminAssignment(rest)
	if !ok {
		return "Usage: @verb <#ref> <name> <pattern> = <code>"
	}
	fields := strings.Fields(head)
	if len(fields) < 2 {
		return "Usage: @verb <#ref> <name> <pattern> = <code>"
	}
	obj, err := parseAdminRef(d, fields[0])
	if err != nil {
		return err.Error()
	}
	name := fields[1]
	pattern := strings.Join(fields[2:], " ")
	v, err := d.VerbTable.CreateVerb(obj.ID, name, pattern, code, store.PermPublic, player.ID)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Verb %q saved on #%d.", v.Name, obj.DBRef)
}

// adminFunction implements "@function <#ref> <name> = <code>".
func (d *Dispatcher) adminFunction(player *store.Object, rest string) string {
	head, code, ok := splitAdminAssignment(rest)
	if !ok {
		return "Usage: @function <#ref> <name> = <code>"
	}
	fields := strings.Fields(head)
	if len(fields) != 2 {
		return "Usage: @function <#ref> <name> = <code>"
	}
	obj, err := parseAdminRef(d, fields[0])
	if err != nil {
		return err.Error()
	}
	f, err := d.VerbTable.CreateFunction(obj.ID, fields[1], code, store.PermPublic, player.ID)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Function %q saved on #%d.", f.Name, obj.DBRef)
}

// splitAdminAssignment splits "<head> = <code>" on the first "=",
// trimming both sides. ok is false if there is no "=" at all.
func splitAdminAssignment(rest string) (head, code string, ok bool) {
	parts := strings.SplitN(rest, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// adminRmVerb implements "@rmverb <#ref> <name>".
func (d *Dispatcher) adminRmVerb(player *store.Object, rest string) string {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return "Usage: @rmverb <#ref> <name>"
	}
	obj, err := parseAdminRef(d, fields[0])
	if err != nil {
		return err.Error()
	}
	if err := d.VerbTable.DestroyVerb(obj.ID, fields[1]); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Verb %q removed from #%d.", fields[1], obj.DBRef)
}

// adminRmFunction implements "@rmfunction <#ref> <name>".
func (d *Dispatcher) adminRmFunction(player *store.Object, rest string) string {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return "Usage: @rmfunction <#ref> <name>"
	}
	obj, err := parseAdminRef(d, fields[0])
	if err != nil {
		return err.Error()
	}
	if err := d.VerbTable.DestroyFunction(obj.ID, fields[1]); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Function %q removed from #%d.", fields[1], obj.DBRef)
}

// adminShow implements "@show <#ref|class name>": the inheritance
// chain, root-first, for a class or a class instance.
func (d *Dispatcher) adminShow(player *store.Object, rest string) string {
	token := strings.TrimSpace(rest)
	if token == "" {
		return "Usage: @show <#ref|class>"
	}
	var classID string
	if strings.HasPrefix(token, "#") {
		obj, err := parseAdminRef(d, token)
		if err != nil {
			return err.Error()
		}
		if obj.ClassID == "" {
			return fmt.Sprintf("%s (#%d) is a plain object with no class.", obj.Name, obj.DBRef)
		}
		classID = obj.ClassID
	} else {
		cls, ok := d.Store.ClassByName(token)
		if !ok {
			return fmt.Sprintf("no such class %q", token)
		}
		classID = cls.ID
	}
	chain := d.Graph.InheritanceChain(classID)
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}
	return strings.Join(names, " < ")
}

// adminDump implements "@dump <#ref> <verb-or-function name>": the raw
// source attached to objectID, verbs checked before functions.
func (d *Dispatcher) adminDump(player *store.Object, rest string) string {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return "Usage: @dump <#ref> <name>"
	}
	obj, err := parseAdminRef(d, fields[0])
	if err != nil {
		return err.Error()
	}
	if v, ok := d.Store.VerbByName(obj.ID, fields[1]); ok {
		return v.Code
	}
	if f, ok := d.Store.FunctionByName(obj.ID, fields[1]); ok {
		return f.Code
	}
	return fmt.Sprintf("no verb or function %q on #%d", fields[1], obj.DBRef)
}

// adminReload implements "@reload": drops the ScriptRuntime's compiled
// bytecode cache so every verb and function recompiles from its
// current source on next invocation, without a process restart.
func (d *Dispatcher) adminReload(player *store.Object, rest string) string {
	if rl, ok := d.Runtime.(Reloader); ok {
		rl.InvalidateCache()
		return "Script cache cleared."
	}
	return "This runtime does not support hot-reload."
}
