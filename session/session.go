// Package session is the thin transport/session collaborator messaging
// builtins write through: a table of connected players, each bound to a
// Transport that can deliver one line of text. It carries no game
// semantics — it is a delivery mechanism, grounded on the teacher's
// connection/transport split (server/connection.go, server/transport.go).
package session

import "sync"

// Transport is the interface a connected session needs — grounded on
// the teacher's Transport interface (server/transport.go). Messaging
// builtins only ever call WriteLine; ReadLine exists for the command
// loop that reads a line at a time off the wire.
type Transport interface {
	ReadLine() (string, error)
	WriteLine(string) error
	Close() error
	RemoteAddr() string
}

// Table tracks which object id is bound to which live Transport.
type Table struct {
	mu    sync.RWMutex
	byObj map[string]Transport
}

// New creates an empty session table.
func New() *Table {
	return &Table{byObj: make(map[string]Transport)}
}

// Bind associates objectID with a live transport (login).
func (t *Table) Bind(objectID string, tr Transport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byObj[objectID] = tr
}

// Unbind clears a session binding (logout/disconnect). It does not
// destroy the player object (§3.3: "Player objects are never destroyed
// implicitly at session end").
func (t *Table) Unbind(objectID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byObj, objectID)
}

// IsOnline reports whether objectID currently has a bound transport.
func (t *Table) IsOnline(objectID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.byObj[objectID]
	return ok
}

// Notify writes text to objectID's session. A no-op, not an error, if
// the player is offline (§4.7 notify).
func (t *Table) Notify(objectID, text string) error {
	t.mu.RLock()
	tr, ok := t.byObj[objectID]
	t.mu.RUnlock()
	if !ok {
		return nil
	}
	return tr.WriteLine(text)
}

// OnlineObjectIDs returns the object ids with a currently bound session.
func (t *Table) OnlineObjectIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.byObj))
	for id := range t.byObj {
		ids = append(ids, id)
	}
	return ids
}
