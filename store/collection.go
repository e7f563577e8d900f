package store

import (
	"fmt"
	"sync"
)

// keyed is satisfied by every record type the Store holds; it lets
// Collection[T] stay generic over Class/Object/Player/Verb/Function
// without each call site repeating "doc.ID".
type keyed interface {
	primaryKey() string
}

func (c *Class) primaryKey() string    { return c.ID }
func (o *Object) primaryKey() string   { return o.ID }
func (p *Player) primaryKey() string   { return p.ObjectID }
func (v *Verb) primaryKey() string     { return v.ID }
func (f *Function) primaryKey() string { return f.ID }

// Collection is a typed document collection addressable by primary key,
// satisfying the §4.1 contract: insert is fail-if-exists, update is
// fail-if-absent, delete reports whether a row was removed, and
// find_by_id/find_one/find_many/find_all round out the query surface.
// Writes are atomic per document — the mutex is held only for the
// duration of a single map mutation, never across a caller's business
// logic.
type Collection[T keyed] struct {
	mu   sync.RWMutex
	rows map[string]T
}

// NewCollection creates an empty collection.
func NewCollection[T keyed]() *Collection[T] {
	return &Collection[T]{rows: make(map[string]T)}
}

// Insert adds doc, failing if its primary key is already present.
func (c *Collection[T]) Insert(doc T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := doc.primaryKey()
	if _, exists := c.rows[key]; exists {
		return fmt.Errorf("document %q already exists", key)
	}
	c.rows[key] = doc
	return nil
}

// Update replaces doc, failing if its primary key is absent.
func (c *Collection[T]) Update(doc T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := doc.primaryKey()
	if _, exists := c.rows[key]; !exists {
		return fmt.Errorf("document %q does not exist", key)
	}
	c.rows[key] = doc
	return nil
}

// Delete removes the document with the given id, reporting whether one
// was actually present.
func (c *Collection[T]) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.rows[id]; !exists {
		return false
	}
	delete(c.rows, id)
	return true
}

// FindByID returns the document for id, or the zero value and false.
func (c *Collection[T]) FindByID(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.rows[id]
	return v, ok
}

// FindOne returns the first document matching pred in map-iteration
// order (unspecified order — callers needing determinism should sort).
func (c *Collection[T]) FindOne(pred func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, v := range c.rows {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// FindMany returns every document matching pred.
func (c *Collection[T]) FindMany(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, v := range c.rows {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// FindAll returns every document in the collection.
func (c *Collection[T]) FindAll() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.rows))
	for _, v := range c.rows {
		out = append(out, v)
	}
	return out
}

// Len reports the number of stored documents.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}
