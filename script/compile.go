package script

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	luaparse "github.com/yuin/gopher-lua/parse"

	"atrium/types"
)

// compiledEntry is one cache slot: the parsed FunctionProto plus the
// modification time it was compiled against, so a later edit to the same
// verb/function record invalidates it (§4.6 "Compilation cache").
type compiledEntry struct {
	proto      *lua.FunctionProto
	modifiedAt time.Time
}

// compileCache is keyed by record id, not by source hash alone — two
// records with identical source still get independent cache slots, but
// the common "edited, recompiled" case is a single-entry replace rather
// than cache growth, and invalidation is driven purely by ModifiedAt the
// way §4.6 specifies, not the hash (the hash folds into the key so stale
// code under a reused id can never collide with fresh code of a
// different shape mid-transition).
type compileCache struct {
	mu      sync.Mutex
	entries map[string]compiledEntry
}

func newCompileCache() *compileCache {
	return &compileCache{entries: make(map[string]compiledEntry)}
}

// clear drops every cached prototype, forcing the next compile call for
// any record to recompile from its current source.
func (c *compileCache) clear() {
	c.mu.Lock()
	c.entries = make(map[string]compiledEntry)
	c.mu.Unlock()
}

func sourceKey(recordID, source string) string {
	sum := sha256.Sum256([]byte(source))
	return recordID + ":" + hex.EncodeToString(sum[:8])
}

// compile returns the cached FunctionProto for recordID if its source
// hash and modification time both still match, otherwise compiles fresh
// and stores the result.
func (c *compileCache) compile(recordID, source string, modifiedAt time.Time) (*lua.FunctionProto, error) {
	key := sourceKey(recordID, source)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && entry.modifiedAt.Equal(modifiedAt) {
		c.mu.Unlock()
		return entry.proto, nil
	}
	c.mu.Unlock()

	proto, err := compileSource(recordID, source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = compiledEntry{proto: proto, modifiedAt: modifiedAt}
	c.mu.Unlock()
	return proto, nil
}

// compileSource runs the §4.6 preprocessing rewrites and parses the
// result into a gopher-lua FunctionProto, without executing it.
func compileSource(chunkName, source string) (*lua.FunctionProto, error) {
	rewritten := preprocess(source)
	chunk, err := luaparse.Parse(strings.NewReader(rewritten), chunkName)
	if err != nil {
		return nil, types.Wrap(types.ErrCompile, "compile error in "+chunkName, err)
	}
	proto, err := lua.Compile(chunk, chunkName)
	if err != nil {
		return nil, types.Wrap(types.ErrCompile, "compile error in "+chunkName, err)
	}
	return proto, nil
}
