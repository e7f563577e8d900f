// Package types defines the tagged value union that backs every property,
// verb argument, and script-facing piece of data in the world, plus the
// object-reference and error types built on top of it.
package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is implemented by every property/argument value the core moves
// around: Null, Bool, Int, Float, String, List, and Doc (§9 DESIGN NOTES).
// Builtins that expect a specific shape narrow with a type switch and
// raise PropertyAccess on mismatch rather than returning a silently-wrong
// default.
type Value interface {
	// Kind names the tag for error messages and toliteral-style output.
	Kind() string
	// Literal renders the value the way it would be echoed back to a user.
	Literal() string
	// Truthy decides conditional branches in verb code.
	Truthy() bool
}

// Null is the absence of a value (missing property, unset index).
type Null struct{}

func (Null) Kind() string    { return "null" }
func (Null) Literal() string { return "null" }
func (Null) Truthy() bool    { return false }

// Bool wraps a boolean scalar.
type Bool bool

func (b Bool) Kind() string    { return "bool" }
func (b Bool) Literal() string { return strconv.FormatBool(bool(b)) }
func (b Bool) Truthy() bool    { return bool(b) }

// Int wraps a 64-bit signed integer scalar.
type Int int64

func (i Int) Kind() string    { return "int" }
func (i Int) Literal() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Truthy() bool    { return i != 0 }

// Float wraps a 64-bit floating point scalar.
type Float float64

func (f Float) Kind() string    { return "float" }
func (f Float) Literal() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f Float) Truthy() bool    { return f != 0 }

// String wraps a UTF-8 text scalar.
type String string

func (s String) Kind() string    { return "string" }
func (s String) Literal() string { return string(s) }
func (s String) Truthy() bool    { return s != "" }

// List is an ordered, heterogeneous sequence of Values.
type List []Value

func (l List) Kind() string { return "list" }
func (l List) Literal() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.Literal()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (l List) Truthy() bool { return len(l) > 0 }

// Doc is a nested string-keyed document, the one composite type besides
// List; it is what instance_properties, default_properties, and verb
// `variables` capture maps are made of.
type Doc map[string]Value

func (d Doc) Kind() string { return "doc" }
func (d Doc) Literal() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, d[k].Literal())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (d Doc) Truthy() bool { return len(d) > 0 }

// Equal performs deep equality between two Values, descending into List
// and Doc. Used by property-read idempotence tests and the resolver's
// exact-match comparisons.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Doc:
		bv, ok := b.(Doc)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			ov, ok := bv[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	default:
		return a.Literal() == b.Literal() && a.Kind() == b.Kind()
	}
}
