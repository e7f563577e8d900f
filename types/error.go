package types

import "fmt"

// ErrorKind enumerates the typed error taxonomy from §7. Internally every
// failure is one of these; the dispatcher and connection layer turn them
// into the user-facing strings named in the §7 table.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrNotFound
	ErrAmbiguous
	ErrPermissionDenied
	ErrPropertyAccess
	ErrVerbNotFound
	ErrFunctionNotFound
	ErrCompile
	ErrRuntime
	ErrScriptTimeout
	ErrCallDepthExceeded
	ErrCyclicMove
	ErrCyclicInheritance
	ErrDuplicateName
	ErrDuplicateVerb
	ErrAbstractClass
	ErrMissingParent
	ErrContextMissing
	ErrStoreInconsistency
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "None"
	case ErrNotFound:
		return "NotFound"
	case ErrAmbiguous:
		return "Ambiguous"
	case ErrPermissionDenied:
		return "PermissionDenied"
	case ErrPropertyAccess:
		return "PropertyAccess"
	case ErrVerbNotFound:
		return "VerbNotFound"
	case ErrFunctionNotFound:
		return "FunctionNotFound"
	case ErrCompile:
		return "Compile"
	case ErrRuntime:
		return "Runtime"
	case ErrScriptTimeout:
		return "ScriptTimeout"
	case ErrCallDepthExceeded:
		return "CallDepthExceeded"
	case ErrCyclicMove:
		return "CyclicMove"
	case ErrCyclicInheritance:
		return "CyclicInheritance"
	case ErrDuplicateName:
		return "DuplicateName"
	case ErrDuplicateVerb:
		return "DuplicateVerb"
	case ErrAbstractClass:
		return "AbstractClass"
	case ErrMissingParent:
		return "MissingParent"
	case ErrContextMissing:
		return "ContextMissing"
	case ErrStoreInconsistency:
		return "StoreInconsistency"
	default:
		return "Unknown"
	}
}

// ParseErrorKind is String's inverse, used to recover a Kind that was
// carried across the Lua boundary as plain text (script/bridge.go raises
// builtin errors as a table rather than a bare string precisely so this
// round-trips). An unrecognized name yields ErrRuntime, the same default
// KindOf gives an opaque error.
func ParseErrorKind(s string) ErrorKind {
	switch s {
	case "None":
		return ErrNone
	case "NotFound":
		return ErrNotFound
	case "Ambiguous":
		return ErrAmbiguous
	case "PermissionDenied":
		return ErrPermissionDenied
	case "PropertyAccess":
		return ErrPropertyAccess
	case "VerbNotFound":
		return ErrVerbNotFound
	case "FunctionNotFound":
		return ErrFunctionNotFound
	case "Compile":
		return ErrCompile
	case "ScriptTimeout":
		return ErrScriptTimeout
	case "CallDepthExceeded":
		return ErrCallDepthExceeded
	case "CyclicMove":
		return ErrCyclicMove
	case "CyclicInheritance":
		return ErrCyclicInheritance
	case "DuplicateName":
		return ErrDuplicateName
	case "DuplicateVerb":
		return ErrDuplicateVerb
	case "AbstractClass":
		return ErrAbstractClass
	case "MissingParent":
		return ErrMissingParent
	case "ContextMissing":
		return ErrContextMissing
	case "StoreInconsistency":
		return ErrStoreInconsistency
	default:
		return ErrRuntime
	}
}

// CoreError is the typed error value every component returns for the §7
// taxonomy. It wraps an optional underlying cause so %w-based chains keep
// working with errors.Is/As while still exposing a stable Kind for
// callers that need to branch on it (the dispatcher, PermissionModel
// callers catching a specific error inside a script).
type CoreError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *CoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error { return e.Cause }

// NewError builds a CoreError with no wrapped cause.
func NewError(kind ErrorKind, message string) *CoreError {
	return &CoreError{Kind: kind, Message: message}
}

// Wrap builds a CoreError carrying an underlying cause.
func Wrap(kind ErrorKind, message string, cause error) *CoreError {
	return &CoreError{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the ErrorKind from err if it is (or wraps) a
// *CoreError or a *ScriptError, otherwise returns ErrRuntime for an
// opaque error and ErrNone for nil. ScriptError is handled directly
// (via AsCoreError) rather than by Unwrap, since it is the taxonomy
// carrier the ScriptRuntime itself raises — without this, a
// CallDepthExceeded or NotFound surfacing from a nested call_verb
// would collapse back to Runtime every time it crossed another layer
// of the Lua boundary, one ErrorKind per nesting level instead of one
// for the whole call chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrNone
	}
	var ce *CoreError
	for {
		if c, ok := err.(*CoreError); ok {
			ce = c
			break
		}
		if se, ok := err.(*ScriptError); ok {
			ce = se.AsCoreError()
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
		if err == nil {
			break
		}
	}
	if ce != nil {
		return ce.Kind
	}
	return ErrRuntime
}
