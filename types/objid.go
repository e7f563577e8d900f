package types

import "strconv"

// ObjID is the user-facing DBREF — a monotonically assigned, never-reused
// unsigned integer used for "#N" addressing (§3.1, §6). Negative values
// are sentinels, mirroring the teacher's ObjNothing/ObjAmbiguous/
// ObjFailedMatch convention.
type ObjID int64

const (
	// ObjNothing is the DBREF of "no object" (#-1).
	ObjNothing ObjID = -1
	// ObjAmbiguous marks a resolver result with more than one candidate.
	ObjAmbiguous ObjID = -2
	// ObjFailedMatch marks a resolver result with zero candidates.
	ObjFailedMatch ObjID = -3
)

// String renders the DBREF the way users type it: "#42".
func (id ObjID) String() string {
	return "#" + strconv.FormatInt(int64(id), 10)
}

// Valid reports whether id is a real (non-sentinel, non-negative) DBREF.
func (id ObjID) Valid() bool {
	return id >= 0
}
