package groups

import (
	"github.com/google/uuid"
)

// UnknownIdentity is the reserved identity of a member this client cannot
// resolve, e.g. the author of a change signed by a revoked key.
var UnknownIdentity = uuid.Nil

// identityFromBytes parses a 16-byte wire identity. Anything that is not a
// well-formed UUID is reported as not ok.
func identityFromBytes(b []byte) (uuid.UUID, bool) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UnknownIdentity, false
	}
	return id, true
}

// identityFromBytesOrUnknown maps malformed wire identities to
// UnknownIdentity.
func identityFromBytesOrUnknown(b []byte) uuid.UUID {
	id, _ := identityFromBytes(b)
	return id
}

// IdentityBytes returns the wire form of an identity.
func IdentityBytes(id uuid.UUID) []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

type EditorState uint8

const (
	// EditorAbsent means the change carries no editor bytes at all.
	EditorAbsent EditorState = iota
	// EditorUnknown means the editor bytes are present but are the reserved
	// UnknownIdentity or cannot be parsed.
	EditorUnknown
	// EditorKnown means the editor is a resolvable member identity.
	EditorKnown
)

func (s EditorState) String() string {
	switch s {
	case EditorAbsent:
		return "absent"
	case EditorUnknown:
		return "unknown"
	case EditorKnown:
		return "known"
	default:
		return "invalid"
	}
}

// Editor is the author of a group change as seen by this client.
type Editor struct {
	State EditorState
	ID    uuid.UUID
}

// Known reports whether the editor can be named.
func (e Editor) Known() bool {
	return e.State == EditorKnown
}

// Is reports whether the editor is known and equal to id.
func (e Editor) Is(id uuid.UUID) bool {
	return e.Known() && e.ID == id
}

func editorFromBytes(b []byte) Editor {
	if len(b) == 0 {
		return Editor{State: EditorAbsent, ID: UnknownIdentity}
	}

	id, ok := identityFromBytes(b)
	if !ok || id == UnknownIdentity {
		return Editor{State: EditorUnknown, ID: UnknownIdentity}
	}

	return Editor{State: EditorKnown, ID: id}
}
