package groups

import (
	"github.com/google/uuid"
)

type MemberRole uint8

const (
	MemberRoleUnknown       MemberRole = 0
	MemberRoleDefault       MemberRole = 1
	MemberRoleAdministrator MemberRole = 2
)

func (r MemberRole) ValidForTLS() error {
	return validateEnum(r, MemberRoleUnknown, MemberRoleDefault, MemberRoleAdministrator)
}

// AccessRequired is the level a member needs to edit part of the group.
// AccessUnknown on a change means the field was not modified.
type AccessRequired uint8

const (
	AccessUnknown       AccessRequired = 0
	AccessAny           AccessRequired = 1
	AccessMember        AccessRequired = 2
	AccessAdministrator AccessRequired = 3
	AccessUnsatisfiable AccessRequired = 4
)

func (a AccessRequired) ValidForTLS() error {
	return validateEnum(a, AccessUnknown, AccessAny, AccessMember, AccessAdministrator, AccessUnsatisfiable)
}

// struct {
//     opaque uuid<0..255>;
//     MemberRole role;
//     opaque profile_key<0..255>;
//     uint32 joined_at_revision;
// } DecryptedMember;
type DecryptedMember struct {
	UUID             []byte `tls:"head=1"`
	Role             MemberRole
	ProfileKey       []byte `tls:"head=1"`
	JoinedAtRevision uint32
}

func (m DecryptedMember) Identity() uuid.UUID {
	return identityFromBytesOrUnknown(m.UUID)
}

func (m DecryptedMember) clone() DecryptedMember {
	return DecryptedMember{
		UUID:             dup(m.UUID),
		Role:             m.Role,
		ProfileKey:       dup(m.ProfileKey),
		JoinedAtRevision: m.JoinedAtRevision,
	}
}

// struct {
//     opaque uuid<0..255>;
//     MemberRole role;
//     opaque added_by_uuid<0..255>;
//     uint64 timestamp;
//     opaque uuid_cipher_text<0..2^16-1>;
// } DecryptedPendingMember;
type DecryptedPendingMember struct {
	UUID           []byte `tls:"head=1"`
	Role           MemberRole
	AddedByUUID    []byte `tls:"head=1"`
	Timestamp      uint64
	UUIDCipherText []byte `tls:"head=2"`
}

func (m DecryptedPendingMember) Identity() uuid.UUID {
	return identityFromBytesOrUnknown(m.UUID)
}

func (m DecryptedPendingMember) clone() DecryptedPendingMember {
	return DecryptedPendingMember{
		UUID:           dup(m.UUID),
		Role:           m.Role,
		AddedByUUID:    dup(m.AddedByUUID),
		Timestamp:      m.Timestamp,
		UUIDCipherText: dup(m.UUIDCipherText),
	}
}

// struct {
//     opaque uuid<0..255>;
//     opaque uuid_cipher_text<0..2^16-1>;
// } DecryptedPendingMemberRemoval;
type DecryptedPendingMemberRemoval struct {
	UUID           []byte `tls:"head=1"`
	UUIDCipherText []byte `tls:"head=2"`
}

func (m DecryptedPendingMemberRemoval) Identity() uuid.UUID {
	return identityFromBytesOrUnknown(m.UUID)
}

// struct {
//     opaque uuid<0..255>;
//     MemberRole role;
// } DecryptedModifyMemberRole;
type DecryptedModifyMemberRole struct {
	UUID []byte `tls:"head=1"`
	Role MemberRole
}

func (m DecryptedModifyMemberRole) Identity() uuid.UUID {
	return identityFromBytesOrUnknown(m.UUID)
}

// struct {
//     opaque uuid<0..255>;
// } RemovedMember;
type RemovedMember struct {
	UUID []byte `tls:"head=1"`
}

func (m RemovedMember) Identity() uuid.UUID {
	return identityFromBytesOrUnknown(m.UUID)
}

type DecryptedString struct {
	Value []byte `tls:"head=2"`
}

func NewDecryptedString(s string) *DecryptedString {
	return &DecryptedString{Value: []byte(s)}
}

func (s *DecryptedString) String() string {
	if s == nil {
		return ""
	}
	return string(s.Value)
}

type DecryptedTimer struct {
	Duration uint32
}

// struct {
//     AccessRequired attributes;
//     AccessRequired members;
// } AccessControl;
type AccessControl struct {
	Attributes AccessRequired
	Members    AccessRequired
}

// struct {
//     opaque editor<0..255>;
//     uint32 revision;
//     DecryptedMember new_members<0..2^32-1>;
//     RemovedMember delete_members<0..2^32-1>;
//     DecryptedModifyMemberRole modify_member_roles<0..2^32-1>;
//     DecryptedMember modified_profile_keys<0..2^32-1>;
//     DecryptedPendingMember new_pending_members<0..2^32-1>;
//     DecryptedPendingMemberRemoval delete_pending_members<0..2^32-1>;
//     DecryptedMember promote_pending_members<0..2^32-1>;
//     optional<DecryptedString> new_title;
//     optional<DecryptedString> new_avatar;
//     optional<DecryptedTimer> new_timer;
//     AccessRequired new_attribute_access;
//     AccessRequired new_member_access;
// } DecryptedGroupChange;
type DecryptedGroupChange struct {
	Editor                []byte `tls:"head=1"`
	Revision              uint32
	NewMembers            []DecryptedMember               `tls:"head=4"`
	DeleteMembers         []RemovedMember                 `tls:"head=4"`
	ModifyMemberRoles     []DecryptedModifyMemberRole     `tls:"head=4"`
	ModifiedProfileKeys   []DecryptedMember               `tls:"head=4"`
	NewPendingMembers     []DecryptedPendingMember        `tls:"head=4"`
	DeletePendingMembers  []DecryptedPendingMemberRemoval `tls:"head=4"`
	PromotePendingMembers []DecryptedMember               `tls:"head=4"`
	NewTitle              *DecryptedString                `tls:"optional"`
	NewAvatar             *DecryptedString                `tls:"optional"`
	NewTimer              *DecryptedTimer                 `tls:"optional"`
	NewAttributeAccess    AccessRequired
	NewMemberAccess       AccessRequired
}

// EditorOf classifies the editor of the change.
func (c DecryptedGroupChange) EditorOf() Editor {
	return editorFromBytes(c.Editor)
}

// struct {
//     opaque title<0..2^16-1>;
//     opaque avatar<0..2^16-1>;
//     optional<DecryptedTimer> disappearing_messages_timer;
//     AccessControl access_control;
//     uint32 revision;
//     DecryptedMember members<0..2^32-1>;
//     DecryptedPendingMember pending_members<0..2^32-1>;
// } DecryptedGroup;
type DecryptedGroup struct {
	Title                     []byte          `tls:"head=2"`
	Avatar                    []byte          `tls:"head=2"`
	DisappearingMessagesTimer *DecryptedTimer `tls:"optional"`
	AccessControl             AccessControl
	Revision                  uint32
	Members                   []DecryptedMember        `tls:"head=4"`
	PendingMembers            []DecryptedPendingMember `tls:"head=4"`
}

func (g DecryptedGroup) clone() DecryptedGroup {
	out := DecryptedGroup{
		Title:          dup(g.Title),
		Avatar:         dup(g.Avatar),
		AccessControl:  g.AccessControl,
		Revision:       g.Revision,
		Members:        make([]DecryptedMember, len(g.Members)),
		PendingMembers: make([]DecryptedPendingMember, len(g.PendingMembers)),
	}

	if g.DisappearingMessagesTimer != nil {
		timer := *g.DisappearingMessagesTimer
		out.DisappearingMessagesTimer = &timer
	}

	for i, m := range g.Members {
		out.Members[i] = m.clone()
	}

	for i, m := range g.PendingMembers {
		out.PendingMembers[i] = m.clone()
	}

	return out
}

// FindMember returns the full member with the given identity.
func FindMember(members []DecryptedMember, id uuid.UUID) (DecryptedMember, bool) {
	if id == UnknownIdentity {
		return DecryptedMember{}, false
	}

	for _, m := range members {
		if m.Identity() == id {
			return m, true
		}
	}
	return DecryptedMember{}, false
}

// FindPendingMember returns the pending member with the given identity.
func FindPendingMember(pending []DecryptedPendingMember, id uuid.UUID) (DecryptedPendingMember, bool) {
	if id == UnknownIdentity {
		return DecryptedPendingMember{}, false
	}

	for _, m := range pending {
		if m.Identity() == id {
			return m, true
		}
	}
	return DecryptedPendingMember{}, false
}

// FirstMember returns the founding member of a group, if any.
func FirstMember(members []DecryptedMember) (DecryptedMember, bool) {
	if len(members) == 0 {
		return DecryptedMember{}, false
	}
	return members[0], true
}
