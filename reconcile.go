package groups

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrRevisionMismatch is returned when a change does not directly follow
	// the group revision it is applied to.
	ErrRevisionMismatch = errors.New("groups.apply: revision mismatch")

	// ErrMemberNotFound is returned when a change modifies a member that is
	// not in the group.
	ErrMemberNotFound = errors.New("groups.apply: member not found")
)

// ApplyChange returns the group that results from applying change to group.
// The change must carry the revision immediately following the group's.
// group itself is never modified.
func ApplyChange(group DecryptedGroup, change DecryptedGroupChange) (DecryptedGroup, error) {
	if change.Revision != group.Revision+1 {
		return DecryptedGroup{}, fmt.Errorf("%w: group at %d, change at %d", ErrRevisionMismatch, group.Revision, change.Revision)
	}

	return ApplyChangeWithoutRevisionCheck(group, change)
}

// ApplyChangeWithoutRevisionCheck applies change regardless of its revision.
// The resulting group takes the revision of the change.
func ApplyChangeWithoutRevisionCheck(group DecryptedGroup, change DecryptedGroupChange) (DecryptedGroup, error) {
	next := group.clone()
	next.Revision = change.Revision

	applyNewMembers(&next, change.NewMembers)
	applyDeleteMembers(&next, change.DeleteMembers)

	if err := applyModifyMemberRoles(&next, change.ModifyMemberRoles); err != nil {
		return DecryptedGroup{}, err
	}

	if err := applyModifiedProfileKeys(&next, change.ModifiedProfileKeys); err != nil {
		return DecryptedGroup{}, err
	}

	applyNewPendingMembers(&next, change.NewPendingMembers)
	applyDeletePendingMembers(&next, change.DeletePendingMembers)
	if err := applyPromotePendingMembers(&next, change.PromotePendingMembers); err != nil {
		return DecryptedGroup{}, err
	}

	if change.NewTitle != nil {
		next.Title = dup(change.NewTitle.Value)
	}

	if change.NewAvatar != nil {
		next.Avatar = dup(change.NewAvatar.Value)
	}

	if change.NewTimer != nil {
		timer := *change.NewTimer
		next.DisappearingMessagesTimer = &timer
	}

	if change.NewAttributeAccess != AccessUnknown {
		next.AccessControl.Attributes = change.NewAttributeAccess
	}

	if change.NewMemberAccess != AccessUnknown {
		next.AccessControl.Members = change.NewMemberAccess
	}

	return next, nil
}

// Re-adding a member replaces their entry in place.
func applyNewMembers(group *DecryptedGroup, members []DecryptedMember) {
	for _, m := range members {
		if i := memberIndex(group.Members, m.UUID); i >= 0 {
			group.Members[i] = m.clone()
		} else {
			group.Members = append(group.Members, m.clone())
		}
		removePendingByUUID(group, m.UUID)
	}
}

func applyDeleteMembers(group *DecryptedGroup, removed []RemovedMember) {
	for _, r := range removed {
		i := memberIndex(group.Members, r.UUID)
		if i < 0 {
			continue
		}
		group.Members = append(group.Members[:i], group.Members[i+1:]...)
	}
}

func applyModifyMemberRoles(group *DecryptedGroup, roles []DecryptedModifyMemberRole) error {
	for _, r := range roles {
		i := memberIndex(group.Members, r.UUID)
		if i < 0 {
			return fmt.Errorf("%w: role change for %s", ErrMemberNotFound, r.Identity())
		}
		group.Members[i].Role = r.Role
	}
	return nil
}

func applyModifiedProfileKeys(group *DecryptedGroup, members []DecryptedMember) error {
	for _, m := range members {
		i := memberIndex(group.Members, m.UUID)
		if i < 0 {
			return fmt.Errorf("%w: profile key for %s", ErrMemberNotFound, m.Identity())
		}
		group.Members[i].ProfileKey = dup(m.ProfileKey)
	}
	return nil
}

func applyNewPendingMembers(group *DecryptedGroup, pending []DecryptedPendingMember) {
	for _, p := range pending {
		if pendingIndex(group.PendingMembers, p.UUID) >= 0 || memberIndex(group.Members, p.UUID) >= 0 {
			continue
		}
		group.PendingMembers = append(group.PendingMembers, p.clone())
	}
}

// Pending removals are matched on the encrypted identity when present,
// since the decrypted one may be the unknown sentinel.
func applyDeletePendingMembers(group *DecryptedGroup, removals []DecryptedPendingMemberRemoval) {
	for _, r := range removals {
		i := -1
		if len(r.UUIDCipherText) > 0 {
			for j, p := range group.PendingMembers {
				if bytes.Equal(p.UUIDCipherText, r.UUIDCipherText) {
					i = j
					break
				}
			}
		}
		if i < 0 {
			i = pendingIndex(group.PendingMembers, r.UUID)
		}
		if i < 0 {
			continue
		}
		group.PendingMembers = append(group.PendingMembers[:i], group.PendingMembers[i+1:]...)
	}
}

// A promoted member keeps the role it was invited with.
func applyPromotePendingMembers(group *DecryptedGroup, promoted []DecryptedMember) error {
	for _, m := range promoted {
		i := pendingIndex(group.PendingMembers, m.UUID)
		if i < 0 {
			return fmt.Errorf("%w: promotion of %s without invitation", ErrMemberNotFound, m.Identity())
		}

		member := m.clone()
		member.Role = group.PendingMembers[i].Role
		member.JoinedAtRevision = group.Revision

		group.PendingMembers = append(group.PendingMembers[:i], group.PendingMembers[i+1:]...)
		group.Members = append(group.Members, member)
	}
	return nil
}

func removePendingByUUID(group *DecryptedGroup, uuid []byte) {
	if i := pendingIndex(group.PendingMembers, uuid); i >= 0 {
		group.PendingMembers = append(group.PendingMembers[:i], group.PendingMembers[i+1:]...)
	}
}

func memberIndex(members []DecryptedMember, uuid []byte) int {
	if isUnknownBytes(uuid) {
		return -1
	}
	for i, m := range members {
		if bytes.Equal(m.UUID, uuid) {
			return i
		}
	}
	return -1
}

func pendingIndex(pending []DecryptedPendingMember, uuid []byte) int {
	if isUnknownBytes(uuid) {
		return -1
	}
	for i, p := range pending {
		if bytes.Equal(p.UUID, uuid) {
			return i
		}
	}
	return -1
}

func isUnknownBytes(b []byte) bool {
	id, ok := identityFromBytes(b)
	return !ok || id == UnknownIdentity
}
