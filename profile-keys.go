package groups

import (
	"log/slog"

	"github.com/google/uuid"
)

type profileKeyEntry struct {
	key           ProfileKey
	authoritative bool
}

// ProfileKeySet collects the profile keys seen across a batch of group
// changes. A key is authoritative when its owner asserted it about
// themself; an authoritative key is only ever replaced by another
// authoritative key for the same member.
//
// A ProfileKeySet is owned by one reconciliation session and must not be
// mutated concurrently.
type ProfileKeySet struct {
	keys   map[uuid.UUID]profileKeyEntry
	logger *slog.Logger
}

func NewProfileKeySet(opts ...Option) *ProfileKeySet {
	cfg := applyOptions(opts...)
	return &ProfileKeySet{
		keys:   map[uuid.UUID]profileKeyEntry{},
		logger: cfg.logger,
	}
}

// AddKeysFromGroupChange records the keys carried by new members, promoted
// pending members and explicit profile key updates.
func (s *ProfileKeySet) AddKeysFromGroupChange(change DecryptedGroupChange) {
	editor := change.EditorOf()

	for _, member := range change.NewMembers {
		s.addMemberKey(member, editor)
	}

	for _, member := range change.PromotePendingMembers {
		s.addMemberKey(member, editor)
	}

	for _, member := range change.ModifiedProfileKeys {
		s.addMemberKey(member, editor)
	}
}

// AddKeysFromGroupState records every full member's key. A snapshot has no
// editor, so none of these keys are authoritative.
func (s *ProfileKeySet) AddKeysFromGroupState(group DecryptedGroup) {
	noEditor := Editor{State: EditorAbsent, ID: UnknownIdentity}
	for _, member := range group.Members {
		s.addMemberKey(member, noEditor)
	}
}

func (s *ProfileKeySet) addMemberKey(member DecryptedMember, source Editor) {
	memberID, ok := identityFromBytes(member.UUID)
	if !ok || memberID == UnknownIdentity {
		s.logger.Warn("Seen unknown member UUID")
		return
	}

	key, err := ProfileKeyFromBytes(member.ProfileKey)
	if err != nil {
		s.logger.Warn("Bad profile key in group", "member", memberID, "error", err)
		return
	}

	if source.Is(memberID) {
		s.keys[memberID] = profileKeyEntry{key: key, authoritative: true}
		s.logger.Debug("authoritative profile key", "member", memberID, "fingerprint", key.Fingerprint())
		return
	}

	if current, ok := s.keys[memberID]; ok && current.authoritative {
		return
	}

	s.keys[memberID] = profileKeyEntry{key: key}
}

// ProfileKeys returns the keys learned from someone other than their owner.
func (s *ProfileKeySet) ProfileKeys() map[uuid.UUID]ProfileKey {
	return s.view(false)
}

// AuthoritativeProfileKeys returns the keys asserted by their owners.
func (s *ProfileKeySet) AuthoritativeProfileKeys() map[uuid.UUID]ProfileKey {
	return s.view(true)
}

func (s *ProfileKeySet) view(authoritative bool) map[uuid.UUID]ProfileKey {
	out := map[uuid.UUID]ProfileKey{}
	for id, entry := range s.keys {
		if entry.authoritative == authoritative {
			out[id] = entry.key
		}
	}
	return out
}
