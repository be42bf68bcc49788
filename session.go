package groups

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
)

// SessionUpdate is the outcome of one applied change.
type SessionUpdate struct {
	Revision    uint32
	Description UpdateDescription
}

// Session reconciles a local group with the changes fetched from the
// server. It owns the current group state and the profile keys learned
// while applying changes.
//
// A Session is not safe for concurrent use.
type Session struct {
	group    DecryptedGroup
	keys     *ProfileKeySet
	producer *ChangeDescriptionProducer
	logger   *slog.Logger
}

// NewSession starts a session from a group snapshot. The snapshot's member
// keys seed the key set.
func NewSession(group DecryptedGroup, producer *ChangeDescriptionProducer, opts ...Option) *Session {
	if producer == nil {
		panic("groups.session: nil producer")
	}

	cfg := applyOptions(opts...)
	s := &Session{
		group:    group.clone(),
		keys:     NewProfileKeySet(opts...),
		producer: producer,
		logger:   cfg.logger,
	}

	s.keys.AddKeysFromGroupState(s.group)
	return s
}

// Handle applies changes in revision order. Changes at or below the current
// revision are skipped. Processing stops at the first change that cannot be
// applied; the updates produced before it are returned with the error.
func (s *Session) Handle(changes ...DecryptedGroupChange) ([]SessionUpdate, error) {
	ordered := make([]DecryptedGroupChange, len(changes))
	copy(ordered, changes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Revision < ordered[j].Revision
	})

	var updates []SessionUpdate
	for _, change := range ordered {
		if change.Revision <= s.group.Revision {
			s.logger.Debug("skipping stale group change", "revision", change.Revision, "current", s.group.Revision)
			continue
		}

		next, err := ApplyChange(s.group, change)
		if err != nil {
			return updates, fmt.Errorf("groups.session: change %d: %w", change.Revision, err)
		}

		s.group = next
		s.keys.AddKeysFromGroupChange(change)

		descs := s.producer.DescribeChanges(change)
		updates = append(updates, SessionUpdate{
			Revision:    change.Revision,
			Description: ConcatWithNewLines(descs),
		})
	}

	return updates, nil
}

// Revision returns the revision of the current group state.
func (s *Session) Revision() uint32 {
	return s.group.Revision
}

// Group returns a copy of the current group state.
func (s *Session) Group() DecryptedGroup {
	return s.group.clone()
}

// Describe describes the current group for a member seeing it for the
// first time.
func (s *Session) Describe() UpdateDescription {
	return s.producer.DescribeNewGroup(s.group)
}

func (s *Session) ProfileKeys() map[uuid.UUID]ProfileKey {
	return s.keys.ProfileKeys()
}

func (s *Session) AuthoritativeProfileKeys() map[uuid.UUID]ProfileKey {
	return s.keys.AuthoritativeProfileKeys()
}
