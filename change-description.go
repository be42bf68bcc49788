package groups

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

// ChangeDescriptionProducer turns group changes into human readable
// descriptions from the point of view of one member ("self").
//
// Member names are only resolved when a description is resolved, never while
// it is being produced. The producer keeps no state between calls.
type ChangeDescriptionProducer struct {
	loc       Localizer
	describer MemberDescriber
	durations DurationHumanizer
	self      uuid.UUID
	logger    *slog.Logger
}

func NewChangeDescriptionProducer(loc Localizer, describer MemberDescriber, self uuid.UUID, opts ...Option) *ChangeDescriptionProducer {
	cfg := applyOptions(opts...)
	durations := cfg.durations
	if durations == nil {
		durations = LocalizedDurations(loc)
	}

	return &ChangeDescriptionProducer{
		loc:       loc,
		describer: describer,
		durations: durations,
		self:      self,
		logger:    cfg.logger,
	}
}

// changeCategory describes one kind of sub-change. known is used when the
// editor can be named, unknown otherwise; unknown never sees the editor.
type changeCategory struct {
	name    string
	known   func(p *ChangeDescriptionProducer, change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription
	unknown func(p *ChangeDescriptionProducer, change DecryptedGroupChange) []UpdateDescription
}

// Removals are always described last.
var changeCategories = []changeCategory{
	{"member_additions", (*ChangeDescriptionProducer).describeMemberAdditions, (*ChangeDescriptionProducer).describeUnknownEditorMemberAdditions},
	{"modify_member_roles", (*ChangeDescriptionProducer).describeModifyMemberRoles, (*ChangeDescriptionProducer).describeUnknownEditorModifyMemberRoles},
	{"invitations", (*ChangeDescriptionProducer).describeInvitations, (*ChangeDescriptionProducer).describeUnknownEditorInvitations},
	{"revoked_invitations", (*ChangeDescriptionProducer).describeRevokedInvitations, (*ChangeDescriptionProducer).describeUnknownEditorRevokedInvitations},
	{"promote_pending", (*ChangeDescriptionProducer).describePromotePending, (*ChangeDescriptionProducer).describeUnknownEditorPromotePending},
	{"new_title", (*ChangeDescriptionProducer).describeNewTitle, (*ChangeDescriptionProducer).describeUnknownEditorNewTitle},
	{"new_avatar", (*ChangeDescriptionProducer).describeNewAvatar, (*ChangeDescriptionProducer).describeUnknownEditorNewAvatar},
	{"new_timer", (*ChangeDescriptionProducer).describeNewTimer, (*ChangeDescriptionProducer).describeUnknownEditorNewTimer},
	{"new_attribute_access", (*ChangeDescriptionProducer).describeNewAttributeAccess, (*ChangeDescriptionProducer).describeUnknownEditorNewAttributeAccess},
	{"new_member_access", (*ChangeDescriptionProducer).describeNewMemberAccess, (*ChangeDescriptionProducer).describeUnknownEditorNewMemberAccess},
	{"member_removals", (*ChangeDescriptionProducer).describeMemberRemovals, (*ChangeDescriptionProducer).describeUnknownEditorMemberRemovals},
}

// DescribeNewGroup describes how self came to be in a group for which no
// change history is available.
func (p *ChangeDescriptionProducer) DescribeNewGroup(group DecryptedGroup) UpdateDescription {
	if pending, ok := FindPendingMember(group.PendingMembers, p.self); ok {
		inviter := identityFromBytesOrUnknown(pending.AddedByUUID)
		if inviter == UnknownIdentity {
			return p.static(KeyYouWereInvited)
		}
		return p.mentioning(KeyInvitedYou, inviter)
	}

	if group.Revision == 0 {
		if founder, ok := FirstMember(group.Members); ok {
			founderID := founder.Identity()
			if p.isSelf(founderID) {
				return p.static(KeyYouCreated)
			}
			return p.mentioning(KeyAddedYou, founderID)
		}
	}

	if _, ok := FindMember(group.Members, p.self); ok {
		return p.static(KeyYouJoined)
	}

	return p.static(KeyGroupUpdated)
}

// DescribeChanges returns one description per populated part of the change,
// in a fixed category order with removals last. A change with nothing this
// producer understands yields a single generic description.
func (p *ChangeDescriptionProducer) DescribeChanges(change DecryptedGroupChange) []UpdateDescription {
	editor := change.EditorOf()

	var updates []UpdateDescription
	for _, category := range changeCategories {
		if editor.Known() {
			updates = append(updates, category.known(p, change, editor.ID)...)
		} else {
			updates = append(updates, category.unknown(p, change)...)
		}
	}

	if len(updates) == 0 {
		if editor.Known() {
			updates = append(updates, p.describeUnknownChange(editor.ID))
		} else {
			updates = append(updates, p.static(KeyGroupWasUpdated))
		}
	}

	p.logger.Debug("described group change", "revision", change.Revision, "editor", editor.State, "descriptions", len(updates))
	return updates
}

func (p *ChangeDescriptionProducer) describeUnknownChange(editor uuid.UUID) UpdateDescription {
	if p.isSelf(editor) {
		return p.static(KeyYouUpdatedGroup)
	}
	return p.mentioning(KeyMemberUpdatedGroup, editor)
}

///
/// Member additions
///

func (p *ChangeDescriptionProducer) describeMemberAdditions(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	editorIsYou := p.isSelf(editor)

	var updates []UpdateDescription
	for _, member := range change.NewMembers {
		added := member.Identity()

		switch {
		case editorIsYou && p.isSelf(added):
			updates = prepend(updates, p.static(KeyYouJoined))
		case editorIsYou:
			updates = append(updates, p.mentioning(KeyYouAddedMember, added))
		case p.isSelf(added):
			updates = prepend(updates, p.mentioning(KeyAddedYou, editor))
		case added == editor:
			updates = append(updates, p.mentioning(KeyMemberJoined, added))
		default:
			updates = append(updates, p.mentioningPair(KeyMemberAddedMember, editor, added))
		}
	}
	return updates
}

func (p *ChangeDescriptionProducer) describeUnknownEditorMemberAdditions(change DecryptedGroupChange) []UpdateDescription {
	var updates []UpdateDescription
	for _, member := range change.NewMembers {
		added := member.Identity()

		if p.isSelf(added) {
			updates = prepend(updates, p.static(KeyYouJoined))
		} else {
			updates = append(updates, p.mentioning(KeyMemberJoined, added))
		}
	}
	return updates
}

///
/// Role changes
///

func (p *ChangeDescriptionProducer) describeModifyMemberRoles(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	editorIsYou := p.isSelf(editor)

	var updates []UpdateDescription
	for _, roleChange := range change.ModifyMemberRoles {
		changed := roleChange.Identity()
		admin := roleChange.Role == MemberRoleAdministrator

		var update UpdateDescription
		switch {
		case editorIsYou && p.isSelf(changed):
			update = p.static(pick(admin, KeyYouMadeYourselfAdmin, KeyYouGaveUpAdmin))
		case editorIsYou:
			update = p.mentioning(pick(admin, KeyYouMadeAdmin, KeyYouRevokedAdmin), changed)
		case p.isSelf(changed):
			update = p.mentioning(pick(admin, KeyMemberMadeYouAdmin, KeyMemberRevokedYourAdmin), editor)
		case changed == editor:
			update = p.mentioning(pick(admin, KeyMemberMadeThemselfAdmin, KeyMemberGaveUpAdmin), changed)
		default:
			update = p.mentioningPair(pick(admin, KeyMemberMadeAdmin, KeyMemberRevokedAdmin), editor, changed)
		}
		updates = append(updates, update)
	}
	return updates
}

func (p *ChangeDescriptionProducer) describeUnknownEditorModifyMemberRoles(change DecryptedGroupChange) []UpdateDescription {
	var updates []UpdateDescription
	for _, roleChange := range change.ModifyMemberRoles {
		changed := roleChange.Identity()
		admin := roleChange.Role == MemberRoleAdministrator

		if p.isSelf(changed) {
			updates = append(updates, p.static(pick(admin, KeyYouAreNowAdmin, KeyYouAreNoLongerAdmin)))
		} else {
			updates = append(updates, p.mentioning(pick(admin, KeyMemberIsNowAdmin, KeyMemberIsNoLongerAdmin), changed))
		}
	}
	return updates
}

///
/// Invitations
///

func (p *ChangeDescriptionProducer) describeInvitations(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	editorIsYou := p.isSelf(editor)
	notYouInviteCount := 0

	var updates []UpdateDescription
	for _, invitee := range change.NewPendingMembers {
		invited := invitee.Identity()

		switch {
		case p.isSelf(invited):
			updates = prepend(updates, p.mentioning(KeyInvitedYou, editor))
		case editorIsYou:
			updates = append(updates, p.mentioning(KeyYouInvitedMember, invited))
		default:
			notYouInviteCount++
		}
	}

	if notYouInviteCount > 0 {
		updates = append(updates, p.mentioning(KeyMemberInvitedCount, editor, notYouInviteCount))
	}
	return updates
}

func (p *ChangeDescriptionProducer) describeUnknownEditorInvitations(change DecryptedGroupChange) []UpdateDescription {
	notYouInviteCount := 0

	var updates []UpdateDescription
	for _, invitee := range change.NewPendingMembers {
		if !p.isSelf(invitee.Identity()) {
			notYouInviteCount++
			continue
		}

		inviter := identityFromBytesOrUnknown(invitee.AddedByUUID)
		if inviter == UnknownIdentity {
			updates = prepend(updates, p.static(KeyYouWereInvited))
		} else {
			updates = prepend(updates, p.mentioning(KeyInvitedYou, inviter))
		}
	}

	if notYouInviteCount > 0 {
		updates = append(updates, p.static(KeyPeopleInvitedCount, notYouInviteCount))
	}
	return updates
}

///
/// Revoked invitations
///

func (p *ChangeDescriptionProducer) describeRevokedInvitations(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	editorIsYou := p.isSelf(editor)
	notDeclineCount := 0

	var updates []UpdateDescription
	for _, invitee := range change.DeletePendingMembers {
		revoked := invitee.Identity()

		switch {
		case revoked == editor:
			updates = append(updates, p.static(pick(editorIsYou, KeyYouDeclinedInvitation, KeySomeoneDeclinedInvitation)))
		case p.isSelf(revoked):
			updates = append(updates, p.mentioning(KeyMemberRevokedYourInvitation, editor))
		default:
			notDeclineCount++
		}
	}

	if notDeclineCount > 0 {
		if editorIsYou {
			updates = append(updates, p.static(KeyYouRevokedInvitationsCount, notDeclineCount))
		} else {
			updates = append(updates, p.mentioning(KeyMemberRevokedInvitationsCount, editor, notDeclineCount))
		}
	}
	return updates
}

func (p *ChangeDescriptionProducer) describeUnknownEditorRevokedInvitations(change DecryptedGroupChange) []UpdateDescription {
	notDeclineCount := 0

	var updates []UpdateDescription
	for _, invitee := range change.DeletePendingMembers {
		if p.isSelf(invitee.Identity()) {
			updates = append(updates, p.static(KeyAdminRevokedYourInvitation))
		} else {
			notDeclineCount++
		}
	}

	if notDeclineCount > 0 {
		updates = append(updates, p.static(KeyInvitationsRevokedCount, notDeclineCount))
	}
	return updates
}

///
/// Promotions from pending
///

func (p *ChangeDescriptionProducer) describePromotePending(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	editorIsYou := p.isSelf(editor)

	var updates []UpdateDescription
	for _, member := range change.PromotePendingMembers {
		promoted := member.Identity()

		switch {
		case editorIsYou && p.isSelf(promoted):
			updates = append(updates, p.static(KeyYouAcceptedInvitation))
		case editorIsYou:
			updates = append(updates, p.mentioning(KeyYouAddedInvitedMember, promoted))
		case p.isSelf(promoted):
			updates = append(updates, p.mentioning(KeyAddedYou, editor))
		case promoted == editor:
			updates = append(updates, p.mentioning(KeyMemberAcceptedInvitation, promoted))
		default:
			updates = append(updates, p.mentioningPair(KeyMemberAddedInvitedMember, editor, promoted))
		}
	}
	return updates
}

func (p *ChangeDescriptionProducer) describeUnknownEditorPromotePending(change DecryptedGroupChange) []UpdateDescription {
	var updates []UpdateDescription
	for _, member := range change.PromotePendingMembers {
		promoted := member.Identity()

		if p.isSelf(promoted) {
			updates = append(updates, p.static(KeyYouJoined))
		} else {
			updates = append(updates, p.mentioning(KeyMemberJoined, promoted))
		}
	}
	return updates
}

///
/// Title, avatar, timer and access control
///

func (p *ChangeDescriptionProducer) describeNewTitle(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	if change.NewTitle == nil {
		return nil
	}

	title := change.NewTitle.String()
	if p.isSelf(editor) {
		return []UpdateDescription{p.static(KeyYouChangedTitle, title)}
	}
	return []UpdateDescription{p.mentioning(KeyMemberChangedTitle, editor, title)}
}

func (p *ChangeDescriptionProducer) describeUnknownEditorNewTitle(change DecryptedGroupChange) []UpdateDescription {
	if change.NewTitle == nil {
		return nil
	}
	return []UpdateDescription{p.static(KeyTitleChanged, change.NewTitle.String())}
}

func (p *ChangeDescriptionProducer) describeNewAvatar(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	if change.NewAvatar == nil {
		return nil
	}

	if p.isSelf(editor) {
		return []UpdateDescription{p.static(KeyYouChangedAvatar)}
	}
	return []UpdateDescription{p.mentioning(KeyMemberChangedAvatar, editor)}
}

func (p *ChangeDescriptionProducer) describeUnknownEditorNewAvatar(change DecryptedGroupChange) []UpdateDescription {
	if change.NewAvatar == nil {
		return nil
	}
	return []UpdateDescription{p.static(KeyAvatarChanged)}
}

func (p *ChangeDescriptionProducer) describeNewTimer(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	if change.NewTimer == nil {
		return nil
	}

	duration := p.durations.HumanizeDuration(change.NewTimer.Duration)
	if p.isSelf(editor) {
		return []UpdateDescription{p.static(KeyYouSetTimer, duration)}
	}
	return []UpdateDescription{p.mentioning(KeyMemberSetTimer, editor, duration)}
}

func (p *ChangeDescriptionProducer) describeUnknownEditorNewTimer(change DecryptedGroupChange) []UpdateDescription {
	if change.NewTimer == nil {
		return nil
	}

	duration := p.durations.HumanizeDuration(change.NewTimer.Duration)
	return []UpdateDescription{p.static(KeyTimerSet, duration)}
}

func (p *ChangeDescriptionProducer) describeNewAttributeAccess(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	if change.NewAttributeAccess == AccessUnknown {
		return nil
	}

	level := p.loc.Sprintf(accessLevelKey(change.NewAttributeAccess))
	if p.isSelf(editor) {
		return []UpdateDescription{p.static(KeyYouChangedAttributeAccess, level)}
	}
	return []UpdateDescription{p.mentioning(KeyMemberChangedAttributeAccess, editor, level)}
}

func (p *ChangeDescriptionProducer) describeUnknownEditorNewAttributeAccess(change DecryptedGroupChange) []UpdateDescription {
	if change.NewAttributeAccess == AccessUnknown {
		return nil
	}

	level := p.loc.Sprintf(accessLevelKey(change.NewAttributeAccess))
	return []UpdateDescription{p.static(KeyAttributeAccessChanged, level)}
}

func (p *ChangeDescriptionProducer) describeNewMemberAccess(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	if change.NewMemberAccess == AccessUnknown {
		return nil
	}

	level := p.loc.Sprintf(accessLevelKey(change.NewMemberAccess))
	if p.isSelf(editor) {
		return []UpdateDescription{p.static(KeyYouChangedMemberAccess, level)}
	}
	return []UpdateDescription{p.mentioning(KeyMemberChangedMemberAccess, editor, level)}
}

func (p *ChangeDescriptionProducer) describeUnknownEditorNewMemberAccess(change DecryptedGroupChange) []UpdateDescription {
	if change.NewMemberAccess == AccessUnknown {
		return nil
	}

	level := p.loc.Sprintf(accessLevelKey(change.NewMemberAccess))
	return []UpdateDescription{p.static(KeyMemberAccessChanged, level)}
}

///
/// Member removals
///

func (p *ChangeDescriptionProducer) describeMemberRemovals(change DecryptedGroupChange, editor uuid.UUID) []UpdateDescription {
	editorIsYou := p.isSelf(editor)

	var updates []UpdateDescription
	for _, member := range change.DeleteMembers {
		removed := member.Identity()

		switch {
		case editorIsYou && p.isSelf(removed):
			updates = prepend(updates, p.static(KeyYouLeft))
		case editorIsYou:
			updates = append(updates, p.mentioning(KeyYouRemovedMember, removed))
		case p.isSelf(removed):
			updates = prepend(updates, p.mentioning(KeyMemberRemovedYou, editor))
		case removed == editor:
			updates = append(updates, p.mentioning(KeyMemberLeft, removed))
		default:
			updates = append(updates, p.mentioningPair(KeyMemberRemovedMember, editor, removed))
		}
	}
	return updates
}

func (p *ChangeDescriptionProducer) describeUnknownEditorMemberRemovals(change DecryptedGroupChange) []UpdateDescription {
	var updates []UpdateDescription
	for _, member := range change.DeleteMembers {
		removed := member.Identity()

		if p.isSelf(removed) {
			updates = prepend(updates, p.static(KeyYouNoLongerInGroup))
		} else {
			updates = append(updates, p.mentioning(KeyMemberNoLongerInGroup, removed))
		}
	}
	return updates
}

///
/// Helpers
///

func (p *ChangeDescriptionProducer) isSelf(id uuid.UUID) bool {
	return id != UnknownIdentity && id == p.self
}

func (p *ChangeDescriptionProducer) static(key string, args ...any) UpdateDescription {
	return StaticDescription(p.loc.Sprintf(key, args...))
}

// mentioning defers a phrase whose first argument is the name of member.
// Only values are captured so the description can be resolved later on any
// goroutine.
func (p *ChangeDescriptionProducer) mentioning(key string, member uuid.UUID, args ...any) UpdateDescription {
	loc, describer := p.loc, p.describer
	rest := slices.Clone(args)

	return MentioningDescription([]uuid.UUID{member}, func() string {
		return loc.Sprintf(key, append([]any{describer.Describe(member)}, rest...)...)
	})
}

func (p *ChangeDescriptionProducer) mentioningPair(key string, first, second uuid.UUID) UpdateDescription {
	loc, describer := p.loc, p.describer

	return MentioningDescription([]uuid.UUID{first, second}, func() string {
		return loc.Sprintf(key, describer.Describe(first), describer.Describe(second))
	})
}

func prepend(updates []UpdateDescription, update UpdateDescription) []UpdateDescription {
	return slices.Insert(updates, 0, update)
}

func pick(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
