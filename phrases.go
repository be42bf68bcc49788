package groups

// Phrase keys passed to the Localizer. Arguments are listed in order; names
// are resolved member display names.
const (
	// New group
	KeyInvitedYou     = "groups.invited_you" // inviter
	KeyYouWereInvited = "groups.you_were_invited"
	KeyYouCreated     = "groups.you_created"
	KeyAddedYou       = "groups.added_you"   // editor
	KeyYouJoined      = "groups.you_joined"
	KeyGroupUpdated   = "groups.group_updated"

	// Fallbacks
	KeyYouUpdatedGroup    = "groups.you_updated_group"
	KeyMemberUpdatedGroup = "groups.member_updated_group" // editor
	KeyGroupWasUpdated    = "groups.group_was_updated"

	// Additions
	KeyYouAddedMember    = "groups.you_added_member"    // member
	KeyMemberJoined      = "groups.member_joined"       // member
	KeyMemberAddedMember = "groups.member_added_member" // editor, member

	// Removals
	KeyYouLeft               = "groups.you_left"
	KeyYouRemovedMember      = "groups.you_removed_member"        // member
	KeyMemberRemovedYou      = "groups.member_removed_you"        // editor
	KeyMemberLeft            = "groups.member_left"               // member
	KeyMemberRemovedMember   = "groups.member_removed_member"     // editor, member
	KeyYouNoLongerInGroup    = "groups.you_no_longer_in_group"
	KeyMemberNoLongerInGroup = "groups.member_no_longer_in_group" // member

	// Role changes
	KeyYouMadeAdmin            = "groups.you_made_admin"             // member
	KeyMemberMadeYouAdmin      = "groups.member_made_you_admin"      // editor
	KeyMemberMadeAdmin         = "groups.member_made_admin"          // editor, member
	KeyYouMadeYourselfAdmin    = "groups.you_made_yourself_admin"
	KeyMemberMadeThemselfAdmin = "groups.member_made_themself_admin" // member
	KeyYouRevokedAdmin         = "groups.you_revoked_admin"          // member
	KeyMemberRevokedYourAdmin  = "groups.member_revoked_your_admin"  // editor
	KeyMemberRevokedAdmin      = "groups.member_revoked_admin"       // editor, member
	KeyYouGaveUpAdmin          = "groups.you_gave_up_admin"
	KeyMemberGaveUpAdmin       = "groups.member_gave_up_admin"       // member
	KeyYouAreNowAdmin          = "groups.you_are_now_admin"
	KeyMemberIsNowAdmin        = "groups.member_is_now_admin"        // member
	KeyYouAreNoLongerAdmin     = "groups.you_are_no_longer_admin"
	KeyMemberIsNoLongerAdmin   = "groups.member_is_no_longer_admin"  // member

	// Invitations
	KeyYouInvitedMember   = "groups.you_invited_member"   // member
	KeyMemberInvitedCount = "groups.member_invited_count" // editor, count
	KeyPeopleInvitedCount = "groups.people_invited_count" // count

	// Revoked invitations
	KeyYouDeclinedInvitation         = "groups.you_declined_invitation"
	KeySomeoneDeclinedInvitation     = "groups.someone_declined_invitation"
	KeyMemberRevokedYourInvitation   = "groups.member_revoked_your_invitation"   // editor
	KeyAdminRevokedYourInvitation    = "groups.admin_revoked_your_invitation"
	KeyYouRevokedInvitationsCount    = "groups.you_revoked_invitations_count"    // count
	KeyMemberRevokedInvitationsCount = "groups.member_revoked_invitations_count" // editor, count
	KeyInvitationsRevokedCount       = "groups.invitations_revoked_count"        // count

	// Promotions
	KeyYouAcceptedInvitation    = "groups.you_accepted_invitation"
	KeyYouAddedInvitedMember    = "groups.you_added_invited_member"    // member
	KeyMemberAcceptedInvitation = "groups.member_accepted_invitation"  // member
	KeyMemberAddedInvitedMember = "groups.member_added_invited_member" // editor, member

	// Title
	KeyYouChangedTitle    = "groups.you_changed_title"    // title
	KeyMemberChangedTitle = "groups.member_changed_title" // editor, title
	KeyTitleChanged       = "groups.title_changed"        // title

	// Avatar
	KeyYouChangedAvatar    = "groups.you_changed_avatar"
	KeyMemberChangedAvatar = "groups.member_changed_avatar" // editor
	KeyAvatarChanged       = "groups.avatar_changed"

	// Disappearing messages
	KeyYouSetTimer    = "groups.you_set_timer"    // duration
	KeyMemberSetTimer = "groups.member_set_timer" // editor, duration
	KeyTimerSet       = "groups.timer_set"        // duration

	// Attribute access
	KeyYouChangedAttributeAccess    = "groups.you_changed_attribute_access"    // level
	KeyMemberChangedAttributeAccess = "groups.member_changed_attribute_access" // editor, level
	KeyAttributeAccessChanged       = "groups.attribute_access_changed"        // level

	// Membership access
	KeyYouChangedMemberAccess    = "groups.you_changed_member_access"    // level
	KeyMemberChangedMemberAccess = "groups.member_changed_member_access" // editor, level
	KeyMemberAccessChanged       = "groups.member_access_changed"        // level

	// Access levels
	KeyAccessUnknown       = "groups.access.unknown"
	KeyAccessAny           = "groups.access.any"
	KeyAccessMember        = "groups.access.member"
	KeyAccessAdministrator = "groups.access.administrator"
	KeyAccessUnsatisfiable = "groups.access.unsatisfiable"

	// Durations
	KeyDurationOff     = "groups.duration.off"
	KeyDurationSeconds = "groups.duration.seconds" // count
	KeyDurationMinutes = "groups.duration.minutes" // count
	KeyDurationHours   = "groups.duration.hours"   // count
	KeyDurationDays    = "groups.duration.days"    // count
	KeyDurationWeeks   = "groups.duration.weeks"   // count
)

func accessLevelKey(a AccessRequired) string {
	switch a {
	case AccessAny:
		return KeyAccessAny
	case AccessMember:
		return KeyAccessMember
	case AccessAdministrator:
		return KeyAccessAdministrator
	case AccessUnsatisfiable:
		return KeyAccessUnsatisfiable
	default:
		return KeyAccessUnknown
	}
}
