package groups

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/suhasHere/mls-groups/phrases"
)

func resolveAll(descs []UpdateDescription) []string {
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.Resolve()
	}
	return out
}

func describe(t *testing.T, self uuid.UUID, change DecryptedGroupChange) []string {
	t.Helper()
	p, describer := englishProducer(self)

	descs := p.DescribeChanges(change)
	require.Equal(t, 0, describer.total(), "names resolved while producing")
	return resolveAll(descs)
}

func editedBy(id uuid.UUID) DecryptedGroupChange {
	return DecryptedGroupChange{Editor: IdentityBytes(id)}
}

var unknownEditors = map[string][]byte{
	"absent":    nil,
	"sentinel":  IdentityBytes(UnknownIdentity),
	"malformed": {0x01, 0x02, 0x03},
}

///
/// New group
///

func TestDescribeNewGroup(t *testing.T) {
	p, _ := englishProducer(you)

	invited := DecryptedGroup{
		Revision:       4,
		Members:        []DecryptedMember{testMember(alice, testKey(1))},
		PendingMembers: []DecryptedPendingMember{testPending(you, alice)},
	}
	require.Equal(t, "Alice invited you to the group.", p.DescribeNewGroup(invited).Resolve())

	invited.PendingMembers[0].AddedByUUID = IdentityBytes(UnknownIdentity)
	d := p.DescribeNewGroup(invited)
	require.True(t, d.IsStatic())
	require.Equal(t, "You were invited to the group.", d.Resolve())

	created := DecryptedGroup{Members: []DecryptedMember{testMember(you, testKey(1)), testMember(alice, testKey(2))}}
	require.Equal(t, "You created the group.", p.DescribeNewGroup(created).Resolve())

	addedAtCreation := DecryptedGroup{Members: []DecryptedMember{testMember(alice, testKey(2)), testMember(you, testKey(1))}}
	d = p.DescribeNewGroup(addedAtCreation)
	require.Equal(t, []uuid.UUID{alice}, d.Mentioned())
	require.Equal(t, "Alice added you to the group.", d.Resolve())

	joined := DecryptedGroup{Revision: 9, Members: []DecryptedMember{testMember(alice, testKey(2)), testMember(you, testKey(1))}}
	require.Equal(t, "You joined the group.", p.DescribeNewGroup(joined).Resolve())

	outsider := DecryptedGroup{Revision: 9, Members: []DecryptedMember{testMember(alice, testKey(2))}}
	require.Equal(t, "Group updated.", p.DescribeNewGroup(outsider).Resolve())

	require.Equal(t, "Group updated.", p.DescribeNewGroup(DecryptedGroup{Revision: 0}).Resolve())
}

///
/// Fallbacks
///

func TestEmptyChange(t *testing.T) {
	require.Equal(t, []string{"You updated the group."}, describe(t, you, editedBy(you)))
	require.Equal(t, []string{"Alice updated the group."}, describe(t, you, editedBy(alice)))

	for label, editor := range unknownEditors {
		p, describer := englishProducer(you)
		descs := p.DescribeChanges(DecryptedGroupChange{Editor: editor})
		require.Len(t, descs, 1, label)
		require.True(t, descs[0].IsStatic(), label)
		require.Equal(t, "The group was updated.", descs[0].Resolve(), label)
		require.Equal(t, 0, describer.total(), label)
	}
}

func TestProfileKeyOnlyChangeFallsBack(t *testing.T) {
	change := editedBy(alice)
	change.ModifiedProfileKeys = []DecryptedMember{testMember(alice, testKey(9))}
	require.Equal(t, []string{"Alice updated the group."}, describe(t, you, change))
}

///
/// Additions
///

func TestMemberAdditions(t *testing.T) {
	change := editedBy(you)
	change.NewMembers = []DecryptedMember{testMember(bob, testKey(1)), testMember(you, testKey(2))}
	require.Equal(t, []string{"You joined the group.", "You added Bob."}, describe(t, you, change))

	change = editedBy(alice)
	change.NewMembers = []DecryptedMember{testMember(bob, testKey(1)), testMember(alice, testKey(3)), testMember(you, testKey(2))}
	require.Equal(t, []string{
		"Alice added you to the group.",
		"Alice added Bob.",
		"Alice joined the group.",
	}, describe(t, you, change))
}

func TestMemberAdditionsUnknownEditor(t *testing.T) {
	for label, editor := range unknownEditors {
		change := DecryptedGroupChange{Editor: editor}
		change.NewMembers = []DecryptedMember{testMember(bob, testKey(1)), testMember(you, testKey(2))}
		require.Equal(t, []string{"You joined the group.", "Bob joined the group."}, describe(t, you, change), label)
	}
}

///
/// Role changes
///

func TestModifyMemberRoles(t *testing.T) {
	admin := func(id uuid.UUID) DecryptedModifyMemberRole {
		return DecryptedModifyMemberRole{UUID: IdentityBytes(id), Role: MemberRoleAdministrator}
	}
	demote := func(id uuid.UUID) DecryptedModifyMemberRole {
		return DecryptedModifyMemberRole{UUID: IdentityBytes(id), Role: MemberRoleDefault}
	}

	change := editedBy(you)
	change.ModifyMemberRoles = []DecryptedModifyMemberRole{admin(bob), demote(carol), admin(you)}
	require.Equal(t, []string{
		"You made Bob an admin.",
		"You revoked admin privileges from Carol.",
		"You made yourself an admin.",
	}, describe(t, you, change))

	change = editedBy(you)
	change.ModifyMemberRoles = []DecryptedModifyMemberRole{demote(you)}
	require.Equal(t, []string{"You gave up your admin privileges."}, describe(t, you, change))

	change = editedBy(alice)
	change.ModifyMemberRoles = []DecryptedModifyMemberRole{admin(you), demote(bob), admin(carol), demote(alice)}
	require.Equal(t, []string{
		"Alice made you an admin.",
		"Alice revoked admin privileges from Bob.",
		"Alice made Carol an admin.",
		"Alice gave up their admin privileges.",
	}, describe(t, you, change))

	change = editedBy(alice)
	change.ModifyMemberRoles = []DecryptedModifyMemberRole{demote(you), admin(alice)}
	require.Equal(t, []string{
		"Alice revoked your admin privileges.",
		"Alice made themself an admin.",
	}, describe(t, you, change))
}

func TestModifyMemberRolesUnknownEditor(t *testing.T) {
	change := DecryptedGroupChange{
		ModifyMemberRoles: []DecryptedModifyMemberRole{
			{UUID: IdentityBytes(you), Role: MemberRoleAdministrator},
			{UUID: IdentityBytes(bob), Role: MemberRoleDefault},
			{UUID: IdentityBytes(you), Role: MemberRoleDefault},
			{UUID: IdentityBytes(carol), Role: MemberRoleAdministrator},
		},
	}
	require.Equal(t, []string{
		"You are now an admin.",
		"Bob is no longer an admin.",
		"You are no longer an admin.",
		"Carol is now an admin.",
	}, describe(t, you, change))
}

///
/// Invitations
///

func TestInvitations(t *testing.T) {
	change := editedBy(you)
	change.NewPendingMembers = []DecryptedPendingMember{testPending(bob, you), testPending(carol, you)}
	require.Equal(t, []string{"You invited Bob to the group.", "You invited Carol to the group."}, describe(t, you, change))

	change = editedBy(alice)
	change.NewPendingMembers = []DecryptedPendingMember{testPending(bob, alice), testPending(carol, alice), testPending(dave, alice)}
	require.Equal(t, []string{"Alice invited 3 people to the group."}, describe(t, you, change))

	change = editedBy(alice)
	change.NewPendingMembers = []DecryptedPendingMember{testPending(bob, alice), testPending(you, alice)}
	require.Equal(t, []string{"Alice invited you to the group.", "Alice invited 1 person to the group."}, describe(t, you, change))
}

func TestBulkInvitesMentionOnlyEditor(t *testing.T) {
	p, describer := englishProducer(you)

	change := editedBy(alice)
	change.NewPendingMembers = []DecryptedPendingMember{testPending(bob, alice), testPending(carol, alice), testPending(dave, alice)}
	descs := p.DescribeChanges(change)
	require.Len(t, descs, 1)
	require.Equal(t, []uuid.UUID{alice}, descs[0].Mentioned())

	descs[0].Resolve()
	require.Equal(t, map[uuid.UUID]int{alice: 1}, describer.calls)
}

func TestInvitationsUnknownEditor(t *testing.T) {
	change := DecryptedGroupChange{
		NewPendingMembers: []DecryptedPendingMember{testPending(bob, alice), testPending(you, alice), testPending(carol, alice)},
	}
	require.Equal(t, []string{"Alice invited you to the group.", "2 people were invited to the group."}, describe(t, you, change))

	unknownInviter := testPending(you, UnknownIdentity)
	change = DecryptedGroupChange{NewPendingMembers: []DecryptedPendingMember{unknownInviter}}
	require.Equal(t, []string{"You were invited to the group."}, describe(t, you, change))

	change = DecryptedGroupChange{NewPendingMembers: []DecryptedPendingMember{testPending(bob, alice)}}
	require.Equal(t, []string{"1 person was invited to the group."}, describe(t, you, change))
}

///
/// Revoked invitations
///

func removal(id uuid.UUID) DecryptedPendingMemberRemoval {
	return DecryptedPendingMemberRemoval{UUID: IdentityBytes(id), UUIDCipherText: append([]byte{0xCC}, id[:]...)}
}

func TestRevokedInvitations(t *testing.T) {
	change := editedBy(you)
	change.DeletePendingMembers = []DecryptedPendingMemberRemoval{removal(you)}
	require.Equal(t, []string{"You declined the invitation to the group."}, describe(t, you, change))

	change = editedBy(bob)
	change.DeletePendingMembers = []DecryptedPendingMemberRemoval{removal(bob)}
	require.Equal(t, []string{"Someone declined an invitation to the group."}, describe(t, you, change))

	change = editedBy(you)
	change.DeletePendingMembers = []DecryptedPendingMemberRemoval{removal(bob), removal(carol)}
	require.Equal(t, []string{"You revoked 2 invitations to the group."}, describe(t, you, change))

	change = editedBy(alice)
	change.DeletePendingMembers = []DecryptedPendingMemberRemoval{removal(bob), removal(you)}
	require.Equal(t, []string{
		"Alice revoked your invitation to the group.",
		"Alice revoked 1 invitation to the group.",
	}, describe(t, you, change))
}

func TestRevokedInvitationsUnknownEditor(t *testing.T) {
	change := DecryptedGroupChange{
		Editor:               IdentityBytes(UnknownIdentity),
		DeletePendingMembers: []DecryptedPendingMemberRemoval{removal(bob), removal(you), removal(carol)},
	}
	require.Equal(t, []string{
		"An admin revoked your invitation to the group.",
		"2 invitations to the group were revoked.",
	}, describe(t, you, change))
}

func TestRevokedUnresolvableInvitationIsCounted(t *testing.T) {
	change := editedBy(alice)
	change.DeletePendingMembers = []DecryptedPendingMemberRemoval{{UUID: IdentityBytes(UnknownIdentity), UUIDCipherText: []byte{0xCC}}}
	require.Equal(t, []string{"Alice revoked 1 invitation to the group."}, describe(t, you, change))
}

///
/// Promotions
///

func TestPromotePending(t *testing.T) {
	change := editedBy(you)
	change.PromotePendingMembers = []DecryptedMember{testMember(you, testKey(1)), testMember(bob, testKey(2))}
	require.Equal(t, []string{"You accepted the invitation to the group.", "You added invited member Bob."}, describe(t, you, change))

	change = editedBy(alice)
	change.PromotePendingMembers = []DecryptedMember{testMember(you, testKey(1)), testMember(alice, testKey(3)), testMember(bob, testKey(2))}
	require.Equal(t, []string{
		"Alice added you to the group.",
		"Alice accepted an invitation to the group.",
		"Alice added invited member Bob.",
	}, describe(t, you, change))

	change = DecryptedGroupChange{PromotePendingMembers: []DecryptedMember{testMember(you, testKey(1)), testMember(bob, testKey(2))}}
	require.Equal(t, []string{"You joined the group.", "Bob joined the group."}, describe(t, you, change))
}

///
/// Title, avatar, timer and access
///

func TestNewTitle(t *testing.T) {
	change := editedBy(you)
	change.NewTitle = NewDecryptedString("Hiking")
	p, _ := englishProducer(you)
	descs := p.DescribeChanges(change)
	require.Len(t, descs, 1)
	require.True(t, descs[0].IsStatic())
	require.Equal(t, "You changed the group name to \"Hiking\".", descs[0].Resolve())

	change = editedBy(alice)
	change.NewTitle = NewDecryptedString("Hiking")
	require.Equal(t, []string{"Alice changed the group name to \"Hiking\"."}, describe(t, you, change))

	change = DecryptedGroupChange{NewTitle: NewDecryptedString("")}
	require.Equal(t, []string{"The group name has changed to \"\"."}, describe(t, you, change))
}

func TestNewTitleIsNotInterpreted(t *testing.T) {
	change := editedBy(alice)
	change.NewTitle = NewDecryptedString("100%s %d done")
	require.Equal(t, []string{"Alice changed the group name to \"100%s %d done\"."}, describe(t, you, change))
}

func TestNewAvatar(t *testing.T) {
	change := editedBy(you)
	change.NewAvatar = NewDecryptedString("avatars/1")
	require.Equal(t, []string{"You changed the group avatar."}, describe(t, you, change))

	change = editedBy(alice)
	change.NewAvatar = NewDecryptedString("")
	require.Equal(t, []string{"Alice changed the group avatar."}, describe(t, you, change))

	change = DecryptedGroupChange{NewAvatar: NewDecryptedString("avatars/1")}
	require.Equal(t, []string{"The group avatar has been changed."}, describe(t, you, change))
}

func TestNewTimer(t *testing.T) {
	change := editedBy(you)
	change.NewTimer = &DecryptedTimer{Duration: 30}
	require.Equal(t, []string{"You set the disappearing message timer to 30 seconds."}, describe(t, you, change))

	change = editedBy(alice)
	change.NewTimer = &DecryptedTimer{Duration: secondsPerWeek}
	require.Equal(t, []string{"Alice set the disappearing message timer to 1 week."}, describe(t, you, change))

	change = DecryptedGroupChange{NewTimer: &DecryptedTimer{Duration: 0}}
	require.Equal(t, []string{"The disappearing message timer has been set to off."}, describe(t, you, change))
}

func TestNewTimerCustomHumanizer(t *testing.T) {
	p, _ := englishProducer(you, WithDurationHumanizer(fixedDurations("custom")))

	change := editedBy(you)
	change.NewTimer = &DecryptedTimer{Duration: 42}
	require.Equal(t, []string{"You set the disappearing message timer to custom(42)."}, resolveAll(p.DescribeChanges(change)))
}

func TestNewAccess(t *testing.T) {
	change := editedBy(you)
	change.NewAttributeAccess = AccessAdministrator
	change.NewMemberAccess = AccessMember
	require.Equal(t, []string{
		"You changed who can edit group info to \"Only admins\".",
		"You changed who can edit group membership to \"All members\".",
	}, describe(t, you, change))

	change = editedBy(alice)
	change.NewAttributeAccess = AccessAny
	change.NewMemberAccess = AccessUnsatisfiable
	require.Equal(t, []string{
		"Alice changed who can edit group info to \"Anyone\".",
		"Alice changed who can edit group membership to \"No one\".",
	}, describe(t, you, change))

	change = DecryptedGroupChange{NewMemberAccess: AccessAdministrator}
	require.Equal(t, []string{"Who can edit group membership has been changed to \"Only admins\"."}, describe(t, you, change))
}

///
/// Removals
///

func TestMemberRemovals(t *testing.T) {
	change := editedBy(you)
	change.DeleteMembers = []RemovedMember{{UUID: IdentityBytes(bob)}, {UUID: IdentityBytes(you)}}
	require.Equal(t, []string{"You left the group.", "You removed Bob."}, describe(t, you, change))

	change = editedBy(alice)
	change.DeleteMembers = []RemovedMember{{UUID: IdentityBytes(bob)}, {UUID: IdentityBytes(alice)}, {UUID: IdentityBytes(you)}}
	require.Equal(t, []string{
		"Alice removed you from the group.",
		"Alice removed Bob.",
		"Alice left the group.",
	}, describe(t, you, change))

	change = DecryptedGroupChange{DeleteMembers: []RemovedMember{{UUID: IdentityBytes(bob)}, {UUID: IdentityBytes(you)}}}
	require.Equal(t, []string{"You are no longer in the group.", "Bob is no longer in the group."}, describe(t, you, change))
}

///
/// Whole changes
///

func TestCategoryOrder(t *testing.T) {
	change := editedBy(alice)
	change.DeleteMembers = []RemovedMember{{UUID: IdentityBytes(carol)}}
	change.NewMemberAccess = AccessAdministrator
	change.NewAttributeAccess = AccessMember
	change.NewTimer = &DecryptedTimer{Duration: 60}
	change.NewAvatar = NewDecryptedString("a")
	change.NewTitle = NewDecryptedString("T")
	change.PromotePendingMembers = []DecryptedMember{testMember(dave, testKey(4))}
	change.DeletePendingMembers = []DecryptedPendingMemberRemoval{removal(you)}
	change.NewPendingMembers = []DecryptedPendingMember{testPending(bob, alice)}
	change.ModifyMemberRoles = []DecryptedModifyMemberRole{{UUID: IdentityBytes(bob), Role: MemberRoleAdministrator}}
	change.NewMembers = []DecryptedMember{testMember(bob, testKey(2))}

	require.Equal(t, []string{
		"Alice added Bob.",
		"Alice made Bob an admin.",
		"Alice invited 1 person to the group.",
		"Alice revoked your invitation to the group.",
		"Alice added invited member Dave.",
		"Alice changed the group name to \"T\".",
		"Alice changed the group avatar.",
		"Alice set the disappearing message timer to 1 minute.",
		"Alice changed who can edit group info to \"All members\".",
		"Alice changed who can edit group membership to \"Only admins\".",
		"Alice removed Carol.",
	}, describe(t, you, change))
}

func TestUnknownEditorIsNeverDescribed(t *testing.T) {
	change := DecryptedGroupChange{
		Editor:                IdentityBytes(UnknownIdentity),
		NewMembers:            []DecryptedMember{testMember(bob, testKey(2))},
		DeleteMembers:         []RemovedMember{{UUID: IdentityBytes(carol)}},
		ModifyMemberRoles:     []DecryptedModifyMemberRole{{UUID: IdentityBytes(dave), Role: MemberRoleAdministrator}},
		NewPendingMembers:     []DecryptedPendingMember{testPending(alice, UnknownIdentity)},
		DeletePendingMembers:  []DecryptedPendingMemberRemoval{removal(alice)},
		PromotePendingMembers: []DecryptedMember{testMember(alice, testKey(1))},
		NewTitle:              NewDecryptedString("T"),
		NewAvatar:             NewDecryptedString("a"),
		NewTimer:              &DecryptedTimer{Duration: 5},
		NewAttributeAccess:    AccessAny,
		NewMemberAccess:       AccessAny,
	}

	p, describer := englishProducer(you)
	descs := p.DescribeChanges(change)
	require.Len(t, descs, 11)

	for _, d := range descs {
		require.False(t, d.Mentions(UnknownIdentity))
		d.Resolve()
	}
	require.Zero(t, describer.calls[UnknownIdentity])
}

func TestProducerWithoutSelfMatch(t *testing.T) {
	// A producer for UnknownIdentity never treats anyone as self.
	p, _ := englishProducer(UnknownIdentity)

	change := DecryptedGroupChange{DeleteMembers: []RemovedMember{{UUID: IdentityBytes(UnknownIdentity)}}}
	descs := p.DescribeChanges(change)
	require.Len(t, descs, 1)
	require.NotEqual(t, "You are no longer in the group.", descs[0].Resolve())
}

func TestDescriptionsResolveLater(t *testing.T) {
	describer := newCountingDescriber()
	p := NewChangeDescriptionProducer(phrases.Printer("en-US"), describer, you)

	change := editedBy(alice)
	change.NewMembers = []DecryptedMember{testMember(bob, testKey(2))}
	descs := p.DescribeChanges(change)

	testNames[bob] = "Robert"
	defer func() { testNames[bob] = "Bob" }()

	require.Equal(t, "Alice added Robert.", descs[0].Resolve())
	require.Equal(t, map[uuid.UUID]int{alice: 1, bob: 1}, describer.calls)
}
