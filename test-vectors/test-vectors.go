package vectors

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	groups "github.com/suhasHere/mls-groups"
	"github.com/suhasHere/mls-groups/phrases"
)

func checkDeepEqual(label string, actual, expected interface{}) error {
	if !reflect.DeepEqual(actual, expected) {
		return fmt.Errorf("%s : %v != %v", label, actual, expected)
	}
	return nil
}

// HexBytes is a byte string carried as hex in JSON.
type HexBytes []byte

func (b HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(b))
}

func (b *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	decoded, err := hex.DecodeString(s)
	if err != nil {
		return err
	}

	*b = decoded
	return nil
}

var memberNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

func memberID(i int) uuid.UUID {
	return uuid.NewSHA1(memberNamespace, []byte(fmt.Sprintf("member-%d", i)))
}

func profileKey(i int, generation byte) []byte {
	key := make([]byte, groups.ProfileKeyLength)
	for j := range key {
		key[j] = byte(i)<<4 | generation
	}
	return key
}

func member(i int, key []byte) groups.DecryptedMember {
	return groups.DecryptedMember{
		UUID:       groups.IdentityBytes(memberID(i)),
		Role:       groups.MemberRoleDefault,
		ProfileKey: key,
	}
}

///
/// ProfileKeys
///

type ProfileKeys struct {
	NMembers      uint32              `json:"n_members"`
	ChangeLog     HexBytes            `json:"change_log"`
	ProfileKeys   map[string]HexBytes `json:"profile_keys"`
	Authoritative map[string]HexBytes `json:"authoritative"`
}

// NewProfileKeys builds a change log in which member 0 adds everyone else,
// every odd member then rotates their own key, and member 0 finally
// re-announces the original keys of all members.
func NewProfileKeys(nMembers uint32) (ProfileKeys, error) {
	n := int(nMembers)
	if n < 2 {
		return ProfileKeys{}, fmt.Errorf("vectors: need at least two members, got %d", n)
	}

	founder := groups.IdentityBytes(memberID(0))

	add := groups.DecryptedGroupChange{Editor: founder, Revision: 1}
	for i := 1; i < n; i++ {
		add.NewMembers = append(add.NewMembers, member(i, profileKey(i, 0)))
	}
	changes := []groups.DecryptedGroupChange{add}

	revision := uint32(2)
	for i := 1; i < n; i += 2 {
		changes = append(changes, groups.DecryptedGroupChange{
			Editor:              groups.IdentityBytes(memberID(i)),
			Revision:            revision,
			ModifiedProfileKeys: []groups.DecryptedMember{member(i, profileKey(i, 1))},
		})
		revision++
	}

	reannounce := groups.DecryptedGroupChange{Editor: founder, Revision: revision}
	for i := 1; i < n; i++ {
		reannounce.ModifiedProfileKeys = append(reannounce.ModifiedProfileKeys, member(i, profileKey(i, 0)))
	}
	changes = append(changes, reannounce)

	log, err := groups.EncodeChangeLog(changes)
	if err != nil {
		return ProfileKeys{}, err
	}

	vec := ProfileKeys{
		NMembers:      nMembers,
		ChangeLog:     log,
		ProfileKeys:   map[string]HexBytes{},
		Authoritative: map[string]HexBytes{},
	}

	for i := 1; i < n; i++ {
		id := memberID(i).String()
		if i%2 == 1 {
			vec.Authoritative[id] = profileKey(i, 1)
		} else {
			vec.ProfileKeys[id] = profileKey(i, 0)
		}
	}

	return vec, nil
}

func (vec ProfileKeys) Verify() error {
	changes, err := groups.DecodeChangeLog(vec.ChangeLog)
	if err != nil {
		return err
	}

	set := groups.NewProfileKeySet()
	for _, change := range changes {
		set.AddKeysFromGroupChange(change)
	}

	err = checkDeepEqual("Profile keys", hexKeys(set.ProfileKeys()), normalize(vec.ProfileKeys))
	if err != nil {
		return err
	}

	return checkDeepEqual("Authoritative keys", hexKeys(set.AuthoritativeProfileKeys()), normalize(vec.Authoritative))
}

func hexKeys(keys map[uuid.UUID]groups.ProfileKey) map[string]string {
	out := map[string]string{}
	for id, key := range keys {
		out[id.String()] = hex.EncodeToString(key[:])
	}
	return out
}

func normalize(keys map[string]HexBytes) map[string]string {
	out := map[string]string{}
	for id, key := range keys {
		out[id] = hex.EncodeToString(key)
	}
	return out
}

///
/// Descriptions
///

type DescriptionCase struct {
	Change HexBytes `json:"change"`
	Lines  []string `json:"lines"`
}

type Descriptions struct {
	Locale string            `json:"locale"`
	Self   string            `json:"self"`
	Names  map[string]string `json:"names"`
	Cases  []DescriptionCase `json:"cases"`
}

func descriptionChanges() []groups.DecryptedGroupChange {
	self := groups.IdentityBytes(memberID(0))
	alice := groups.IdentityBytes(memberID(1))
	bob := groups.IdentityBytes(memberID(2))
	unknown := groups.IdentityBytes(groups.UnknownIdentity)

	pending := func(i int) groups.DecryptedPendingMember {
		return groups.DecryptedPendingMember{
			UUID:        groups.IdentityBytes(memberID(i)),
			Role:        groups.MemberRoleDefault,
			AddedByUUID: alice,
		}
	}

	return []groups.DecryptedGroupChange{
		{Editor: alice, Revision: 1, NewMembers: []groups.DecryptedMember{member(0, profileKey(0, 0)), member(2, profileKey(2, 0))}},
		{Editor: self, Revision: 2, NewTitle: groups.NewDecryptedString("Weekend plans")},
		{Editor: alice, Revision: 3, NewPendingMembers: []groups.DecryptedPendingMember{pending(3), pending(4), pending(5)}},
		{Editor: unknown, Revision: 4, NewTimer: &groups.DecryptedTimer{Duration: 3600}},
		{Editor: bob, Revision: 5, ModifyMemberRoles: []groups.DecryptedModifyMemberRole{{UUID: self, Role: groups.MemberRoleAdministrator}}},
		{Editor: self, Revision: 6, NewAttributeAccess: groups.AccessAdministrator, DeleteMembers: []groups.RemovedMember{{UUID: bob}}},
		{Editor: alice, Revision: 7},
		{Revision: 8, DeleteMembers: []groups.RemovedMember{{UUID: self}}},
	}
}

// NewDescriptions renders a fixed series of changes in the given locale.
func NewDescriptions(locale string) (Descriptions, error) {
	vec := Descriptions{
		Locale: locale,
		Self:   memberID(0).String(),
		Names: map[string]string{
			memberID(1).String(): "Alice",
			memberID(2).String(): "Bob",
		},
	}

	producer, err := vec.producer()
	if err != nil {
		return Descriptions{}, err
	}

	for _, change := range descriptionChanges() {
		data, err := groups.MarshalGroupChange(change)
		if err != nil {
			return Descriptions{}, err
		}

		vec.Cases = append(vec.Cases, DescriptionCase{
			Change: data,
			Lines:  resolveAll(producer.DescribeChanges(change)),
		})
	}

	return vec, nil
}

func (vec Descriptions) producer() (*groups.ChangeDescriptionProducer, error) {
	self, err := uuid.Parse(vec.Self)
	if err != nil {
		return nil, err
	}

	describer := groups.MemberDescriberFunc(func(id uuid.UUID) string {
		if name, ok := vec.Names[id.String()]; ok {
			return name
		}
		return "Unknown"
	})

	return groups.NewChangeDescriptionProducer(phrases.Printer(vec.Locale), describer, self), nil
}

func (vec Descriptions) Verify() error {
	producer, err := vec.producer()
	if err != nil {
		return err
	}

	for i, c := range vec.Cases {
		change, err := groups.UnmarshalGroupChange(c.Change)
		if err != nil {
			return err
		}

		label := fmt.Sprintf("Case[%d]", i)
		err = checkDeepEqual(label, resolveAll(producer.DescribeChanges(change)), c.Lines)
		if err != nil {
			return err
		}
	}

	return nil
}

func resolveAll(descs []groups.UpdateDescription) []string {
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.Resolve()
	}
	return out
}
