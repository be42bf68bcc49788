package groups

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const ProfileKeyLength = 32

// fingerprintLength bytes of BLAKE2b output are enough to tell keys apart in
// logs without revealing them.
const fingerprintLength = 8

type ProfileKey [ProfileKeyLength]byte

func ProfileKeyFromBytes(data []byte) (ProfileKey, error) {
	var key ProfileKey
	if len(data) != ProfileKeyLength {
		return key, fmt.Errorf("groups.profile_key: invalid length %d, expected %d", len(data), ProfileKeyLength)
	}

	copy(key[:], data)
	return key, nil
}

func (k ProfileKey) Bytes() []byte {
	out := make([]byte, ProfileKeyLength)
	copy(out, k[:])
	return out
}

// Fingerprint returns a short, non-reversible identifier for the key.
func (k ProfileKey) Fingerprint() string {
	h, err := blake2b.New(fingerprintLength, nil)
	if err != nil {
		panic(fmt.Errorf("groups.profile_key: blake2b init failure %v", err))
	}

	h.Write(k[:])
	return hex.EncodeToString(h.Sum(nil))
}
