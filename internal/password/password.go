package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for every new digest. Digests created
// with a different cost still verify, since the cost is embedded in the digest.
const Cost = 12

// BcryptHasher hashes and verifies passwords with bcrypt. The salt is
// generated per call and embedded in the digest; comparison is constant-time.
type BcryptHasher struct {
	cost int
}

// New returns a hasher with the default work factor.
func New() *BcryptHasher {
	return &BcryptHasher{cost: Cost}
}

// Hash derives a salted one-way digest from the plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
