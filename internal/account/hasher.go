package account

import (
	"golang.org/x/crypto/bcrypt"
)

// SecretHasher defines the minimal hashing interface so the algorithm can
// be swapped (argon2, scrypt) without touching the service.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(hash, secret string) bool
}

// BcryptHasher implementation. The salt is generated per call and embedded
// in the output, so Verify needs only the stored hash.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(secret string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify compares in constant time. A malformed hash reports false.
func (b BcryptHasher) Verify(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
