package account

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenBytes is the amount of randomness behind each bearer token.
const TokenBytes = 128

// TokenGenerator produces opaque bearer tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// RandomTokenGenerator hex-encodes Size bytes from crypto/rand
// (TokenBytes when Size is zero).
type RandomTokenGenerator struct{ Size int }

func (g RandomTokenGenerator) Generate() (string, error) {
	size := g.Size
	if size <= 0 {
		size = TokenBytes
	}
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
