package utils

import (
	"crypto/rand"
)

const (
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	tokenLength   = 24
)

// GenerateAccessToken returns a 24-character lowercase-alphanumeric token.
// 36^24 possibilities make collisions negligible; the unique constraint on
// inventories.token is the backstop, with no silent retry.
func GenerateAccessToken() string {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails if the OS entropy source is broken
		panic(err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf)
}
