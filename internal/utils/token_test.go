package utils

import (
	"strings"
	"testing"
)

func TestGenerateAccessToken_Format(t *testing.T) {
	token := GenerateAccessToken()

	if len(token) != tokenLength {
		t.Errorf("Expected %d-character token, got %d: %q", tokenLength, len(token), token)
	}

	for _, r := range token {
		if !strings.ContainsRune(tokenAlphabet, r) {
			t.Errorf("Token contains character outside alphabet: %q in %q", r, token)
		}
	}
}

func TestGenerateAccessToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := GenerateAccessToken()
		if seen[token] {
			t.Fatalf("Duplicate token generated: %q", token)
		}
		seen[token] = true
	}
}
