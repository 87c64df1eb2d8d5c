package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
)

// NotBlank returns true if a string is not empty or contains only whitespace.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MaxRunes returns true if a string is less than or equal to a maximum number of n
func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// In returns true if a value is in a list of values.
func In[T comparable](value T, list ...T) bool {
	for i := range list {
		if value == list[i] {
			return true
		}
	}
	return false
}

// IsPublicKey returns true if a string is a base58 encoded, non-zero Solana public key.
func IsPublicKey(value string) bool {
	key, err := solana.PublicKeyFromBase58(value)
	return err == nil && !key.IsZero()
}

// IsSignature returns true if a string is a base58 encoded transaction signature.
func IsSignature(value string) bool {
	sig, err := solana.SignatureFromBase58(value)
	return err == nil && !sig.IsZero()
}
