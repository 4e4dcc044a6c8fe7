// Package shared provides small utilities used by both client and server,
// such as random identifier generation.
package shared

import (
	"crypto/rand"
	"encoding/hex"
)

// ShareCodeLength is the length, in characters, of a wall share code.
// Codes are hex-encoded so they are URL-safe without escaping.
const ShareCodeLength = 10

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes to generate before
// encoding them as a hexadecimal string, so the final string length is twice
// the size. It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MakeShareCode mints an opaque, URL-safe share code for a wall.
// Uniqueness is not guaranteed here; callers rely on the walls table's
// unique constraint and retry on conflict.
func MakeShareCode() (string, error) {
	return MakeRandHexString(ShareCodeLength / 2)
}
