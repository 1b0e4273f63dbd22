package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// inviteCodeBytes gives invite codes 128 bits of entropy.
const inviteCodeBytes = 16

// NewInviteCode returns a random URL-safe invite code of 22 characters.
func NewInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
