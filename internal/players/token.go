package players

import (
	"encoding/hex"
	"fmt"
	"io"
)

// tokenBytes is 16 bytes (two 64-bit words), hex-encoded to the 32-character
// credential format spec.md §6 requires.
const tokenBytes = 16

// generateToken draws tokenBytes from source and lowercase-hex encodes them.
// source is crypto/rand.Reader in production and a seeded math/rand.Rand in
// tests (spec.md §9: "two independent 64-bit sources produce tokens").
func generateToken(source io.Reader) (string, error) {
	var buf [tokenBytes]byte
	if _, err := io.ReadFull(source, buf[:]); err != nil {
		return "", fmt.Errorf("players: read random token bytes: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
