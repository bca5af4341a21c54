package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Key derives a short stable composite key from the given parts.
// Used for agenda items whose source carries no durable identity
// (e.g. calendar events), so checked flags survive reloads.
func Key(parts ...string) string {
	return Sum([]byte(strings.Join(parts, "\x1f")))[:12]
}
