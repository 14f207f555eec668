package glprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// Digester computes a cryptographic digest over the readback buffer. It is
// the only step of Generate that may block on the host.
type Digester interface {
	Digest(ctx context.Context, data []byte) ([]byte, error)
}

// DigesterFunc adapts a function to the Digester interface.
type DigesterFunc func(ctx context.Context, data []byte) ([]byte, error)

// Digest calls f(ctx, data).
func (f DigesterFunc) Digest(ctx context.Context, data []byte) ([]byte, error) {
	return f(ctx, data)
}

// SHA256 is the default digester. It hashes in-process and ignores ctx.
var SHA256 Digester = DigesterFunc(func(_ context.Context, data []byte) ([]byte, error) {
	sum := sha256.Sum256(data)
	return sum[:], nil
})

// FingerprintLength is the length of a fingerprint string.
const FingerprintLength = sha256.Size * 2

var fingerprintPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// IsFingerprint reports whether s has the shape of a fingerprint:
// 64 lowercase hexadecimal characters.
func IsFingerprint(s string) bool {
	return fingerprintPattern.MatchString(s)
}

// encodeDigest renders the digest as lowercase hex, two characters per byte.
func encodeDigest(sum []byte) string {
	return hex.EncodeToString(sum)
}
