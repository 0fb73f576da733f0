// Package cryptox holds the hashing primitives of the archive: a slow salted
// KDF for account passwords and a fast digest for artefact checksums.
// The two are never interchanged.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/musicarchive/internal/common"
	"golang.org/x/crypto/argon2"
)

// KDFParams configures argon2id password derivation.
type KDFParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
}

// DefaultKDFParams follows the argon2id recommendation of RFC 9106 for
// memory-constrained environments.
var DefaultKDFParams = KDFParams{Time: 3, MemoryKiB: 64 * 1024, Threads: 4, KeyLen: 32}

// Validate reports whether p can be passed to argon2.IDKey.
func (p KDFParams) Validate() error {
	if p.Time == 0 || p.Threads == 0 || p.KeyLen == 0 {
		return fmt.Errorf("%w: kdf time, threads and key length must be positive", common.ErrorValidation)
	}
	if p.MemoryKiB < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: kdf memory must be at least 8 KiB per thread", common.ErrorValidation)
	}
	return nil
}

// NewSalt returns n random bytes. n below common.MinSaltLength is rejected.
func NewSalt(n int) ([]byte, error) {
	if n < common.MinSaltLength {
		return nil, fmt.Errorf("%w: salt length %d is below %d bytes", common.ErrorValidation, n, common.MinSaltLength)
	}
	return common.GenerateRandByteArray(n), nil
}

// DerivePasswordHash runs argon2id over password and salt.
func DerivePasswordHash(password, salt []byte, p KDFParams) []byte {
	return argon2.IDKey(password, salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)
}

// VerifyPassword recomputes the hash for password and compares it with the
// stored one in constant time.
func VerifyPassword(password, salt, stored []byte, p KDFParams) bool {
	candidate := DerivePasswordHash(password, salt, p)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, stored) == 1
}

// Checksum returns the lowercase hex SHA-256 of payload.
func Checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum recomputes the checksum of payload and reports whether it
// equals stored. The computed value is returned for diagnostics.
func VerifyChecksum(payload []byte, stored string) (string, bool) {
	computed := Checksum(payload)
	return computed, subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}
