package payment

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
	"strings"
)

// Hasher computes the gateway checksum. New is the digest constructor; the
// protocol steps do not depend on which one is used.
type Hasher struct {
	New func() hash.Hash
}

// LegacyHasher is the MD5 variant the gateway currently expects.
var LegacyHasher = Hasher{New: md5.New}

func NewHasher(fn func() hash.Hash) Hasher {
	return Hasher{New: fn}
}

// Sum returns UPPER(hex(H(fields... + UPPER(hex(H(secret)))))).
// Fields are concatenated in the given order with no separators.
func (h Hasher) Sum(secret string, fields ...string) string {
	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(f)
	}
	sb.WriteString(h.hexUpper(secret))
	return h.hexUpper(sb.String())
}

func (h Hasher) hexUpper(s string) string {
	newFn := h.New
	if newFn == nil {
		newFn = md5.New
	}
	d := newFn()
	d.Write([]byte(s))
	return strings.ToUpper(hex.EncodeToString(d.Sum(nil)))
}
