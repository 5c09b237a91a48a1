package ir

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/minio/highwayhash"
)

// highwayKey matches the fixed key the teacher's inspector/graph package
// uses for its own HighwayHash instance (grounded on
// T:inspector/graph/hash.go) — reused here for the high-frequency
// NodeIdentifier hashing path, where speed dominates over cross-build
// stability.
var highwayKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// SourceHash returns the hex-encoded MD5 of printed, per spec.md §3
// "Source hash": "For each named definition, the hex-encoded MD5 of the
// printed AST; used to detect 'changed' definitions across builds." MD5 is
// named explicitly by the spec for this slot — stable across builds and
// processes, unlike HighwayHash's process-local-friendly but unspecified
// digest, which is reserved for identity.Hash instead.
func SourceHash(printed string) string {
	sum := md5.Sum([]byte(printed))
	return hex.EncodeToString(sum[:])
}

// FastHash64 computes a HighwayHash-64 digest of data, used by the
// identity package for NodeIdentifier hashing where speed, not
// cross-process stability, is what matters.
func FastHash64(data []byte) (uint64, error) {
	h, err := highwayhash.New64(highwayKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
