package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"ddl/internal/version"
)

// Digest is a SHA-256 content digest.
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// optionsDigest covers the options that change a unit's outcome and
// the module version.
func optionsDigest(opts Options) Digest {
	var buf [8 * 5]byte
	for i, v := range []uint64{
		uint64(diskCacheSchemaVersion),
		uint64(opts.MemCap),      // #nosec G115 -- positive after withDefaults
		uint64(opts.MaxFiles),    // #nosec G115 -- positive after withDefaults
		uint64(opts.MaxIncludes), // #nosec G115 -- positive after withDefaults
		opts.MaxFileLen,
	} {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	h := sha256.New()
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(version.Version))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// UnitKey is the cache key of a unit: its root text, its pretext and the
// options it is processed with. Included files are checked separately.
func UnitKey(content []byte, pretext string, opts Options) Digest {
	return combineDigest(sha256.Sum256(content), sha256.Sum256([]byte(pretext)), optionsDigest(opts.withDefaults()))
}
