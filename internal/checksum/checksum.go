// Package checksum fingerprints uploaded content.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Stream hashes r without retaining it and returns the digest and the
// number of bytes read. At most limit+1 bytes are consumed so oversized
// input is detectable without draining it; limit <= 0 means no limit.
func Stream(r io.Reader, limit int64) (string, int64, error) {
	h := sha256.New()
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(h, src)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
