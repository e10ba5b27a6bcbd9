package serialization

import (
	"crypto/sha256"
	"hash"
	"io"
)

// digest accumulates the SHA-256 of everything written to or read from a
// stream before the trailer.
type digest struct {
	h hash.Hash
}

func newDigest() *digest {
	return &digest{h: sha256.New()}
}

// writer returns w teed into the digest.
func (d *digest) writer(w io.Writer) io.Writer {
	return io.MultiWriter(w, d.h)
}

// reader returns r teed into the digest.
func (d *digest) reader(r io.Reader) io.Reader {
	return io.TeeReader(r, d.h)
}

func (d *digest) sum() [ChecksumSize]byte {
	var s [ChecksumSize]byte
	copy(s[:], d.h.Sum(nil))
	return s
}

// ValidateChecksum compares a computed checksum against the stored trailer.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored [ChecksumSize]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}
