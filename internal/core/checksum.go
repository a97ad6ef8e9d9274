package core

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// Algorithm names a checksum function.
type Algorithm string

const (
	MD5     Algorithm = "md5"
	SHA256  Algorithm = "sha256"
	BLAKE2b Algorithm = "blake2b"
)

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil
	case SHA256:
		return sha256.New(), nil
	case BLAKE2b:
		return blake2b.New256(nil)
	default:
		return nil, fmt.Errorf("unknown checksum algorithm %q", a)
	}
}

// Checksum returns the lowercase hex digest of r.
func Checksum(r io.Reader, algo Algorithm) (string, error) {
	h, err := algo.newHash()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumFile hashes the file at path and returns its digest and the number
// of bytes read.
func ChecksumFile(path string, algo Algorithm) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	cr := &countingReader{r: f}
	sum, err := Checksum(cr, algo)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash file %s: %w", path, err)
	}
	return sum, cr.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
