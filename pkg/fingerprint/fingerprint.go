// Package fingerprint computes the short content hashes used to name
// compiled assets.
package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/zeebo/blake3"
)

// Length is the number of hex characters kept from the digest
const Length = 8

// Algorithm names accepted by assets.fingerprint
const (
	SHA1   = "sha1"
	BLAKE3 = "blake3"
)

// Hasher fingerprints content encoded in a charset
type Hasher struct {
	algorithm string
	charset   Charset
}

// New returns a Hasher for the given algorithm and charset
func New(algorithm, charset string) (*Hasher, error) {
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	if algorithm == "" {
		algorithm = SHA1
	}
	if algorithm != SHA1 && algorithm != BLAKE3 {
		return nil, errors.Newf(errors.ErrConfigInvalid, "unknown fingerprint algorithm %q", algorithm)
	}
	cs, err := LookupCharset(charset)
	if err != nil {
		return nil, err
	}
	return &Hasher{algorithm: algorithm, charset: cs}, nil
}

// Charset returns the charset content is encoded with before hashing
func (h *Hasher) Charset() Charset { return h.charset }

// Sum returns the first Length lowercase hex characters of the digest of
// content encoded in the hasher's charset.
func (h *Hasher) Sum(content string) (string, error) {
	b, err := h.charset.Encode(content)
	if err != nil {
		return "", err
	}
	return h.SumBytes(b), nil
}

// SumBytes fingerprints already encoded bytes
func (h *Hasher) SumBytes(b []byte) string {
	var d hash.Hash
	if h.algorithm == BLAKE3 {
		d = blake3.New()
	} else {
		d = sha1.New()
	}
	d.Write(b)
	return hex.EncodeToString(d.Sum(nil))[:Length]
}

// Sum is the default fingerprint: sha1 over content encoded in charset
func Sum(content, charset string) (string, error) {
	h, err := New(SHA1, charset)
	if err != nil {
		return "", err
	}
	return h.Sum(content)
}
