package fingerprint

import (
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Charset converts asset bytes to and from UTF-8 text
type Charset struct {
	name string
	enc  encoding.Encoding
}

// LookupCharset resolves a charset name ("UTF-8", "ISO-8859-1", "windows-1252", ...)
func LookupCharset(name string) (Charset, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return Charset{name: "UTF-8", enc: unicode.UTF8}, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return Charset{}, errors.Wrapf(err, errors.ErrCharset, "unknown charset %q", name)
	}
	return Charset{name: name, enc: enc}, nil
}

// Name returns the charset name as configured
func (c Charset) Name() string { return c.name }

// Decode converts raw bytes in this charset to a Go string
func (c Charset) Decode(b []byte) (string, error) {
	if c.enc == nil || c.enc == unicode.UTF8 {
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrCharset, "cannot decode %s content", c.name)
	}
	return string(out), nil
}

// Encode converts a Go string to bytes in this charset
func (c Charset) Encode(s string) ([]byte, error) {
	if c.enc == nil || c.enc == unicode.UTF8 {
		return []byte(s), nil
	}
	out, err := c.enc.NewEncoder().String(s)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCharset, "cannot encode content as %s", c.name)
	}
	return []byte(out), nil
}
