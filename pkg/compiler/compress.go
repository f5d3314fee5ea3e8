package compiler

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Encoding is a precompression written next to each output
type Encoding string

const (
	Gzip Encoding = "gzip"
	Zstd Encoding = "zstd"
)

// zstd.Encoder is safe for concurrent EncodeAll calls
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		panic("compiler: zstd encoder initialization failed: " + err.Error())
	}
}

// ParseEncodings validates the assets.compress list
func ParseEncodings(names []string) ([]Encoding, error) {
	out := make([]Encoding, 0, len(names))
	seen := make(map[Encoding]bool, len(names))
	for _, name := range names {
		e := Encoding(strings.ToLower(strings.TrimSpace(name)))
		switch e {
		case Gzip, Zstd:
		case "gz":
			e = Gzip
		case "zst":
			e = Zstd
		default:
			return nil, errors.Newf(errors.ErrConfigInvalid, "unknown compression %q", name)
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out, nil
}

// Ext is the suffix appended to the compressed sibling
func (e Encoding) Ext() string {
	if e == Zstd {
		return ".zst"
	}
	return ".gz"
}

// Compress returns data compressed with e
func (e Encoding) Compress(data []byte) ([]byte, error) {
	if e == Zstd {
		return zstdEncoder.EncodeAll(data, nil), nil
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
