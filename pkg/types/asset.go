package types

import (
	"bytes"
	"io"
	"time"
)

// Asset is a static resource as seen by the serving layer
type Asset interface {
	// Path is the request path, e.g. "/js/app.js"
	Path() string
	// Name is the file name without directories
	Name() string
	// ContentType is the MIME type
	ContentType() string
	// Length is the content length in bytes, -1 when unknown
	Length() int64
	// LastModified is the modification time, zero when unknown
	LastModified() time.Time
	// Open returns the content
	Open() (io.ReadCloser, error)
}

// MemoryAsset holds transformed content in memory while keeping the
// metadata of the asset it was derived from.
type MemoryAsset struct {
	source  Asset
	content []byte
}

// NewMemoryAsset wraps content, keeping source's metadata
func NewMemoryAsset(source Asset, content []byte) *MemoryAsset {
	return &MemoryAsset{source: source, content: content}
}

func (a *MemoryAsset) Path() string            { return a.source.Path() }
func (a *MemoryAsset) Name() string            { return a.source.Name() }
func (a *MemoryAsset) ContentType() string     { return a.source.ContentType() }
func (a *MemoryAsset) Length() int64           { return int64(len(a.content)) }
func (a *MemoryAsset) LastModified() time.Time { return a.source.LastModified() }

// Bytes returns the transformed content
func (a *MemoryAsset) Bytes() []byte { return a.content }

// Open returns the transformed content
func (a *MemoryAsset) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(a.content)), nil
}
