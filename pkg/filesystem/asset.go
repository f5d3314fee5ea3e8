package filesystem

import (
	"io"
	"mime"
	"path"
	"time"

	"github.com/arthur-debert/assetpack/pkg/paths"
)

// FileAsset is an asset backed by a file under a base directory
type FileAsset struct {
	fs      *FS
	path    string
	file    string
	size    int64
	modTime time.Time
}

// Asset resolves the request path p against basedir. It fails with
// FILE_NOT_FOUND when no such file exists.
func (f *FS) Asset(basedir, p string) (*FileAsset, error) {
	p = paths.Normalize(p)
	file := paths.Join(basedir, p)
	info, err := f.Stat(file)
	if err != nil {
		return nil, err
	}
	return &FileAsset{fs: f, path: p, file: file, size: info.Size(), modTime: info.ModTime()}, nil
}

// Path is the request path
func (a *FileAsset) Path() string { return a.path }

// Name is the base name
func (a *FileAsset) Name() string { return path.Base(a.path) }

// File is the location on the filesystem
func (a *FileAsset) File() string { return a.file }

// ContentType guesses the MIME type from the extension
func (a *FileAsset) ContentType() string {
	if t := mime.TypeByExtension(path.Ext(a.path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Length is the file size
func (a *FileAsset) Length() int64 { return a.size }

// LastModified is the file modification time
func (a *FileAsset) LastModified() time.Time { return a.modTime }

// Open opens the file for reading
func (a *FileAsset) Open() (io.ReadCloser, error) {
	return a.fs.fs.Open(a.file)
}
