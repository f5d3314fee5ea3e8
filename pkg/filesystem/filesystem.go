package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/fingerprint"
	"github.com/spf13/afero"
)

// FS reads and writes asset text in one charset
type FS struct {
	fs      afero.Fs
	charset fingerprint.Charset
}

// New wraps an afero filesystem
func New(fs afero.Fs, charset fingerprint.Charset) *FS {
	return &FS{fs: fs, charset: charset}
}

// NewOS uses the OS filesystem
func NewOS(charset fingerprint.Charset) *FS {
	return New(afero.NewOsFs(), charset)
}

// NewMemory uses an empty in-memory filesystem
func NewMemory(charset fingerprint.Charset) *FS {
	return New(afero.NewMemMapFs(), charset)
}

// Afero returns the underlying filesystem
func (f *FS) Afero() afero.Fs { return f.fs }

// Charset returns the charset text is read and written in
func (f *FS) Charset() fingerprint.Charset { return f.charset }

// Stat describes a file
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	info, err := f.fs.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "file not found: %s", name).
				WithDetail("path", name)
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot stat %s", name)
	}
	return info, nil
}

// ReadBytes returns the raw content of a regular file
func (f *FS) ReadBytes(name string) ([]byte, error) {
	info, err := f.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.ErrFileRead, "%s is a directory", name).
			WithDetail("path", name)
	}
	b, err := afero.ReadFile(f.fs, name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", name)
	}
	return b, nil
}

// ReadText returns the decoded content of a file
func (f *FS) ReadText(name string) (string, error) {
	b, err := f.ReadBytes(name)
	if err != nil {
		return "", err
	}
	return f.charset.Decode(b)
}

// WriteBytes writes content, creating parent directories
func (f *FS) WriteBytes(name string, content []byte) error {
	dir := filepath.Dir(name)
	if err := f.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
	}
	if err := afero.WriteFile(f.fs, name, content, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", name)
	}
	return nil
}

// WriteText encodes content and writes it
func (f *FS) WriteText(name, content string) error {
	b, err := f.charset.Encode(content)
	if err != nil {
		return err
	}
	return f.WriteBytes(name, b)
}
