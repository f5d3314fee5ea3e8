package compiler

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Output is one file written by a build
type Output struct {
	// Path is the written file, under the output directory
	Path string `json:"path" yaml:"path"`
	// Size is the length in bytes
	Size int64 `json:"size" yaml:"size"`
	// Fingerprint is the content hash embedded in the file name
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	// Media is "script" or "style"
	Media string `json:"media" yaml:"media"`
	// Sources are the compiled members, in concatenation order
	Sources []string `json:"sources" yaml:"sources"`
	// Compressed lists precompressed siblings of Path
	Compressed []string `json:"compressed,omitempty" yaml:"compressed,omitempty"`
}

// Manifest maps fileset names to the files a build produced. It is
// created by Build and never retained by the compiler.
type Manifest struct {
	Env   string
	Dir   string
	order []string
	files map[string][]Output
}

func newManifest(env, dir string) *Manifest {
	return &Manifest{Env: env, Dir: dir, files: make(map[string][]Output)}
}

func (m *Manifest) add(fileset string, out Output) {
	if _, ok := m.files[fileset]; !ok {
		m.order = append(m.order, fileset)
	}
	m.files[fileset] = append(m.files[fileset], out)
}

// Names lists filesets with at least one output, in build order
func (m *Manifest) Names() []string {
	return append([]string(nil), m.order...)
}

// Get returns the outputs of fileset
func (m *Manifest) Get(fileset string) []Output {
	return append([]Output(nil), m.files[fileset]...)
}

// Files returns every output in build order
func (m *Manifest) Files() []Output {
	var out []Output
	for _, name := range m.order {
		out = append(out, m.files[name]...)
	}
	return out
}

// Len is the number of outputs
func (m *Manifest) Len() int {
	n := 0
	for _, files := range m.files {
		n += len(files)
	}
	return n
}

type manifestDocument struct {
	Env      string              `json:"env" yaml:"env"`
	Dir      string              `json:"dir" yaml:"dir"`
	Filesets map[string][]Output `json:"filesets" yaml:"filesets"`
}

// Marshal renders the manifest as "yaml" or "json". Output paths are
// written relative to the output directory.
func (m *Manifest) Marshal(format string) ([]byte, error) {
	doc := manifestDocument{Env: m.Env, Dir: m.Dir, Filesets: make(map[string][]Output, len(m.files))}
	for name, files := range m.files {
		rel := make([]Output, len(files))
		for i, f := range files {
			rel[i] = f
			rel[i].Path = m.Relative(f.Path)
			rel[i].Compressed = make([]string, len(f.Compressed))
			for j, c := range f.Compressed {
				rel[i].Compressed[j] = m.Relative(c)
			}
			if len(rel[i].Compressed) == 0 {
				rel[i].Compressed = nil
			}
		}
		doc.Filesets[name] = rel
	}

	switch strings.ToLower(format) {
	case "yaml", "yml", "":
		return yaml.Marshal(doc)
	case "json":
		return json.MarshalIndent(doc, "", "  ")
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown manifest format %q", format)
}

// FormatFor picks the manifest format from a file name
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

// Relative returns p relative to the output directory, slash separated
func (m *Manifest) Relative(p string) string {
	if m.Dir == "" {
		return filepath.ToSlash(p)
	}
	rel, err := filepath.Rel(m.Dir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
