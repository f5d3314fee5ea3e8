// Package templatecache implements an aggregator that bundles HTML
// templates into one script registering them by relative path:
//
//	(function(t) {
//	  t["user/card.html"] = "<div>...</div>";
//	})(window["templates"] = window["templates"] || {});
package templatecache

import (
	"bytes"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/paths"
	"github.com/arthur-debert/assetpack/pkg/processor"
	"github.com/spf13/afero"
)

// Options and their defaults
const (
	DirKey      = "dir"
	OutputKey   = "output"
	ExtKey      = "ext"
	VariableKey = "variable"

	DefaultDir      = "/templates"
	DefaultOutput   = "/js/templates.js"
	DefaultExt      = ".html"
	DefaultVariable = "templates"
)

// TemplateCache compiles a directory of templates into a script
type TemplateCache struct {
	processor.Base
	dir      string
	output   string
	ext      string
	variable string
}

// New is the aggregator factory
func New(name string, options processor.Options) (processor.Aggregator, error) {
	base, err := processor.NewBase(name, options)
	if err != nil {
		return nil, err
	}
	ext := options.String(ExtKey, DefaultExt)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	tc := &TemplateCache{
		Base:     base,
		dir:      paths.Normalize(options.String(DirKey, DefaultDir)),
		output:   paths.Normalize(options.String(OutputKey, DefaultOutput)),
		ext:      ext,
		variable: options.String(VariableKey, DefaultVariable),
	}
	if paths.Ext(tc.output) != "js" {
		return nil, errors.Newf(errors.ErrConfigInvalid, "%s.%s must name a .js file", name, OutputKey)
	}
	return tc, nil
}

// Fileset is the generated script
func (tc *TemplateCache) Fileset() []string {
	return []string{tc.output}
}

// Run writes the script. A missing template directory yields an empty
// registration.
func (tc *TemplateCache) Run(rt processor.Runtime) error {
	logger := logging.GetLogger("template-cache")
	root := rt.Path(tc.dir)

	var names []string
	templates := make(map[string]string)
	exists, err := afero.DirExists(rt.FS, root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "cannot stat %s", root)
	}
	if !exists {
		logger.Debug().Str("dir", tc.dir).Msg("no template directory")
	} else {
		err = afero.Walk(rt.FS, root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.EqualFold(filepath.Ext(p), tc.ext) {
				return nil
			}
			raw, err := afero.ReadFile(rt.FS, p)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileRead, "cannot read template %s", p)
			}
			content, err := rt.Charset.Decode(raw)
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			key := filepath.ToSlash(rel)
			names = append(names, key)
			templates[key] = content
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, errors.ErrAggregatorRun, "%s failed", tc.Name()).
				WithDetail("aggregator", tc.Name())
		}
	}

	script, err := tc.render(names, templates)
	if err != nil {
		return err
	}
	encoded, err := rt.Charset.Encode(script)
	if err != nil {
		return err
	}

	target := rt.Path(tc.output)
	if err := rt.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(target))
	}
	if err := afero.WriteFile(rt.FS, target, encoded, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", target)
	}

	logger.Debug().
		Str("output", tc.output).
		Int("templates", len(names)).
		Msg("template cache written")
	return nil
}

func (tc *TemplateCache) render(names []string, templates map[string]string) (string, error) {
	variable, err := quote(tc.variable)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("(function(t) {\n")
	for _, name := range names {
		key, err := quote(path.Clean(name))
		if err != nil {
			return "", err
		}
		value, err := quote(templates[name])
		if err != nil {
			return "", err
		}
		b.WriteString("  t[")
		b.Write(key)
		b.WriteString("] = ")
		b.Write(value)
		b.WriteString(";\n")
	}
	b.WriteString("})(window[")
	b.Write(variable)
	b.WriteString("] = window[")
	b.Write(variable)
	b.WriteString("] || {});\n")
	return b.String(), nil
}

// quote renders s as a JavaScript string literal
func quote(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
