package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"
)

// Configuration paths consumed by the compiler
const (
	AssetsKey      = "assets"
	FilesetKey     = "assets.fileset"
	PipelineKey    = "assets.pipeline"
	AggregatorsKey = "assets.aggregators"
	CharsetKey     = "assets.charset"
)

// Settings is the typed view of the assets block
type Settings struct {
	Basedir     string   `koanf:"basedir"`
	Charset     string   `koanf:"charset"`
	Scripts     []string `koanf:"scripts"`
	Styles      []string `koanf:"styles"`
	Fingerprint string   `koanf:"fingerprint"`
	Compress    []string `koanf:"compress"`
	Aggregators []string `koanf:"aggregators"`
}

// Settings decodes the assets block. Basedir is resolved against Dir.
func (c *Config) Settings() (Settings, error) {
	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := c.k.UnmarshalWithConf(AssetsKey, &s, unmarshalConf); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigInvalid, "failed to decode assets configuration")
	}

	if strings.TrimSpace(s.Charset) == "" {
		return Settings{}, errors.New(errors.ErrConfigInvalid, "assets.charset is required")
	}
	if s.Fingerprint == "" {
		s.Fingerprint = "sha1"
	}
	if s.Basedir == "" {
		s.Basedir = c.dir
	} else if !filepath.IsAbs(s.Basedir) && c.dir != "" {
		s.Basedir = filepath.Join(c.dir, s.Basedir)
	}
	s.Scripts = normalizeExtensions(s.Scripts)
	s.Styles = normalizeExtensions(s.Styles)
	return s, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
