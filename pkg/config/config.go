package config

import (
	"encoding/json"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Delim separates the segments of a configuration path
const Delim = "."

// Config is a read-only view over a loaded configuration tree
type Config struct {
	k    *koanf.Koanf
	dir  string
	file string
}

func newConfig(k *koanf.Koanf, dir string) *Config {
	return &Config{k: k, dir: dir}
}

// FromMap builds a Config from nested or dot-flattened maps. Later maps
// override earlier ones.
func FromMap(maps ...map[string]interface{}) (*Config, error) {
	k := koanf.New(Delim)
	for _, m := range maps {
		if err := k.Load(confmap.Provider(m, Delim), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load configuration map")
		}
	}
	return newConfig(k, ""), nil
}

// MustFromMap is FromMap for tests and static tables
func MustFromMap(maps ...map[string]interface{}) *Config {
	c, err := FromMap(maps...)
	if err != nil {
		panic(err)
	}
	return c
}

// Dir is the project directory relative paths are resolved against
func (c *Config) Dir() string { return c.dir }

// File is the project configuration file, or "" when none was loaded
func (c *Config) File() string { return c.file }

// Has reports whether path is set
func (c *Config) Has(path string) bool { return c.k.Exists(path) }

// Get returns the value at path, or Null
func (c *Config) Get(path string) Value { return ValueOf(c.k.Get(path)) }

// String returns the scalar at path
func (c *Config) String(path string) (string, error) {
	v := c.Get(path)
	if v.IsNull() {
		return "", errors.Newf(errors.ErrConfigInvalid, "missing configuration key %q", path)
	}
	s, err := v.AsString()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigInvalid, "bad value for %q", path)
	}
	return s, nil
}

// StringOr returns the scalar at path, or def when unset
func (c *Config) StringOr(path, def string) string {
	if !c.Has(path) {
		return def
	}
	s, err := c.Get(path).AsString()
	if err != nil {
		return def
	}
	return s
}

// Strings returns a single string or list of strings at path as a list
func (c *Config) Strings(path string) ([]string, error) {
	out, err := c.Get(path).AsStrings()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "bad value for %q", path)
	}
	return out, nil
}

// Sub returns the configuration rooted at path
func (c *Config) Sub(path string) *Config {
	return newConfig(c.k.Cut(path), c.dir)
}

// Keys returns the sorted child keys of the map at path ("" for the root)
func (c *Config) Keys(path string) []string {
	return c.k.MapKeys(path)
}

// All returns a nested copy of the whole tree
func (c *Config) All() map[string]interface{} {
	return c.k.Raw()
}

// Marshal renders the configuration tree as toml, yaml or json
func (c *Config) Marshal(format string) ([]byte, error) {
	raw := c.All()
	switch strings.ToLower(format) {
	case "toml", "":
		return toml.Marshal(raw)
	case "yaml", "yml":
		return yaml.Marshal(raw)
	case "json":
		return json.MarshalIndent(raw, "", "  ")
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown configuration format %q", format)
}
