package config

import (
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/paths"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/tidwall/jsonc"
)

// EnvPrefix is the prefix of environment variables mapped into the configuration
const EnvPrefix = "ASSETPACK_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// jsoncParser parses JSON documents that may carry comments and trailing commas
type jsoncParser struct{}

// JSONC returns a koanf parser for JSON with comments
func JSONC() koanf.Parser { return jsoncParser{} }

func (jsoncParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.Unmarshal(jsonc.ToJSON(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (jsoncParser) Marshal(o map[string]interface{}) ([]byte, error) {
	return json.Marshal(o)
}

// ParserFor picks a koanf parser from a file extension
func ParserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".conf":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json", ".jsonc":
		return JSONC(), nil
	}
	return nil, errors.Newf(errors.ErrConfigParse, "unsupported configuration file %q", path)
}

// LoadOptions selects the configuration sources
type LoadOptions struct {
	// File is the project configuration file. When empty, the first of
	// paths.ProjectConfigFiles found in Dir is used.
	File string

	// Dir is the project directory. Defaults to the directory of File, or
	// the working directory.
	Dir string

	// SkipUserConfig ignores the per-user configuration file
	SkipUserConfig bool

	// SkipEnv ignores ASSETPACK_* environment variables
	SkipEnv bool

	// Overrides are applied last, keyed by dotted path
	Overrides map[string]interface{}
}

// Load builds the layered configuration: embedded defaults, user file,
// project file, environment, then explicit overrides.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(Delim)

	// 1. Load system defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load user config if it exists
	if !opts.SkipUserConfig {
		userPath := paths.UserConfigPath()
		if _, err := os.Stat(userPath); err == nil {
			if err := loadFile(k, userPath); err != nil {
				return nil, err
			}
			logger.Debug().Str("path", userPath).Msg("loaded user configuration")
		}
	}

	// 3. Load project config
	dir := opts.Dir
	projectFile := opts.File
	if projectFile == "" {
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to get working directory")
			}
			dir = wd
		}
		projectFile = paths.FindProjectConfig(dir)
	}
	if projectFile != "" {
		if _, err := os.Stat(projectFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "configuration file %s", projectFile)
		}
		if err := loadFile(k, projectFile); err != nil {
			return nil, err
		}
		if dir == "" {
			dir = filepath.Dir(projectFile)
		}
		logger.Debug().Str("path", projectFile).Msg("loaded project configuration")
	}

	// 4. Load env vars
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, Delim, func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", Delim)
		}), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 5. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, Delim), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	c := newConfig(k, dir)
	c.file = projectFile
	return c, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	parser, err := ParserFor(path)
	if err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
	}
	return nil
}

// ParseOverrides turns "key=value" pairs into an override map. Values
// holding a comma become lists.
func ParseOverrides(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "override %q is not key=value", pair)
		}
		if strings.Contains(value, ",") {
			items := strings.Split(value, ",")
			for i := range items {
				items[i] = strings.TrimSpace(items[i])
			}
			out[key] = items
			continue
		}
		out[key] = value
	}
	return out, nil
}
