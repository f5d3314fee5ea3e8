package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg, err := Load(LoadOptions{Dir: dir, SkipEnv: true})
	require.NoError(t, err)

	charset, err := cfg.String(CharsetKey)
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", charset)

	dev, err := cfg.Strings("assets.pipeline.dev")
	require.NoError(t, err)
	assert.Empty(t, dev)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, []string{".js", ".coffee", ".ts"}, s.Scripts)
	assert.Equal(t, []string{".css", ".scss", ".sass", ".less"}, s.Styles)
	assert.Equal(t, "sha1", s.Fingerprint)
	assert.Equal(t, dir, s.Basedir)
	assert.Empty(t, cfg.File())
}

func TestLoadProjectFormats(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "assets.toml",
			content: `
[assets]
basedir = "public"

[assets.fileset]
base = ["/js/a.js"]
"home<base" = ["/js/b.js"]

[assets.pipeline]
dist = ["props"]
`,
		},
		{
			name: "yaml",
			file: "assets.yaml",
			content: `
assets:
  basedir: public
  fileset:
    base: [/js/a.js]
    home<base: [/js/b.js]
  pipeline:
    dist: [props]
`,
		},
		{
			name: "jsonc",
			file: "assets.jsonc",
			content: `{
  // comments are allowed
  "assets": {
    "basedir": "public",
    "fileset": {"base": ["/js/a.js"], "home<base": ["/js/b.js"],},
    "pipeline": {"dist": ["props"]}
  }
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			cfg, err := Load(LoadOptions{Dir: dir, SkipEnv: true})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.file), cfg.File())

			assert.Equal(t, []string{"base", "home<base"}, cfg.Keys(FilesetKey))
			members, err := cfg.Strings(FilesetKey + ".home<base")
			require.NoError(t, err)
			assert.Equal(t, []string{"/js/b.js"}, members)

			dist, err := cfg.Strings("assets.pipeline.dist")
			require.NoError(t, err)
			assert.Equal(t, []string{"props"}, dist)

			s, err := cfg.Settings()
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "public"), s.Basedir)
			assert.Equal(t, "UTF-8", s.Charset, "defaults survive the merge")
		})
	}
}

func TestLoadLayering(t *testing.T) {
	userDir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, userDir)
	writeFile(t, userDir, paths.UserConfigFile, `
[assets]
charset = "ISO-8859-1"
fingerprint = "blake3"
`)

	dir := t.TempDir()
	project := writeFile(t, dir, "assets.toml", `
[assets]
charset = "UTF-16"
`)

	t.Setenv("ASSETPACK_ASSETS_FINGERPRINT", "sha1")

	cfg, err := Load(LoadOptions{
		File:      project,
		Overrides: map[string]interface{}{"assets.basedir": "static"},
	})
	require.NoError(t, err)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, "UTF-16", s.Charset, "project file overrides user file")
	assert.Equal(t, "sha1", s.Fingerprint, "environment overrides files")
	assert.Equal(t, filepath.Join(dir, "static"), s.Basedir, "overrides apply last")
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.toml"), SkipEnv: true})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "assets.ini", "x=1")
		_, err := Load(LoadOptions{File: path, SkipEnv: true})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "assets.toml", "[assets\n")
		_, err := Load(LoadOptions{File: path, SkipEnv: true})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})
}

func TestConfigAccessors(t *testing.T) {
	cfg := MustFromMap(map[string]interface{}{
		"props": map[string]interface{}{
			"delims": []interface{}{"${", "}"},
			"dist":   map[string]interface{}{"delims": []interface{}{"@", "@"}},
		},
		"assets.charset": "UTF-8",
	})

	assert.True(t, cfg.Has("props.dist.delims"))
	assert.False(t, cfg.Has("props.dev"))
	assert.Equal(t, []string{"delims", "dist"}, cfg.Keys("props"))

	sub := cfg.Sub("props.dist")
	delims, err := sub.Strings("delims")
	require.NoError(t, err)
	assert.Equal(t, []string{"@", "@"}, delims)

	assert.Equal(t, "fallback", cfg.StringOr("missing", "fallback"))

	_, err = cfg.String("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))

	_, err = cfg.String("props")
	assert.True(t, errors.IsErrorCode(err, errors.ErrValueType))
}

func TestMarshal(t *testing.T) {
	cfg := MustFromMap(map[string]interface{}{"assets": map[string]interface{}{"charset": "UTF-8"}})

	for _, format := range []string{"toml", "yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			out, err := cfg.Marshal(format)
			require.NoError(t, err)
			assert.Contains(t, string(out), "UTF-8")
		})
	}

	_, err := cfg.Marshal("xml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSettingsRequiresCharset(t *testing.T) {
	cfg := MustFromMap(map[string]interface{}{"assets.charset": ""})
	_, err := cfg.Settings()
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestParseOverrides(t *testing.T) {
	out, err := ParseOverrides([]string{"assets.charset=UTF-8", "assets.compress=gzip, zstd"})
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", out["assets.charset"])
	assert.Equal(t, []string{"gzip", "zstd"}, out["assets.compress"])

	_, err = ParseOverrides([]string{"novalue"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
