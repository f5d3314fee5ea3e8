package starlark

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/assetpack/pkg/config"
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/processor"
	"github.com/arthur-debert/assetpack/pkg/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const banner = `
def process(filename, content):
    prefix = option("prefix", "//")
    return prefix + " " + filename + " v" + str(config("app.version", 0)) + "\n" + content
`

const strict = `
def check(content):
    if "eval(" in content:
        fail("eval is forbidden")
    return content

def process(filename, content):
    return check(content)
`

func newScript(t *testing.T, fs afero.Fs, raw map[string]interface{}) *Starlark {
	t.Helper()
	s, err := New(fs, "banner", processor.OptionsOf(raw))
	require.NoError(t, err)
	return s
}

func TestProcess_FromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/scripts/banner.star", []byte(banner), 0644))

	s := newScript(t, fs, map[string]interface{}{"script": "/scripts/banner.star", "prefix": "/*!*/"})
	conf := config.MustFromMap(map[string]interface{}{"app": map[string]interface{}{"version": int64(7)}})

	out, err := s.Process("/js/app.js", "var a;", conf)
	require.NoError(t, err)
	assert.Equal(t, "/*!*/ /js/app.js v7\nvar a;", out)
	assert.Equal(t, "/scripts/banner.star", s.Script())

	// the same instance serves many files
	out, err = s.Process("/js/b.js", "var b;", conf)
	require.NoError(t, err)
	assert.Equal(t, "/*!*/ /js/b.js v7\nvar b;", out)
}

func TestProcess_InlineSourceDefaults(t *testing.T) {
	s := newScript(t, afero.NewMemMapFs(), map[string]interface{}{"source": banner})
	out, err := s.Process("/a.css", "a{}", config.MustFromMap())
	require.NoError(t, err)
	assert.Equal(t, "// /a.css v0\na{}", out)
}

func TestProcess_Fail(t *testing.T) {
	s := newScript(t, afero.NewMemMapFs(), map[string]interface{}{"source": strict})

	_, err := s.Process("/js/app.js", "eval('x')", nil)
	require.Error(t, err)

	var assetErr *types.AssetError
	require.True(t, stderrors.As(err, &assetErr))
	assert.Equal(t, "banner", assetErr.ID())

	problem := assetErr.Problems()[0]
	assert.Equal(t, "/js/app.js", problem.Filename)
	assert.Equal(t, 4, problem.Line, "innermost script frame")
	assert.Contains(t, problem.Message, "eval is forbidden")
	assert.Contains(t, problem.Evidence, "banner.star:4")

	out, err := s.Process("/js/ok.js", "var ok;", nil)
	require.NoError(t, err)
	assert.Equal(t, "var ok;", out)
}

func TestProcess_PrintLogs(t *testing.T) {
	buf := &bytes.Buffer{}
	saved, level := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(level)
	})

	s := newScript(t, afero.NewMemMapFs(), map[string]interface{}{
		"source": "def process(filename, content):\n    print('seen ' + filename)\n    return content\n",
	})
	out, err := s.Process("/js/app.js", "var a;", nil)
	require.NoError(t, err)
	assert.Equal(t, "var a;", out)

	assert.Contains(t, buf.String(), `"component":"starlark"`)
	assert.Contains(t, buf.String(), `"processor":"banner"`)
	assert.Contains(t, buf.String(), `"message":"seen /js/app.js"`)
}

func TestProcess_NonStringResult(t *testing.T) {
	s := newScript(t, afero.NewMemMapFs(), map[string]interface{}{
		"source": "def process(filename, content):\n    return len(content)\n",
	})
	_, err := s.Process("/a.js", "abc", nil)
	var assetErr *types.AssetError
	require.True(t, stderrors.As(err, &assetErr))
	assert.Contains(t, assetErr.Problems()[0].Message, "want string")
}

func TestMedia(t *testing.T) {
	both := newScript(t, afero.NewMemMapFs(), map[string]interface{}{"source": banner})
	assert.True(t, both.Matches(types.MediaScript))
	assert.True(t, both.Matches(types.MediaStyle))

	css := newScript(t, afero.NewMemMapFs(), map[string]interface{}{"source": banner, "media": "css"})
	assert.False(t, css.Matches(types.MediaScript))
	assert.True(t, css.Matches(types.MediaStyle))

	_, err := New(afero.NewMemMapFs(), "x", processor.OptionsOf(map[string]interface{}{"source": banner, "media": "images"}))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestNew_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	tests := []struct {
		name string
		raw  map[string]interface{}
		code errors.ErrorCode
	}{
		{"no script", map[string]interface{}{}, errors.ErrConfigInvalid},
		{"missing file", map[string]interface{}{"script": "/nope.star"}, errors.ErrFileRead},
		{"syntax error", map[string]interface{}{"source": "def process(:\n"}, errors.ErrProcessorInvalid},
		{"no entry point", map[string]interface{}{"source": "x = 1\n"}, errors.ErrProcessorInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(fs, "s", processor.OptionsOf(tt.raw))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), err.Error())
		})
	}
}
