package pipeline

import (
	"testing"

	"github.com/arthur-debert/assetpack/pkg/config"
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/processor"
	"github.com/arthur-debert/assetpack/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	processor.Base
	class string
}

func (recorder) Matches(types.MediaType) bool { return true }
func (recorder) Process(filename, source string, conf *config.Config) (string, error) {
	return source, nil
}

type generator struct {
	processor.Base
}

func (g generator) Fileset() []string              { return []string{"/js/" + g.Name() + ".js"} }
func (generator) Run(rt processor.Runtime) error { return nil }

func testBindings() *processor.Bindings {
	factory := func(class string) processor.ProcessorFactory {
		return func(name string, options processor.Options) (processor.Processor, error) {
			base, err := processor.NewBase(name, options)
			if err != nil {
				return nil, err
			}
			return &recorder{Base: base, class: class}, nil
		}
	}
	return processor.NewBindings().
		Processor("props", factory("props")).
		Processor("uglify", factory("uglify")).
		Processor("closure", factory("closure")).
		Aggregator("gen", func(name string, options processor.Options) (processor.Aggregator, error) {
			base, err := processor.NewBase(name, options)
			if err != nil {
				return nil, err
			}
			return generator{Base: base}, nil
		})
}

func build(t *testing.T, raw map[string]interface{}) *Registry {
	t.Helper()
	r, err := Build(config.MustFromMap(raw), testBindings())
	require.NoError(t, err)
	return r
}

func names(chain []processor.Processor) []string {
	out := make([]string, len(chain))
	for i, p := range chain {
		out[i] = p.Name()
	}
	return out
}

func TestBuild_Pipelines(t *testing.T) {
	r := build(t, map[string]interface{}{
		"assets": map[string]interface{}{
			"pipeline": map[string]interface{}{
				"dist": []interface{}{"props", "uglify"},
			},
		},
	})

	assert.Equal(t, []string{"props", "uglify"}, names(r.Pipeline("dist")))
	assert.Empty(t, r.Pipeline("dev"), "dev defaults to an empty pipeline")
	assert.True(t, r.Has("dev"))
	assert.Empty(t, r.Pipeline("staging"), "unknown environments degrade to empty")
	assert.False(t, r.Has("staging"))
	assert.ElementsMatch(t, []string{"dist", "dev"}, r.Environments())
}

func TestBuild_InstancePerEnvironment(t *testing.T) {
	r := build(t, map[string]interface{}{
		"assets": map[string]interface{}{
			"pipeline": map[string]interface{}{
				"dev":  []interface{}{"props"},
				"dist": []interface{}{"props"},
			},
		},
	})
	dev, dist := r.Pipeline("dev")[0], r.Pipeline("dist")[0]
	assert.NotSame(t, dev, dist)
}

func TestBuild_OptionOverlay(t *testing.T) {
	r := build(t, map[string]interface{}{
		"assets": map[string]interface{}{
			"pipeline": map[string]interface{}{
				"dev":  []interface{}{"props"},
				"dist": []interface{}{"props", "uglify"},
			},
		},
		"props": map[string]interface{}{
			"mode":     "generic",
			"keep":     "yes",
			"excludes": "/vendor/**",
			"dist": map[string]interface{}{
				"mode": "dist",
			},
			"uglify": map[string]interface{}{"leak": true},
		},
	})

	dist := r.Pipeline("dist")[0].Options()
	assert.Equal(t, "dist", dist.String("mode", ""))
	assert.Equal(t, "yes", dist.String("keep", ""))
	assert.False(t, dist.Has("dist"), "environment blocks are stripped")
	assert.False(t, dist.Has("uglify"), "sibling processor names are stripped")

	dev := r.Pipeline("dev")[0].Options()
	assert.Equal(t, "generic", dev.String("mode", ""))
	assert.True(t, r.Pipeline("dev")[0].Excludes("/vendor/a.js"))
}

func TestBuild_ClassOverride(t *testing.T) {
	r := build(t, map[string]interface{}{
		"assets": map[string]interface{}{
			"pipeline": map[string]interface{}{
				"dist": []interface{}{"minify"},
			},
		},
		"minify": map[string]interface{}{
			"class": "closure",
			"level": "advanced",
		},
	})

	p := r.Pipeline("dist")[0]
	require.IsType(t, &recorder{}, p)
	assert.Equal(t, "closure", p.Name(), "named after its implementation")
	assert.Equal(t, "closure", p.(*recorder).class)
	assert.False(t, p.Options().Has("class"))
	assert.Equal(t, "advanced", p.Options().String("level", ""))
}

func TestBuild_EnvironmentClassOverride(t *testing.T) {
	r := build(t, map[string]interface{}{
		"assets": map[string]interface{}{
			"pipeline": map[string]interface{}{
				"dev":  []interface{}{"minify"},
				"dist": []interface{}{"minify"},
			},
		},
		"minify": map[string]interface{}{
			"class": "uglify",
			"dist":  map[string]interface{}{"class": "closure"},
		},
	})
	assert.Equal(t, "uglify", r.Pipeline("dev")[0].(*recorder).class)
	assert.Equal(t, "closure", r.Pipeline("dist")[0].(*recorder).class)
	assert.Equal(t, "uglify", r.Pipeline("dev")[0].Name())
	assert.Equal(t, "closure", r.Pipeline("dist")[0].Name())
}

func TestBuild_Aggregators(t *testing.T) {
	r := build(t, map[string]interface{}{
		"assets": map[string]interface{}{
			"aggregators": []interface{}{"gen", "icons"},
		},
		"icons": map[string]interface{}{"class": "gen", "dir": "/img"},
	})

	aggs := r.Aggregators()
	require.Len(t, aggs, 2)
	assert.Equal(t, "gen", aggs[0].Name())
	assert.Equal(t, "icons", aggs[1].Name())
	assert.Equal(t, []string{"/js/icons.js"}, aggs[1].Fileset())
	assert.Equal(t, "/img", aggs[1].Options().String("dir", ""))
}

func TestBuild_Errors(t *testing.T) {
	t.Run("unknown processor", func(t *testing.T) {
		_, err := Build(config.MustFromMap(map[string]interface{}{
			"assets": map[string]interface{}{
				"pipeline": map[string]interface{}{"dist": []interface{}{"less"}},
			},
		}), testBindings())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrProcessorNotFound))
	})

	t.Run("unknown aggregator", func(t *testing.T) {
		_, err := Build(config.MustFromMap(map[string]interface{}{
			"assets": map[string]interface{}{"aggregators": "sprites"},
		}), testBindings())
		assert.True(t, errors.IsErrorCode(err, errors.ErrProcessorNotFound))
	})

	t.Run("bad excludes", func(t *testing.T) {
		_, err := Build(config.MustFromMap(map[string]interface{}{
			"assets": map[string]interface{}{
				"pipeline": map[string]interface{}{"dist": []interface{}{"props"}},
			},
			"props": map[string]interface{}{"excludes": "/[a-"},
		}), testBindings())
		assert.True(t, errors.IsErrorCode(err, errors.ErrProcessorInvalid))
	})
}
