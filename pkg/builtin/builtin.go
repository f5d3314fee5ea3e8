// Package builtin binds the processors and aggregators shipped with
// assetpack under the names derived from their types.
package builtin

import (
	"github.com/arthur-debert/assetpack/pkg/aggregators/svgsprite"
	"github.com/arthur-debert/assetpack/pkg/aggregators/templatecache"
	"github.com/arthur-debert/assetpack/pkg/processor"
	"github.com/arthur-debert/assetpack/pkg/processors/props"
	"github.com/arthur-debert/assetpack/pkg/processors/starlark"
	"github.com/spf13/afero"
)

// Bindings returns a fresh table of the built-in plugins. Starlark scripts
// are read from scripts.
func Bindings(scripts afero.Fs) *processor.Bindings {
	return processor.NewBindings().
		Processor(processor.NameOf(props.Props{}), props.New).
		Processor(processor.NameOf(starlark.Starlark{}), starlark.Factory(scripts)).
		Aggregator(processor.NameOf(templatecache.TemplateCache{}), templatecache.New).
		Aggregator(processor.NameOf(svgsprite.SVGSprite{}), svgsprite.New)
}
