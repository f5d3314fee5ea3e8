// Package pipeline assembles the per-environment processor chains and the
// declared aggregators from configuration.
//
// Configuration shape:
//
//	[assets.pipeline]
//	dev  = []
//	dist = ["props", "uglify"]
//
//	[props]            # options shared by every environment
//	delims = ["${", "}"]
//
//	[props.dist]       # options for dist only, overriding the block above
//	excludes = "/vendor/**"
//
// A plugin resolves to the binding named by its "class" option, or else to
// the binding of its own name.
package pipeline

import (
	"github.com/arthur-debert/assetpack/pkg/config"
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/processor"
)

// Dev is the environment used for live compilation
const Dev = "dev"

// Registry holds one processor chain per environment plus the aggregators.
// It is built once and never mutated.
type Registry struct {
	envs        []string
	pipelines   map[string][]processor.Processor
	aggregators []processor.Aggregator
}

// Build instantiates every declared processor and aggregator
func Build(conf *config.Config, bindings *processor.Bindings) (*Registry, error) {
	logger := logging.GetLogger("pipeline")

	envs := conf.Keys(config.PipelineKey)
	declared := make(map[string][]string, len(envs))
	for _, env := range envs {
		names, err := conf.Strings(config.PipelineKey + config.Delim + env)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "bad pipeline %q", env).
				WithDetail("env", env)
		}
		declared[env] = names
	}
	aggregatorNames, err := conf.Strings(config.AggregatorsKey)
	if err != nil {
		return nil, err
	}

	reserved := reservedKeys(envs, declared, aggregatorNames)

	r := &Registry{
		envs:      envs,
		pipelines: make(map[string][]processor.Processor, len(envs)+1),
	}
	for _, env := range envs {
		chain := make([]processor.Processor, 0, len(declared[env]))
		for _, name := range declared[env] {
			options := OptionsFor(conf, name, env, reserved)
			class := classOf(conf, name, env)
			p, err := bindings.NewProcessor(class, name, options)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "pipeline %q", env).
					WithDetail("env", env)
			}
			if class != name {
				logger.Debug().Str("env", env).Str("processor", name).Str("class", class).Msg("processor aliased")
			}
			chain = append(chain, p)
		}
		r.pipelines[env] = chain
		logger.Debug().
			Str("env", env).
			Strs("processors", declared[env]).
			Msg("pipeline assembled")
	}
	if _, ok := r.pipelines[Dev]; !ok {
		r.pipelines[Dev] = []processor.Processor{}
		r.envs = append(r.envs, Dev)
	}

	for _, name := range aggregatorNames {
		options := OptionsFor(conf, name, "", reserved)
		a, err := bindings.NewAggregator(classOf(conf, name, ""), name, options)
		if err != nil {
			return nil, err
		}
		r.aggregators = append(r.aggregators, a)
	}
	if len(aggregatorNames) > 0 {
		logger.Debug().Strs("aggregators", aggregatorNames).Msg("aggregators assembled")
	}

	return r, nil
}

func reservedKeys(envs []string, declared map[string][]string, aggregators []string) []string {
	seen := map[string]bool{processor.ClassKey: true}
	keys := []string{processor.ClassKey}
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, env := range envs {
		add(env)
		for _, name := range declared[env] {
			add(name)
		}
	}
	for _, name := range aggregators {
		add(name)
	}
	return keys
}

// OptionsFor returns the option view of plugin name in env: the generic
// "<name>.*" block overlaid by "<name>.<env>.*", without the reserved keys.
func OptionsFor(conf *config.Config, name, env string, reserved []string) processor.Options {
	if !conf.Has(name) {
		return processor.NewOptions(nil)
	}
	block := conf.Sub(name)
	options := processor.OptionsFrom(block)
	if env != "" && block.Has(env) {
		options = options.Overlay(processor.OptionsFrom(block.Sub(env)))
	}
	return options.Without(reserved...)
}

// classOf returns the binding a plugin resolves to
func classOf(conf *config.Config, name, env string) string {
	if env != "" {
		if class := conf.StringOr(name+config.Delim+env+config.Delim+processor.ClassKey, ""); class != "" {
			return class
		}
	}
	return conf.StringOr(name+config.Delim+processor.ClassKey, name)
}

// Environments lists the environments with a pipeline, "dev" included
func (r *Registry) Environments() []string {
	return append([]string(nil), r.envs...)
}

// Has reports whether env has a declared pipeline
func (r *Registry) Has(env string) bool {
	_, ok := r.pipelines[env]
	return ok
}

// Pipeline returns the processors of env in declared order. Unknown
// environments get an empty pipeline.
func (r *Registry) Pipeline(env string) []processor.Processor {
	return append([]processor.Processor{}, r.pipelines[env]...)
}

// Aggregators returns the declared aggregators in declared order
func (r *Registry) Aggregators() []processor.Aggregator {
	return append([]processor.Aggregator{}, r.aggregators...)
}
