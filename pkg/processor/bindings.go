package processor

import (
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/registry"
)

// ProcessorFactory builds a processor named name from its options
type ProcessorFactory func(name string, options Options) (Processor, error)

// AggregatorFactory builds an aggregator named name from its options
type AggregatorFactory func(name string, options Options) (Aggregator, error)

// Bindings maps implementation names to factories. A configured plugin
// resolves to the binding named by its "class" option, or else to the
// binding of its own name.
type Bindings struct {
	processors  registry.Registry[ProcessorFactory]
	aggregators registry.Registry[AggregatorFactory]
}

// NewBindings returns an empty table
func NewBindings() *Bindings {
	return &Bindings{
		processors:  registry.New[ProcessorFactory](),
		aggregators: registry.New[AggregatorFactory](),
	}
}

// Processor binds a processor implementation; later bindings of the same
// name replace earlier ones so applications can override built-ins.
func (b *Bindings) Processor(name string, factory ProcessorFactory) *Bindings {
	b.processors.Replace(name, factory)
	return b
}

// Aggregator binds an aggregator implementation
func (b *Bindings) Aggregator(name string, factory AggregatorFactory) *Bindings {
	b.aggregators.Replace(name, factory)
	return b
}

// HasProcessor reports whether name is bound to a processor
func (b *Bindings) HasProcessor(name string) bool { return b.processors.Has(name) }

// HasAggregator reports whether name is bound to an aggregator
func (b *Bindings) HasAggregator(name string) bool { return b.aggregators.Has(name) }

// Processors lists bound processor names in binding order
func (b *Bindings) Processors() []string { return b.processors.List() }

// Aggregators lists bound aggregator names in binding order
func (b *Bindings) Aggregators() []string { return b.aggregators.List() }

// NewProcessor builds the processor bound to class from the options
// configured under name. The instance is named after its class, so a
// failure reports the implementation rather than the alias.
func (b *Bindings) NewProcessor(class, name string, options Options) (Processor, error) {
	factory, err := b.processors.Get(class)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProcessorNotFound, "no processor implementation %q for %q", class, name).
			WithDetail("processor", name)
	}
	p, err := factory(class, options)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProcessorInvalid, "cannot create processor %q", name).
			WithDetail("processor", name)
	}
	return p, nil
}

// NewAggregator builds the aggregator bound to class under the configured
// name. Fileset tokens address aggregators by that name.
func (b *Bindings) NewAggregator(class, name string, options Options) (Aggregator, error) {
	factory, err := b.aggregators.Get(class)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProcessorNotFound, "no aggregator implementation %q for %q", class, name).
			WithDetail("aggregator", name)
	}
	a, err := factory(name, options)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProcessorInvalid, "cannot create aggregator %q", name).
			WithDetail("aggregator", name)
	}
	return a, nil
}
