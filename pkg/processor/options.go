package processor

import (
	"sort"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/config"
)

// ExcludesKey names the option holding path patterns a processor skips
const ExcludesKey = "excludes"

// ClassKey names the option overriding a plugin's implementation
const ClassKey = "class"

// Options is an immutable snapshot of a plugin's configuration
type Options struct {
	values map[string]config.Value
}

// NewOptions copies values into an Options snapshot
func NewOptions(values map[string]config.Value) Options {
	cp := make(map[string]config.Value, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Options{values: cp}
}

// OptionsOf converts plain values, as found in configuration maps
func OptionsOf(raw map[string]interface{}) Options {
	values := make(map[string]config.Value, len(raw))
	for k, v := range raw {
		values[k] = config.ValueOf(v)
	}
	return Options{values: values}
}

// OptionsFrom snapshots the top-level entries of a configuration block
func OptionsFrom(c *config.Config) Options {
	return OptionsOf(c.All())
}

// Get returns the option at key, or config.Null when absent. Dotted keys
// walk into map values.
func (o Options) Get(key string) config.Value {
	if v, ok := o.values[key]; ok {
		return v
	}
	head, rest, found := strings.Cut(key, ".")
	if !found {
		return config.Null
	}
	v, ok := o.values[head]
	if !ok {
		return config.Null
	}
	m, err := v.AsMap()
	if err != nil {
		return config.Null
	}
	return NewOptions(m).Get(rest)
}

// Has reports whether key is set
func (o Options) Has(key string) bool {
	return !o.Get(key).IsNull()
}

// String returns the scalar at key, or def
func (o Options) String(key, def string) string {
	s, err := o.Get(key).AsString()
	if err != nil {
		return def
	}
	return s
}

// Strings returns a single string or list of strings at key
func (o Options) Strings(key string) ([]string, error) {
	return o.Get(key).AsStrings()
}

// Bool returns the bool at key, or def
func (o Options) Bool(key string, def bool) bool {
	b, err := o.Get(key).AsBool()
	if err != nil {
		return def
	}
	return b
}

// Keys returns the option names in lexical order
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of options
func (o Options) Len() int { return len(o.values) }

// Overlay returns o with every key of over taking precedence
func (o Options) Overlay(over Options) Options {
	merged := make(map[string]config.Value, len(o.values)+len(over.values))
	for k, v := range o.values {
		merged[k] = v
	}
	for k, v := range over.values {
		merged[k] = v
	}
	return Options{values: merged}
}

// Without returns o minus the given keys
func (o Options) Without(keys ...string) Options {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	kept := make(map[string]config.Value, len(o.values))
	for k, v := range o.values {
		if !drop[k] {
			kept[k] = v
		}
	}
	return Options{values: kept}
}

// Map converts the options back to plain values
func (o Options) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(o.values))
	for k, v := range o.values {
		out[k] = v.Interface()
	}
	return out
}
