// Package registry provides a generic, thread-safe registry keyed by name.
// assetpack uses it for the processor and aggregator factory tables that
// replace loading plugin implementations by class name.
package registry
