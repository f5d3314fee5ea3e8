// Package processor defines the plugin contracts of the asset pipeline.
//
// A Processor transforms the content of one file at a time and is bound to
// a media type. An Aggregator generates new files once per build and
// contributes them to filesets. Both are built by factories looked up by
// name in Bindings, and both hold an immutable Options snapshot taken when
// the pipeline is assembled, so one instance can process any number of
// files without carrying per-file state.
package processor
