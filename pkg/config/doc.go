// Package config handles configuration management for assetpack.
// It layers embedded defaults, the per-user file, the project file
// (TOML, YAML, JSON or JSON with comments), ASSETPACK_* environment
// variables and command-line overrides into one immutable Config.
//
// Values are exposed through the Value tagged union; accessors return
// VALUE_TYPE errors rather than panicking on a type mismatch.
package config
