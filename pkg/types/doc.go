// Package types defines the core value types shared across assetpack:
// media types, in-memory assets, and the positional problems reported
// by processors.
package types
