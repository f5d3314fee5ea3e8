// Package filesystem provides the file access used by the compiler.
//
// Sources and outputs go through afero so builds can run against the OS
// filesystem or an in-memory one in tests. Text is decoded from and
// encoded to the configured charset at this boundary; everything past it
// works on Go strings.
package filesystem
