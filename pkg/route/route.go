// Package route matches request-style paths against route patterns.
//
// Patterns use the router glob dialect: "*" matches within one segment,
// "**" matches any number of segments, "?" matches one character, and
// path variables ("{name}", ":name") match one segment. A pattern is
// bound to an HTTP method; candidates are written as method+path, e.g.
// "GET/vendor/lib.js".
package route

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/bmatcuk/doublestar/v4"
)

// Wildcard method accepted by every candidate
const AnyMethod = "*"

var variable = regexp.MustCompile(`\{[^}/]+\}|:[A-Za-z_][A-Za-z0-9_]*`)

// Pattern is a compiled route pattern
type Pattern struct {
	method  string
	pattern string
	glob    string
}

// Compile validates a route pattern for method
func Compile(method, pattern string) (*Pattern, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = AnyMethod
	}
	pattern = strings.TrimSpace(pattern)
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	glob := variable.ReplaceAllString(pattern, "*")
	if !doublestar.ValidatePattern(glob) {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid route pattern %q", pattern)
	}
	return &Pattern{method: method, pattern: pattern, glob: glob}, nil
}

// MustCompile is Compile for static patterns
func MustCompile(method, pattern string) *Pattern {
	p, err := Compile(method, pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as written
func (p *Pattern) String() string { return p.pattern }

// Method returns the HTTP method the pattern is bound to
func (p *Pattern) Method() string { return p.method }

// Matches reports whether candidate ("GET/path") matches the pattern
func (p *Pattern) Matches(candidate string) bool {
	idx := strings.Index(candidate, "/")
	if idx < 0 {
		return false
	}
	method, path := strings.ToUpper(candidate[:idx]), candidate[idx:]
	if p.method != AnyMethod && method != p.method {
		return false
	}
	return p.MatchPath(path)
}

// MatchPath matches a bare path, ignoring the method
func (p *Pattern) MatchPath(path string) bool {
	ok, err := doublestar.Match(p.glob, path)
	if err != nil {
		return false
	}
	if !ok && strings.HasSuffix(p.glob, "/**") {
		// "/css/**" also covers "/css" itself
		return path == strings.TrimSuffix(p.glob, "/**")
	}
	return ok
}

// Match compiles pattern for method and tests candidate ("GET/path")
func Match(method, pattern, candidate string) bool {
	p, err := Compile(method, pattern)
	if err != nil {
		return false
	}
	return p.Matches(candidate)
}

// Matcher is the consumer-facing contract: does candidate match any pattern
type Matcher interface {
	Matches(candidate string) bool
}

// Set matches when any of its patterns does
type Set []*Pattern

// CompileAll compiles every pattern for method
func CompileAll(method string, patterns []string) (Set, error) {
	set := make(Set, 0, len(patterns))
	for _, raw := range patterns {
		p, err := Compile(method, raw)
		if err != nil {
			return nil, err
		}
		set = append(set, p)
	}
	return set, nil
}

// Matches reports whether any pattern matches candidate
func (s Set) Matches(candidate string) bool {
	for _, p := range s {
		if p.Matches(candidate) {
			return true
		}
	}
	return false
}
