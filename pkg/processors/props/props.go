// Package props implements the variable substitution processor. Every
// "${key}" in a script or stylesheet is replaced by the configuration
// value at key or, failing that, by the environment variable of that name.
package props

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/config"
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/processor"
	"github.com/arthur-debert/assetpack/pkg/types"
)

// DelimsKey names the option holding the [open, close] delimiters
const DelimsKey = "delims"

// Default delimiters
const (
	DefaultOpen  = "${"
	DefaultClose = "}"
)

var position = regexp.MustCompile(`at (\d+):(\d+)`)

// Props substitutes configuration values into asset content
type Props struct {
	processor.Base
	open  string
	close string
}

// New is the processor factory
func New(name string, options processor.Options) (processor.Processor, error) {
	base, err := processor.NewBase(name, options)
	if err != nil {
		return nil, err
	}
	p := &Props{Base: base, open: DefaultOpen, close: DefaultClose}
	if options.Has(DelimsKey) {
		delims, err := options.Strings(DelimsKey)
		if err != nil {
			return nil, err
		}
		if len(delims) != 2 || delims[0] == "" || delims[1] == "" {
			return nil, errors.Newf(errors.ErrConfigInvalid, "%s.%s must be two non-empty strings", name, DelimsKey)
		}
		p.open, p.close = delims[0], delims[1]
	}
	return p, nil
}

// Matches accepts scripts and styles
func (p *Props) Matches(media types.MediaType) bool {
	return media == types.MediaScript || media == types.MediaStyle
}

// Process replaces every delimited expression in source
func (p *Props) Process(filename, source string, conf *config.Config) (string, error) {
	out, err := p.substitute(source, conf)
	if err != nil {
		line, column := Position(err.Error())
		return "", types.NewAssetError(p.Name(), types.NewProblem(filename, line, column, err.Error())).
			WithCause(err)
	}
	return out, nil
}

// Position extracts the "at <line>:<column>" fragment of an error
// message, or -1, -1.
func Position(message string) (int, int) {
	m := position.FindStringSubmatch(message)
	if m == nil {
		return -1, -1
	}
	line, _ := strconv.Atoi(m[1])
	column, _ := strconv.Atoi(m[2])
	return line, column
}

func (p *Props) substitute(source string, conf *config.Config) (string, error) {
	var b strings.Builder
	rest := source
	offset := 0
	for {
		start := strings.Index(rest, p.open)
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:start])

		exprStart := start + len(p.open)
		end := strings.Index(rest[exprStart:], p.close)
		if end < 0 {
			line, column := lineColumn(source, offset+start)
			return "", errors.Newf(errors.ErrInvalidInput, "unclosed %s at %d:%d", p.open, line, column)
		}
		expr := strings.TrimSpace(rest[exprStart : exprStart+end])
		value, ok := lookup(expr, conf)
		if !ok {
			line, column := lineColumn(source, offset+start)
			return "", errors.Newf(errors.ErrNotFound, "no configuration setting or environment variable found for %q at %d:%d", expr, line, column).
				WithDetail("key", expr)
		}
		b.WriteString(value)

		consumed := exprStart + end + len(p.close)
		rest = rest[consumed:]
		offset += consumed
	}
}

func lookup(expr string, conf *config.Config) (string, bool) {
	if expr == "" {
		return "", false
	}
	if conf != nil && conf.Has(expr) {
		return conf.Get(expr).String(), true
	}
	if v, ok := os.LookupEnv(expr); ok {
		return v, true
	}
	return "", false
}

// lineColumn converts a byte offset into 1-based line and column
func lineColumn(source string, offset int) (int, int) {
	before := source[:offset]
	line := strings.Count(before, "\n") + 1
	column := offset - strings.LastIndex(before, "\n")
	return line, column
}
