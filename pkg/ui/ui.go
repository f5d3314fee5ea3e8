// Package ui renders command results for the terminal, as plain text or
// as JSON.
package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/compiler"
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/types"
)

// List is a titled list of names (fileset members, patterns, processors)
type List struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderManifest summarizes the outputs of a build
	RenderManifest(m *compiler.Manifest) error

	// RenderList renders a titled list
	RenderList(l List) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto is resolved
// against output.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		return NewRenderer(DetectFormat(output), output)
	case FormatTerminal:
		return newTerminalRenderer(output), nil
	case FormatText:
		return newTextRenderer(output), nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// assetProblems unwraps a processing failure
func assetProblems(err error) (*types.AssetError, bool) {
	var assetErr *types.AssetError
	if stderrors.As(err, &assetErr) {
		return assetErr, true
	}
	return nil, false
}

// HumanSize formats a byte count with binary units
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// compressedSuffix lists the precompressed siblings as " +gz +zst"
func compressedSuffix(out compiler.Output) string {
	var b strings.Builder
	for _, c := range out.Compressed {
		b.WriteString(" +")
		b.WriteString(strings.TrimPrefix(path.Ext(c), "."))
	}
	return b.String()
}
