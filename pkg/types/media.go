package types

import (
	"path"
	"strings"
)

// MediaType is the kind of content a processor works on
type MediaType int

const (
	// MediaUnknown is neither a script nor a style
	MediaUnknown MediaType = iota
	// MediaScript is JavaScript and languages compiled to it
	MediaScript
	// MediaStyle is CSS and languages compiled to it
	MediaStyle
)

// String returns the name of the media type
func (m MediaType) String() string {
	switch m {
	case MediaScript:
		return "script"
	case MediaStyle:
		return "style"
	default:
		return "unknown"
	}
}

// Ext returns the extension of compiled output for the media type
func (m MediaType) Ext() string {
	switch m {
	case MediaScript:
		return "js"
	case MediaStyle:
		return "css"
	default:
		return ""
	}
}

// ContentType returns the MIME type of compiled output
func (m MediaType) ContentType() string {
	switch m {
	case MediaScript:
		return "application/javascript"
	case MediaStyle:
		return "text/css"
	default:
		return "application/octet-stream"
	}
}

// Separator is written between files when concatenating this media type
func (m MediaType) Separator() string {
	if m == MediaScript {
		return ";"
	}
	return ""
}

// ParseMediaType accepts "script", "js", "style", "css"
func ParseMediaType(s string) MediaType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "script", "scripts", "js", "javascript":
		return MediaScript
	case "style", "styles", "css":
		return MediaStyle
	default:
		return MediaUnknown
	}
}

// MediaFilter classifies asset paths by extension
type MediaFilter struct {
	scripts map[string]bool
	styles  map[string]bool
}

// Default extension sets
var (
	DefaultScriptExtensions = []string{".js", ".coffee", ".ts"}
	DefaultStyleExtensions  = []string{".css", ".scss", ".sass", ".less"}
)

// NewMediaFilter builds a filter; extensions may omit the leading dot
func NewMediaFilter(scripts, styles []string) MediaFilter {
	return MediaFilter{scripts: extSet(scripts), styles: extSet(styles)}
}

// DefaultMediaFilter uses the default extension sets
func DefaultMediaFilter() MediaFilter {
	return NewMediaFilter(DefaultScriptExtensions, DefaultStyleExtensions)
}

func extSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

// IsScript reports whether p has a script extension
func (f MediaFilter) IsScript(p string) bool {
	return f.scripts[strings.ToLower(path.Ext(p))]
}

// IsStyle reports whether p has a style extension
func (f MediaFilter) IsStyle(p string) bool {
	return f.styles[strings.ToLower(path.Ext(p))]
}

// Classify returns the media type of p; scripts win when misconfigured
// extensions match both.
func (f MediaFilter) Classify(p string) MediaType {
	switch {
	case f.IsScript(p):
		return MediaScript
	case f.IsStyle(p):
		return MediaStyle
	default:
		return MediaUnknown
	}
}
