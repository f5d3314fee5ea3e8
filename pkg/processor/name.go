package processor

import (
	"reflect"
	"strings"
	"unicode"
)

// NameOf derives a plugin name from the Go type of v, converting its
// UpperCamelCase identifier to lower-hyphen case: Props -> "props",
// TemplateCache -> "template-cache", SVGSprite -> "svg-sprite".
func NameOf(v interface{}) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return Hyphenate(t.Name())
}

// Hyphenate converts an UpperCamelCase identifier to lower-hyphen case
func Hyphenate(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('-')
			}
		}
		if r == '_' {
			b.WriteByte('-')
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
