package route

import (
	"testing"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		pattern   string
		candidate string
		want      bool
	}{
		{"double star matches nested file", "GET", "/vendor/**", "GET/vendor/lib.js", true},
		{"double star matches deep file", "GET", "/vendor/**", "GET/vendor/a/b/c.js", true},
		{"double star matches directory itself", "GET", "/vendor/**", "GET/vendor", true},
		{"double star does not leak to siblings", "GET", "/vendor/**", "GET/app/main.js", false},
		{"prefix is not a segment match", "GET", "/vendor/**", "GET/vendors/lib.js", false},
		{"single star stays in segment", "GET", "/js/*.js", "GET/js/app.js", true},
		{"single star does not cross segments", "GET", "/js/*.js", "GET/js/lib/app.js", false},
		{"question mark", "GET", "/js/app?.js", "GET/js/app1.js", true},
		{"brace variable", "GET", "/js/{name}.js", "GET/js/app.js", true},
		{"colon variable", "GET", "/css/:file", "GET/css/site.css", true},
		{"method mismatch", "POST", "/vendor/**", "GET/vendor/lib.js", false},
		{"any method", "*", "/vendor/**", "HEAD/vendor/lib.js", true},
		{"pattern without slash", "GET", "vendor/**", "GET/vendor/lib.js", true},
		{"candidate without path", "GET", "/**", "GET", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.method, tt.pattern, tt.candidate))
		})
	}
}

func TestCompileInvalid(t *testing.T) {
	_, err := Compile("GET", "/js/[a-")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.False(t, Match("GET", "/js/[a-", "GET/js/a"))
}

func TestSet(t *testing.T) {
	set, err := CompileAll("GET", []string{"/vendor/**", "/js/*.min.js"})
	require.NoError(t, err)

	assert.True(t, set.Matches("GET/vendor/lib.js"))
	assert.True(t, set.Matches("GET/js/app.min.js"))
	assert.False(t, set.Matches("GET/js/app.js"))

	var empty Set
	assert.False(t, empty.Matches("GET/anything"))
}

func TestPatternAccessors(t *testing.T) {
	p := MustCompile("get", "css/**")
	assert.Equal(t, "/css/**", p.String())
	assert.Equal(t, "GET", p.Method())
	assert.True(t, p.MatchPath("/css/app.css"))
}
