package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// start runs the watcher in the background and returns the call counter
func start(t *testing.T, opts Options) *int32 {
	t.Helper()
	opts.Debounce = 20 * time.Millisecond
	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var calls int32
	go func() {
		done <- w.Run(ctx, func() { atomic.AddInt32(&calls, 1) })
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		_ = w.Close()
	})
	return &calls
}

func eventually(t *testing.T, calls *int32, want int32) {
	t.Helper()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(calls) >= want }, 3*time.Second, 10*time.Millisecond)
}

func TestRelevant(t *testing.T) {
	w := &Watcher{
		opts: Options{
			Dirs:   []string{"/site"},
			Ignore: []string{"/site/public"},
		},
		files: map[string]bool{"/project/assets.toml": true},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/site/js/app.js", true},
		{"/site", true},
		{"/site/public/js/app.1234.js", false},
		{"/site/public", false},
		{"/sitemap.xml", false},
		{"/project/assets.toml", true},
		{"/project/README.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.path))
		})
	}
}

func TestRun_SourceChange(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "js", "app.js"), "a")

	calls := start(t, Options{Dirs: []string{root}})
	write(t, filepath.Join(root, "js", "app.js"), "b")

	eventually(t, calls, 1)
}

func TestRun_ConfigFileChange(t *testing.T) {
	project := t.TempDir()
	conf := filepath.Join(project, "assets.toml")
	write(t, conf, "[assets]\n")

	calls := start(t, Options{Files: []string{conf}})
	write(t, conf, "[assets]\ncharset = \"UTF-8\"\n")

	eventually(t, calls, 1)
}

func TestRun_IgnoredOutput(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(out, 0755))

	calls := start(t, Options{Dirs: []string{root}, Ignore: []string{out}})
	write(t, filepath.Join(out, "home.1234.js"), "x")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestRun_NewDirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	calls := start(t, Options{Dirs: []string{root}})

	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0755))
	eventually(t, calls, 1)

	before := atomic.LoadInt32(calls)
	time.Sleep(100 * time.Millisecond)
	write(t, filepath.Join(root, "css", "site.css"), "a{}")
	eventually(t, calls, before+1)
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(Options{Dirs: []string{filepath.Join(t.TempDir(), "missing")}})
	assert.Error(t, err)
}
