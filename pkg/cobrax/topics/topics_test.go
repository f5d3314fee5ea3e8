package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestTopicManager_ScanTopics(t *testing.T) {
	fsys := topicFS(map[string]string{
		"option-watch.txt": "Information about watch mode",
		"filesets.md":      "# Filesets\n\nExtension chains",
		"pipeline.txxt":    "Pipeline Guide\n==============",
		"ignore.json":      "This should be ignored",
	})

	tests := []struct {
		name       string
		extensions []string
		topic      string
		exists     bool
		content    string
	}{
		{"default txt", nil, "option-watch", true, "Information about watch mode"},
		{"default md", nil, "filesets", true, "# Filesets\n\nExtension chains"},
		{"default skips txxt", nil, "pipeline", false, ""},
		{"default skips json", nil, "ignore", false, ""},
		{"custom txxt", []string{".txt", ".md", ".txxt"}, "pipeline", true, "Pipeline Guide\n=============="},
		{"custom skips json", []string{".txt", ".md", ".txxt"}, "ignore", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := NewWithOptions(fsys, Options{Extensions: tt.extensions})
			require.NoError(t, tm.scanTopics())

			topic, exists := tm.GetTopic(tt.topic)
			assert.Equal(t, tt.exists, exists)
			if exists {
				assert.Equal(t, tt.content, topic.Content)
			}
		})
	}
}

func TestTopicManager_GetTopic(t *testing.T) {
	tm := New(topicFS(map[string]string{
		"option-watch.txt":    "Watch help",
		"option-manifest.txt": "Manifest help",
		"aggregators.txt":     "Aggregators help",
	}))
	require.NoError(t, tm.scanTopics())

	tests := []struct {
		input    string
		expected string
		exists   bool
	}{
		{"aggregators", "aggregators", true},
		{"option-watch", "option-watch", true},
		{"watch", "option-watch", true},
		{"--watch", "option-watch", true},
		{"-watch", "option-watch", true},
		{"manifest", "option-manifest", true},
		{"-w", "", false},
		{"nonexistent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, exists := tm.GetTopic(tt.input)
			assert.Equal(t, tt.exists, exists)
			if exists {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestTopicManager_ListTopicsSorted(t *testing.T) {
	tm := New(topicFS(map[string]string{
		"pipeline.txt":  "p",
		"filesets.txt":  "f",
		"props.txt":     "x",
		"starlark.txt":  "s",
		"sub/extra.txt": "nested",
	}))
	require.NoError(t, tm.scanTopics())

	assert.Equal(t, []string{"extra", "filesets", "pipeline", "props", "starlark"}, tm.ListTopics())
}

func TestNilAndEmptyFS(t *testing.T) {
	tm := New(nil)
	require.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())

	tm = New(fstest.MapFS{})
	require.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())
}

func newTestRoot(t *testing.T, files map[string]string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "testapp", Short: "Test application"}
	root.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Build something",
		Run:   func(cmd *cobra.Command, args []string) {},
	})
	require.NoError(t, Initialize(root, topicFS(files)))

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	return root, out
}

func TestInitialize_HelpCommand(t *testing.T) {
	root, _ := newTestRoot(t, map[string]string{"filesets.txt": "FILESETS"})

	helpCmd, _, err := root.Find([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "help", helpCmd.Name())
	assert.Equal(t, "help [command or topic]", helpCmd.Use)
	assert.Contains(t, helpCmd.Long, "testapp help topics")
}

func TestIntegration_HelpTopic(t *testing.T) {
	root, out := newTestRoot(t, map[string]string{
		"option-watch.txt": "WATCH MODE\nRebuilds on change.",
	})

	root.SetArgs([]string{"help", "watch"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "WATCH MODE")
}

func TestIntegration_HelpTopicsList(t *testing.T) {
	root, out := newTestRoot(t, map[string]string{
		"filesets.txt":     "f",
		"option-watch.txt": "w",
	})

	root.SetArgs([]string{"help", "topics"})
	require.NoError(t, root.Execute())

	got := out.String()
	assert.Contains(t, got, "General topics:\n  filesets")
	assert.Contains(t, got, "Option topics:\n  --watch")
	assert.Contains(t, got, "Use 'testapp help <topic>'")
}

func TestIntegration_HelpFallsBackToCommand(t *testing.T) {
	root, out := newTestRoot(t, nil)

	root.SetArgs([]string{"help", "build"})
	require.NoError(t, root.Execute())
	assert.True(t, strings.Contains(out.String(), "Build something"))
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# Title", r.Render("# Title", ".md"))
}

func TestGlamourRenderer_NonMarkdownUnchanged(t *testing.T) {
	r := NewGlamourRenderer(&bytes.Buffer{})
	assert.Equal(t, "notty", r.Style)
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}
