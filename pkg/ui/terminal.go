package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/assetpack/pkg/compiler"
	"github.com/charmbracelet/lipgloss"
)

// terminalRenderer styles output with lipgloss. Colors adapt to the
// terminal background of the writer.
type terminalRenderer struct {
	output io.Writer
	styles Styles
}

func newTerminalRenderer(w io.Writer) *terminalRenderer {
	return &terminalRenderer{
		output: w,
		styles: DefaultStyles(lipgloss.NewRenderer(w)),
	}
}

func (r *terminalRenderer) println(s string) error {
	_, err := fmt.Fprintln(r.output, s)
	return err
}

func (r *terminalRenderer) RenderManifest(m *compiler.Manifest) error {
	title := fmt.Sprintf("Built %s into %s", m.Env, m.Dir)
	if err := r.println(r.styles.Get("Title").Render(title)); err != nil {
		return err
	}
	if m.Len() == 0 {
		return r.println(r.styles.Get("Muted").Render("  nothing to write"))
	}

	for _, name := range m.Names() {
		for _, out := range m.Get(name) {
			line := lipgloss.JoinHorizontal(lipgloss.Top,
				r.styles.Get("Item").Render(r.styles.Get("Fileset").Render(name)),
				r.styles.Get("Path").Render(m.Relative(out.Path)),
				r.styles.Get("Size").Render(HumanSize(out.Size)),
				"  ",
				r.styles.Get("Fingerprint").Render(out.Fingerprint),
				r.styles.Get("Muted").Render(compressedSuffix(out)),
			)
			if err := r.println(line); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *terminalRenderer) RenderList(l List) error {
	if err := r.println(r.styles.Get("Title").Render(l.Title)); err != nil {
		return err
	}
	if len(l.Items) == 0 {
		return r.println(r.styles.Get("Muted").Render("  (none)"))
	}
	for _, item := range l.Items {
		if err := r.println(r.styles.Get("Item").Render(item)); err != nil {
			return err
		}
	}
	return nil
}

func (r *terminalRenderer) RenderError(err error) error {
	if assetErr, ok := assetProblems(err); ok {
		head := r.styles.Get("Error").Render(assetErr.ID() + " failed")
		if werr := r.println(head); werr != nil {
			return werr
		}
		for _, p := range assetErr.Problems() {
			if werr := r.println(r.styles.Get("Problem").Render(p.String())); werr != nil {
				return werr
			}
		}
		return nil
	}

	return r.println(r.styles.Get("Error").Render("error:") + " " + err.Error())
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	return r.println(r.styles.Get("Success").Render(msg))
}
