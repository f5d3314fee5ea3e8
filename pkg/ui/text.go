package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/assetpack/pkg/compiler"
)

// textRenderer writes plain, column aligned text
type textRenderer struct {
	output io.Writer
}

func newTextRenderer(w io.Writer) *textRenderer {
	return &textRenderer{output: w}
}

func (r *textRenderer) RenderManifest(m *compiler.Manifest) error {
	if _, err := fmt.Fprintf(r.output, "Built %s into %s\n", m.Env, m.Dir); err != nil {
		return err
	}
	if m.Len() == 0 {
		_, err := fmt.Fprintln(r.output, "  nothing to write")
		return err
	}
	for _, name := range m.Names() {
		for _, out := range m.Get(name) {
			_, err := fmt.Fprintf(r.output, "  %-16s%s %10s  %s%s\n",
				name, m.Relative(out.Path), HumanSize(out.Size), out.Fingerprint, compressedSuffix(out))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *textRenderer) RenderList(l List) error {
	if _, err := fmt.Fprintln(r.output, l.Title); err != nil {
		return err
	}
	for _, item := range l.Items {
		if _, err := fmt.Fprintf(r.output, "  %s\n", item); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) RenderError(err error) error {
	if assetErr, ok := assetProblems(err); ok {
		if _, werr := fmt.Fprintf(r.output, "%s failed\n", assetErr.ID()); werr != nil {
			return werr
		}
		for _, p := range assetErr.Problems() {
			if _, werr := fmt.Fprintf(r.output, "  %s\n", p); werr != nil {
				return werr
			}
		}
		return nil
	}
	_, werr := fmt.Fprintf(r.output, "error: %v\n", err)
	return werr
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
