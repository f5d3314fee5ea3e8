package assetpack

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/ui"
	"github.com/arthur-debert/assetpack/pkg/watch"
	"github.com/spf13/cobra"
)

// watchAndRebuild reruns build whenever the sources or the configuration
// file change, until interrupted. Build failures are reported, not fatal.
func watchAndRebuild(cmd *cobra.Command, a *app, r ui.Renderer, out string, build func() error) error {
	logger := logging.GetLogger("cmd.watch")

	conf, err := a.loadConfig()
	if err != nil {
		return err
	}
	settings, err := conf.Settings()
	if err != nil {
		return err
	}
	outDir, err := filepath.Abs(out)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "invalid output directory %s", out)
	}

	opts := watch.Options{
		Dirs:   []string{settings.Basedir},
		Ignore: []string{outDir},
	}
	if conf.File() != "" {
		opts.Files = []string{conf.File()}
	}
	w, err := watch.New(opts)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.RenderMessage(fmt.Sprintf(MsgWatching, settings.Basedir)); err != nil {
		return err
	}
	return w.Run(ctx, func() {
		logger.Info().Msg("change detected, rebuilding")
		if err := build(); err != nil {
			_ = r.RenderError(err)
		}
	})
}
