package assetpack

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/assetpack/internal/version"
	"github.com/arthur-debert/assetpack/pkg/compiler"
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/pipeline"
	"github.com/arthur-debert/assetpack/pkg/types"
	"github.com/arthur-debert/assetpack/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		out      string
		manifest string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:     "build [env]",
		Short:   MsgBuildShort,
		Long:    MsgBuildLong,
		Example: MsgBuildExample,
		GroupID: "build",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return environmentsCompletion(a)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			env := pipeline.Dev
			if len(args) == 1 {
				env = args[0]
			}
			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			build := func() error {
				return runBuild(a, r, env, out, manifest)
			}
			if !watch {
				return build()
			}

			// A failing first build still starts the watcher
			if err := build(); err != nil {
				_ = r.RenderError(err)
			}
			return watchAndRebuild(cmd, a, r, out, build)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "public", MsgFlagOut)
	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", MsgFlagManifest)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, MsgFlagWatch)
	return cmd
}

// runBuild loads the configuration, compiles env into out and reports the
// outputs. A partial manifest is still written when the build fails.
func runBuild(a *app, r ui.Renderer, env, out, manifestPath string) error {
	logger := logging.GetLogger("cmd.build")

	c, err := a.loadCompiler()
	if err != nil {
		return err
	}
	if !hasEnvironment(c, env) {
		logger.Warn().Str("env", env).Strs("environments", c.Environments()).
			Msg("no pipeline for environment, building without processors")
	}

	dir, err := filepath.Abs(out)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "invalid output directory %s", out)
	}

	logger = logging.WithBuild(logger, env, dir)
	logger.Info().Msg("Starting build")
	m, buildErr := c.Build(env, dir)

	if manifestPath != "" && m != nil {
		if err := writeManifest(m, manifestPath); err != nil && buildErr == nil {
			buildErr = err
		}
	}
	if buildErr != nil {
		return buildErr
	}

	logger.Info().Int("outputs", m.Len()).Msg("Build completed")
	return r.RenderManifest(m)
}

func hasEnvironment(c *compiler.Compiler, env string) bool {
	for _, e := range c.Environments() {
		if e == env {
			return true
		}
	}
	return false
}

func writeManifest(m *compiler.Manifest, path string) error {
	data, err := m.Marshal(compiler.FormatFor(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write manifest %s", path)
	}
	log.Info().Str("path", path).Msg("manifest written")
	return nil
}

func newCompileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "compile <path>",
		Short:   MsgCompileShort,
		Long:    MsgCompileLong,
		GroupID: "build",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCompiler()
			if err != nil {
				return err
			}
			asset, err := compiler.NewLive(c).Serve(args[0])
			if err != nil {
				return err
			}
			return copyAsset(cmd.OutOrStdout(), asset)
		},
	}
}

func copyAsset(w io.Writer, asset types.Asset) error {
	rc, err := asset.Open()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "cannot open %s", asset.Path())
	}
	defer func() { _ = rc.Close() }()
	if _, err := io.Copy(w, rc); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", asset.Path())
	}
	return nil
}

func newAssetsCmd(a *app) *cobra.Command {
	var media string

	cmd := &cobra.Command{
		Use:     "assets [fileset]",
		Short:   MsgAssetsShort,
		GroupID: "inspect",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			c, err := a.loadCompiler()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return c.FilesetNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			c, err := a.loadCompiler()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return r.RenderList(ui.List{Title: MsgFilesetsTitle, Items: c.FilesetNames()})
			}

			name := args[0]
			if !hasFileset(c, name) {
				return errors.Newf(errors.ErrNotFound, MsgErrUnknownFileset, name).
					WithDetail("fileset", name)
			}

			var items []string
			switch types.ParseMediaType(media) {
			case types.MediaScript:
				items = c.Scripts(name)
			case types.MediaStyle:
				items = c.Styles(name)
			default:
				if media != "" {
					return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownMedia, media)
				}
				items = c.Assets(name)
			}
			return r.RenderList(ui.List{Title: fmt.Sprintf(MsgMembersTitle, name), Items: items})
		},
	}
	cmd.Flags().StringVar(&media, "media", "", MsgFlagMedia)
	return cmd
}

func hasFileset(c *compiler.Compiler, name string) bool {
	for _, n := range c.FilesetNames() {
		if n == name {
			return true
		}
	}
	return false
}

func newPatternsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "patterns",
		Short:   MsgPatternsShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			c, err := a.loadCompiler()
			if err != nil {
				return err
			}
			return r.RenderList(ui.List{Title: MsgPatternsTitle, Items: c.Patterns()})
		},
	}
}

func newPipelineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "pipeline [env]",
		Short:   MsgPipelineShort,
		GroupID: "inspect",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return environmentsCompletion(a)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			c, err := a.loadCompiler()
			if err != nil {
				return err
			}

			envs := c.Environments()
			if len(args) == 1 {
				envs = args
			}
			for _, env := range envs {
				var names []string
				for _, p := range c.Pipeline(env) {
					names = append(names, p.Name())
				}
				if err := r.RenderList(ui.List{Title: fmt.Sprintf(MsgPipelineTitle, env), Items: names}); err != nil {
					return err
				}
			}
			if len(args) == 1 {
				return nil
			}

			var aggregators []string
			for _, agg := range c.Aggregators() {
				aggregators = append(aggregators, agg.Name())
			}
			return r.RenderList(ui.List{Title: MsgAggregatorsTitle, Items: aggregators})
		},
	}
}

func environmentsCompletion(a *app) ([]string, cobra.ShellCompDirective) {
	c, err := a.loadCompiler()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	envs := c.Environments()
	sort.Strings(envs)
	return envs, cobra.ShellCompDirectiveNoFileComp
}

func newConfigCmd(a *app) *cobra.Command {
	var syntax string

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := a.loadConfig()
			if err != nil {
				return err
			}
			data, err := conf.Marshal(syntax)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&syntax, "syntax", "toml", MsgFlagSyntax)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "assetpack version %s\n", version.Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			helpCmd, _, err := cmd.Root().Find([]string{"help"})
			if err != nil || helpCmd.Run == nil {
				return errors.New(errors.ErrInternal, "help command not found")
			}
			helpCmd.Run(helpCmd, []string{"topics"})
			return nil
		},
	}
}
