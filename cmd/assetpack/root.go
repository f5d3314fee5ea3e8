package assetpack

import (
	"embed"
	"io"
	"io/fs"

	"github.com/arthur-debert/assetpack/internal/version"
	"github.com/arthur-debert/assetpack/pkg/cobrax/topics"
	"github.com/arthur-debert/assetpack/pkg/compiler"
	"github.com/arthur-debert/assetpack/pkg/config"
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// app holds the global flags shared by every command
type app struct {
	verbosity  int
	configFile string
	overrides  []string
	format     string
}

// loadConfig merges the configuration layers
func (a *app) loadConfig() (*config.Config, error) {
	overrides, err := config.ParseOverrides(a.overrides)
	if err != nil {
		return nil, err
	}
	return config.Load(config.LoadOptions{
		File:      a.configFile,
		Overrides: overrides,
	})
}

// loadCompiler builds a compiler from the current configuration
func (a *app) loadCompiler() (*compiler.Compiler, error) {
	conf, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return compiler.New(conf)
}

func (a *app) renderer(w io.Writer) (ui.Renderer, error) {
	format, err := ui.ParseFormat(a.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, w)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *app) {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "assetpack",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringArrayVar(&a.overrides, "set", nil, MsgFlagSet)
	rootCmd.PersistentFlags().StringVarP(&a.format, "format", "f", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "build", Title: "BUILD:"})
	rootCmd.AddGroup(&cobra.Group{ID: "inspect", Title: "INSPECT:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newBuildCmd(a))
	rootCmd.AddCommand(newCompileCmd(a))
	rootCmd.AddCommand(newAssetsCmd(a))
	rootCmd.AddCommand(newPatternsCmd(a))
	rootCmd.AddCommand(newPipelineCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newTopicsCmd())

	topicsFS, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		opts := topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(rootCmd.OutOrStdout()),
		}
		if err := topics.InitializeWithOptions(rootCmd, topicsFS, opts); err != nil {
			log.Warn().Err(err).Msg("help topics unavailable")
		}
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd, a
}

// Execute runs the command line and returns the process exit code. Errors
// are rendered on stderr in the selected output format.
func Execute(args []string, stdout, stderr io.Writer) int {
	rootCmd, a := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	r, rerr := a.renderer(stderr)
	if rerr != nil {
		r, _ = ui.NewRenderer(ui.FormatText, stderr)
	}
	_ = r.RenderError(err)
	return 1
}
